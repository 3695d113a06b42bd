package rabbitmq

import (
	"context"
	"fmt"

	"github.com/Tanmoy095/LogiSynapse/shared/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the part of *amqp.Channel the client uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitmqClient struct {
	//conn is a tcp connection to rabbitmq server, nil when built over a test channel
	conn     *amqp.Connection
	chn      channel
	log      *zap.Logger
	declared map[string]bool
}

func NewClient(url string, log *zap.Logger) (*RabbitmqClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	//a logical session inside the connection
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	c := newClientWithChannel(chn, log)
	c.conn = conn
	return c, nil
}

func newClientWithChannel(chn channel, log *zap.Logger) *RabbitmqClient {
	log = logger.OrNop(log)
	return &RabbitmqClient{chn: chn, log: log, declared: make(map[string]bool)}
}

// Close cleans up the channel, then the connection.
func (r *RabbitmqClient) Close() error {
	if err := r.chn.Close(); err != nil {
		return err
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// CreateQueue declares a durable queue once per client.
func (r *RabbitmqClient) CreateQueue(queueName string) error {
	if r.declared[queueName] {
		return nil
	}
	_, err := r.chn.QueueDeclare(
		queueName, //name of queue
		true,      //durable
		false,     //delete when unused
		false,     //exclusive
		false,     //no-wait
		nil,       //arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	r.declared[queueName] = true
	return nil
}

// Publish sends a persistent JSON message to a specific queue, declaring it first.
func (r *RabbitmqClient) Publish(ctx context.Context, queueName string, body []byte) error {
	if err := r.CreateQueue(queueName); err != nil {
		return err
	}
	err := r.chn.PublishWithContext(
		ctx,
		"",        //exchange
		queueName, //routing key (queue name)
		false,     //mandatory
		false,     //immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		r.log.Error("rabbitmq publish failed", zap.String("queue", queueName), zap.Error(err))
		return fmt.Errorf("publish to %s: %w", queueName, err)
	}
	return nil
}
