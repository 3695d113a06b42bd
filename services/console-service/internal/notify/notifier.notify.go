// Package notify delivers operator-facing messages. Delivery problems are
// logged and never returned: a lost toast must not fail a workflow.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Tanmoy095/LogiSynapse/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows a message to the operator.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Notification is the wire form published to the notification queue.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	log = logger.OrNop(log)
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(_ context.Context, message string) {
	n.log.Info(message, zap.String("level", string(LevelSuccess)))
}

func (n *LogNotifier) Error(_ context.Context, message string) {
	n.log.Error(message, zap.String("level", string(LevelError)))
}

// QueuePublisher is satisfied by *rabbitmq.RabbitmqClient.
type QueuePublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// QueueNotifier publishes notifications to a queue the console UI reads.
type QueueNotifier struct {
	pub   QueuePublisher
	queue string
	log   *zap.Logger
	now   func() time.Time
}

func NewQueueNotifier(pub QueuePublisher, queue string, log *zap.Logger) *QueueNotifier {
	log = logger.OrNop(log)
	return &QueueNotifier{pub: pub, queue: queue, log: log, now: time.Now}
}

func (n *QueueNotifier) Success(ctx context.Context, message string) {
	n.send(ctx, LevelSuccess, message)
}

func (n *QueueNotifier) Error(ctx context.Context, message string) {
	n.send(ctx, LevelError, message)
}

func (n *QueueNotifier) send(ctx context.Context, level Level, message string) {
	body, err := json.Marshal(Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: n.now().UTC(),
	})
	if err != nil {
		n.log.Error("failed to encode notification", zap.Error(err))
		return
	}
	if err := n.pub.Publish(ctx, n.queue, body); err != nil {
		n.log.Warn("notification not delivered",
			zap.String("queue", n.queue), zap.String("message", message), zap.Error(err))
	}
}

// Multi fans a message out to several notifiers in order.
type Multi []Notifier

func (m Multi) Success(ctx context.Context, message string) {
	for _, n := range m {
		n.Success(ctx, message)
	}
}

func (m Multi) Error(ctx context.Context, message string) {
	for _, n := range m {
		n.Error(ctx, message)
	}
}
