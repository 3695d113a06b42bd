// shared/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	defaultSuccessDelay = 1500 * time.Millisecond
	defaultSQLitePath   = "console_storage.db"
	defaultNotifyQueue  = "console_notifications"
	defaultAPITimeout   = 10 * time.Second
)

// CommonConfig holds infrastructure details used by the console service and
// its adapters. Every field is read from the environment.
type CommonConfig struct {
	//Database (PostgreSQL) config, used by the postgres key-value store
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_HOST     string
	DB_PORT     string
	//Kafka config for bag events
	KAFKA_TOPIC  string
	KAFKA_BROKER string
	//RabbitMQ config for operator notifications
	RABBITMQ_USER     string
	RABBITMQ_PASSWORD string
	RABBITMQ_HOST     string
	RABBITMQ_PORT     string

	//Console settings
	API_URL      string
	API_TOKEN    string
	API_TIMEOUT  time.Duration
	STORE        string // memory, sqlite or postgres
	SQLITE_PATH  string
	NOTIFY_QUEUE string
	// SUCCESS_DELAY is how long the sub-bag confirmation stays visible before
	// the dialog closes and the bag listing is refetched.
	SUCCESS_DELAY time.Duration
}

// LoadCommonConfig loads an optional .env file and returns the config.
// A missing .env file is not an error; variables already set in the
// environment win over the file.
func LoadCommonConfig(envFiles ...string) (*CommonConfig, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &CommonConfig{
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),

		KAFKA_TOPIC:  os.Getenv("KAFKA_TOPIC"),
		KAFKA_BROKER: os.Getenv("KAFKA_BROKER"),

		RABBITMQ_USER:     os.Getenv("RABBITMQ_USER"),
		RABBITMQ_PASSWORD: os.Getenv("RABBITMQ_PASSWORD"),
		RABBITMQ_HOST:     os.Getenv("RABBITMQ_HOST"),
		RABBITMQ_PORT:     os.Getenv("RABBITMQ_PORT"),

		API_URL:      strings.TrimRight(os.Getenv("CONSOLE_API_URL"), "/"),
		API_TOKEN:    os.Getenv("CONSOLE_API_TOKEN"),
		STORE:        strings.ToLower(os.Getenv("CONSOLE_STORE")),
		SQLITE_PATH:  os.Getenv("CONSOLE_SQLITE_PATH"),
		NOTIFY_QUEUE: os.Getenv("CONSOLE_NOTIFY_QUEUE"),
	}

	var err error
	if cfg.SUCCESS_DELAY, err = durationEnv("CONSOLE_SUCCESS_DELAY", defaultSuccessDelay); err != nil {
		return nil, err
	}
	if cfg.API_TIMEOUT, err = durationEnv("CONSOLE_API_TIMEOUT", defaultAPITimeout); err != nil {
		return nil, err
	}

	//Defaults
	if cfg.STORE == "" {
		cfg.STORE = StoreSQLite
	}
	if cfg.SQLITE_PATH == "" {
		cfg.SQLITE_PATH = defaultSQLitePath
	}
	if cfg.NOTIFY_QUEUE == "" {
		cfg.NOTIFY_QUEUE = defaultNotifyQueue
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot be wired.
func (c *CommonConfig) Validate() error {
	switch c.STORE {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DB_HOST == "" || c.DB_NAME == "" {
			return fmt.Errorf("CONSOLE_STORE=postgres requires DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("unknown CONSOLE_STORE %q", c.STORE)
	}
	if c.SUCCESS_DELAY < 0 {
		return fmt.Errorf("CONSOLE_SUCCESS_DELAY must not be negative")
	}
	return nil
}

// KafkaEnabled reports whether bag events should be published.
func (c *CommonConfig) KafkaEnabled() bool {
	return c.KAFKA_BROKER != "" && c.KAFKA_TOPIC != ""
}

// RabbitMQEnabled reports whether notifications should go to a queue.
func (c *CommonConfig) RabbitMQEnabled() bool {
	return c.RABBITMQ_HOST != ""
}

// GetDBURL formats the config into a PostgreSQL connection string
func (c *CommonConfig) GetDBURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME)
}

// GetRabbitMQURL formats the config into a RabbitMQ connection string
func (c *CommonConfig) GetRabbitMQURL() string {
	//defaults to the standard host and port when missing
	host := c.RABBITMQ_HOST
	if host == "" {
		host = "localhost"
	}
	port := c.RABBITMQ_PORT
	if port == "" {
		port = "5672"
	}

	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RABBITMQ_USER, c.RABBITMQ_PASSWORD, host, port)
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
