package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/sejour/config"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/kafka"
	"github.com/Domenick1991/sejour/internal/queue"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/Domenick1991/sejour/internal/repository/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev domain.Event) error
}

// EventConsumer delivers events to handler until ctx is canceled.
type EventConsumer interface {
	Consume(ctx context.Context, handler func(context.Context, domain.Event) error) error
}

// OpenRepositories connects to the configured database and applies the
// schema. The returned func releases the connection.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig) (repository.Set, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return repository.Set{}, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return sqlite.NewSet(db), func() { _ = db.Close() }, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return repository.Set{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return repository.Set{}, nil, err
		}
		return repository.NewSet(pool), pool.Close, nil
	}
}

// NewEventPublisher returns nil when events are disabled.
func NewEventPublisher(ctx context.Context, cfg *config.Config) (EventPublisher, func(), error) {
	switch cfg.Events.Driver {
	case config.EventsKafka:
		p := kafka.NewProducer(cfg.Kafka)
		if err := p.CheckConnection(ctx); err != nil {
			log.Printf("kafka unreachable, events will be dropped until it recovers: %v", err)
		}
		return p, func() { _ = p.Close() }, nil
	case config.EventsRabbitMQ:
		p, err := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		return p, func() { _ = p.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

// NewEventConsumer reads notifications from the configured transport.
func NewEventConsumer(cfg *config.Config) (EventConsumer, func(), error) {
	switch cfg.Events.Driver {
	case config.EventsKafka:
		topic := cfg.Kafka.NotificationsTopic
		if topic == "" {
			topic = cfg.Kafka.EventsTopic
		}
		c := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
		return c, func() { _ = c.Close() }, nil
	case config.EventsRabbitMQ:
		return queue.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("events driver %q has nothing to consume", cfg.Events.Driver)
	}
}
