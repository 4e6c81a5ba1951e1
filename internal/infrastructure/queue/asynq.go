package queue

import (
	"github.com/hibiken/asynq"

	"book-marketplace/internal/config"
)

// Queue names, weights are set on the worker side
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// RedisOpt maps the shared Redis config to asynq's connection options
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient creates the producer side used by the order service
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// Queues returns the worker queue priorities
func Queues() map[string]int {
	return map[string]int{
		QueueCritical: 6,
		QueueDefault:  3,
	}
}
