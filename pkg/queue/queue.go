package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/workhive/workhive/pkg/config"
)

func NewClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
	})
}

func NewServer(cfg *config.RedisConfig, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)
}

// NewScheduler builds the periodic-task scheduler used by the worker to
// enqueue the Slack notification jobs on their cron specs.
func NewScheduler(cfg *config.RedisConfig, loc *time.Location) *asynq.Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
		},
		&asynq.SchedulerOpts{Location: loc},
	)
}
