package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/workhive/workhive/internal/database"
	"github.com/workhive/workhive/internal/notify"
	"github.com/workhive/workhive/internal/tasks"
	"github.com/workhive/workhive/pkg/config"
	"github.com/workhive/workhive/pkg/queue"
	"github.com/workhive/workhive/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting WorkHive worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Validate the notification cron specs up front; a typo should stop
	// the worker, not silently skip the job.
	for name, spec := range map[string]string{
		"vote reminder": cfg.Notify.VoteReminderCron,
		"vote report":   cfg.Notify.VoteReportCron,
		"weekly report": cfg.Notify.WeeklyReportCron,
	} {
		if err := util.ValidateCronExpr(spec); err != nil {
			logger.Error("invalid cron spec", "job", name, "spec", spec, "error", err)
			os.Exit(1)
		}
	}

	srv := queue.NewServer(&cfg.Redis, 10)

	handler := tasks.NewHandler(db, logger, notify.NewSlackNotifier())

	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Periodic Slack notification jobs
	scheduler := queue.NewScheduler(&cfg.Redis, time.UTC)
	schedule := func(spec string, task *asynq.Task) {
		if _, err := scheduler.Register(spec, task); err != nil {
			logger.Error("failed to register periodic task", "type", task.Type(), "error", err)
			os.Exit(1)
		}
	}
	schedule(cfg.Notify.VoteReminderCron, tasks.NewVoteDueReminderTask())
	schedule(cfg.Notify.VoteReportCron, tasks.NewVoteResultReportTask())
	schedule(cfg.Notify.WeeklyReportCron, tasks.NewWeeklyTodoReportTask())

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
