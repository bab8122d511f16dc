package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/dkranz/leadgate/internal/config"
	"github.com/dkranz/leadgate/internal/contact"
	"github.com/dkranz/leadgate/internal/database"
	"github.com/dkranz/leadgate/internal/queue"
	"github.com/dkranz/leadgate/internal/queue/workers"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable, worker cannot run", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 3,
			"low":     1,
		},
	})

	registry := queue.NewHandlersRegistry()

	retentionWorker := workers.NewRetentionWorker(contact.NewStore(db))
	registry.Register(queue.TypeRetentionPurge, asynq.HandlerFunc(retentionWorker.ProcessTask))

	if cfg.Retention.Days > 0 {
		scheduler := asynq.NewScheduler(redisOpt, nil)
		payload, _ := json.Marshal(queue.RetentionPurgePayload{Days: cfg.Retention.Days})
		task := asynq.NewTask(queue.TypeRetentionPurge, payload, asynq.Queue("low"))
		if _, err := scheduler.Register("0 4 * * *", task); err != nil {
			slog.Error("failed to register retention schedule", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := scheduler.Run(); err != nil {
				slog.Error("scheduler error", "error", err)
				os.Exit(1)
			}
		}()
		slog.Info("retention purge scheduled", "days", cfg.Retention.Days)
	}

	slog.Info("starting worker", "concurrency", 5)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
