package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"finbook/config"
	"finbook/models"
	"finbook/services/notification"
	"finbook/services/reminder"
	"finbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeReminderScan = "reminder:scan"

// ScanDeps wires the worker to its collaborators. NewEngine is called once
// per tick so every scan gets an engine with fresh per-run caches.
type ScanDeps struct {
	Producers []reminder.Producer
	NewEngine func() notification.Engine
}

// InitReminderWorker runs the periodic scan scheduler and its worker in the
// background. Concurrency is 1: one scan batch at a time, events delivered
// sequentially.
func InitReminderWorker(deps ScanDeps) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderScan, handleScanTask(deps))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	spec := fmt.Sprintf("@every %s", config.AppConfig.ScanInterval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeReminderScan, nil)); err != nil {
		log.Fatalf("[ReminderWorker] failed to register scan schedule: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Printf("[ReminderWorker] starting scan scheduler (%s)...", spec)
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[ReminderWorker] scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleScanTask runs both producers with one consistent "now", then feeds
// every event through a fresh engine. Producer failures skip that producer;
// only an engine contract violation fails the task.
func handleScanTask(deps ScanDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		sugar := utils.GetLogger().Sugar()
		now := time.Now()

		var events []models.ReminderEvent
		for _, p := range deps.Producers {
			batch, err := p.Scan(ctx, now)
			if err != nil {
				sugar.Errorw("producer scan failed", "error", err)
				continue
			}
			events = append(events, batch...)
		}
		sugar.Infow("reminder scan complete", "events", len(events))

		engine := deps.NewEngine()
		for _, event := range events {
			if err := engine.DeliverReminder(ctx, event); err != nil {
				return fmt.Errorf("failed to deliver %s: %w", event.EventKey, err)
			}
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
