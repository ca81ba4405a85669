package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"deskhive/config"
	bookingRepo "deskhive/database/repository/booking"
	"deskhive/models"
	"deskhive/services/booking"

	"github.com/hibiken/asynq"
)

const TypeBookingComplete = "booking:complete"

// CompletionPayload is the task body for a deferred completion.
type CompletionPayload struct {
	BookingID string `json:"bookingId"`
}

// AsynqCompletionScheduler enqueues a completion task to fire at the
// booking's end instant. Implements booking.CompletionScheduler.
type AsynqCompletionScheduler struct {
	client *asynq.Client
}

// NewCompletionScheduler builds the scheduler over the queue Redis DB.
func NewCompletionScheduler() *AsynqCompletionScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqCompletionScheduler{client: client}
}

func (s *AsynqCompletionScheduler) ScheduleCompletion(b models.Booking) error {
	payload, err := json.Marshal(CompletionPayload{BookingID: b.ID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingComplete, payload)
	_, err = s.client.Enqueue(task, asynq.ProcessAt(b.End), asynq.MaxRetry(5))
	return err
}

// InitCompletionWorker runs the async worker in background, plus a
// periodic sweep that backstops tasks lost to enqueue failures.
func InitCompletionWorker(svc booking.BookingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingComplete, handleCompletionTask(svc))

	go runCompletionSweep(svc)

	// Start async worker with retry logic
	go func() {
		log.Println("[CompletionWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CompletionWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CompletionWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleCompletionTask(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p CompletionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CompletionHandler] Invalid payload: %v", err)
			return err
		}

		_, err := svc.Complete(ctx, p.BookingID)
		if err != nil {
			var transitionErr *booking.InvalidTransitionError
			if errors.As(err, &transitionErr) {
				// Cancelled in the meantime, already completed, or the
				// task fired early; the sweep will pick up the latter.
				log.Printf("[CompletionHandler] Skipping booking %s: %v", p.BookingID, err)
				return nil
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return nil
			}
			log.Printf("[CompletionHandler] Failed to complete booking %s: %v", p.BookingID, err)
			return err
		}

		log.Printf("[CompletionHandler] Booking %s marked completed", p.BookingID)
		return nil
	}
}

// runCompletionSweep periodically completes elapsed confirmed bookings.
func runCompletionSweep(svc booking.BookingService) {
	interval := time.Duration(config.AppConfig.CompletionSweep) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := svc.CompleteElapsed(ctx)
		cancel()
		if err != nil {
			log.Printf("[CompletionSweep] Sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("[CompletionSweep] Completed %d elapsed bookings", n)
		}
	}
}
