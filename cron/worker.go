// Package cron runs the background worker that delivers reservation notices
// and reconciles failed refunds.
package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservo/config"
	"reservo/models"
	"reservo/services/notification"
	"reservo/services/reservation"
	"reservo/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NoticeSender delivers a single notice to its recipient.
type NoticeSender interface {
	Send(ctx context.Context, notice models.ReservationNotice) error
}

// RefundRetrier re-attempts a pending refund.
type RefundRetrier interface {
	RetryRefund(ctx context.Context, reservationID string) (*models.Reservation, error)
}

// LogSender adapts a Notifier for use as a NoticeSender.
type LogSender struct {
	Notifier notification.Notifier
}

func (s LogSender) Send(ctx context.Context, notice models.ReservationNotice) error {
	return s.Notifier.Notify(ctx, notice)
}

// RedisOpt is the asynq connection for the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes task types to their handlers.
func NewMux(sender NoticeSender, refunds RefundRetrier, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotifyReservation, handleNotifyTask(sender, logger))
	mux.HandleFunc(tasks.TypeRetryRefund, handleRefundTask(refunds, logger))
	return mux
}

// Run starts the worker and blocks until ctx is done.
func Run(ctx context.Context, sender NoticeSender, refunds RefundRetrier, logger *zap.Logger) error {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueRefunds:       6,
				tasks.QueueNotifications: 3,
				"default":                1,
			},
			Logger: logger.Sugar(),
		},
	)

	go monitorRedisConnection(ctx, logger)

	const maxAttempts = 5
	mux := NewMux(sender, refunds, logger)
	for attempt := 1; ; attempt++ {
		err := srv.Start(mux)
		if err == nil {
			break
		}
		logger.Warn("Failed to start worker", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == maxAttempts {
			return fmt.Errorf("worker did not start after %d attempts: %w", maxAttempts, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*2) * time.Second):
		}
	}
	logger.Info("Worker started")

	<-ctx.Done()
	srv.Shutdown()
	logger.Info("Worker stopped")
	return nil
}

func handleNotifyTask(sender NoticeSender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		notice, err := tasks.ParseNotifyTask(task)
		if err != nil {
			logger.Error("Dropping notify task", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		if err := sender.Send(ctx, notice); err != nil {
			logger.Warn("Notice delivery failed",
				zap.String("reservation_id", notice.ReservationID),
				zap.String("recipient", notice.Recipient),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}

func handleRefundTask(refunds RefundRetrier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseRefundTask(task)
		if err != nil {
			logger.Error("Dropping refund task", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		r, err := refunds.RetryRefund(ctx, p.ReservationID)
		switch {
		case errors.Is(err, reservation.ErrNotFound), errors.Is(err, reservation.ErrInvalidRequest):
			logger.Error("Refund retry no longer applies",
				zap.String("reservation_id", p.ReservationID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		case err != nil:
			return err
		}
		if r.Cancellation != nil {
			logger.Info("Refund reconciled",
				zap.String("reservation_id", r.ID),
				zap.String("refund_status", string(r.Cancellation.RefundState)),
			)
		}
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to surface
// failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	opt := RedisOpt()
	client := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Queue redis connection lost", zap.Error(err))
			}
		}
	}
}
