// Package tasks defines the background jobs and the client that enqueues them.
package tasks

import (
	"context"
	"errors"

	"reservo/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the subset of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue hands work to the background worker.
type Queue struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueue(client Enqueuer, logger *zap.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

// EnqueueNotice queues a notification for delivery.
func (q *Queue) EnqueueNotice(ctx context.Context, notice models.ReservationNotice) error {
	task, opts, err := NewNotifyTask(notice)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}
	q.logger.Debug("Notice enqueued",
		zap.String("task_id", info.ID),
		zap.String("type", notice.Type),
		zap.String("recipient", notice.Recipient),
	)
	return nil
}

// ScheduleRefundRetry queues a refund reconciliation. A retry that is
// already pending counts as scheduled.
func (q *Queue) ScheduleRefundRetry(ctx context.Context, reservationID string) error {
	task, opts, err := NewRefundTask(reservationID)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}
	q.logger.Info("Refund retry scheduled", zap.String("reservation_id", reservationID))
	return nil
}
