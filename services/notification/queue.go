package notification

import (
	"context"
	"errors"

	"reservo/models"
)

// NoticeEnqueuer is satisfied by tasks.Queue.
type NoticeEnqueuer interface {
	EnqueueNotice(ctx context.Context, notice models.ReservationNotice) error
}

// QueueNotifier defers delivery to the background worker.
type QueueNotifier struct {
	queue NoticeEnqueuer
}

func NewQueueNotifier(queue NoticeEnqueuer) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (n *QueueNotifier) Notify(ctx context.Context, notices ...models.ReservationNotice) error {
	var errs []error
	for _, notice := range notices {
		if err := n.queue.EnqueueNotice(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
