package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeRetryRefund = "reservation:refund"
	QueueRefunds    = "refunds"

	// refundRetryDelay is the wait before the first reconciliation attempt.
	refundRetryDelay = time.Minute
)

type RefundPayload struct {
	ReservationID string `json:"reservationId"`
}

// NewRefundTask schedules a refund reconciliation. The task id is derived
// from the reservation so a reservation never has two pending retries.
func NewRefundTask(reservationID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(RefundPayload{ReservationID: reservationID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRetryRefund, b)
	opts := []asynq.Option{
		asynq.Queue(QueueRefunds),
		asynq.TaskID("refund:" + reservationID),
		asynq.ProcessIn(refundRetryDelay),
		asynq.MaxRetry(10),
	}
	return task, opts, nil
}

func ParseRefundTask(task *asynq.Task) (RefundPayload, error) {
	var p RefundPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid refund payload: %w", err)
	}
	if p.ReservationID == "" {
		return p, fmt.Errorf("refund payload has no reservation id")
	}
	return p, nil
}
