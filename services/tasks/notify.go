package tasks

import (
	"encoding/json"
	"fmt"

	"reservo/models"

	"github.com/hibiken/asynq"
)

const (
	TypeNotifyReservation = "reservation:notify"
	QueueNotifications    = "notifications"
)

func NewNotifyTask(notice models.ReservationNotice) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(notice)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal notice: %w", err)
	}
	task := asynq.NewTask(TypeNotifyReservation, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func ParseNotifyTask(task *asynq.Task) (models.ReservationNotice, error) {
	var notice models.ReservationNotice
	if err := json.Unmarshal(task.Payload(), &notice); err != nil {
		return notice, fmt.Errorf("invalid notify payload: %w", err)
	}
	return notice, nil
}
