package notification

import (
	"context"

	"reservo/models"

	"go.uber.org/zap"
)

// LogNotifier only logs. Used when no queue is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, notices ...models.ReservationNotice) error {
	for _, notice := range notices {
		n.logger.Info("Reservation notice",
			zap.String("type", notice.Type),
			zap.String("recipient", notice.Recipient),
			zap.String("role", notice.Role),
			zap.String("reservation_id", notice.ReservationID),
			zap.String("title", Title(notice)),
			zap.String("body", Body(notice)),
		)
	}
	return nil
}
