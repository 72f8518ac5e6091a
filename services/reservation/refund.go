package reservation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"reservo/database/repository"
	"reservo/models"

	"go.uber.org/zap"
)

// RefundPercent is the customer refund tier for the time left before the
// start. Each tier includes its lower bound.
func RefundPercent(untilStart time.Duration) int {
	switch {
	case untilStart >= 24*time.Hour:
		return 100
	case untilStart >= 12*time.Hour:
		return 50
	case untilStart >= 6*time.Hour:
		return 25
	default:
		return 0
	}
}

// RefundAmount is pct of total rounded to the nearest whole currency unit,
// never more than total.
func RefundAmount(total float64, pct int) float64 {
	return min(math.Round(total*float64(pct)/100), total)
}

func refundKey(reservationID string) string {
	return "refund-" + reservationID
}

// issueRefund calls the gateway and records the outcome. It never touches
// the ledger or the reservation status.
func (e *Engine) issueRefund(ctx context.Context, r *models.Reservation) error {
	c := r.Cancellation
	attempts := c.Attempts + 1
	_, err := e.gateway.Refund(ctx, r.PaymentID, c.Refund, r.Currency, refundKey(r.ID))

	state, lastError := models.RefundSucceeded, ""
	if err != nil {
		state, lastError = models.RefundFailed, err.Error()
	}
	if uerr := e.reservations.UpdateRefund(ctx, r.ID, state, attempts, lastError); uerr != nil {
		e.logger.Error("Failed to record refund outcome",
			zap.String("reservation_id", r.ID),
			zap.String("refund_status", string(state)),
			zap.Error(uerr),
		)
	}
	c.RefundState, c.Attempts, c.LastError = state, attempts, lastError

	if err != nil {
		e.logger.Warn("Refund failed",
			zap.String("reservation_id", r.ID),
			zap.String("payment_id", r.PaymentID),
			zap.Float64("amount", c.Refund),
			zap.Int("attempt", attempts),
			zap.Error(err),
		)
		return err
	}
	e.logger.Info("Refund issued",
		zap.String("reservation_id", r.ID),
		zap.Float64("amount", c.Refund),
		zap.Int("attempt", attempts),
	)
	return nil
}

// RetryRefund re-attempts the refund of a cancelled reservation whose refund
// has not succeeded yet. It returns an error while the refund keeps failing
// so the caller can retry later.
func (e *Engine) RetryRefund(ctx context.Context, reservationID string) (*models.Reservation, error) {
	r, err := e.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(CodeNotFound, "", "reservation %s not found", reservationID)
		}
		return nil, classify(err)
	}
	if r.Status != models.StatusCancelled || r.Cancellation == nil {
		return nil, newError(CodeInvalidRequest, "", "reservation %s is not cancelled", reservationID)
	}
	c := r.Cancellation
	if c.Refund <= 0 || c.RefundState == models.RefundSucceeded || c.RefundState == models.RefundNone {
		return r, nil
	}

	if err := e.issueRefund(ctx, r); err != nil {
		return r, fmt.Errorf("refund for reservation %s still failing: %w", reservationID, err)
	}
	return r, nil
}
