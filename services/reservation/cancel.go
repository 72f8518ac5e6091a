package reservation

import (
	"context"
	"errors"
	"time"

	"reservo/database/repository"
	"reservo/models"
	"reservo/services/availability"
	"reservo/services/notification"

	"go.uber.org/zap"
)

// CancelResult is a completed cancellation. Degraded is set when the refund,
// the capacity release or a notice failed; the cancellation stands
// regardless.
type CancelResult struct {
	Reservation  *models.Reservation `json:"reservation"`
	RefundAmount float64             `json:"refundAmount"`
	Degraded     bool                `json:"degraded"`
	Warnings     []Warning           `json:"warnings,omitempty"`
}

// Cancel moves a confirmed reservation to cancelled, releases exactly the
// capacity it consumed and refunds according to who cancelled and when.
func (e *Engine) Cancel(ctx context.Context, reservationID string, actor models.Actor, reason string) (*CancelResult, error) {
	r, err := e.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(CodeNotFound, "", "reservation %s not found", reservationID)
		}
		return nil, classify(err)
	}

	byHost, err := authorize(r, actor)
	if err != nil {
		return nil, err
	}
	if r.Status == models.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if r.Status != models.StatusConfirmed {
		return nil, newError(CodeInvalidRequest, "", "reservation %s has status %s", r.ID, r.Status)
	}

	now := e.clock.Now()
	untilStart := r.StartsAt.Sub(now)
	pct, err := e.refundPercent(r, byHost, untilStart)
	if err != nil {
		return nil, err
	}

	c := models.Cancellation{
		By:          actor.ID,
		ByHost:      byHost,
		Reason:      reason,
		At:          now,
		RefundPct:   pct,
		Refund:      RefundAmount(r.TotalPrice, pct),
		RefundState: models.RefundNone,
	}
	if c.Refund > 0 {
		c.RefundState = models.RefundPending
	}

	result := &CancelResult{RefundAmount: c.Refund}
	err = e.store.WithResource(ctx, r.ResourceID, func(tx *availability.Tx) error {
		if err := e.reservations.MarkCancelled(tx.Context(), r.ID, c); err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				return ErrAlreadyCancelled
			}
			return commitFailed(err)
		}

		// The release uses the reservation's own keys and units, never
		// the resource's current shape.
		if _, err := tx.Decrease(r.Keys, r.Units); err != nil {
			e.logger.Error("Ledger release failed for cancelled reservation",
				zap.String("reservation_id", r.ID),
				zap.String("resource_id", r.ResourceID),
				zap.Any("keys", r.Keys),
				zap.Int("units", r.Units),
				zap.Error(err),
			)
			result.Degraded = true
			result.Warnings = append(result.Warnings, Warning{Code: WarnReleaseFailed, Message: "capacity release is pending manual repair"})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	r.Status = models.StatusCancelled
	r.Cancellation = &c
	r.UpdatedAt = now
	result.Reservation = r

	e.logger.Info("Reservation cancelled",
		zap.String("reservation_id", r.ID),
		zap.String("resource_id", r.ResourceID),
		zap.Bool("by_host", byHost),
		zap.Int("refund_pct", pct),
		zap.Float64("refund", c.Refund),
	)

	// Everything below is best effort.
	ctx = context.WithoutCancel(ctx)
	if c.Refund > 0 {
		if err := e.issueRefund(ctx, r); err != nil {
			result.Degraded = true
			result.Warnings = append(result.Warnings, Warning{Code: WarnRefundFailed, Message: "refund will be retried"})
			e.scheduleRefundRetry(ctx, r.ID)
		}
	}
	if err := e.notifier.Notify(ctx, notification.NoticesFor(notification.TypeReservationCancelled, *r)...); err != nil {
		e.logger.Warn("Reservation cancellation notice failed",
			zap.String("reservation_id", r.ID),
			zap.Error(err),
		)
		result.Degraded = true
		result.Warnings = append(result.Warnings, Warning{Code: WarnNotificationFailed, Message: "cancellation notice could not be sent"})
	}
	return result, nil
}

// authorize reports whether actor cancels as the host. The customer rule
// wins when one party is both.
func authorize(r *models.Reservation, actor models.Actor) (bool, error) {
	switch {
	case actor.ID == "":
		return false, ErrUnauthorized
	case actor.ID == r.CustomerID:
		return false, nil
	case actor.ID == r.HostID:
		return true, nil
	default:
		return false, ErrUnauthorized
	}
}

func (e *Engine) refundPercent(r *models.Reservation, byHost bool, untilStart time.Duration) (int, error) {
	key := r.StartsAt.Format(time.RFC3339)
	if len(r.Keys) > 0 {
		key = r.Keys[0].String()
	}

	if byHost {
		notice := e.policy.HostNoticeRanged
		if r.CapacityModel == models.CapacitySlotted {
			notice = e.policy.HostNoticeSlotted
		}
		if untilStart <= notice {
			return 0, newError(CodeCancellationWindowClosed, key,
				"hosts must cancel more than %s before the start", notice)
		}
		return 100, nil
	}

	if untilStart <= 0 {
		return 0, newError(CodeCancellationWindowClosed, key, "reservation has already started")
	}
	return RefundPercent(untilStart), nil
}

func (e *Engine) scheduleRefundRetry(ctx context.Context, reservationID string) {
	if e.refunds == nil {
		e.logger.Error("Refund failed and no retry queue is configured, manual reconciliation required",
			zap.String("reservation_id", reservationID))
		return
	}
	if err := e.refunds.ScheduleRefundRetry(ctx, reservationID); err != nil {
		e.logger.Error("Failed to schedule refund retry, manual reconciliation required",
			zap.String("reservation_id", reservationID),
			zap.Error(err),
		)
	}
}
