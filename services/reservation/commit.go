package reservation

import (
	"context"
	"errors"

	"reservo/database/repository"
	"reservo/models"
	"reservo/services/availability"
	"reservo/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommitResult is a confirmed reservation. Degraded is set when a side
// effect after the commit failed; the reservation stands regardless.
type CommitResult struct {
	Reservation *models.Reservation `json:"reservation"`
	Degraded    bool                `json:"degraded"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// Commit turns a paid request into a confirmed reservation. Payment is
// verified before the resource lock is taken; availability is re-checked
// under the lock no matter what the client saw earlier.
func (e *Engine) Commit(ctx context.Context, req models.ReservationRequest, conf models.PaymentConfirmation) (*CommitResult, error) {
	if req.CustomerID == "" {
		return nil, newError(CodeInvalidRequest, "", "customer is required")
	}

	// Reject requests that can never succeed before touching the gateway.
	snap, err := e.store.Snapshot(ctx, req.ResourceID)
	if err != nil {
		return nil, classify(err)
	}
	pre, err := planFor(snap.Model, req)
	if err != nil {
		return nil, err
	}
	if err := pre.checkPrice(req.TotalPrice); err != nil {
		return nil, err
	}

	if err := e.verifyPayment(ctx, req, conf); err != nil {
		return nil, err
	}

	var created *models.Reservation
	err = e.store.WithResource(ctx, req.ResourceID, func(tx *availability.Tx) error {
		p, err := planFor(tx.Model, req)
		if err != nil {
			return err
		}
		if err := p.checkPrice(req.TotalPrice); err != nil {
			return err
		}

		d, err := tx.Increase(p.keys, req.Units)
		if err != nil {
			return commitFailed(err)
		}
		if !d.Admitted {
			return capacityExceeded(d.Key, d.Reason)
		}

		r := e.newReservation(tx.Resource, p, req, conf)
		if err := e.reservations.Create(tx.Context(), r); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				e.rollback(tx, r, err)
				return verificationFailed(err)
			}
			if e.persistedAnyway(tx.Context(), r, err) {
				created = r
				return nil
			}
			e.rollback(tx, r, err)
			return commitFailed(err)
		}
		created = r
		return nil
	})
	if err != nil {
		err = classify(err)
		e.logCommitRejection(req, err)
		return nil, err
	}

	e.logger.Info("Reservation confirmed",
		zap.String("reservation_id", created.ID),
		zap.String("resource_id", created.ResourceID),
		zap.String("customer_id", created.CustomerID),
		zap.Int("units", created.Units),
		zap.Int("keys", len(created.Keys)),
	)

	// Everything below is best effort.
	ctx = context.WithoutCancel(ctx)
	if err := e.orders.Delete(ctx, conf.OrderID); err != nil {
		e.logger.Warn("Failed to discard used payment order", zap.String("order_id", conf.OrderID), zap.Error(err))
	}

	result := &CommitResult{Reservation: created}
	if err := e.notifier.Notify(ctx, notification.NoticesFor(notification.TypeReservationConfirmed, *created)...); err != nil {
		e.logger.Warn("Reservation confirmation notice failed",
			zap.String("reservation_id", created.ID),
			zap.Error(err),
		)
		result.Degraded = true
		result.Warnings = append(result.Warnings, Warning{Code: WarnNotificationFailed, Message: "confirmation notice could not be sent"})
	}
	return result, nil
}

// verifyPayment checks the signed confirmation with the gateway and matches
// it to the order issued for this customer, resource and price.
func (e *Engine) verifyPayment(ctx context.Context, req models.ReservationRequest, conf models.PaymentConfirmation) error {
	order, err := e.orders.Get(ctx, conf.OrderID)
	if err != nil {
		return e.rejectPayment(req, conf, err)
	}
	if order.CustomerID != req.CustomerID || order.ResourceID != req.ResourceID || !samePrice(order.Amount, req.TotalPrice) {
		return e.rejectPayment(req, conf, errors.New("confirmation does not match the issued order"))
	}

	vctx, cancel := context.WithTimeout(ctx, e.policy.VerifyTimeout)
	defer cancel()
	if err := e.gateway.VerifyConfirmation(vctx, conf); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			e.logger.Warn("Payment verification timed out",
				zap.String("order_id", conf.OrderID),
				zap.Error(err),
			)
			return commitFailed(err)
		}
		return e.rejectPayment(req, conf, err)
	}
	return nil
}

func (e *Engine) rejectPayment(req models.ReservationRequest, conf models.PaymentConfirmation, cause error) error {
	e.logger.Warn("Payment confirmation rejected",
		zap.String("event", "security"),
		zap.String("customer_id", req.CustomerID),
		zap.String("resource_id", req.ResourceID),
		zap.String("order_id", conf.OrderID),
		zap.String("payment_id", conf.PaymentID),
		zap.Error(cause),
	)
	return verificationFailed(cause)
}

// persistedAnyway reports whether a reservation whose write returned an
// error was stored regardless, as happens when an insert times out after the
// server applied it. The ledger increase must then stand.
func (e *Engine) persistedAnyway(ctx context.Context, r *models.Reservation, cause error) bool {
	stored, err := e.reservations.GetByID(ctx, r.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			e.logger.Warn("Could not check for a partially written reservation",
				zap.String("reservation_id", r.ID),
				zap.Error(err),
			)
		}
		return false
	}
	if stored.Status != models.StatusConfirmed {
		return false
	}
	e.logger.Warn("Reservation stored despite write error, keeping ledger",
		zap.String("resource_id", r.ResourceID),
		zap.String("reservation_id", r.ID),
		zap.NamedError("persist_error", cause),
	)
	return true
}

// rollback undoes the ledger increase of a reservation that could not be
// stored. A failure here leaves consumed capacity with no reservation behind
// it and needs manual repair, so it logs everything required for that.
func (e *Engine) rollback(tx *availability.Tx, r *models.Reservation, cause error) {
	released, err := tx.Decrease(r.Keys, r.Units)
	if err != nil {
		e.logger.Error("Compensating ledger release failed",
			zap.String("resource_id", r.ResourceID),
			zap.String("reservation_id", r.ID),
			zap.Any("keys", r.Keys),
			zap.Int("units", r.Units),
			zap.NamedError("persist_error", cause),
			zap.Error(err),
		)
		return
	}
	e.logger.Warn("Reservation persistence failed, ledger rolled back",
		zap.String("resource_id", r.ResourceID),
		zap.String("reservation_id", r.ID),
		zap.Int("released", released),
		zap.Error(cause),
	)
}

func (e *Engine) logCommitRejection(req models.ReservationRequest, err error) {
	var re *Error
	if !errors.As(err, &re) {
		return
	}
	fields := []zap.Field{
		zap.String("resource_id", req.ResourceID),
		zap.String("customer_id", req.CustomerID),
		zap.String("code", string(re.Code)),
		zap.String("key", re.Key),
	}
	if re.Code == CodeCommitFailed {
		e.logger.Error("Reservation commit failed", append(fields, zap.Error(re.Err))...)
		return
	}
	e.logger.Info("Reservation rejected", append(fields, zap.String("reason", re.Message))...)
}

func (e *Engine) newReservation(res models.Resource, p *plan, req models.ReservationRequest, conf models.PaymentConfirmation) *models.Reservation {
	now := e.clock.Now()
	r := &models.Reservation{
		ID:            uuid.NewString(),
		CustomerID:    req.CustomerID,
		ResourceID:    res.ID,
		HostID:        res.HostID,
		Kind:          res.Kind,
		CapacityModel: res.EffectiveCapacityModel(),
		Keys:          p.keys,
		Units:         req.Units,
		TotalPrice:    req.TotalPrice,
		Currency:      res.Currency,
		OrderID:       conf.OrderID,
		PaymentID:     conf.PaymentID,
		StartsAt:      p.startsAt.UTC(),
		Status:        models.StatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if r.CapacityModel == models.CapacitySlotted {
		r.Date = p.keys[0].Date
		r.SlotStart = p.slotStart
		r.SlotEnd = p.slotEnd
	} else {
		r.CheckIn = req.CheckIn
		r.CheckOut = req.CheckOut
	}
	return r
}
