// Package reservation commits and cancels reservations against resource
// ledgers. It is the only writer of reservation status.
package reservation

import (
	"context"
	"fmt"
	"time"

	reservationRepo "reservo/database/repository/reservation"
	"reservo/services/availability"
	"reservo/services/notification"
	"reservo/services/payment"
	"reservo/utils"

	"go.uber.org/zap"
)

// RefundScheduler queues a later refund attempt for a cancelled reservation.
type RefundScheduler interface {
	ScheduleRefundRetry(ctx context.Context, reservationID string) error
}

// Policy holds the timing rules.
type Policy struct {
	// HostNoticeRanged and HostNoticeSlotted are the minimum time between a
	// host cancellation and the reservation start.
	HostNoticeRanged  time.Duration
	HostNoticeSlotted time.Duration
	// VerifyTimeout bounds the payment verification call.
	VerifyTimeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		HostNoticeRanged:  24 * time.Hour,
		HostNoticeSlotted: 24 * time.Hour,
		VerifyTimeout:     5 * time.Second,
	}
}

// Deps are the collaborators of an Engine. Refunds and Clock are optional.
type Deps struct {
	Store        *availability.Store
	Reservations reservationRepo.ReservationRepository
	Gateway      payment.Gateway
	Orders       payment.OrderStore
	Notifier     notification.Notifier
	Refunds      RefundScheduler
	Clock        utils.Clock
	Policy       Policy
	Logger       *zap.Logger
}

type Engine struct {
	store        *availability.Store
	reservations reservationRepo.ReservationRepository
	gateway      payment.Gateway
	orders       payment.OrderStore
	notifier     notification.Notifier
	refunds      RefundScheduler
	clock        utils.Clock
	policy       Policy
	logger       *zap.Logger
}

func NewEngine(d Deps) (*Engine, error) {
	if d.Store == nil || d.Reservations == nil || d.Gateway == nil || d.Orders == nil || d.Notifier == nil {
		return nil, fmt.Errorf("reservation engine initialization error: store, reservations, gateway, orders and notifier are required")
	}
	if d.Clock == nil {
		d.Clock = utils.NewSystemClock()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	def := DefaultPolicy()
	if d.Policy.HostNoticeRanged <= 0 {
		d.Policy.HostNoticeRanged = def.HostNoticeRanged
	}
	if d.Policy.HostNoticeSlotted <= 0 {
		d.Policy.HostNoticeSlotted = def.HostNoticeSlotted
	}
	if d.Policy.VerifyTimeout <= 0 {
		d.Policy.VerifyTimeout = def.VerifyTimeout
	}
	return &Engine{
		store:        d.Store,
		reservations: d.Reservations,
		gateway:      d.Gateway,
		orders:       d.Orders,
		notifier:     d.Notifier,
		refunds:      d.Refunds,
		clock:        d.Clock,
		policy:       d.Policy,
		logger:       d.Logger,
	}, nil
}
