// Package payment talks to the payment provider: it opens orders, verifies
// client confirmations and issues refunds.
package payment

import (
	"context"
	"errors"
	"math"

	"reservo/models"
)

var (
	ErrBadSignature  = errors.New("payment confirmation signature mismatch")
	ErrNotSettled    = errors.New("payment has not settled")
	ErrOrderMismatch = errors.New("payment does not belong to order")
	ErrOrderNotFound = errors.New("payment order not found")
	ErrInvalidAmount = errors.New("payment amount must be positive")
)

// Gateway is the payment provider port used by the reservation engine.
type Gateway interface {
	// CreateOrder opens an order for order.Amount and returns it with the
	// provider's id and client secret filled in.
	CreateOrder(ctx context.Context, order models.PaymentOrder) (models.PaymentOrder, error)
	// VerifyConfirmation checks the signed confirmation and that the
	// payment actually settled against the order.
	VerifyConfirmation(ctx context.Context, conf models.PaymentConfirmation) error
	// Refund returns amount of a settled payment. idempotencyKey makes
	// retries safe.
	Refund(ctx context.Context, paymentID string, amount float64, currency, idempotencyKey string) (models.RefundAck, error)
}

// toMinorUnits converts a decimal amount to cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
