package payment

import (
	"context"
	"fmt"
	"strings"

	"reservo/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// StripeGateway backs orders with Stripe PaymentIntents. The intent id is
// the order id; the settled charge id is the payment id.
type StripeGateway struct {
	api    *client.API
	signer *Signer
	logger *zap.Logger
}

func NewStripeGateway(key string, signer *Signer, logger *zap.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(key, nil)
	return &StripeGateway{api: api, signer: signer, logger: logger}
}

func (g *StripeGateway) CreateOrder(ctx context.Context, order models.PaymentOrder) (models.PaymentOrder, error) {
	if order.Amount <= 0 {
		return order, ErrInvalidAmount
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(order.Amount)),
		Currency: stripe.String(strings.ToLower(order.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("customer_id", order.CustomerID)
	params.AddMetadata("resource_id", order.ResourceID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return order, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	order.OrderID = pi.ID
	order.ClientSecret = pi.ClientSecret
	g.logger.Info("Payment order created",
		zap.String("order_id", pi.ID),
		zap.String("customer_id", order.CustomerID),
		zap.Float64("amount", order.Amount),
	)
	return order, nil
}

func (g *StripeGateway) VerifyConfirmation(ctx context.Context, conf models.PaymentConfirmation) error {
	if !g.signer.Verify(conf.OrderID, conf.PaymentID, conf.Signature) {
		return ErrBadSignature
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(conf.OrderID, params)
	if err != nil {
		return fmt.Errorf("stripe: get payment intent %s: %w", conf.OrderID, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: intent %s is %s", ErrNotSettled, pi.ID, pi.Status)
	}
	if pi.LatestCharge == nil || pi.LatestCharge.ID != conf.PaymentID {
		return fmt.Errorf("%w: charge %s", ErrOrderMismatch, conf.PaymentID)
	}
	return nil
}

func (g *StripeGateway) Refund(ctx context.Context, paymentID string, amount float64, currency, idempotencyKey string) (models.RefundAck, error) {
	if amount <= 0 {
		return models.RefundAck{}, ErrInvalidAmount
	}
	params := &stripe.RefundParams{
		Charge: stripe.String(paymentID),
		Amount: stripe.Int64(toMinorUnits(amount)),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}

	r, err := g.api.Refunds.New(params)
	if err != nil {
		return models.RefundAck{}, fmt.Errorf("stripe: refund %s: %w", paymentID, err)
	}
	return models.RefundAck{
		RefundID: r.ID,
		Amount:   fromMinorUnits(r.Amount),
		Status:   string(r.Status),
	}, nil
}
