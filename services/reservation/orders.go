package reservation

import (
	"context"

	"reservo/models"

	"go.uber.org/zap"
)

// CreatePaymentOrder quotes a request, opens a gateway order for it and
// remembers the order so the commit can check the payment against it.
func (e *Engine) CreatePaymentOrder(ctx context.Context, req models.ReservationRequest) (*models.PaymentOrder, error) {
	if req.CustomerID == "" {
		return nil, newError(CodeInvalidRequest, "", "customer is required")
	}
	tx, err := e.store.Snapshot(ctx, req.ResourceID)
	if err != nil {
		return nil, classify(err)
	}
	p, err := planFor(tx.Model, req)
	if err != nil {
		return nil, err
	}
	if err := p.checkPrice(req.TotalPrice); err != nil {
		return nil, err
	}
	if d := tx.Admit(p.keys, req.Units); !d.Admitted {
		return nil, capacityExceeded(d.Key, d.Reason)
	}

	amount := req.TotalPrice
	if p.quote > 0 {
		amount = p.quote
	}
	if amount <= 0 {
		return nil, newError(CodeInvalidRequest, "", "nothing to pay for a free reservation")
	}

	order, err := e.gateway.CreateOrder(ctx, models.PaymentOrder{
		CustomerID: req.CustomerID,
		ResourceID: req.ResourceID,
		Amount:     amount,
		Currency:   tx.Resource.Currency,
		CreatedAt:  e.clock.Now(),
	})
	if err != nil {
		e.logger.Error("Payment order creation failed",
			zap.String("customer_id", req.CustomerID),
			zap.String("resource_id", req.ResourceID),
			zap.Error(err),
		)
		return nil, commitFailed(err)
	}
	if err := e.orders.Save(ctx, order); err != nil {
		return nil, commitFailed(err)
	}
	return &order, nil
}

func capacityExceeded(key models.LedgerKey, reason string) *Error {
	return newError(CodeCapacityExceeded, key.String(), "%s", reason)
}
