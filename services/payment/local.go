package payment

import (
	"context"

	"reservo/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalGateway settles everything in process. Orders are issued locally and a
// confirmation is valid when its signature verifies. It backs development
// setups without a provider key.
type LocalGateway struct {
	signer *Signer
	logger *zap.Logger
}

func NewLocalGateway(signer *Signer, logger *zap.Logger) *LocalGateway {
	return &LocalGateway{signer: signer, logger: logger}
}

func (g *LocalGateway) CreateOrder(_ context.Context, order models.PaymentOrder) (models.PaymentOrder, error) {
	if order.Amount <= 0 {
		return order, ErrInvalidAmount
	}
	order.OrderID = "order_" + uuid.NewString()
	return order, nil
}

func (g *LocalGateway) VerifyConfirmation(ctx context.Context, conf models.PaymentConfirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !g.signer.Verify(conf.OrderID, conf.PaymentID, conf.Signature) {
		return ErrBadSignature
	}
	return nil
}

func (g *LocalGateway) Refund(_ context.Context, paymentID string, amount float64, currency, _ string) (models.RefundAck, error) {
	if amount <= 0 {
		return models.RefundAck{}, ErrInvalidAmount
	}
	g.logger.Info("Local refund issued",
		zap.String("payment_id", paymentID),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)
	return models.RefundAck{RefundID: "refund_" + uuid.NewString(), Amount: amount, Status: "succeeded"}, nil
}
