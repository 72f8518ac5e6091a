package payment

import (
	"context"
	"testing"
	"time"

	"reservo/models"
	"reservo/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSigner(t *testing.T) {
	s := NewSigner("secret")
	sig := s.Sign("order_1", "pay_1")

	assert.True(t, s.Verify("order_1", "pay_1", sig))
	assert.False(t, s.Verify("order_1", "pay_2", sig))
	assert.False(t, s.Verify("order_2", "pay_1", sig))
	assert.False(t, s.Verify("order_1", "pay_1", "not-hex"))
	assert.False(t, NewSigner("other").Verify("order_1", "pay_1", sig))
}

func TestSigner_EmptySecretNeverVerifies(t *testing.T) {
	s := NewSigner("")
	assert.False(t, s.Verify("order_1", "pay_1", s.Sign("order_1", "pay_1")))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
	assert.Equal(t, int64(10), toMinorUnits(0.1))
	assert.InDelta(t, 19.99, fromMinorUnits(1999), 1e-9)
}

func TestLocalGateway(t *testing.T) {
	ctx := context.Background()
	signer := NewSigner("secret")
	g := NewLocalGateway(signer, zap.NewNop())

	order, err := g.CreateOrder(ctx, models.PaymentOrder{Amount: 100, Currency: "USD"})
	require.NoError(t, err)
	require.NotEmpty(t, order.OrderID)

	conf := models.PaymentConfirmation{OrderID: order.OrderID, PaymentID: "pay_1", Signature: signer.Sign(order.OrderID, "pay_1")}
	assert.NoError(t, g.VerifyConfirmation(ctx, conf))

	conf.Signature = "00"
	assert.ErrorIs(t, g.VerifyConfirmation(ctx, conf), ErrBadSignature)

	ack, err := g.Refund(ctx, "pay_1", 50, "USD", "k")
	require.NoError(t, err)
	assert.Equal(t, 50.0, ack.Amount)

	_, err = g.CreateOrder(ctx, models.PaymentOrder{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMemoryOrderStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := utils.NewFixedClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	s := NewMemoryOrderStore(time.Minute, clock)

	require.NoError(t, s.Save(ctx, models.PaymentOrder{OrderID: "o1", Amount: 10}))
	got, err := s.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Amount)

	clock.Advance(time.Minute)
	_, err = s.Get(ctx, "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryOrderStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrderStore(time.Hour, utils.NewSystemClock())
	require.NoError(t, s.Save(ctx, models.PaymentOrder{OrderID: "o1"}))
	require.NoError(t, s.Delete(ctx, "o1"))
	_, err := s.Get(ctx, "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
