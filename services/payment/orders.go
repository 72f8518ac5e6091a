package payment

import (
	"context"
	"sync"
	"time"

	"reservo/models"
	"reservo/utils"
)

// OrderStore remembers issued orders until they are used or expire.
type OrderStore interface {
	Save(ctx context.Context, order models.PaymentOrder) error
	Get(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	Delete(ctx context.Context, orderID string) error
}

type memoryOrder struct {
	order     models.PaymentOrder
	expiresAt time.Time
}

// MemoryOrderStore keeps orders in process.
type MemoryOrderStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	clock  utils.Clock
	orders map[string]memoryOrder
}

func NewMemoryOrderStore(ttl time.Duration, clock utils.Clock) *MemoryOrderStore {
	return &MemoryOrderStore{ttl: ttl, clock: clock, orders: make(map[string]memoryOrder)}
}

func (s *MemoryOrderStore) Save(_ context.Context, order models.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.OrderID] = memoryOrder{order: order, expiresAt: s.clock.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryOrderStore) Get(_ context.Context, orderID string) (*models.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if !s.clock.Now().Before(o.expiresAt) {
		delete(s.orders, orderID)
		return nil, ErrOrderNotFound
	}
	order := o.order
	return &order, nil
}

func (s *MemoryOrderStore) Delete(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, orderID)
	return nil
}
