package reservationRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"reservo/database/repository"
	"reservo/models"
)

// MemoryReservationRepo keeps reservations in process.
type MemoryReservationRepo struct {
	mu           sync.RWMutex
	reservations map[string]models.Reservation
}

func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{reservations: make(map[string]models.Reservation)}
}

func (r *MemoryReservationRepo) Create(_ context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reservations[res.ID]; exists {
		return fmt.Errorf("reservation %s: %w", res.ID, repository.ErrDuplicate)
	}
	for _, existing := range r.reservations {
		if res.OrderID != "" && existing.OrderID == res.OrderID {
			return fmt.Errorf("order %s already used: %w", res.OrderID, repository.ErrDuplicate)
		}
	}
	r.reservations[res.ID] = cloneReservation(*res)
	return nil
}

func (r *MemoryReservationRepo) GetByID(_ context.Context, reservationID string) (*models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrNotFound)
	}
	out := cloneReservation(res)
	return &out, nil
}

func (r *MemoryReservationRepo) ListByCustomer(_ context.Context, customerID string) ([]models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Reservation{}
	for _, res := range r.reservations {
		if res.CustomerID == customerID {
			out = append(out, cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *MemoryReservationRepo) MarkCancelled(_ context.Context, reservationID string, c models.Cancellation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[reservationID]
	if !ok {
		return fmt.Errorf("reservation %s: %w", reservationID, repository.ErrNotFound)
	}
	if res.Status != models.StatusConfirmed {
		return fmt.Errorf("reservation %s is not confirmed: %w", reservationID, repository.ErrStatusConflict)
	}
	res.Status = models.StatusCancelled
	res.Cancellation = &c
	res.UpdatedAt = c.At
	r.reservations[reservationID] = res
	return nil
}

func (r *MemoryReservationRepo) UpdateRefund(_ context.Context, reservationID string, state models.RefundStatus, attempts int, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[reservationID]
	if !ok {
		return fmt.Errorf("reservation %s: %w", reservationID, repository.ErrNotFound)
	}
	if res.Status != models.StatusCancelled || res.Cancellation == nil {
		return fmt.Errorf("reservation %s is not cancelled: %w", reservationID, repository.ErrStatusConflict)
	}
	c := *res.Cancellation
	c.RefundState = state
	c.Attempts = attempts
	c.LastError = lastError
	res.Cancellation = &c
	res.UpdatedAt = time.Now().UTC()
	r.reservations[reservationID] = res
	return nil
}

func (r *MemoryReservationRepo) EnsureIndexes(context.Context) error { return nil }

func cloneReservation(res models.Reservation) models.Reservation {
	res.Keys = append([]models.LedgerKey(nil), res.Keys...)
	if res.Cancellation != nil {
		c := *res.Cancellation
		res.Cancellation = &c
	}
	return res
}
