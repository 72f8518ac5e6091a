package reservation

import (
	"context"
	"errors"

	"reservo/database/repository"
	"reservo/models"
)

// GetReservation returns a reservation to its customer or host.
func (e *Engine) GetReservation(ctx context.Context, reservationID string, actor models.Actor) (*models.Reservation, error) {
	r, err := e.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(CodeNotFound, "", "reservation %s not found", reservationID)
		}
		return nil, classify(err)
	}
	if _, err := authorize(r, actor); err != nil {
		return nil, err
	}
	return r, nil
}

func (e *Engine) ListCustomerReservations(ctx context.Context, customerID string) ([]models.Reservation, error) {
	if customerID == "" {
		return nil, ErrUnauthorized
	}
	out, err := e.reservations.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}
