// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"

	"reservo/database"
	"reservo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, reservationID string) (*models.Reservation, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Reservation, error)
	// MarkCancelled moves a confirmed reservation to cancelled. Any other
	// current status yields repository.ErrStatusConflict.
	MarkCancelled(ctx context.Context, reservationID string, c models.Cancellation) error
	// UpdateRefund records a refund outcome on a cancelled reservation.
	UpdateRefund(ctx context.Context, reservationID string, state models.RefundStatus, attempts int, lastError string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a new MongoDB ReservationRepository.
func NewMongoReservationRepo() ReservationRepository {
	return &mongoReservationRepo{
		coll: database.DB().Collection("reservations"),
	}
}
