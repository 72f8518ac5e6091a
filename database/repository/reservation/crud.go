// File: database/repository/reservation/crud.go
package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservo/database/repository"
	"reservo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("reservation %s: %w", res.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("error creating reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepo) GetByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": reservationID}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching reservation %s: %w", reservationID, err)
	}
	return &res, nil
}

func (r *mongoReservationRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []models.Reservation{}
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepo) MarkCancelled(ctx context.Context, reservationID string, c models.Cancellation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     reservationID,
		"status": models.StatusConfirmed,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       models.StatusCancelled,
			"cancellation": c,
			"updatedAt":    c.At,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error cancelling reservation %s: %w", reservationID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("reservation %s is not confirmed: %w", reservationID, repository.ErrStatusConflict)
	}
	return nil
}

func (r *mongoReservationRepo) UpdateRefund(ctx context.Context, reservationID string, state models.RefundStatus, attempts int, lastError string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     reservationID,
		"status": models.StatusCancelled,
	}
	update := bson.M{
		"$set": bson.M{
			"cancellation.refundStatus":   state,
			"cancellation.refundAttempts": attempts,
			"cancellation.lastError":      lastError,
			"updatedAt":                   time.Now().UTC(),
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error recording refund for reservation %s: %w", reservationID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("reservation %s is not cancelled: %w", reservationID, repository.ErrStatusConflict)
	}
	return nil
}
