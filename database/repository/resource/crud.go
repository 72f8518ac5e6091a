// File: database/repository/resource/crud.go
package resourceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservo/database/repository"
	"reservo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoResourceRepo) GetByID(ctx context.Context, resourceID string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Resource
	if err := r.coll.FindOne(ctx, bson.M{"id": resourceID}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("resource %s: %w", resourceID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching resource %s: %w", resourceID, err)
	}
	return &res, nil
}

func (r *mongoResourceRepo) UpdateLedger(ctx context.Context, resourceID string, expectedVersion int, entries []models.LedgerEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	filter := bson.M{
		"id":            resourceID,
		"ledgerVersion": expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{"ledger": entries},
		"$inc": bson.M{"ledgerVersion": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update ledger for resource %s: %w", resourceID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("resource %s at version %d: %w", resourceID, expectedVersion, repository.ErrVersionConflict)
	}
	return nil
}
