// File: database/repository/resource/interface.go
package resourceRepo

import (
	"context"

	"reservo/database"
	"reservo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ResourceRepository reads resources and writes their embedded availability
// ledger. Nothing else on a resource is written by this service.
type ResourceRepository interface {
	GetByID(ctx context.Context, resourceID string) (*models.Resource, error)
	// UpdateLedger replaces the ledger when the stored version equals
	// expectedVersion and bumps the version; otherwise it returns
	// repository.ErrVersionConflict.
	UpdateLedger(ctx context.Context, resourceID string, expectedVersion int, entries []models.LedgerEntry) error
	EnsureIndexes(ctx context.Context) error
}

type mongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs a new MongoDB ResourceRepository.
func NewMongoResourceRepo() ResourceRepository {
	return &mongoResourceRepo{
		coll: database.DB().Collection("resources"),
	}
}
