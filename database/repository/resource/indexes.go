// FILE: database/repository/resource/indexes.go
package resourceRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the resources collection.
func (r *mongoResourceRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Ledger writes filter on id + version.
		{
			Keys:    bson.D{{Key: "id", Value: 1}, {Key: "ledgerVersion", Value: 1}},
			Options: options.Index().SetName("id_ledger_version_idx"),
		},
		{
			Keys:    bson.D{{Key: "hostId", Value: 1}},
			Options: options.Index().SetName("host_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}
	return nil
}
