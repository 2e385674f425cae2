package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of catalog totals exported as gauges and shown by the
// health endpoint.
type Counts struct {
	Students int64 `json:"students"`
	Tasks    int64 `json:"tasks"`
	Progress int64 `json:"progress"`
}

// FetchCounts returns the catalog totals.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	if n, err := db.Collection("students").CountDocuments(ctx, bson.M{}); err == nil {
		out.Students = n
	}
	if n, err := db.Collection("tasks").CountDocuments(ctx, bson.M{}); err == nil {
		out.Tasks = n
	}
	if n, err := db.Collection("progress").CountDocuments(ctx, bson.M{}); err == nil {
		out.Progress = n
	}

	return out
}
