// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stagetrack/internal/app/store/memstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the storage backend. Exactly one of MongoDatabase or Memory
// is set, depending on storage_backend.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Memory *memstore.DB
}
