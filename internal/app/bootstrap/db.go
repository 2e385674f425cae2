// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stagetrack/internal/app/store/memstore"
	"github.com/dalemusser/stagetrack/internal/app/system/indexes"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured storage backend. For mongo it connects,
// applies the pool sizes and pings the primary before returning.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.StorageBackend == BackendMemory {
		logger.Warn("using in-memory storage; data does not survive a restart")
		return DBDeps{Memory: memstore.Open()}, nil
	}

	connectTimeout := appCfg.TimeoutLong
	if connectTimeout <= 0 {
		connectTimeout = timeouts.DefaultLong
	}
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect MongoDB: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool", appCfg.MongoMinPoolSize))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates indexes and attaches collection validators. The
// unique (student_username, task_id) index is what makes concurrent
// upserts of one key safe, so a failure here aborts startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	logger.Info("schema ensured", zap.String("database", deps.MongoDatabase.Name()))
	return nil
}
