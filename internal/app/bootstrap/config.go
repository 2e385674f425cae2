// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for stagetrack.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, storage_backend, etc.
//   - Environment variables: STAGETRACK_MONGO_URI, STAGETRACK_STORAGE_BACKEND, etc.
//   - Command-line flags: --mongo_uri, --storage_backend, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_backend", Default: BackendMongo, Desc: "Storage backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stagetrack", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Storage call deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health-check pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and /api/data"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for task cascade deletes and CSV imports"},

	{Name: "import_rate_limit", Default: 10, Desc: "Student CSV imports per client IP per minute (0 disables)"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
	{Name: "export_filename", Default: "students_export.csv", Desc: "Default filename for the student CSV export"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, STAGETRACK_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STAGETRACK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageBackend:   appValues.String("storage_backend"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		ImportRateLimit: appValues.Int("import_rate_limit"),
		MetricsEnabled:  appValues.Bool("metrics_enabled"),
		ExportFilename:  appValues.String("export_filename"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The Mongo settings are only checked when the mongo backend is selected,
// so the memory backend starts without a reachable URI.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.ImportRateLimit < 0 {
		return fmt.Errorf("import_rate_limit must not be negative")
	}

	switch appCfg.StorageBackend {
	case BackendMemory:
		if coreCfg != nil && coreCfg.Env == "prod" {
			logger.Warn("storage_backend=memory in prod; all data is lost on restart")
		}
		return nil
	case BackendMongo:
	default:
		return fmt.Errorf("storage_backend must be %q or %q, got %q", BackendMongo, BackendMemory, appCfg.StorageBackend)
	}

	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMaxPoolSize > 0 && appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	return nil
}
