// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Storage backends accepted by storage_backend.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// AppConfig holds service-specific configuration for stagetrack.
//
// Values come from environment variables (STAGETRACK_*), config files, or
// command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig covers the
// HTTP listener, TLS, logging and CORS; everything here is specific to the
// progress tracker.
type AppConfig struct {
	// Storage backend: "mongo" (default) or "memory" for local development.
	StorageBackend string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Storage call deadlines; zero keeps the package default.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Serve Prometheus metrics at /metrics.
	MetricsEnabled bool

	// Student CSV imports allowed per client IP per minute; 0 disables the limit.
	ImportRateLimit int

	// Default download name for GET /api/reports/students.csv.
	ExportFilename string
}
