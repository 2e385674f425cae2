// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	analyticsfeature "github.com/dalemusser/stagetrack/internal/app/features/analytics"
	bootdatafeature "github.com/dalemusser/stagetrack/internal/app/features/bootdata"
	healthfeature "github.com/dalemusser/stagetrack/internal/app/features/health"
	progressfeature "github.com/dalemusser/stagetrack/internal/app/features/progress"
	reportsfeature "github.com/dalemusser/stagetrack/internal/app/features/reports"
	studentsfeature "github.com/dalemusser/stagetrack/internal/app/features/students"
	tasksfeature "github.com/dalemusser/stagetrack/internal/app/features/tasks"
	"github.com/dalemusser/stagetrack/internal/app/store/memstore"
	metricsstore "github.com/dalemusser/stagetrack/internal/app/store/metrics"
	progressstore "github.com/dalemusser/stagetrack/internal/app/store/progress"
	studentstore "github.com/dalemusser/stagetrack/internal/app/store/students"
	taskstore "github.com/dalemusser/stagetrack/internal/app/store/tasks"
	"github.com/dalemusser/stagetrack/internal/app/system/metrics"
	"github.com/dalemusser/stagetrack/internal/app/system/ratelimit"
	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/system/txn"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// countCatalogs reports catalog sizes for the gauges on /metrics.
type countCatalogs func(ctx context.Context) metricsstore.Counts

// BuildHandler constructs the root HTTP handler for stagetrack.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It builds the tracker service over whichever
// backend ConnectDB opened and mounts the JSON API under /api, plus
// /health and, when enabled, /metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	var m *metrics.Metrics
	if appCfg.MetricsEnabled {
		m = metrics.New()
	}

	svc, counts, err := buildService(deps, m, logger)
	if err != nil {
		logger.Error("tracker service init failed", zap.Error(err))
		return nil, err
	}
	if err := registerCatalogGauges(m, counts); err != nil {
		logger.Error("metrics gauge registration failed", zap.Error(err))
		return nil, err
	}

	importLimit := ratelimit.New(appCfg.ImportRateLimit, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respond.Error(w, logger, "route", errs.NotFound("route", r.URL.Path))
		})

		api.Mount("/data", bootdatafeature.Routes(bootdatafeature.NewHandler(svc, logger)))
		api.Mount("/students", studentsfeature.Routes(studentsfeature.NewHandler(svc, logger), importLimit))
		api.Mount("/tasks", tasksfeature.Routes(tasksfeature.NewHandler(svc, logger)))
		api.Mount("/progress", progressfeature.Routes(progressfeature.NewHandler(svc, logger)))

		// Derived views
		api.Mount("/analytics", analyticsfeature.Routes(analyticsfeature.NewHandler(svc, logger)))
		api.Mount("/reports", reportsfeature.Routes(reportsfeature.NewHandler(svc, appCfg.ExportFilename, logger)))
	})

	logger.Info("routes mounted",
		zap.String("backend", backendName(deps)),
		zap.Bool("metrics", m != nil))
	return r, nil
}

// buildService wires the tracker over the Mongo stores or the in-memory
// store, whichever deps carries.
func buildService(deps DBDeps, m *metrics.Metrics, logger *zap.Logger) (*tracker.Service, countCatalogs, error) {
	switch {
	case deps.Memory != nil:
		db := deps.Memory
		svc := tracker.New(tracker.Deps{
			Students: memstore.NewStudentRepository(db),
			Tasks:    memstore.NewTaskRepository(db),
			Progress: memstore.NewProgressRepository(db),
			Metrics:  m,
			Log:      logger,
		})
		counts := func(context.Context) metricsstore.Counts {
			s, t, p := db.Counts()
			return metricsstore.Counts{Students: int64(s), Tasks: int64(t), Progress: int64(p)}
		}
		return svc, counts, nil

	case deps.MongoDatabase != nil:
		db := deps.MongoDatabase
		svc := tracker.New(tracker.Deps{
			Students: studentstore.New(db),
			Tasks:    taskstore.New(db),
			Progress: progressstore.New(db),
			Tx:       txn.NewRunner(deps.MongoClient, logger),
			Metrics:  m,
			Log:      logger,
		})
		counts := func(ctx context.Context) metricsstore.Counts {
			ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
			defer cancel()
			return metricsstore.FetchCounts(ctx, db)
		}
		return svc, counts, nil
	}
	return nil, nil, errors.New("no storage backend connected")
}

func registerCatalogGauges(m *metrics.Metrics, counts countCatalogs) error {
	if m == nil {
		return nil
	}
	gauges := []struct {
		name, help string
		pick       func(metricsstore.Counts) int64
	}{
		{"stagetrack_students", "Registered students", func(c metricsstore.Counts) int64 { return c.Students }},
		{"stagetrack_tasks", "Tasks in the catalog", func(c metricsstore.Counts) int64 { return c.Tasks }},
		{"stagetrack_progress_records", "Rows in the progress ledger", func(c metricsstore.Counts) int64 { return c.Progress }},
	}
	for _, g := range gauges {
		pick := g.pick
		fn := func() float64 { return float64(pick(counts(context.Background()))) }
		if err := m.RegisterGaugeFunc(g.name, g.help, fn); err != nil {
			return err
		}
	}
	return nil
}

func backendName(deps DBDeps) string {
	if deps.Memory != nil {
		return BackendMemory
	}
	return BackendMongo
}
