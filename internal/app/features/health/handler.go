package health

import (
	"context"
	"encoding/json"
	"net/http"

	metricsstore "github.com/dalemusser/stagetrack/internal/app/store/metrics"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks. A nil DB means the
// app runs on the in-memory backend and there is nothing to ping.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string               `json:"status"`
	Database string               `json:"database"`
	Message  string               `json:"message,omitempty"`
	Error    string               `json:"error,omitempty"`
	Counts   *metricsstore.Counts `json:"counts,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "counts":{"students":2,"tasks":3,"progress":5} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.DB == nil {
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Database: "memory"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	// Counts are informational; failures read as zero.
	counts := metricsstore.FetchCounts(ctx, h.DB)
	resp.Counts = &counts

	_ = json.NewEncoder(w).Encode(resp)
}
