package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Student builds (without inserting) a student with the given username.
func Student(name, username string) models.Student {
	return models.Student{
		ID:       uuid.NewString(),
		Name:     name,
		NameCI:   text.Fold(name),
		Email:    username + "@example.com",
		Username: username,
		JoinedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Task builds (without inserting) a task whose stages have the given ids.
func Task(title string, stageIDs ...string) models.Task {
	stages := make([]models.Stage, 0, len(stageIDs))
	for _, id := range stageIDs {
		stages = append(stages, models.Stage{ID: id, Name: "Stage " + id})
	}
	return models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: title + " description",
		Stages:      stages,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

// CreateStudent inserts a test student.
func (f *Fixtures) CreateStudent(ctx context.Context, name, username string) models.Student {
	f.t.Helper()

	s := Student(name, username)
	if _, err := f.db.Collection("students").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("CreateStudent(%q) failed: %v", username, err)
	}
	return s
}

// CreateTask inserts a test task with the given stage ids.
func (f *Fixtures) CreateTask(ctx context.Context, title string, stageIDs ...string) models.Task {
	f.t.Helper()

	task := Task(title, stageIDs...)
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("CreateTask(%q) failed: %v", title, err)
	}
	return task
}

// CreateProgress inserts a progress document directly.
func (f *Fixtures) CreateProgress(ctx context.Context, username, taskID string, stages ...string) models.Progress {
	f.t.Helper()

	if stages == nil {
		stages = []string{}
	}
	p := models.Progress{
		ID:              uuid.NewString(),
		StudentUsername: username,
		TaskID:          taskID,
		CompletedStages: stages,
	}
	if _, err := f.db.Collection("progress").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("CreateProgress(%q, %q) failed: %v", username, taskID, err)
	}
	return p
}
