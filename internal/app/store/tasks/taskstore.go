// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"

	"github.com/dalemusser/stagetrack/internal/app/system/mongoerr"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// List returns every task in creation order.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, "list tasks", bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// ListByTitle returns every task ordered by folded title.
func (s *Store) ListByTitle(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, "list tasks by title", bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) list(ctx context.Context, op string, sort bson.D) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, mongoerr.Classify(op, err)
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoerr.Classify(op, err)
	}
	return out, nil
}

// Create inserts a fully populated task.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, mongoerr.Classify("create task", err)
	}
	return t, nil
}

// Get loads one task by id.
func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, errs.NotFound("get task", id)
	}
	if err != nil {
		return models.Task{}, mongoerr.Classify("get task", err)
	}
	return t, nil
}

// Delete removes the task with id and reports whether one existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, mongoerr.Classify("delete task", err)
	}
	return res.DeletedCount > 0, nil
}

// Restore re-inserts a previously deleted task under its original id.
// A task that is already present is left as is.
func (s *Store) Restore(ctx context.Context, t models.Task) error {
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return mongoerr.Classify("restore task", err)
	}
	return nil
}
