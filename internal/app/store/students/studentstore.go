// internal/app/store/students/studentstore.go
package studentstore

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
	return &Store{c: db.Collection("students")}
}

// List returns every student in join order.
func (s *Store) List(ctx context.Context) ([]models.Student, error) {
	return s.list(ctx, "list students", bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}})
}

// ListByName returns every student ordered by case- and accent-folded name.
func (s *Store) ListByName(ctx context.Context) ([]models.Student, error) {
	return s.list(ctx, "list students by name", bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) list(ctx context.Context, op string, sort bson.D) ([]models.Student, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, mongoerr.Classify(op, err)
	}
	defer cur.Close(ctx)

	out := []models.Student{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoerr.Classify(op, err)
	}
	return out, nil
}

// Create inserts a fully populated student.
func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
			return models.Student{}, errs.Conflict("create student", errs.ErrDuplicateUsername)
		}
		return models.Student{}, mongoerr.Classify("create student", err)
	}
	return st, nil
}

// GetByUsername loads one student by exact username.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.Student, error) {
	var st models.Student
	err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Student{}, errs.NotFound("get student", username)
	}
	if err != nil {
		return models.Student{}, mongoerr.Classify("get student", err)
	}
	return st, nil
}

// Delete removes the student with id and reports whether one existed.
// Progress rows keyed by the student's username are left in place.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, mongoerr.Classify("delete student", err)
	}
	return res.DeletedCount > 0, nil
}
