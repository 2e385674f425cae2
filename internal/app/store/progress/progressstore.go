// internal/app/store/progress/progressstore.go
package progressstore

// Every write is a single FindOneAndUpdate on the (student_username, task_id)
// key, so concurrent writers to one key cannot lose each other's updates.
// Two writers racing to create the same key trip the unique index; that
// surfaces as errs.ErrConflict and the caller retries once.

import (
	"context"
	"errors"

	"github.com/dalemusser/stagetrack/internal/app/system/mongoerr"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("progress")}
}

func keyFilter(k models.ProgressKey) bson.M {
	return bson.M{"student_username": k.StudentUsername, "task_id": k.TaskID}
}

func (s *Store) find(ctx context.Context, op string, filter bson.M) ([]models.Progress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "student_username", Value: 1}, {Key: "task_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoerr.Classify(op, err)
	}
	defer cur.Close(ctx)

	out := []models.Progress{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoerr.Classify(op, err)
	}
	for i := range out {
		if out[i].CompletedStages == nil {
			out[i].CompletedStages = []string{}
		}
	}
	return out, nil
}

// List returns every progress document.
func (s *Store) List(ctx context.Context) ([]models.Progress, error) {
	return s.find(ctx, "list progress", bson.M{})
}

// ListByStudent returns the progress documents for one username.
func (s *Store) ListByStudent(ctx context.Context, username string) ([]models.Progress, error) {
	return s.find(ctx, "list student progress", bson.M{"student_username": username})
}

// Upsert replaces the completed-stage set for key, creating the document
// when it does not exist. The document id is kept across updates.
func (s *Store) Upsert(ctx context.Context, key models.ProgressKey, stages []string) (models.Progress, error) {
	if stages == nil {
		stages = []string{}
	}
	update := bson.M{
		"$set":         bson.M{"completed_stages": stages},
		"$setOnInsert": bson.M{"_id": uuid.NewString()},
	}
	return s.findOneAndUpdate(ctx, "upsert progress", keyFilter(key), update, true)
}

// SetStage marks one stage complete or incomplete. Marking complete creates
// the document when needed. Marking incomplete never creates one; ok is
// false when there was nothing to update.
func (s *Store) SetStage(ctx context.Context, key models.ProgressKey, stageID string, completed bool) (p models.Progress, ok bool, err error) {
	if completed {
		update := bson.M{
			"$addToSet":    bson.M{"completed_stages": stageID},
			"$setOnInsert": bson.M{"_id": uuid.NewString()},
		}
		p, err = s.findOneAndUpdate(ctx, "toggle stage", keyFilter(key), update, true)
		return p, err == nil, err
	}

	update := bson.M{"$pull": bson.M{"completed_stages": stageID}}
	p, err = s.findOneAndUpdate(ctx, "toggle stage", keyFilter(key), update, false)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Progress{}, false, nil
	}
	return p, err == nil, err
}

func (s *Store) findOneAndUpdate(ctx context.Context, op string, filter, update bson.M, upsert bool) (models.Progress, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(upsert).
		SetReturnDocument(options.After)

	var p models.Progress
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return models.Progress{}, mongoerr.Classify(op, err)
	}
	if p.CompletedStages == nil {
		p.CompletedStages = []string{}
	}
	return p, nil
}

// DeleteByTask removes all progress for a task.
// Returns the number of documents deleted.
func (s *Store) DeleteByTask(ctx context.Context, taskID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"task_id": taskID})
	if err != nil {
		return 0, mongoerr.Classify("delete task progress", err)
	}
	return res.DeletedCount, nil
}
