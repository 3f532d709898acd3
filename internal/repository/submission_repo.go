package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"caliper/internal/model"
)

// SubmissionRepo stores intake submissions. Submissions are immutable once
// created; there is deliberately no update method.
type SubmissionRepo interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByCaseID(ctx context.Context, caseID string) (*model.Submission, error)
	ListByInstrument(ctx context.Context, instrumentID string) ([]*model.Submission, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, sub)
	return err
}

func (r *submissionRepo) GetByCaseID(ctx context.Context, caseID string) (*model.Submission, error) {
	var sub model.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": caseID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) ListByInstrument(ctx context.Context, instrumentID string) ([]*model.Submission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"instrumentId": instrumentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*model.Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
