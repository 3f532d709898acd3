package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caliper/internal/model"
)

// AssessmentRepo stores draft and decided assessments, one per case
type AssessmentRepo interface {
	UpsertDraft(ctx context.Context, a *model.Assessment) error
	GetByCaseID(ctx context.Context, caseID string) (*model.Assessment, error)
	Update(ctx context.Context, a *model.Assessment) error
	ListByStatus(ctx context.Context, instrumentID string, status model.AssessmentStatus) ([]*model.Assessment, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) UpsertDraft(ctx context.Context, a *model.Assessment) error {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"caseId": a.CaseID}, a, opts)
	return err
}

func (r *assessmentRepo) GetByCaseID(ctx context.Context, caseID string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"caseId": caseID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) Update(ctx context.Context, a *model.Assessment) error {
	a.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": a}
	_, err := r.collection.UpdateOne(ctx, bson.M{"caseId": a.CaseID}, update)
	return err
}

func (r *assessmentRepo) ListByStatus(ctx context.Context, instrumentID string, status model.AssessmentStatus) ([]*model.Assessment, error) {
	filter := bson.M{"status": status}
	if instrumentID != "" {
		filter["instrumentId"] = instrumentID
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.Assessment
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
