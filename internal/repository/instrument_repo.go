package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caliper/internal/model"
)

// InstrumentRepo stores compiled instrument documents
type InstrumentRepo interface {
	GetByID(ctx context.Context, id string) (*model.Instrument, error)
	Upsert(ctx context.Context, inst *model.Instrument) error
}

type instrumentRepo struct {
	collection *mongo.Collection
}

// NewInstrumentRepo creates a new instrument repository
func NewInstrumentRepo(db *mongo.Database) InstrumentRepo {
	return &instrumentRepo{
		collection: db.Collection("instruments"),
	}
}

func (r *instrumentRepo) GetByID(ctx context.Context, id string) (*model.Instrument, error) {
	var inst model.Instrument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inst)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *instrumentRepo) Upsert(ctx context.Context, inst *model.Instrument) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": inst.ID}, inst, opts)
	return err
}
