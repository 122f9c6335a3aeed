package flow

import (
	"context"

	"flowdash/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FlowRepository interface {
	List(ctx context.Context) ([]Flow, error)
	GetByUUID(ctx context.Context, uuid string) (*Flow, error)
	Upsert(ctx context.Context, flow *Flow) error
}

type FlowRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFlowRepository(db *database.MongodbDB) FlowRepository {
	return &FlowRepositoryImpl{
		Collection: db.DB.Collection("flows"),
	}
}

func (r *FlowRepositoryImpl) List(ctx context.Context) ([]Flow, error) {
	opts := options.Find().SetSort(bson.M{"created_on": -1})
	cursor, err := r.Collection.Find(ctx, bson.M{"archived": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flows []Flow
	if err := cursor.All(ctx, &flows); err != nil {
		return nil, err
	}
	return flows, nil
}

func (r *FlowRepositoryImpl) GetByUUID(ctx context.Context, uuid string) (*Flow, error) {
	var flow Flow
	if err := r.Collection.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

func (r *FlowRepositoryImpl) Upsert(ctx context.Context, flow *Flow) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"uuid": flow.UUID}, flow, opts)
	return err
}
