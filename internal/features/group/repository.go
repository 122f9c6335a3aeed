package group

import (
	"context"
	"time"

	"flowdash/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GroupRepository interface {
	List(ctx context.Context) ([]Group, error)
	GetByUUID(ctx context.Context, uuid string) (*Group, error)
	Upsert(ctx context.Context, group *Group) error
	UpdateCount(ctx context.Context, uuid string, count int) error
}

type GroupRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewGroupRepository(db *database.MongodbDB) GroupRepository {
	return &GroupRepositoryImpl{
		Collection: db.DB.Collection("groups"),
	}
}

func (r *GroupRepositoryImpl) List(ctx context.Context) ([]Group, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GroupRepositoryImpl) GetByUUID(ctx context.Context, uuid string) (*Group, error) {
	var group Group
	if err := r.Collection.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) Upsert(ctx context.Context, group *Group) error {
	now := time.Now()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now
	opts := options.Replace().SetUpsert(true)
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"uuid": group.UUID}, group, opts)
	return err
}

func (r *GroupRepositoryImpl) UpdateCount(ctx context.Context, uuid string, count int) error {
	update := bson.M{"$set": bson.M{"count": count, "updated_at": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"uuid": uuid}, update)
	return err
}
