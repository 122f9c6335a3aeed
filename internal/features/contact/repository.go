package contact

import (
	"context"
	"time"

	"flowdash/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContactRepository interface {
	List(ctx context.Context, limit, offset int64) ([]Contact, error)
	ListAll(ctx context.Context) ([]Contact, error)
	ListByGroup(ctx context.Context, groupUUID string) ([]Contact, error)
	Count(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, contact *Contact) error
}

type ContactRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewContactRepository(db *database.MongodbDB) ContactRepository {
	return &ContactRepositoryImpl{
		Collection: db.DB.Collection("contacts"),
	}
}

func (r *ContactRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]Contact, error) {
	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.M{"created_on": -1})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepositoryImpl) ListAll(ctx context.Context) ([]Contact, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepositoryImpl) ListByGroup(ctx context.Context, groupUUID string) ([]Contact, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"group_uuids": groupUUID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

func (r *ContactRepositoryImpl) Upsert(ctx context.Context, contact *Contact) error {
	if contact.CreatedOn.IsZero() {
		contact.CreatedOn = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"uuid": contact.UUID}, contact, opts)
	return err
}
