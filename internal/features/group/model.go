package group

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a contact group synced from the upstream flow engine. Static
// groups enumerate members by uuid; dynamic groups carry a query
// expression evaluated against each contact's fields.
type Group struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UUID      string             `json:"uuid" bson:"uuid"`
	Name      string             `json:"name" bson:"name"`
	Query     string             `json:"query,omitempty" bson:"query,omitempty"`
	Count     int                `json:"count" bson:"count"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsDynamic reports whether membership is query-driven.
func (g *Group) IsDynamic() bool {
	return g.Query != ""
}
