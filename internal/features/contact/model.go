package contact

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a read-only record synced from the upstream flow engine.
// Field values are keyed by contact-field key (e.g. "age", "state").
type Contact struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UUID       string                 `json:"uuid" bson:"uuid"`
	Name       string                 `json:"name" bson:"name"`
	URN        string                 `json:"urn" bson:"urn"` // e.g. "tel:+250788123123"
	GroupUUIDs []string               `json:"group_uuids" bson:"group_uuids"`
	Fields     map[string]interface{} `json:"fields" bson:"fields"`
	CreatedOn  time.Time              `json:"created_on" bson:"created_on"`
}
