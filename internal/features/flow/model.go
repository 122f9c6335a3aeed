package flow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RunCounts summarizes run outcomes for a flow.
type RunCounts struct {
	Completed   int `json:"completed" bson:"completed"`
	Interrupted int `json:"interrupted" bson:"interrupted"`
	Expired     int `json:"expired" bson:"expired"`
}

// RuleField is a chartable result collected by a flow ruleset,
// e.g. {key: "age", label: "Age"}. Dashboard fields are seeded from these.
type RuleField struct {
	Key   string `json:"key" bson:"key"`
	Label string `json:"label" bson:"label"`
}

// Flow is a read-only record synced from the upstream flow engine.
type Flow struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UUID      string             `json:"uuid" bson:"uuid"`
	Name      string             `json:"name" bson:"name"`
	Archived  bool               `json:"archived" bson:"archived"`
	Labels    []string           `json:"labels" bson:"labels"`
	Expires   int                `json:"expires" bson:"expires"` // minutes
	Runs      RunCounts          `json:"runs" bson:"runs"`
	Contacts  int                `json:"contacts" bson:"contacts"`
	Rules     []RuleField        `json:"rules" bson:"rules"`
	CreatedOn time.Time          `json:"created_on" bson:"created_on"`
}
