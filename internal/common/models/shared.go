package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionReport AuditAction = "REPORT"
	AuditActionSync   AuditAction = "SYNC"
	AuditActionCron   AuditAction = "CRON"
	AuditActionGroup  AuditAction = "GROUP"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action     AuditAction        `bson:"action" json:"action"`
	Collection string             `bson:"collection" json:"collection"` // The collection name
	RecordID   string             `bson:"record_id" json:"record_id"`   // The ID of the record being modified
	ActorID    string             `bson:"actor_id" json:"actor_id"`     // User ID who performed the action
	Changes    map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the document shape written by the async zap DB writer.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	IpAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	SessionID    string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
