package sync

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EntityFlows    = "flows"
	EntityGroups   = "groups"
	EntityContacts = "contacts"
)

// SyncSetting describes one upstream flow-engine database to pull from.
// Entities lists which seed collections the setting refreshes.
type SyncSetting struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	DSN        string             `json:"dsn" bson:"dsn"`
	Entities   []string           `json:"entities" bson:"entities"` // "flows", "groups", "contacts"
	IsActive   bool               `json:"is_active" bson:"is_active"`
	LastSyncAt time.Time          `json:"last_sync_at" bson:"last_sync_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

type SyncLog struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SyncSettingID  primitive.ObjectID `json:"sync_setting_id" bson:"sync_setting_id"`
	StartTime      time.Time          `json:"start_time" bson:"start_time"`
	EndTime        time.Time          `json:"end_time" bson:"end_time"`
	Status         string             `json:"status" bson:"status"` // "success", "failed", "in_progress"
	ProcessedCount int                `json:"processed_count" bson:"processed_count"`
	Error          string             `json:"error,omitempty" bson:"error,omitempty"`
}
