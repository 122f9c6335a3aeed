package cron_feature

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskType string

const (
	TaskDataSync           TaskType = "data_sync"
	TaskRefreshGroupCounts TaskType = "refresh_group_counts"
)

// CronJob is a scheduled maintenance task. Schedule uses standard
// five-field cron syntax.
type CronJob struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Name        string                 `json:"name" bson:"name"`
	Description string                 `json:"description,omitempty" bson:"description,omitempty"`
	Schedule    string                 `json:"schedule" bson:"schedule"`
	Task        TaskType               `json:"task" bson:"task"`
	Config      map[string]interface{} `json:"config,omitempty" bson:"config,omitempty"`
	Active      bool                   `json:"active" bson:"active"`
	LastRun     *time.Time             `json:"last_run,omitempty" bson:"last_run,omitempty"`
	NextRun     *time.Time             `json:"next_run,omitempty" bson:"next_run,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" bson:"updated_at"`
}

// CronJobLog records a single execution of a cron job.
type CronJobLog struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CronJobID   primitive.ObjectID `json:"cron_job_id" bson:"cron_job_id"`
	CronJobName string             `json:"cron_job_name" bson:"cron_job_name"`
	StartTime   time.Time          `json:"start_time" bson:"start_time"`
	EndTime     *time.Time         `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status      string             `json:"status" bson:"status"` // "success", "failed", "running"
	Affected    int                `json:"affected" bson:"affected"`
	Error       string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
