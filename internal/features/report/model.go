package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryConfig is one category of a saved filter or segment.
type CategoryConfig struct {
	Label     string `json:"label" bson:"label"`
	Value     string `json:"value,omitempty" bson:"value,omitempty"`
	Color     string `json:"color,omitempty" bson:"color,omitempty"`
	IsFilter  bool   `json:"is_filter" bson:"is_filter"`
	IsSegment bool   `json:"is_segment" bson:"is_segment"`
}

// FieldConfig captures the presentation of one dashboard field.
type FieldConfig struct {
	Key            string `json:"key" bson:"key"`
	Label          string `json:"label" bson:"label"`
	IsVisible      bool   `json:"is_visible" bson:"is_visible"`
	ChartType      string `json:"chart_type" bson:"chart_type"`
	ChartSize      int    `json:"chart_size" bson:"chart_size"`
	ShowChoropleth bool   `json:"show_choropleth" bson:"show_choropleth"`
	ShowDataTable  bool   `json:"show_data_table" bson:"show_data_table"`
}

// FilterConfig captures one saved filter and its category selections.
type FilterConfig struct {
	FieldKey        string           `json:"field_key" bson:"field_key"`
	Label           string           `json:"label" bson:"label"`
	IsActive        bool             `json:"is_active" bson:"is_active"`
	IsGroupFilter   bool             `json:"is_group_filter" bson:"is_group_filter"`
	ShowAllContacts bool             `json:"show_all_contacts" bson:"show_all_contacts"`
	Categories      []CategoryConfig `json:"categories" bson:"categories"`
}

// SegmentConfig captures one saved segment and its category selections.
type SegmentConfig struct {
	FieldKey       string           `json:"field_key" bson:"field_key"`
	Label          string           `json:"label" bson:"label"`
	IsSegment      bool             `json:"is_segment" bson:"is_segment"`
	IsGroupSegment bool             `json:"is_group_segment" bson:"is_group_segment"`
	Categories     []CategoryConfig `json:"categories" bson:"categories"`
}

// Config is the serialized dashboard layout a report snapshots: the
// ordered fields with their chart settings plus filter and segment
// selections.
type Config struct {
	Fields   []FieldConfig   `json:"fields" bson:"fields"`
	Filters  []FilterConfig  `json:"filters" bson:"filters"`
	Segments []SegmentConfig `json:"segments" bson:"segments"`
}

// Report is a named, persisted dashboard configuration.
type Report struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Config      Config             `json:"config" bson:"config"`
	CreatedBy   string             `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
