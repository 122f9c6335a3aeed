package results

// FilterSpec is one active dashboard filter, reduced to what the stats
// computation needs. Values are field category values, or group UUIDs
// when IsGroupFilter is set. An empty Values list passes everything.
type FilterSpec struct {
	FieldKey        string
	IsGroupFilter   bool
	ShowAllContacts bool
	Values          []string
}

// SegmentSpec is the active dashboard segment, if any. Values carry the
// selected category values (group UUIDs for group segments); empty
// means all categories.
type SegmentSpec struct {
	FieldKey       string
	IsGroupSegment bool
	Values         []string
	Labels         map[string]string // value -> display label, for group segments
}

type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Series is one segment slice of a field's chart data.
type Series struct {
	Label      string          `json:"label"`
	Categories []CategoryCount `json:"categories"`
}

// FieldStats is the chart data computed for one field: overall category
// counts plus one series per segment category when a segment is active.
type FieldStats struct {
	FieldKey   string          `json:"field_key"`
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	Series     []Series        `json:"series,omitempty"`
}

// StatsRequest describes a single field-statistics computation.
type StatsRequest struct {
	FieldKey string
	Filters  []FilterSpec
	Segment  *SegmentSpec
}
