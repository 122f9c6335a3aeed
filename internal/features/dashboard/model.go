package dashboard

type ChartType string

const (
	ChartTypeBar   ChartType = "bar"
	ChartTypeLine  ChartType = "line"
	ChartTypePie   ChartType = "pie"
	ChartTypeDonut ChartType = "donut"
	ChartTypeArea  ChartType = "area"
)

// Chart sizes in grid units. A field's chart spans one or two columns.
const (
	ChartSizeSingle = 1
	ChartSizeDouble = 2
)

// GroupFieldKey is the synthetic field key used by the group filter and
// group segment; it never collides with a flow rule key.
const GroupFieldKey = "groups"

// Phase is the dashboard session lifecycle stage, derived from state.
type Phase string

const (
	PhaseEmpty       Phase = "empty"       // no fields yet
	PhaseConfiguring Phase = "configuring" // fields present, no report bound
	PhaseClean       Phase = "clean"       // report bound, config matches
	PhaseDirty       Phase = "dirty"       // report bound, config diverges
)

// Category is one value bucket of a field, filter, or segment. Value
// carries the group UUID for group categories; otherwise it equals the
// label.
type Category struct {
	Label     string `json:"label"`
	Value     string `json:"value,omitempty"`
	Count     int    `json:"count"`
	Color     string `json:"color,omitempty"`
	IsFilter  bool   `json:"is_filter"`
	IsSegment bool   `json:"is_segment"`
}

// Series is one segment slice of a field's loaded chart data.
type Series struct {
	Label      string     `json:"label"`
	Categories []Category `json:"categories"`
}

// Field is a chartable metric on the dashboard. Visibility and loaded
// state are independent: a field can be hidden while its data is loaded,
// or visible while data is still arriving.
type Field struct {
	Key            string     `json:"key"`
	Label          string     `json:"label"`
	IsVisible      bool       `json:"is_visible"`
	IsLoaded       bool       `json:"is_loaded"`
	ChartType      ChartType  `json:"chart_type"`
	ChartSize      int        `json:"chart_size"`
	ShowChoropleth bool       `json:"show_choropleth"`
	ShowDataTable  bool       `json:"show_data_table"`
	Total          int        `json:"total"`
	Categories     []Category `json:"categories,omitempty"`
	Series         []Series   `json:"series,omitempty"`
}

// ShowsChart reports whether the rendering layer should draw this
// field's chart.
func (f *Field) ShowsChart() bool {
	return f.IsVisible && f.IsLoaded
}

// Filter narrows which contacts count toward charts. A group filter has
// group categories instead of field categories and supports the
// show-all-contacts pass-through.
type Filter struct {
	FieldKey        string     `json:"field_key"`
	Label           string     `json:"label"`
	IsActive        bool       `json:"is_active"`
	IsGroupFilter   bool       `json:"is_group_filter"`
	ShowAllContacts bool       `json:"show_all_contacts"`
	Categories      []Category `json:"categories"`
}

// Segment splits chart data into colored category slices. At most one
// segment is active (IsSegment) at a time.
type Segment struct {
	FieldKey       string     `json:"field_key"`
	Label          string     `json:"label"`
	IsSegment      bool       `json:"is_segment"`
	IsGroupSegment bool       `json:"is_group_segment"`
	Categories     []Category `json:"categories"`
}

// segmentColors is the palette assigned round-robin to segment
// categories when a segment is created.
var segmentColors = []string{
	"#2387ca", "#8a63a8", "#4fc767", "#fbd92b", "#f24b4b",
	"#32c0b8", "#ec8637", "#5b5b5b",
}
