package dashboard

import (
	"testing"

	"flowdash/internal/features/flow"
	"flowdash/internal/features/report"
)

func testFlow() *flow.Flow {
	return &flow.Flow{
		UUID: "flow-1",
		Name: "Registration",
		Rules: []flow.RuleField{
			{Key: "gender", Label: "Gender"},
			{Key: "age", Label: "Age Group"},
			{Key: "state", Label: "State"},
		},
	}
}

func fieldKeys(s *State) []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func TestAddFlowFieldsNoDuplicates(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())

	if len(s.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(s.Fields))
	}

	// Same flow again must not duplicate.
	s.AddFlowFields(testFlow())
	if len(s.Fields) != 3 {
		t.Errorf("expected 3 fields after re-add, got %d", len(s.Fields))
	}

	// A hidden field is re-activated instead of duplicated.
	s.ToggleVisibility("age")
	if s.findField("age").IsVisible {
		t.Fatal("expected age to be hidden")
	}
	s.AddFlowFields(testFlow())
	if len(s.Fields) != 3 {
		t.Errorf("expected 3 fields, got %d", len(s.Fields))
	}
	if !s.findField("age").IsVisible {
		t.Error("expected re-added field to be visible again")
	}
}

func TestVisibilityAndLoadedAreIndependent(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())

	s.ApplyResults("gender", 10, []Category{{Label: "Female", Count: 6}, {Label: "Male", Count: 4}}, nil)

	f := s.findField("gender")
	if !f.IsLoaded || !f.IsVisible {
		t.Fatal("expected field loaded and visible")
	}
	if !f.ShowsChart() {
		t.Error("loaded visible field should show its chart")
	}

	s.ToggleVisibility("gender")
	if !f.IsLoaded {
		t.Error("hiding a field must not unload its data")
	}
	if f.ShowsChart() {
		t.Error("hidden field must not show its chart")
	}

	s.ToggleVisibility("gender")
	if !f.ShowsChart() {
		t.Error("re-shown field should render without reloading")
	}
}

func TestRemoveFieldCleansReferences(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())
	s.AddFilter("gender")
	s.AddSegment("gender")
	s.AddFilter("age")

	s.RemoveField("gender")

	if s.findField("gender") != nil {
		t.Error("field should be gone")
	}
	if s.findFilter("gender") != nil {
		t.Error("filter derived from removed field should be gone")
	}
	if s.findSegment("gender") != nil {
		t.Error("segment derived from removed field should be gone")
	}
	if s.findFilter("age") == nil {
		t.Error("unrelated filter must survive")
	}
}

func TestSingleActiveSegment(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())

	s.AddSegment("gender")
	s.AddSegment("age")

	active := 0
	for _, seg := range s.Segments {
		if seg.IsSegment {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active segment, got %d", active)
	}
	if s.ActiveSegment().FieldKey != "age" {
		t.Errorf("expected most recent segment active, got %s", s.ActiveSegment().FieldKey)
	}

	// Re-adding an existing segment re-activates it.
	s.AddSegment("gender")
	if s.ActiveSegment().FieldKey != "gender" {
		t.Errorf("expected gender active after re-add, got %s", s.ActiveSegment().FieldKey)
	}

	// Toggling the active segment off leaves none active.
	s.ToggleSegment("gender")
	if s.ActiveSegment() != nil {
		t.Error("expected no active segment after toggle off")
	}

	// Toggling an inactive one on deactivates the rest.
	s.ToggleSegment("age")
	s.ToggleSegment("gender")
	if s.ActiveSegment().FieldKey != "gender" {
		t.Error("expected gender to be the only active segment")
	}
}

func TestToggleCategorySegmentActiveOnly(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())
	s.ApplyResults("gender", 10, []Category{{Label: "Female"}, {Label: "Male"}}, nil)
	s.AddSegment("gender")
	s.AddSegment("age") // deactivates gender

	s.ToggleCategorySegment("gender", "Female")
	for _, c := range s.findSegment("gender").Categories {
		if c.IsSegment {
			t.Error("inactive segment categories must not toggle")
		}
	}

	s.ToggleSegment("gender")
	s.ToggleCategorySegment("gender", "Female")
	found := false
	for _, c := range s.findSegment("gender").Categories {
		if c.Label == "Female" && c.IsSegment {
			found = true
		}
	}
	if !found {
		t.Error("active segment category should toggle")
	}
}

func TestDirtyLifecycle(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())
	s.AddFilter("gender")

	// No report bound: mutations never mark dirty.
	s.RemoveField("age")
	if s.Dirty {
		t.Fatal("no report bound, dirty must stay false")
	}
	if s.Phase() != PhaseConfiguring {
		t.Fatalf("expected configuring phase, got %s", s.Phase())
	}

	r := &report.Report{Title: "Weekly", Config: s.Serialize()}
	s.ShowReport(r)
	if s.Dirty || s.Phase() != PhaseClean {
		t.Fatalf("freshly shown report must be clean, phase=%s", s.Phase())
	}

	s.ToggleVisibility("gender")
	if !s.Dirty || s.Phase() != PhaseDirty {
		t.Fatalf("config change with report bound must dirty, phase=%s", s.Phase())
	}

	// Data arrival is not a config change.
	s.Dirty = false
	s.ApplyResults("gender", 5, []Category{{Label: "Female"}}, nil)
	if s.Dirty {
		t.Error("loading data must not dirty the session")
	}

	s.BindSaved(r)
	if s.Dirty {
		t.Error("binding a saved report must leave the session clean")
	}

	s.ClearReport()
	if s.Report != nil || s.Dirty {
		t.Error("clearing the report detaches it and resets dirty")
	}
	if len(s.Fields) == 0 {
		t.Error("clearing the report keeps the working configuration")
	}
}

func TestReorderFieldsStaleTolerant(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())

	// Unknown key skipped, missing keys keep relative order at the end.
	s.ReorderFields([]string{"state", "bogus", "gender"})
	got := fieldKeys(s)
	want := []string{"state", "gender", "age"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, got, want)
		}
	}

	// Duplicate keys must not duplicate fields.
	s.ReorderFields([]string{"age", "age", "age"})
	if len(s.Fields) != 3 {
		t.Errorf("expected 3 fields after reorder, got %d", len(s.Fields))
	}
}

func TestChartSettings(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())

	s.SetChartType("gender", ChartTypePie)
	if s.findField("gender").ChartType != ChartTypePie {
		t.Error("chart type not applied")
	}

	s.SetChartSize("gender", ChartSizeDouble)
	if s.findField("gender").ChartSize != ChartSizeDouble {
		t.Error("chart size not applied")
	}

	// Out-of-range sizes are rejected.
	s.SetChartSize("gender", 3)
	if s.findField("gender").ChartSize != ChartSizeDouble {
		t.Error("invalid chart size must be ignored")
	}

	// Stale keys are silent no-ops.
	s.SetChartType("missing", ChartTypeLine)
	s.SetChartSize("missing", ChartSizeSingle)
	s.ToggleChoropleth("missing")
	s.ToggleDataTable("missing")
}

func TestGroupFilterAllContacts(t *testing.T) {
	s := NewState()
	groups := []Category{
		{Label: "Pregnant Women", Value: "g-1"},
		{Label: "Health Workers", Value: "g-2"},
	}
	s.AddGroupFilter(groups)

	// Singleton: second add is a no-op.
	s.AddGroupFilter(groups)
	if len(s.Filters) != 1 {
		t.Fatalf("expected singleton group filter, got %d", len(s.Filters))
	}

	s.ToggleCategoryFilter(GroupFieldKey, "Pregnant Women")
	s.ActivateAllContacts(GroupFieldKey)

	f := s.findFilter(GroupFieldKey)
	if !f.ShowAllContacts {
		t.Fatal("expected show-all-contacts on")
	}
	if !f.Categories[0].IsFilter {
		t.Error("all-contacts keeps category selections")
	}

	// Narrowing again drops the pass-through.
	s.ToggleCategoryFilter(GroupFieldKey, "Health Workers")
	if f.ShowAllContacts {
		t.Error("toggling a category must clear show-all-contacts")
	}
}

func TestActivateAllContactsFieldFilterNoOp(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())
	s.AddFilter("gender")

	s.ActivateAllContacts("gender")
	if s.findFilter("gender").ShowAllContacts {
		t.Error("all-contacts only applies to group filters")
	}
}

func TestFilterLifecycle(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())
	s.ApplyResults("gender", 10, []Category{{Label: "Female"}, {Label: "Male"}}, nil)

	s.AddFilter("gender")
	s.AddFilter("gender") // idempotent
	if len(s.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(s.Filters))
	}

	f := s.findFilter("gender")
	if len(f.Categories) != 2 {
		t.Fatalf("filter should carry the field's categories, got %d", len(f.Categories))
	}
	for _, c := range f.Categories {
		if c.IsFilter {
			t.Error("fresh filter categories start unselected")
		}
	}

	s.ToggleFilter("gender")
	if f.IsActive {
		t.Error("filter should toggle inactive")
	}

	// New categories from later data loads join the filter list.
	s.ApplyResults("gender", 12, []Category{{Label: "Female"}, {Label: "Male"}, {Label: "Other"}}, nil)
	if len(f.Categories) != 3 {
		t.Errorf("expected merged categories, got %d", len(f.Categories))
	}

	s.RemoveFilter("gender")
	if s.findFilter("gender") != nil {
		t.Error("filter should be removed")
	}
	s.RemoveFilter("gender") // stale removal is a no-op
}

func TestSerializeBindRoundTrip(t *testing.T) {
	s := NewState()
	s.AddFlowFields(testFlow())
	s.ApplyResults("gender", 10, []Category{{Label: "Female"}, {Label: "Male"}}, nil)
	s.SetChartType("gender", ChartTypeDonut)
	s.SetChartSize("gender", ChartSizeDouble)
	s.AddFilter("gender")
	s.ToggleCategoryFilter("gender", "Female")
	s.AddSegment("age")

	cfg := s.Serialize()

	restored := NewState()
	restored.bind(cfg)

	if len(restored.Fields) != 3 {
		t.Fatalf("expected 3 restored fields, got %d", len(restored.Fields))
	}
	g := restored.findField("gender")
	if g.ChartType != ChartTypeDonut || g.ChartSize != ChartSizeDouble {
		t.Error("chart settings should survive the round trip")
	}
	if g.IsLoaded {
		t.Error("restored fields come back unloaded")
	}

	f := restored.findFilter("gender")
	if f == nil {
		t.Fatal("filter missing after bind")
	}
	selected := false
	for _, c := range f.Categories {
		if c.Label == "Female" && c.IsFilter {
			selected = true
		}
	}
	if !selected {
		t.Error("category selections should survive the round trip")
	}

	if restored.ActiveSegment() == nil || restored.ActiveSegment().FieldKey != "age" {
		t.Error("active segment should survive the round trip")
	}
}

func TestBindToleratesMultipleActiveSegments(t *testing.T) {
	cfg := report.Config{
		Segments: []report.SegmentConfig{
			{FieldKey: "gender", IsSegment: true},
			{FieldKey: "age", IsSegment: true},
		},
	}

	s := NewState()
	s.bind(cfg)

	active := 0
	for _, seg := range s.Segments {
		if seg.IsSegment {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected one active segment after bind, got %d", active)
	}
	if s.ActiveSegment().FieldKey != "gender" {
		t.Error("first active segment in the snapshot wins")
	}
}
