package dashboard

import (
	"flowdash/internal/features/flow"
	"flowdash/internal/features/report"
)

// State is the working state of one dashboard session: the ordered
// field list, the filter and segment lists, and the currently bound
// report. All operations are synchronous in-memory transitions;
// operations referencing an entity that is no longer present are
// silent no-ops so the UI stays resilient to stale references.
type State struct {
	Fields   []*Field
	Filters  []*Filter
	Segments []*Segment

	// Report is the currently bound saved report, nil for a fresh
	// workspace. Dirty tracks divergence from it since load/save.
	Report *report.Report
	Dirty  bool
}

func NewState() *State {
	return &State{}
}

// Phase derives the session lifecycle stage.
func (s *State) Phase() Phase {
	switch {
	case s.Report == nil && len(s.Fields) == 0:
		return PhaseEmpty
	case s.Report == nil:
		return PhaseConfiguring
	case s.Dirty:
		return PhaseDirty
	default:
		return PhaseClean
	}
}

// markDirty records a config mutation. Divergence is only meaningful
// once a report is bound.
func (s *State) markDirty() {
	if s.Report != nil {
		s.Dirty = true
	}
}

func (s *State) findField(key string) *Field {
	for _, f := range s.Fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

func (s *State) findFilter(fieldKey string) *Filter {
	for _, f := range s.Filters {
		if f.FieldKey == fieldKey {
			return f
		}
	}
	return nil
}

func (s *State) findSegment(fieldKey string) *Segment {
	for _, seg := range s.Segments {
		if seg.FieldKey == fieldKey {
			return seg
		}
	}
	return nil
}

// ActiveSegment returns the single active segment, or nil.
func (s *State) ActiveSegment() *Segment {
	for _, seg := range s.Segments {
		if seg.IsSegment {
			return seg
		}
	}
	return nil
}

// AddFlowFields appends a field for each of the flow's rule fields.
// A field already present for the same rule key is re-activated
// instead of duplicated.
func (s *State) AddFlowFields(f *flow.Flow) {
	changed := false
	for _, rule := range f.Rules {
		if existing := s.findField(rule.Key); existing != nil {
			if !existing.IsVisible {
				existing.IsVisible = true
				changed = true
			}
			continue
		}
		s.Fields = append(s.Fields, &Field{
			Key:       rule.Key,
			Label:     rule.Label,
			IsVisible: true,
			ChartType: ChartTypeBar,
			ChartSize: ChartSizeSingle,
		})
		changed = true
	}
	if changed {
		s.markDirty()
	}
}

// RemoveField removes a field and every filter and segment derived
// from it, so no dangling references remain.
func (s *State) RemoveField(key string) {
	idx := -1
	for i, f := range s.Fields {
		if f.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.Fields = append(s.Fields[:idx], s.Fields[idx+1:]...)

	filters := s.Filters[:0]
	for _, f := range s.Filters {
		if f.FieldKey != key {
			filters = append(filters, f)
		}
	}
	s.Filters = filters

	segments := s.Segments[:0]
	for _, seg := range s.Segments {
		if seg.FieldKey != key {
			segments = append(segments, seg)
		}
	}
	s.Segments = segments

	s.markDirty()
}

// ReorderFields atomically applies a new field order. Unknown keys are
// skipped and fields missing from keys keep their relative order at
// the end, so a stale reorder can never lose fields.
func (s *State) ReorderFields(keys []string) {
	reordered := make([]*Field, 0, len(s.Fields))
	taken := make(map[string]bool, len(keys))
	for _, key := range keys {
		if f := s.findField(key); f != nil && !taken[key] {
			reordered = append(reordered, f)
			taken[key] = true
		}
	}
	for _, f := range s.Fields {
		if !taken[f.Key] {
			reordered = append(reordered, f)
		}
	}

	changed := false
	for i := range reordered {
		if reordered[i] != s.Fields[i] {
			changed = true
			break
		}
	}
	s.Fields = reordered
	if changed {
		s.markDirty()
	}
}

// ToggleVisibility flips a field's visibility without touching its
// loaded or chart state.
func (s *State) ToggleVisibility(key string) {
	if f := s.findField(key); f != nil {
		f.IsVisible = !f.IsVisible
		s.markDirty()
	}
}

func (s *State) SetChartType(key string, chartType ChartType) {
	f := s.findField(key)
	if f == nil || f.ChartType == chartType {
		return
	}
	f.ChartType = chartType
	s.markDirty()
}

// SetChartSize constrains size to the enumerated grid spans.
func (s *State) SetChartSize(key string, size int) {
	if size != ChartSizeSingle && size != ChartSizeDouble {
		return
	}
	f := s.findField(key)
	if f == nil || f.ChartSize == size {
		return
	}
	f.ChartSize = size
	s.markDirty()
}

func (s *State) ToggleChoropleth(key string) {
	if f := s.findField(key); f != nil {
		f.ShowChoropleth = !f.ShowChoropleth
		s.markDirty()
	}
}

func (s *State) ToggleDataTable(key string) {
	if f := s.findField(key); f != nil {
		f.ShowDataTable = !f.ShowDataTable
		s.markDirty()
	}
}

// AddFilter creates a filter over the field's categories. Adding a
// filter that already exists for the field is a no-op.
func (s *State) AddFilter(fieldKey string) {
	f := s.findField(fieldKey)
	if f == nil || s.findFilter(fieldKey) != nil {
		return
	}
	filter := &Filter{
		FieldKey:   fieldKey,
		Label:      f.Label,
		IsActive:   true,
		Categories: copyCategorySelections(f.Categories),
	}
	s.Filters = append(s.Filters, filter)
	s.markDirty()
}

// AddGroupFilter creates the singleton group filter with one category
// per contact group.
func (s *State) AddGroupFilter(groups []Category) {
	if s.findFilter(GroupFieldKey) != nil {
		return
	}
	filter := &Filter{
		FieldKey:      GroupFieldKey,
		Label:         "Groups",
		IsActive:      true,
		IsGroupFilter: true,
		Categories:    copyCategorySelections(groups),
	}
	s.Filters = append(s.Filters, filter)
	s.markDirty()
}

func (s *State) ToggleFilter(fieldKey string) {
	if f := s.findFilter(fieldKey); f != nil {
		f.IsActive = !f.IsActive
		s.markDirty()
	}
}

func (s *State) RemoveFilter(fieldKey string) {
	for i, f := range s.Filters {
		if f.FieldKey == fieldKey {
			s.Filters = append(s.Filters[:i], s.Filters[i+1:]...)
			s.markDirty()
			return
		}
	}
}

// ToggleCategoryFilter flips the named category's selection within a
// filter. Selecting a category on a group filter drops the
// show-all-contacts pass-through, since the user is narrowing again.
func (s *State) ToggleCategoryFilter(fieldKey, categoryLabel string) {
	f := s.findFilter(fieldKey)
	if f == nil {
		return
	}
	for i := range f.Categories {
		if f.Categories[i].Label == categoryLabel {
			f.Categories[i].IsFilter = !f.Categories[i].IsFilter
			f.ShowAllContacts = false
			s.markDirty()
			return
		}
	}
}

// ActivateAllContacts makes a group filter pass every contact while
// keeping its category selections inspectable.
func (s *State) ActivateAllContacts(fieldKey string) {
	f := s.findFilter(fieldKey)
	if f == nil || !f.IsGroupFilter || f.ShowAllContacts {
		return
	}
	f.ShowAllContacts = true
	s.markDirty()
}

// AddSegment creates a segment over the field's categories and makes
// it the active one. Adding an existing segment just re-activates it.
func (s *State) AddSegment(fieldKey string) {
	if existing := s.findSegment(fieldKey); existing != nil {
		s.activate(existing)
		return
	}
	f := s.findField(fieldKey)
	if f == nil {
		return
	}
	seg := &Segment{
		FieldKey:   fieldKey,
		Label:      f.Label,
		Categories: colorize(copyCategorySelections(f.Categories)),
	}
	s.Segments = append(s.Segments, seg)
	s.activate(seg)
}

// AddGroupSegment creates the singleton group segment with one
// category per contact group and makes it active.
func (s *State) AddGroupSegment(groups []Category) {
	if existing := s.findSegment(GroupFieldKey); existing != nil {
		s.activate(existing)
		return
	}
	seg := &Segment{
		FieldKey:       GroupFieldKey,
		Label:          "Groups",
		IsGroupSegment: true,
		Categories:     colorize(copyCategorySelections(groups)),
	}
	s.Segments = append(s.Segments, seg)
	s.activate(seg)
}

// activate enforces the single-active-segment invariant.
func (s *State) activate(seg *Segment) {
	for _, other := range s.Segments {
		other.IsSegment = other == seg
	}
	s.markDirty()
}

func (s *State) RemoveSegment(fieldKey string) {
	for i, seg := range s.Segments {
		if seg.FieldKey == fieldKey {
			s.Segments = append(s.Segments[:i], s.Segments[i+1:]...)
			s.markDirty()
			return
		}
	}
}

// ToggleSegment deactivates an active segment, or activates an
// inactive one (deactivating whichever was active).
func (s *State) ToggleSegment(fieldKey string) {
	seg := s.findSegment(fieldKey)
	if seg == nil {
		return
	}
	if seg.IsSegment {
		seg.IsSegment = false
		s.markDirty()
		return
	}
	s.activate(seg)
}

// ToggleCategorySegment flips a category's selection within the active
// segment only; inactive segments ignore it.
func (s *State) ToggleCategorySegment(fieldKey, categoryLabel string) {
	seg := s.findSegment(fieldKey)
	if seg == nil || !seg.IsSegment {
		return
	}
	for i := range seg.Categories {
		if seg.Categories[i].Label == categoryLabel {
			seg.Categories[i].IsSegment = !seg.Categories[i].IsSegment
			s.markDirty()
			return
		}
	}
}

// ApplyResults stores freshly computed chart data on a field and marks
// it loaded. Data arrival is not a config change so the dirty flag is
// untouched. Filter and segment category lists derived from this field
// pick up categories that appeared in the data.
func (s *State) ApplyResults(key string, total int, categories []Category, series []Series) {
	f := s.findField(key)
	if f == nil {
		return
	}
	f.Total = total
	f.Categories = categories
	f.Series = series
	f.IsLoaded = true

	if filter := s.findFilter(key); filter != nil && !filter.IsGroupFilter {
		filter.Categories = mergeCategories(filter.Categories, categories)
	}
	if seg := s.findSegment(key); seg != nil && !seg.IsGroupSegment {
		seg.Categories = colorize(mergeCategories(seg.Categories, categories))
	}
}

// ShowReport replaces the working configuration with the report's and
// binds it as the current report, leaving the session clean.
func (s *State) ShowReport(r *report.Report) {
	s.bind(r.Config)
	s.Report = r
	s.Dirty = false
}

// BindSaved is ShowReport without rebuilding the working state: after a
// successful save the in-memory config already matches the snapshot.
func (s *State) BindSaved(r *report.Report) {
	s.Report = r
	s.Dirty = false
}

// ClearReport detaches the current report, keeping the working
// configuration.
func (s *State) ClearReport() {
	s.Report = nil
	s.Dirty = false
}

// copyCategorySelections clones categories resetting selection flags
// and counts; source ordering is preserved.
func copyCategorySelections(categories []Category) []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Label: c.Label, Value: c.Value}
	}
	return out
}

// mergeCategories appends categories from data that the selection list
// does not know yet, preserving existing selection flags.
func mergeCategories(existing, loaded []Category) []Category {
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Label] = true
	}
	for _, c := range loaded {
		if !known[c.Label] {
			existing = append(existing, Category{Label: c.Label, Value: c.Value})
		}
	}
	return existing
}

func colorize(categories []Category) []Category {
	for i := range categories {
		if categories[i].Color == "" {
			categories[i].Color = segmentColors[i%len(segmentColors)]
		}
	}
	return categories
}
