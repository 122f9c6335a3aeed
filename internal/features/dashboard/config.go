package dashboard

import (
	"flowdash/internal/features/report"
)

// Serialize snapshots the working configuration into the form reports
// persist. Loaded chart data is not part of a report; it is recomputed
// when the report is shown.
func (s *State) Serialize() report.Config {
	cfg := report.Config{
		Fields:   make([]report.FieldConfig, 0, len(s.Fields)),
		Filters:  make([]report.FilterConfig, 0, len(s.Filters)),
		Segments: make([]report.SegmentConfig, 0, len(s.Segments)),
	}

	for _, f := range s.Fields {
		cfg.Fields = append(cfg.Fields, report.FieldConfig{
			Key:            f.Key,
			Label:          f.Label,
			IsVisible:      f.IsVisible,
			ChartType:      string(f.ChartType),
			ChartSize:      f.ChartSize,
			ShowChoropleth: f.ShowChoropleth,
			ShowDataTable:  f.ShowDataTable,
		})
	}

	for _, f := range s.Filters {
		cfg.Filters = append(cfg.Filters, report.FilterConfig{
			FieldKey:        f.FieldKey,
			Label:           f.Label,
			IsActive:        f.IsActive,
			IsGroupFilter:   f.IsGroupFilter,
			ShowAllContacts: f.ShowAllContacts,
			Categories:      serializeCategories(f.Categories),
		})
	}

	for _, seg := range s.Segments {
		cfg.Segments = append(cfg.Segments, report.SegmentConfig{
			FieldKey:       seg.FieldKey,
			Label:          seg.Label,
			IsSegment:      seg.IsSegment,
			IsGroupSegment: seg.IsGroupSegment,
			Categories:     serializeCategories(seg.Categories),
		})
	}

	return cfg
}

// bind rebuilds the working state from a saved configuration. Fields
// come back unloaded; their data is fetched again after binding.
func (s *State) bind(cfg report.Config) {
	s.Fields = make([]*Field, 0, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		chartType := ChartType(fc.ChartType)
		if chartType == "" {
			chartType = ChartTypeBar
		}
		size := fc.ChartSize
		if size != ChartSizeSingle && size != ChartSizeDouble {
			size = ChartSizeSingle
		}
		s.Fields = append(s.Fields, &Field{
			Key:            fc.Key,
			Label:          fc.Label,
			IsVisible:      fc.IsVisible,
			ChartType:      chartType,
			ChartSize:      size,
			ShowChoropleth: fc.ShowChoropleth,
			ShowDataTable:  fc.ShowDataTable,
		})
	}

	s.Filters = make([]*Filter, 0, len(cfg.Filters))
	for _, fc := range cfg.Filters {
		s.Filters = append(s.Filters, &Filter{
			FieldKey:        fc.FieldKey,
			Label:           fc.Label,
			IsActive:        fc.IsActive,
			IsGroupFilter:   fc.IsGroupFilter,
			ShowAllContacts: fc.ShowAllContacts,
			Categories:      bindCategories(fc.Categories),
		})
	}

	s.Segments = make([]*Segment, 0, len(cfg.Segments))
	var active *Segment
	for _, sc := range cfg.Segments {
		seg := &Segment{
			FieldKey:       sc.FieldKey,
			Label:          sc.Label,
			IsGroupSegment: sc.IsGroupSegment,
			Categories:     colorize(bindCategories(sc.Categories)),
		}
		if sc.IsSegment && active == nil {
			// Tolerate malformed snapshots claiming several active
			// segments: first one wins.
			seg.IsSegment = true
			active = seg
		}
		s.Segments = append(s.Segments, seg)
	}
}

func serializeCategories(categories []Category) []report.CategoryConfig {
	out := make([]report.CategoryConfig, len(categories))
	for i, c := range categories {
		out[i] = report.CategoryConfig{
			Label:     c.Label,
			Value:     c.Value,
			Color:     c.Color,
			IsFilter:  c.IsFilter,
			IsSegment: c.IsSegment,
		}
	}
	return out
}

func bindCategories(categories []report.CategoryConfig) []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{
			Label:     c.Label,
			Value:     c.Value,
			Color:     c.Color,
			IsFilter:  c.IsFilter,
			IsSegment: c.IsSegment,
		}
	}
	return out
}
