package dashboard

import (
	"context"
	"errors"
	"fmt"

	"flowdash/internal/features/flow"
	"flowdash/internal/features/group"
	"flowdash/internal/features/report"
	"flowdash/internal/features/results"

	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Event is pushed to websocket subscribers of a session after every
// state transition.
type Event struct {
	Type     string    `json:"type"`
	FieldKey string    `json:"field_key,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// EventPublisher delivers session events to the rendering layer.
type EventPublisher interface {
	Publish(sessionID string, event interface{})
}

type DashboardService interface {
	CreateSession(ctx context.Context) (*Snapshot, error)
	GetSnapshot(sessionID string) (*Snapshot, error)
	CloseSession(sessionID string) error

	AddFlowFields(ctx context.Context, sessionID, flowUUID string) (*Snapshot, error)
	RemoveField(sessionID, fieldKey string) (*Snapshot, error)
	ReorderFields(sessionID string, keys []string) (*Snapshot, error)
	ToggleVisibility(sessionID, fieldKey string) (*Snapshot, error)
	SetChartType(sessionID, fieldKey string, chartType ChartType) (*Snapshot, error)
	SetChartSize(sessionID, fieldKey string, size int) (*Snapshot, error)
	ToggleChoropleth(sessionID, fieldKey string) (*Snapshot, error)
	ToggleDataTable(sessionID, fieldKey string) (*Snapshot, error)

	AddFilter(sessionID, fieldKey string) (*Snapshot, error)
	AddGroupFilter(ctx context.Context, sessionID string) (*Snapshot, error)
	ToggleFilter(sessionID, fieldKey string) (*Snapshot, error)
	RemoveFilter(sessionID, fieldKey string) (*Snapshot, error)
	ToggleCategoryFilter(sessionID, fieldKey, categoryLabel string) (*Snapshot, error)
	ActivateAllContacts(sessionID, fieldKey string) (*Snapshot, error)

	AddSegment(sessionID, fieldKey string) (*Snapshot, error)
	AddGroupSegment(ctx context.Context, sessionID string) (*Snapshot, error)
	RemoveSegment(sessionID, fieldKey string) (*Snapshot, error)
	ToggleSegment(sessionID, fieldKey string) (*Snapshot, error)
	ToggleCategorySegment(sessionID, fieldKey, categoryLabel string) (*Snapshot, error)

	LoadField(ctx context.Context, sessionID, fieldKey string) (*Snapshot, error)
	ExportSession(sessionID, format string) ([]byte, string, error)

	ShowReport(ctx context.Context, sessionID, reportID string) (*Snapshot, error)
	ClearReport(sessionID string) (*Snapshot, error)
	SaveReport(ctx context.Context, sessionID, reportID, title, description string) (*Snapshot, error)
}

type DashboardServiceImpl struct {
	Sessions       *SessionManager
	FlowService    flow.FlowService
	GroupService   group.GroupService
	ReportService  report.ReportService
	ResultsService results.ResultsService
	Publisher      EventPublisher
	Logger         *zap.Logger
}

func NewDashboardService(
	sessions *SessionManager,
	flowService flow.FlowService,
	groupService group.GroupService,
	reportService report.ReportService,
	resultsService results.ResultsService,
	publisher EventPublisher,
	logger *zap.Logger,
) DashboardService {
	return &DashboardServiceImpl{
		Sessions:       sessions,
		FlowService:    flowService,
		GroupService:   groupService,
		ReportService:  reportService,
		ResultsService: resultsService,
		Publisher:      publisher,
		Logger:         logger,
	}
}

func (s *DashboardServiceImpl) CreateSession(ctx context.Context) (*Snapshot, error) {
	session := s.Sessions.Create()
	s.Logger.Info("dashboard session created", zap.String("session_id", session.ID))
	return session.Snapshot(), nil
}

func (s *DashboardServiceImpl) GetSnapshot(sessionID string) (*Snapshot, error) {
	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

func (s *DashboardServiceImpl) CloseSession(sessionID string) error {
	if _, ok := s.Sessions.Get(sessionID); !ok {
		return ErrSessionNotFound
	}
	s.Sessions.Remove(sessionID)
	return nil
}

// mutate applies one state transition and notifies subscribers.
func (s *DashboardServiceImpl) mutate(sessionID string, fn func(st *State)) (*Snapshot, error) {
	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.Do(fn)
	snap := session.Snapshot()
	s.Publisher.Publish(sessionID, Event{Type: "state_changed", Snapshot: snap})
	return snap, nil
}

func (s *DashboardServiceImpl) AddFlowFields(ctx context.Context, sessionID, flowUUID string) (*Snapshot, error) {
	f, err := s.FlowService.GetFlow(ctx, flowUUID)
	if err != nil {
		return nil, fmt.Errorf("flow %s: %w", flowUUID, err)
	}
	return s.mutate(sessionID, func(st *State) { st.AddFlowFields(f) })
}

func (s *DashboardServiceImpl) RemoveField(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.RemoveField(fieldKey) })
}

func (s *DashboardServiceImpl) ReorderFields(sessionID string, keys []string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ReorderFields(keys) })
}

func (s *DashboardServiceImpl) ToggleVisibility(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleVisibility(fieldKey) })
}

func (s *DashboardServiceImpl) SetChartType(sessionID, fieldKey string, chartType ChartType) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.SetChartType(fieldKey, chartType) })
}

func (s *DashboardServiceImpl) SetChartSize(sessionID, fieldKey string, size int) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.SetChartSize(fieldKey, size) })
}

func (s *DashboardServiceImpl) ToggleChoropleth(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleChoropleth(fieldKey) })
}

func (s *DashboardServiceImpl) ToggleDataTable(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleDataTable(fieldKey) })
}

func (s *DashboardServiceImpl) AddFilter(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.AddFilter(fieldKey) })
}

func (s *DashboardServiceImpl) AddGroupFilter(ctx context.Context, sessionID string) (*Snapshot, error) {
	categories, err := s.groupCategories(ctx)
	if err != nil {
		return nil, err
	}
	return s.mutate(sessionID, func(st *State) { st.AddGroupFilter(categories) })
}

func (s *DashboardServiceImpl) ToggleFilter(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleFilter(fieldKey) })
}

func (s *DashboardServiceImpl) RemoveFilter(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.RemoveFilter(fieldKey) })
}

func (s *DashboardServiceImpl) ToggleCategoryFilter(sessionID, fieldKey, categoryLabel string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleCategoryFilter(fieldKey, categoryLabel) })
}

func (s *DashboardServiceImpl) ActivateAllContacts(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ActivateAllContacts(fieldKey) })
}

func (s *DashboardServiceImpl) AddSegment(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.AddSegment(fieldKey) })
}

func (s *DashboardServiceImpl) AddGroupSegment(ctx context.Context, sessionID string) (*Snapshot, error) {
	categories, err := s.groupCategories(ctx)
	if err != nil {
		return nil, err
	}
	return s.mutate(sessionID, func(st *State) { st.AddGroupSegment(categories) })
}

func (s *DashboardServiceImpl) RemoveSegment(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.RemoveSegment(fieldKey) })
}

func (s *DashboardServiceImpl) ToggleSegment(sessionID, fieldKey string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleSegment(fieldKey) })
}

func (s *DashboardServiceImpl) ToggleCategorySegment(sessionID, fieldKey, categoryLabel string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ToggleCategorySegment(fieldKey, categoryLabel) })
}

// LoadField computes chart data for one field with the session's
// active filters and segment applied, then stores it on the field and
// notifies subscribers that the field finished loading.
func (s *DashboardServiceImpl) LoadField(ctx context.Context, sessionID, fieldKey string) (*Snapshot, error) {
	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var req results.StatsRequest
	found := false
	session.View(func(st *State) {
		if st.findField(fieldKey) == nil {
			return
		}
		found = true
		req = buildStatsRequest(st, fieldKey)
	})
	if !found {
		// Stale reference, same contract as the in-memory transitions
		return session.Snapshot(), nil
	}

	stats, err := s.ResultsService.FieldStats(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("loading field %s: %w", fieldKey, err)
	}

	categories := make([]Category, 0, len(stats.Categories))
	for _, c := range stats.Categories {
		categories = append(categories, Category{Label: c.Label, Count: c.Count})
	}
	series := make([]Series, 0, len(stats.Series))
	for _, sr := range stats.Series {
		cats := make([]Category, 0, len(sr.Categories))
		for _, c := range sr.Categories {
			cats = append(cats, Category{Label: c.Label, Count: c.Count})
		}
		series = append(series, Series{Label: sr.Label, Categories: cats})
	}

	session.Do(func(st *State) { st.ApplyResults(fieldKey, stats.Total, categories, series) })

	snap := session.Snapshot()
	s.Publisher.Publish(sessionID, Event{Type: "field_loaded", FieldKey: fieldKey, Snapshot: snap})
	return snap, nil
}

func (s *DashboardServiceImpl) ShowReport(ctx context.Context, sessionID, reportID string) (*Snapshot, error) {
	rep, err := s.ReportService.GetReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", reportID, err)
	}
	return s.mutate(sessionID, func(st *State) { st.ShowReport(rep) })
}

func (s *DashboardServiceImpl) ClearReport(sessionID string) (*Snapshot, error) {
	return s.mutate(sessionID, func(st *State) { st.ClearReport() })
}

// SaveReport persists the current configuration as a new report, or
// updates the one named by reportID. On persistence failure the session
// is left untouched (still dirty) so the save dialog can retry.
func (s *DashboardServiceImpl) SaveReport(ctx context.Context, sessionID, reportID, title, description string) (*Snapshot, error) {
	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var cfg report.Config
	session.View(func(st *State) { cfg = st.Serialize() })

	rep := &report.Report{
		Title:       title,
		Description: description,
		Config:      cfg,
	}

	if reportID == "" {
		if err := s.ReportService.CreateReport(ctx, rep); err != nil {
			return nil, err
		}
	} else {
		if err := s.ReportService.UpdateReport(ctx, reportID, rep); err != nil {
			return nil, err
		}
		saved, err := s.ReportService.GetReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		rep = saved
	}

	s.Logger.Info("dashboard report saved",
		zap.String("session_id", sessionID),
		zap.String("report_id", rep.ID.Hex()))

	return s.mutate(sessionID, func(st *State) { st.BindSaved(rep) })
}

func (s *DashboardServiceImpl) groupCategories(ctx context.Context) ([]Category, error) {
	groups, err := s.GroupService.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]Category, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, Category{
			Label: g.Name,
			Value: g.UUID,
			Count: g.Count,
		})
	}
	return categories, nil
}

// buildStatsRequest reduces the session's active filters and segment to
// the shape the results computation consumes.
func buildStatsRequest(st *State, fieldKey string) results.StatsRequest {
	req := results.StatsRequest{FieldKey: fieldKey}

	for _, f := range st.Filters {
		if !f.IsActive {
			continue
		}
		spec := results.FilterSpec{
			FieldKey:        f.FieldKey,
			IsGroupFilter:   f.IsGroupFilter,
			ShowAllContacts: f.ShowAllContacts,
		}
		for _, c := range f.Categories {
			if c.IsFilter {
				spec.Values = append(spec.Values, categoryValue(c))
			}
		}
		req.Filters = append(req.Filters, spec)
	}

	if seg := st.ActiveSegment(); seg != nil {
		spec := &results.SegmentSpec{
			FieldKey:       seg.FieldKey,
			IsGroupSegment: seg.IsGroupSegment,
			Labels:         make(map[string]string),
		}
		for _, c := range seg.Categories {
			if c.IsSegment {
				v := categoryValue(c)
				spec.Values = append(spec.Values, v)
				spec.Labels[v] = c.Label
			}
		}
		if seg.IsGroupSegment && len(spec.Values) == 0 {
			// Nothing selected on a group segment splits over all groups
			for _, c := range seg.Categories {
				v := categoryValue(c)
				spec.Values = append(spec.Values, v)
				spec.Labels[v] = c.Label
			}
		}
		req.Segment = spec
	}

	return req
}

func categoryValue(c Category) string {
	if c.Value != "" {
		return c.Value
	}
	return c.Label
}
