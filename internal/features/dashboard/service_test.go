package dashboard

import (
	"context"
	"errors"
	"testing"

	"flowdash/internal/features/contact"
	"flowdash/internal/features/flow"
	"flowdash/internal/features/group"
	"flowdash/internal/features/report"
	"flowdash/internal/features/results"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockFlowService struct {
	flows map[string]*flow.Flow
}

func (m *mockFlowService) ListFlows(ctx context.Context) ([]flow.Flow, error) {
	out := make([]flow.Flow, 0, len(m.flows))
	for _, f := range m.flows {
		out = append(out, *f)
	}
	return out, nil
}

func (m *mockFlowService) GetFlow(ctx context.Context, uuid string) (*flow.Flow, error) {
	f, ok := m.flows[uuid]
	if !ok {
		return nil, errors.New("flow not found")
	}
	return f, nil
}

type mockGroupService struct {
	groups []group.Group
}

func (m *mockGroupService) ListGroups(ctx context.Context) ([]group.Group, error) {
	return m.groups, nil
}

func (m *mockGroupService) GetGroup(ctx context.Context, uuid string) (*group.Group, error) {
	for i := range m.groups {
		if m.groups[i].UUID == uuid {
			return &m.groups[i], nil
		}
	}
	return nil, errors.New("group not found")
}

func (m *mockGroupService) Membership(ctx context.Context, g *group.Group) ([]contact.Contact, error) {
	return nil, nil
}

func (m *mockGroupService) RefreshCounts(ctx context.Context) (int, error) {
	return 0, nil
}

type mockReportService struct {
	reports   map[string]*report.Report
	createErr error
	updateErr error
	created   int
	updated   int
}

func newMockReportService() *mockReportService {
	return &mockReportService{reports: make(map[string]*report.Report)}
}

func (m *mockReportService) CreateReport(ctx context.Context, rep *report.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	if rep.ID.IsZero() {
		rep.ID = primitive.NewObjectID()
	}
	m.reports[rep.ID.Hex()] = rep
	m.created++
	return nil
}

func (m *mockReportService) GetReport(ctx context.Context, id string) (*report.Report, error) {
	rep, ok := m.reports[id]
	if !ok {
		return nil, errors.New("report not found")
	}
	return rep, nil
}

func (m *mockReportService) ListReports(ctx context.Context) ([]report.Report, error) {
	out := make([]report.Report, 0, len(m.reports))
	for _, rep := range m.reports {
		out = append(out, *rep)
	}
	return out, nil
}

func (m *mockReportService) UpdateReport(ctx context.Context, id string, rep *report.Report) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.reports[id]
	if !ok {
		return errors.New("report not found")
	}
	rep.ID = existing.ID
	m.reports[id] = rep
	m.updated++
	return nil
}

func (m *mockReportService) DeleteReport(ctx context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

type mockResultsService struct {
	stats    *results.FieldStats
	err      error
	requests []results.StatsRequest
}

func (m *mockResultsService) FieldStats(ctx context.Context, req results.StatsRequest) (*results.FieldStats, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

type recordedEvent struct {
	sessionID string
	event     Event
}

type mockPublisher struct {
	events []recordedEvent
}

func (m *mockPublisher) Publish(sessionID string, event interface{}) {
	if ev, ok := event.(Event); ok {
		m.events = append(m.events, recordedEvent{sessionID: sessionID, event: ev})
	}
}

func (m *mockPublisher) lastType() string {
	if len(m.events) == 0 {
		return ""
	}
	return m.events[len(m.events)-1].event.Type
}

func newTestService() (*DashboardServiceImpl, *mockReportService, *mockResultsService, *mockPublisher) {
	reports := newMockReportService()
	resultsSvc := &mockResultsService{
		stats: &results.FieldStats{
			FieldKey: "gender",
			Total:    10,
			Categories: []results.CategoryCount{
				{Label: "Female", Count: 6},
				{Label: "Male", Count: 4},
			},
		},
	}
	pub := &mockPublisher{}
	svc := &DashboardServiceImpl{
		Sessions:       NewSessionManager(),
		FlowService:    &mockFlowService{flows: map[string]*flow.Flow{"flow-1": testFlow()}},
		GroupService:   &mockGroupService{groups: []group.Group{{UUID: "g1", Name: "Pregnant Women", Count: 12}}},
		ReportService:  reports,
		ResultsService: resultsSvc,
		Publisher:      pub,
		Logger:         zap.NewNop(),
	}
	return svc, reports, resultsSvc, pub
}

func TestServiceSessionNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddFlowFields(ctx, "missing", "flow-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AddFlowFields: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.LoadField(ctx, "missing", "gender"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LoadField: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.SaveReport(ctx, "missing", "", "Weekly", ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SaveReport: expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.CloseSession("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("CloseSession: expected ErrSessionNotFound, got %v", err)
	}
}

func TestLoadFieldAppliesStats(t *testing.T) {
	svc, _, resultsSvc, pub := newTestService()
	ctx := context.Background()

	snap, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.AddFlowFields(ctx, snap.SessionID, "flow-1"); err != nil {
		t.Fatalf("AddFlowFields: %v", err)
	}

	loaded, err := svc.LoadField(ctx, snap.SessionID, "gender")
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}

	var field *Field
	for i := range loaded.Fields {
		if loaded.Fields[i].Key == "gender" {
			field = &loaded.Fields[i]
		}
	}
	if field == nil {
		t.Fatal("gender field missing from snapshot")
	}
	if !field.IsLoaded {
		t.Error("expected field to be loaded")
	}
	if field.Total != 10 {
		t.Errorf("expected total 10, got %d", field.Total)
	}
	if len(field.Categories) != 2 || field.Categories[0].Label != "Female" {
		t.Errorf("unexpected categories: %+v", field.Categories)
	}
	if len(resultsSvc.requests) != 1 || resultsSvc.requests[0].FieldKey != "gender" {
		t.Errorf("unexpected stats requests: %+v", resultsSvc.requests)
	}
	if pub.lastType() != "field_loaded" {
		t.Errorf("expected field_loaded event, got %q", pub.lastType())
	}

	// Loading never dirties the session: no report is bound and the
	// data changed, not the configuration.
	if loaded.Dirty {
		t.Error("expected session to remain clean after load")
	}
}

func TestLoadFieldStaleKeyReturnsSnapshot(t *testing.T) {
	svc, _, resultsSvc, _ := newTestService()
	ctx := context.Background()

	snap, _ := svc.CreateSession(ctx)
	loaded, err := svc.LoadField(ctx, snap.SessionID, "never-added")
	if err != nil {
		t.Fatalf("LoadField: %v", err)
	}
	if len(loaded.Fields) != 0 {
		t.Errorf("expected no fields, got %d", len(loaded.Fields))
	}
	if len(resultsSvc.requests) != 0 {
		t.Error("stale field key must not trigger a stats computation")
	}
}

func TestLoadFieldForwardsActiveFilters(t *testing.T) {
	svc, _, resultsSvc, _ := newTestService()
	ctx := context.Background()

	snap, _ := svc.CreateSession(ctx)
	id := snap.SessionID
	if _, err := svc.AddFlowFields(ctx, id, "flow-1"); err != nil {
		t.Fatalf("AddFlowFields: %v", err)
	}
	if _, err := svc.AddFilter(id, "state"); err != nil {
		t.Fatalf("AddFilter: %v", err)
	}
	// Give the filter a category to select, then select one.
	if _, err := svc.LoadField(ctx, id, "state"); err != nil {
		t.Fatalf("LoadField(state): %v", err)
	}
	if _, err := svc.ToggleCategoryFilter(id, "state", "Female"); err != nil {
		t.Fatalf("ToggleCategoryFilter: %v", err)
	}

	resultsSvc.requests = nil
	if _, err := svc.LoadField(ctx, id, "gender"); err != nil {
		t.Fatalf("LoadField(gender): %v", err)
	}
	if len(resultsSvc.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(resultsSvc.requests))
	}
	req := resultsSvc.requests[0]
	if len(req.Filters) != 1 || req.Filters[0].FieldKey != "state" {
		t.Fatalf("unexpected filters: %+v", req.Filters)
	}
	if len(req.Filters[0].Values) != 1 || req.Filters[0].Values[0] != "Female" {
		t.Errorf("unexpected filter values: %v", req.Filters[0].Values)
	}
}

func TestSaveReportCreate(t *testing.T) {
	svc, reports, _, _ := newTestService()
	ctx := context.Background()

	snap, _ := svc.CreateSession(ctx)
	id := snap.SessionID
	if _, err := svc.AddFlowFields(ctx, id, "flow-1"); err != nil {
		t.Fatalf("AddFlowFields: %v", err)
	}

	saved, err := svc.SaveReport(ctx, id, "", "Weekly Overview", "gender and age")
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if reports.created != 1 {
		t.Fatalf("expected 1 create, got %d", reports.created)
	}
	if saved.Report == nil || saved.Report.Title != "Weekly Overview" {
		t.Fatalf("expected bound report, got %+v", saved.Report)
	}
	if saved.Dirty {
		t.Error("expected session to be clean after save")
	}
	if saved.Phase != PhaseClean {
		t.Errorf("expected clean phase, got %q", saved.Phase)
	}

	// A further configuration change dirties the bound session.
	after, err := svc.ToggleVisibility(id, "age")
	if err != nil {
		t.Fatalf("ToggleVisibility: %v", err)
	}
	if !after.Dirty {
		t.Error("expected session to be dirty after mutation")
	}
}

func TestSaveReportUpdate(t *testing.T) {
	svc, reports, _, _ := newTestService()
	ctx := context.Background()

	snap, _ := svc.CreateSession(ctx)
	id := snap.SessionID
	if _, err := svc.AddFlowFields(ctx, id, "flow-1"); err != nil {
		t.Fatalf("AddFlowFields: %v", err)
	}
	first, err := svc.SaveReport(ctx, id, "", "Weekly", "")
	if err != nil {
		t.Fatalf("SaveReport(create): %v", err)
	}

	if _, err := svc.RemoveField(id, "state"); err != nil {
		t.Fatalf("RemoveField: %v", err)
	}
	second, err := svc.SaveReport(ctx, id, first.Report.ID, "Weekly v2", "")
	if err != nil {
		t.Fatalf("SaveReport(update): %v", err)
	}
	if reports.updated != 1 {
		t.Fatalf("expected 1 update, got %d", reports.updated)
	}
	if second.Report.ID != first.Report.ID {
		t.Errorf("expected same report id, got %s vs %s", second.Report.ID, first.Report.ID)
	}
	if second.Report.Title != "Weekly v2" {
		t.Errorf("expected updated title, got %q", second.Report.Title)
	}
	if second.Dirty {
		t.Error("expected session to be clean after update")
	}

	stored, err := reports.GetReport(ctx, first.Report.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if len(stored.Config.Fields) != 2 {
		t.Errorf("expected 2 fields in stored config, got %d", len(stored.Config.Fields))
	}
}

func TestSaveReportFailureLeavesSessionDirty(t *testing.T) {
	svc, reports, _, _ := newTestService()
	reports.createErr = errors.New("write conflict")
	ctx := context.Background()

	snap, _ := svc.CreateSession(ctx)
	id := snap.SessionID
	if _, err := svc.AddFlowFields(ctx, id, "flow-1"); err != nil {
		t.Fatalf("AddFlowFields: %v", err)
	}

	if _, err := svc.SaveReport(ctx, id, "", "Weekly", ""); err == nil {
		t.Fatal("expected save to fail")
	}

	after, err := svc.GetSnapshot(id)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if after.Report != nil {
		t.Error("failed save must not bind a report")
	}
	if after.Phase != PhaseConfiguring {
		t.Errorf("expected configuring phase, got %q", after.Phase)
	}
}

func TestShowAndClearReport(t *testing.T) {
	svc, reports, _, pub := newTestService()
	ctx := context.Background()

	rep := &report.Report{
		Title: "Saved Layout",
		Config: report.Config{
			Fields: []report.FieldConfig{
				{Key: "gender", Label: "Gender", IsVisible: true, ChartType: "pie", ChartSize: 1},
			},
		},
	}
	if err := reports.CreateReport(ctx, rep); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	snap, _ := svc.CreateSession(ctx)
	shown, err := svc.ShowReport(ctx, snap.SessionID, rep.ID.Hex())
	if err != nil {
		t.Fatalf("ShowReport: %v", err)
	}
	if shown.Report == nil || shown.Report.ID != rep.ID.Hex() {
		t.Fatalf("expected bound report, got %+v", shown.Report)
	}
	if len(shown.Fields) != 1 || shown.Fields[0].Key != "gender" {
		t.Errorf("unexpected fields: %+v", shown.Fields)
	}
	if shown.Fields[0].IsLoaded {
		t.Error("restored fields come back unloaded")
	}
	if pub.lastType() != "state_changed" {
		t.Errorf("expected state_changed event, got %q", pub.lastType())
	}

	cleared, err := svc.ClearReport(snap.SessionID)
	if err != nil {
		t.Fatalf("ClearReport: %v", err)
	}
	if cleared.Report != nil {
		t.Error("expected no bound report after clear")
	}
	if len(cleared.Fields) != 1 {
		t.Error("clearing the report keeps the working configuration")
	}
}

func TestAddGroupFilterUsesGroupCatalog(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	snap, _ := svc.CreateSession(ctx)
	withGroups, err := svc.AddGroupFilter(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("AddGroupFilter: %v", err)
	}
	if len(withGroups.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(withGroups.Filters))
	}
	f := withGroups.Filters[0]
	if !f.IsGroupFilter || f.FieldKey != GroupFieldKey {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if len(f.Categories) != 1 || f.Categories[0].Value != "g1" || f.Categories[0].Label != "Pregnant Women" {
		t.Errorf("unexpected categories: %+v", f.Categories)
	}
}
