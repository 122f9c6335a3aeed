package results

import (
	"context"
	"fmt"
	"testing"

	"flowdash/internal/features/contact"
	"flowdash/internal/features/group"
)

type mockContactRepo struct {
	contacts []contact.Contact
}

func (m *mockContactRepo) List(ctx context.Context, limit, offset int64) ([]contact.Contact, error) {
	return m.contacts, nil
}
func (m *mockContactRepo) ListAll(ctx context.Context) ([]contact.Contact, error) {
	return m.contacts, nil
}
func (m *mockContactRepo) ListByGroup(ctx context.Context, groupUUID string) ([]contact.Contact, error) {
	var out []contact.Contact
	for _, c := range m.contacts {
		for _, g := range c.GroupUUIDs {
			if g == groupUUID {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}
func (m *mockContactRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.contacts)), nil
}
func (m *mockContactRepo) Upsert(ctx context.Context, c *contact.Contact) error {
	return nil
}

type mockGroupService struct {
	groups map[string]*group.Group
	repo   *mockContactRepo
}

func (m *mockGroupService) ListGroups(ctx context.Context) ([]group.Group, error) {
	var out []group.Group
	for _, g := range m.groups {
		out = append(out, *g)
	}
	return out, nil
}
func (m *mockGroupService) GetGroup(ctx context.Context, uuid string) (*group.Group, error) {
	g, ok := m.groups[uuid]
	if !ok {
		return nil, fmt.Errorf("group not found")
	}
	return g, nil
}
func (m *mockGroupService) Membership(ctx context.Context, g *group.Group) ([]contact.Contact, error) {
	return m.repo.ListByGroup(ctx, g.UUID)
}
func (m *mockGroupService) RefreshCounts(ctx context.Context) (int, error) {
	return 0, nil
}

func testService() (*ResultsServiceImpl, *mockContactRepo) {
	repo := &mockContactRepo{
		contacts: []contact.Contact{
			{UUID: "c1", GroupUUIDs: []string{"g1"}, Fields: map[string]interface{}{"gender": "Female", "state": "Kigali"}},
			{UUID: "c2", GroupUUIDs: []string{"g1"}, Fields: map[string]interface{}{"gender": "Female", "state": "Eastern"}},
			{UUID: "c3", GroupUUIDs: []string{"g2"}, Fields: map[string]interface{}{"gender": "Male", "state": "Kigali"}},
			{UUID: "c4", GroupUUIDs: nil, Fields: map[string]interface{}{"gender": "Male", "state": "Kigali"}},
			{UUID: "c5", GroupUUIDs: nil, Fields: map[string]interface{}{"state": "Northern"}}, // no gender
		},
	}
	groups := &mockGroupService{
		groups: map[string]*group.Group{
			"g1": {UUID: "g1", Name: "Pregnant Women"},
			"g2": {UUID: "g2", Name: "Health Workers"},
		},
		repo: repo,
	}
	return &ResultsServiceImpl{ContactRepo: repo, GroupService: groups}, repo
}

func categoryCount(stats *FieldStats, label string) int {
	for _, c := range stats.Categories {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

func TestFieldStatsUnfiltered(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{FieldKey: "gender"})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("total = %d, want 4 (contact without the field is excluded)", stats.Total)
	}
	if categoryCount(stats, "Female") != 2 || categoryCount(stats, "Male") != 2 {
		t.Errorf("unexpected category counts: %+v", stats.Categories)
	}
}

func TestFieldStatsSortedByCountThenLabel(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{FieldKey: "state"})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}

	// Kigali(3), Eastern(1), Northern(1) — ties broken alphabetically.
	want := []string{"Kigali", "Eastern", "Northern"}
	for i, label := range want {
		if stats.Categories[i].Label != label {
			t.Fatalf("order mismatch: got %+v want %v", stats.Categories, want)
		}
	}
}

func TestFieldStatsFieldFilter(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Filters:  []FilterSpec{{FieldKey: "state", Values: []string{"Kigali"}}},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}

	if categoryCount(stats, "Male") != 2 || categoryCount(stats, "Female") != 1 {
		t.Errorf("unexpected filtered counts: %+v", stats.Categories)
	}
}

func TestFieldStatsEmptyFilterPassesAll(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Filters:  []FilterSpec{{FieldKey: "state", Values: nil}},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("filter with no selection must pass everything, total = %d", stats.Total)
	}
}

func TestFieldStatsGroupFilter(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Filters:  []FilterSpec{{FieldKey: "groups", IsGroupFilter: true, Values: []string{"g1"}}},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}
	if stats.Total != 2 || categoryCount(stats, "Female") != 2 {
		t.Errorf("group filter should keep only g1 members: %+v", stats.Categories)
	}
}

func TestFieldStatsGroupFilterShowAllContacts(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Filters:  []FilterSpec{{FieldKey: "groups", IsGroupFilter: true, ShowAllContacts: true, Values: []string{"g1"}}},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("show-all-contacts bypasses group narrowing, total = %d", stats.Total)
	}
}

func TestFieldStatsStaleGroupIsEmpty(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Filters:  []FilterSpec{{FieldKey: "groups", IsGroupFilter: true, Values: []string{"gone"}}},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("stale group reference filters everything out, total = %d", stats.Total)
	}
}

func TestFieldStatsFieldSegment(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Segment:  &SegmentSpec{FieldKey: "state", Values: []string{"Kigali", "Eastern"}},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}

	if len(stats.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(stats.Series))
	}
	if stats.Series[0].Label != "Kigali" || stats.Series[1].Label != "Eastern" {
		t.Errorf("series follow the selection order: %+v", stats.Series)
	}

	kigali := stats.Series[0]
	got := map[string]int{}
	for _, c := range kigali.Categories {
		got[c.Label] = c.Count
	}
	if got["Male"] != 2 || got["Female"] != 1 {
		t.Errorf("unexpected Kigali slice: %+v", kigali.Categories)
	}
}

func TestFieldStatsSegmentDefaultsToAllValues(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Segment:  &SegmentSpec{FieldKey: "state"},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}

	// Eastern, Kigali, Northern — alphabetical when nothing is selected.
	if len(stats.Series) != 3 {
		t.Fatalf("expected a series per value present, got %d", len(stats.Series))
	}
	if stats.Series[0].Label != "Eastern" || stats.Series[1].Label != "Kigali" || stats.Series[2].Label != "Northern" {
		t.Errorf("unexpected series order: %+v", stats.Series)
	}
}

func TestFieldStatsGroupSegment(t *testing.T) {
	svc, _ := testService()

	stats, err := svc.FieldStats(context.Background(), StatsRequest{
		FieldKey: "gender",
		Segment: &SegmentSpec{
			FieldKey:       "groups",
			IsGroupSegment: true,
			Values:         []string{"g1", "g2"},
			Labels:         map[string]string{"g1": "Pregnant Women", "g2": "Health Workers"},
		},
	})
	if err != nil {
		t.Fatalf("FieldStats() error = %v", err)
	}

	if len(stats.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(stats.Series))
	}
	if stats.Series[0].Label != "Pregnant Women" {
		t.Errorf("group segment uses display labels, got %s", stats.Series[0].Label)
	}

	var g1Total int
	for _, c := range stats.Series[0].Categories {
		g1Total += c.Count
	}
	if g1Total != 2 {
		t.Errorf("g1 slice total = %d, want 2", g1Total)
	}
}
