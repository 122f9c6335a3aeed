package contact

import (
	"context"
	"testing"
)

type mockContactRepo struct {
	contacts   []Contact
	lastLimit  int64
	lastOffset int64
}

func (m *mockContactRepo) List(ctx context.Context, limit, offset int64) ([]Contact, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	if offset >= int64(len(m.contacts)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(m.contacts)) {
		end = int64(len(m.contacts))
	}
	return m.contacts[offset:end], nil
}

func (m *mockContactRepo) ListAll(ctx context.Context) ([]Contact, error) {
	return m.contacts, nil
}

func (m *mockContactRepo) ListByGroup(ctx context.Context, groupUUID string) ([]Contact, error) {
	return nil, nil
}

func (m *mockContactRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.contacts)), nil
}

func (m *mockContactRepo) Upsert(ctx context.Context, contact *Contact) error {
	return nil
}

func TestListContactsPagination(t *testing.T) {
	repo := &mockContactRepo{contacts: make([]Contact, 120)}
	svc := NewContactService(repo)
	ctx := context.Background()

	tests := []struct {
		name       string
		page       int64
		limit      int64
		wantLimit  int64
		wantOffset int64
		wantCount  int
	}{
		{"first page", 1, 50, 50, 0, 50},
		{"second page", 2, 50, 50, 50, 50},
		{"short last page", 3, 50, 50, 100, 20},
		{"zero page defaults to first", 0, 10, 10, 0, 10},
		{"zero limit defaults to 50", 1, 0, 50, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts, total, err := svc.ListContacts(ctx, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("ListContacts: %v", err)
			}
			if repo.lastLimit != tt.wantLimit || repo.lastOffset != tt.wantOffset {
				t.Errorf("expected limit/offset %d/%d, got %d/%d",
					tt.wantLimit, tt.wantOffset, repo.lastLimit, repo.lastOffset)
			}
			if len(contacts) != tt.wantCount {
				t.Errorf("expected %d contacts, got %d", tt.wantCount, len(contacts))
			}
			if total != 120 {
				t.Errorf("expected total 120, got %d", total)
			}
		})
	}
}
