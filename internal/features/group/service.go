package group

import (
	"context"
	"fmt"

	common_models "flowdash/internal/common/models"
	"flowdash/internal/features/audit"
	"flowdash/internal/features/contact"
)

type GroupService interface {
	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, uuid string) (*Group, error)
	// Membership resolves the contacts belonging to a group, evaluating
	// the query for dynamic groups.
	Membership(ctx context.Context, g *Group) ([]contact.Contact, error)
	// RefreshCounts recomputes the count of every group from the synced
	// contact collection.
	RefreshCounts(ctx context.Context) (int, error)
}

type GroupServiceImpl struct {
	Repo         GroupRepository
	ContactRepo  contact.ContactRepository
	AuditService audit.AuditService
}

func NewGroupService(repo GroupRepository, contactRepo contact.ContactRepository, auditService audit.AuditService) GroupService {
	return &GroupServiceImpl{
		Repo:         repo,
		ContactRepo:  contactRepo,
		AuditService: auditService,
	}
}

func (s *GroupServiceImpl) ListGroups(ctx context.Context) ([]Group, error) {
	return s.Repo.List(ctx)
}

func (s *GroupServiceImpl) GetGroup(ctx context.Context, uuid string) (*Group, error) {
	return s.Repo.GetByUUID(ctx, uuid)
}

func (s *GroupServiceImpl) Membership(ctx context.Context, g *Group) ([]contact.Contact, error) {
	if !g.IsDynamic() {
		return s.ContactRepo.ListByGroup(ctx, g.UUID)
	}

	eval, err := CompileQuery(g.Query)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", g.UUID, err)
	}

	all, err := s.ContactRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var members []contact.Contact
	for i := range all {
		if eval.Matches(&all[i]) {
			members = append(members, all[i])
		}
	}
	return members, nil
}

func (s *GroupServiceImpl) RefreshCounts(ctx context.Context) (int, error) {
	groups, err := s.Repo.List(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range groups {
		members, err := s.Membership(ctx, &groups[i])
		if err != nil {
			// A broken query on one group must not abort the rest
			continue
		}
		if len(members) == groups[i].Count {
			continue
		}
		if err := s.Repo.UpdateCount(ctx, groups[i].UUID, len(members)); err != nil {
			return refreshed, err
		}
		refreshed++
	}

	if refreshed > 0 {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionGroup, "groups", "counts", map[string]common_models.Change{
			"refreshed": {New: refreshed},
		})
	}

	return refreshed, nil
}
