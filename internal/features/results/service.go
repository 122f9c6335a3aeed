package results

import (
	"context"
	"fmt"
	"sort"

	"flowdash/internal/features/contact"
	"flowdash/internal/features/group"
)

type ResultsService interface {
	FieldStats(ctx context.Context, req StatsRequest) (*FieldStats, error)
}

type ResultsServiceImpl struct {
	ContactRepo  contact.ContactRepository
	GroupService group.GroupService
}

func NewResultsService(contactRepo contact.ContactRepository, groupService group.GroupService) ResultsService {
	return &ResultsServiceImpl{
		ContactRepo:  contactRepo,
		GroupService: groupService,
	}
}

func (s *ResultsServiceImpl) FieldStats(ctx context.Context, req StatsRequest) (*FieldStats, error) {
	contacts, err := s.ContactRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.resolveGroupMembers(ctx, req)
	if err != nil {
		return nil, err
	}

	var matched []contact.Contact
	for i := range contacts {
		if s.passesFilters(&contacts[i], req.Filters, members) {
			matched = append(matched, contacts[i])
		}
	}

	stats := &FieldStats{
		FieldKey:   req.FieldKey,
		Categories: countByField(matched, req.FieldKey),
	}
	for _, cat := range stats.Categories {
		stats.Total += cat.Count
	}

	if req.Segment != nil {
		stats.Series = s.segmentSeries(matched, req.FieldKey, req.Segment, members)
	}

	return stats, nil
}

// resolveGroupMembers builds contact-uuid sets for every group referenced
// by a group filter or group segment, evaluating dynamic group queries
// through the group service.
func (s *ResultsServiceImpl) resolveGroupMembers(ctx context.Context, req StatsRequest) (map[string]map[string]bool, error) {
	uuids := make(map[string]bool)
	for _, f := range req.Filters {
		if f.IsGroupFilter && !f.ShowAllContacts {
			for _, v := range f.Values {
				uuids[v] = true
			}
		}
	}
	if req.Segment != nil && req.Segment.IsGroupSegment {
		for _, v := range req.Segment.Values {
			uuids[v] = true
		}
	}

	members := make(map[string]map[string]bool, len(uuids))
	for uuid := range uuids {
		g, err := s.GroupService.GetGroup(ctx, uuid)
		if err != nil {
			// Stale group reference: treat as empty membership
			members[uuid] = map[string]bool{}
			continue
		}
		list, err := s.GroupService.Membership(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("resolving group %s: %w", uuid, err)
		}
		set := make(map[string]bool, len(list))
		for i := range list {
			set[list[i].UUID] = true
		}
		members[uuid] = set
	}
	return members, nil
}

func (s *ResultsServiceImpl) passesFilters(c *contact.Contact, filters []FilterSpec, members map[string]map[string]bool) bool {
	for _, f := range filters {
		if f.IsGroupFilter {
			if f.ShowAllContacts || len(f.Values) == 0 {
				continue
			}
			inAny := false
			for _, uuid := range f.Values {
				if members[uuid][c.UUID] {
					inAny = true
					break
				}
			}
			if !inAny {
				return false
			}
			continue
		}

		// Field filter: nothing selected passes everything
		if len(f.Values) == 0 {
			continue
		}
		value, ok := fieldValue(c, f.FieldKey)
		if !ok {
			return false
		}
		selected := false
		for _, v := range f.Values {
			if v == value {
				selected = true
				break
			}
		}
		if !selected {
			return false
		}
	}
	return true
}

func (s *ResultsServiceImpl) segmentSeries(matched []contact.Contact, fieldKey string, seg *SegmentSpec, members map[string]map[string]bool) []Series {
	var series []Series

	if seg.IsGroupSegment {
		for _, uuid := range seg.Values {
			var slice []contact.Contact
			for i := range matched {
				if members[uuid][matched[i].UUID] {
					slice = append(slice, matched[i])
				}
			}
			label := uuid
			if seg.Labels != nil && seg.Labels[uuid] != "" {
				label = seg.Labels[uuid]
			}
			series = append(series, Series{
				Label:      label,
				Categories: countByField(slice, fieldKey),
			})
		}
		return series
	}

	values := seg.Values
	if len(values) == 0 {
		// No explicit selection: split over every value present
		seen := make(map[string]bool)
		for i := range matched {
			if v, ok := fieldValue(&matched[i], seg.FieldKey); ok && !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		sort.Strings(values)
	}

	for _, segValue := range values {
		var slice []contact.Contact
		for i := range matched {
			if v, ok := fieldValue(&matched[i], seg.FieldKey); ok && v == segValue {
				slice = append(slice, matched[i])
			}
		}
		series = append(series, Series{
			Label:      segValue,
			Categories: countByField(slice, fieldKey),
		})
	}
	return series
}

func countByField(contacts []contact.Contact, fieldKey string) []CategoryCount {
	counts := make(map[string]int)
	for i := range contacts {
		if v, ok := fieldValue(&contacts[i], fieldKey); ok {
			counts[v]++
		}
	}

	categories := make([]CategoryCount, 0, len(counts))
	for label, count := range counts {
		categories = append(categories, CategoryCount{Label: label, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Label < categories[j].Label
	})
	return categories
}

func fieldValue(c *contact.Contact, key string) (string, bool) {
	v, ok := c.Fields[key]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}
