package contact

import (
	"context"
)

type ContactService interface {
	ListContacts(ctx context.Context, page, limit int64) ([]Contact, int64, error)
}

type ContactServiceImpl struct {
	Repo ContactRepository
}

func NewContactService(repo ContactRepository) ContactService {
	return &ContactServiceImpl{Repo: repo}
}

func (s *ContactServiceImpl) ListContacts(ctx context.Context, page, limit int64) ([]Contact, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	contacts, err := s.Repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}
