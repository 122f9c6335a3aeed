package flow

import (
	"context"
)

type FlowService interface {
	ListFlows(ctx context.Context) ([]Flow, error)
	GetFlow(ctx context.Context, uuid string) (*Flow, error)
}

type FlowServiceImpl struct {
	Repo FlowRepository
}

func NewFlowService(repo FlowRepository) FlowService {
	return &FlowServiceImpl{Repo: repo}
}

func (s *FlowServiceImpl) ListFlows(ctx context.Context) ([]Flow, error) {
	return s.Repo.List(ctx)
}

func (s *FlowServiceImpl) GetFlow(ctx context.Context, uuid string) (*Flow, error) {
	return s.Repo.GetByUUID(ctx, uuid)
}
