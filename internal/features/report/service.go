package report

import (
	"context"
	"errors"

	common_models "flowdash/internal/common/models"
	"flowdash/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportService interface {
	CreateReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context) ([]Report, error)
	UpdateReport(ctx context.Context, id string, report *Report) error
	DeleteReport(ctx context.Context, id string) error
}

type ReportServiceImpl struct {
	ReportRepo   ReportRepository
	AuditService audit.AuditService
}

func NewReportService(reportRepo ReportRepository, auditService audit.AuditService) ReportService {
	return &ReportServiceImpl{
		ReportRepo:   reportRepo,
		AuditService: auditService,
	}
}

func (s *ReportServiceImpl) CreateReport(ctx context.Context, report *Report) error {
	if report.Title == "" {
		return errors.New("report title is required")
	}
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	err := s.ReportRepo.Create(ctx, report)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionReport, "reports", report.ID.Hex(), map[string]common_models.Change{
			"report": {New: report},
		})
	}
	return err
}

func (s *ReportServiceImpl) GetReport(ctx context.Context, id string) (*Report, error) {
	return s.ReportRepo.Get(ctx, id)
}

func (s *ReportServiceImpl) ListReports(ctx context.Context) ([]Report, error) {
	return s.ReportRepo.List(ctx)
}

func (s *ReportServiceImpl) UpdateReport(ctx context.Context, id string, report *Report) error {
	if report.Title == "" {
		return errors.New("report title is required")
	}
	oldReport, _ := s.GetReport(ctx, id)
	err := s.ReportRepo.Update(ctx, id, report)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionReport, "reports", id, map[string]common_models.Change{
			"report": {Old: oldReport, New: report},
		})
	}
	return err
}

func (s *ReportServiceImpl) DeleteReport(ctx context.Context, id string) error {
	oldReport, _ := s.GetReport(ctx, id)
	err := s.ReportRepo.Delete(ctx, id)
	if err == nil {
		name := id
		if oldReport != nil {
			name = oldReport.Title
		}
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionReport, "reports", name, map[string]common_models.Change{
			"report": {Old: oldReport, New: "DELETED"},
		})
	}
	return err
}
