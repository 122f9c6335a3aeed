package cron_feature

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "flowdash/internal/common/models"
	"flowdash/internal/features/audit"
	"flowdash/internal/features/group"
	sync_feature "flowdash/internal/features/sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CronService interface {
	CreateCronJob(ctx context.Context, cronJob *CronJob) error
	GetCronJob(ctx context.Context, id string) (*CronJob, error)
	ListCronJobs(ctx context.Context, filter map[string]interface{}) ([]CronJob, error)
	UpdateCronJob(ctx context.Context, cronJob *CronJob) error
	DeleteCronJob(ctx context.Context, id string) error
	ExecuteCronJob(ctx context.Context, id string) error
	GetCronJobLogs(ctx context.Context, cronJobID string, limit int) ([]CronJobLog, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RegisterJob(cronJob *CronJob) error
	UnregisterJob(id string) error
}

type CronServiceImpl struct {
	repo         CronRepository
	syncService  sync_feature.SyncService
	groupService group.GroupService
	auditService audit.AuditService
	logger       *zap.Logger

	scheduler  *cron.Cron
	jobEntries map[string]cron.EntryID
	mu         sync.RWMutex
}

func NewCronService(
	repo CronRepository,
	syncService sync_feature.SyncService,
	groupService group.GroupService,
	auditService audit.AuditService,
	logger *zap.Logger,
) CronService {
	return &CronServiceImpl{
		repo:         repo,
		syncService:  syncService,
		groupService: groupService,
		auditService: auditService,
		logger:       logger,
		jobEntries:   make(map[string]cron.EntryID),
	}
}

func (s *CronServiceImpl) CreateCronJob(ctx context.Context, cronJob *CronJob) error {
	schedule, err := cron.ParseStandard(cronJob.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	switch cronJob.Task {
	case TaskDataSync, TaskRefreshGroupCounts:
	default:
		return fmt.Errorf("unknown task type: %s", cronJob.Task)
	}

	now := time.Now()
	cronJob.CreatedAt = now
	cronJob.UpdatedAt = now

	nextRun := schedule.Next(now)
	cronJob.NextRun = &nextRun

	if err := s.repo.Create(ctx, cronJob); err != nil {
		return err
	}

	s.auditService.LogChange(ctx, common_models.AuditActionCron, "cron_jobs", cronJob.ID.Hex(), map[string]common_models.Change{
		"cron_job": {New: cronJob},
	})

	if cronJob.Active && s.scheduler != nil {
		if err := s.RegisterJob(cronJob); err != nil {
			s.logger.Warn("failed to register cron job", zap.String("id", cronJob.ID.Hex()), zap.Error(err))
		}
	}

	return nil
}

func (s *CronServiceImpl) GetCronJob(ctx context.Context, id string) (*CronJob, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CronServiceImpl) ListCronJobs(ctx context.Context, filter map[string]interface{}) ([]CronJob, error) {
	return s.repo.List(ctx, filter)
}

func (s *CronServiceImpl) UpdateCronJob(ctx context.Context, cronJob *CronJob) error {
	schedule, err := cron.ParseStandard(cronJob.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	nextRun := schedule.Next(time.Now())
	cronJob.NextRun = &nextRun

	oldJob, _ := s.GetCronJob(ctx, cronJob.ID.Hex())

	if err := s.repo.Update(ctx, cronJob); err != nil {
		return err
	}

	s.auditService.LogChange(ctx, common_models.AuditActionCron, "cron_jobs", cronJob.ID.Hex(), map[string]common_models.Change{
		"cron_job": {Old: oldJob, New: cronJob},
	})

	s.UnregisterJob(cronJob.ID.Hex())

	if cronJob.Active && s.scheduler != nil {
		if err := s.RegisterJob(cronJob); err != nil {
			s.logger.Warn("failed to register updated cron job", zap.String("id", cronJob.ID.Hex()), zap.Error(err))
		}
	}

	return nil
}

func (s *CronServiceImpl) DeleteCronJob(ctx context.Context, id string) error {
	oldJob, _ := s.GetCronJob(ctx, id)
	s.UnregisterJob(id)
	err := s.repo.Delete(ctx, id)
	if err == nil {
		s.auditService.LogChange(ctx, common_models.AuditActionCron, "cron_jobs", id, map[string]common_models.Change{
			"cron_job": {Old: oldJob, New: "DELETED"},
		})
	}
	return err
}

func (s *CronServiceImpl) ExecuteCronJob(ctx context.Context, id string) error {
	cronJob, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cronJob == nil {
		return fmt.Errorf("cron job not found")
	}

	return s.executeCronJobInternal(ctx, cronJob)
}

func (s *CronServiceImpl) executeCronJobInternal(ctx context.Context, cronJob *CronJob) error {
	startTime := time.Now()

	logEntry := &CronJobLog{
		CronJobID:   cronJob.ID,
		CronJobName: cronJob.Name,
		StartTime:   startTime,
		Status:      "running",
	}

	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		s.logger.Warn("failed to create cron log entry", zap.String("id", cronJob.ID.Hex()), zap.Error(err))
	}

	affected, execError := s.runTask(ctx, cronJob)

	endTime := time.Now()
	logEntry.EndTime = &endTime
	logEntry.Affected = affected

	if execError != nil {
		logEntry.Status = "failed"
		logEntry.Error = execError.Error()
	} else {
		logEntry.Status = "success"
	}

	if err := s.repo.UpdateLog(ctx, logEntry); err != nil {
		s.logger.Warn("failed to update cron log entry", zap.String("id", cronJob.ID.Hex()), zap.Error(err))
	}

	auditStatus := "success"
	if execError != nil {
		auditStatus = "failed"
	}
	s.auditService.LogChange(ctx, common_models.AuditActionCron, "cron_jobs", cronJob.ID.Hex(), map[string]common_models.Change{
		"status":   {New: auditStatus},
		"job_name": {New: cronJob.Name},
		"affected": {New: affected},
		"error":    {New: logEntry.Error},
	})

	schedule, _ := cron.ParseStandard(cronJob.Schedule)
	nextRun := schedule.Next(time.Now())
	if err := s.repo.UpdateLastRun(ctx, cronJob.ID.Hex(), startTime, &nextRun); err != nil {
		s.logger.Warn("failed to update last run", zap.String("id", cronJob.ID.Hex()), zap.Error(err))
	}

	return execError
}

func (s *CronServiceImpl) runTask(ctx context.Context, cronJob *CronJob) (int, error) {
	switch cronJob.Task {
	case TaskDataSync:
		// A job may target one setting; otherwise every active setting runs.
		if id, ok := cronJob.Config["sync_setting_id"].(string); ok && id != "" {
			return 0, s.syncService.RunSync(ctx, id)
		}
		return 0, s.syncService.RunAll(ctx)
	case TaskRefreshGroupCounts:
		return s.groupService.RefreshCounts(ctx)
	default:
		return 0, fmt.Errorf("unknown task type: %s", cronJob.Task)
	}
}

func (s *CronServiceImpl) GetCronJobLogs(ctx context.Context, cronJobID string, limit int) ([]CronJobLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetLogs(ctx, cronJobID, limit)
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.logger.Info("initializing cron scheduler")
	s.scheduler = cron.New()
	cronJobs, err := s.repo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active cron jobs: %w", err)
	}

	for i := range cronJobs {
		if err := s.RegisterJob(&cronJobs[i]); err != nil {
			s.logger.Warn("failed to register cron job", zap.String("id", cronJobs[i].ID.Hex()), zap.Error(err))
		}
	}

	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *CronServiceImpl) RegisterJob(cronJob *CronJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return fmt.Errorf("scheduler not initialized")
	}

	cronJobID := cronJob.ID.Hex()
	jobFunc := func() {
		ctx := context.Background()
		latest, err := s.repo.GetByID(ctx, cronJobID)
		if err != nil || latest == nil || !latest.Active {
			return
		}
		s.executeCronJobInternal(ctx, latest)
	}

	entryID, err := s.scheduler.AddFunc(cronJob.Schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add cron job to scheduler: %w", err)
	}

	s.jobEntries[cronJobID] = entryID
	return nil
}

func (s *CronServiceImpl) UnregisterJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobEntries[id]; exists {
		s.scheduler.Remove(entryID)
		delete(s.jobEntries, id)
	}
	return nil
}
