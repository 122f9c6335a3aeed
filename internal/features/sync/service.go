package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	common_models "flowdash/internal/common/models"
	"flowdash/internal/features/audit"
	"flowdash/internal/features/contact"
	"flowdash/internal/features/flow"
	"flowdash/internal/features/group"

	_ "github.com/lib/pq"
)

type SyncService interface {
	CreateSetting(ctx context.Context, setting *SyncSetting) error
	GetSetting(ctx context.Context, id string) (*SyncSetting, error)
	ListSettings(ctx context.Context) ([]SyncSetting, error)
	UpdateSetting(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteSetting(ctx context.Context, id string) error
	RunSync(ctx context.Context, id string) error
	RunAll(ctx context.Context) error
	ListLogs(ctx context.Context, settingID string, limit int64) ([]SyncLog, error)
}

type SyncServiceImpl struct {
	SyncRepo     SyncSettingRepository
	LogRepo      SyncLogRepository
	FlowRepo     flow.FlowRepository
	GroupRepo    group.GroupRepository
	ContactRepo  contact.ContactRepository
	GroupService group.GroupService
	AuditService audit.AuditService
}

func NewSyncService(
	syncRepo SyncSettingRepository,
	logRepo SyncLogRepository,
	flowRepo flow.FlowRepository,
	groupRepo group.GroupRepository,
	contactRepo contact.ContactRepository,
	groupService group.GroupService,
	auditService audit.AuditService,
) SyncService {
	return &SyncServiceImpl{
		SyncRepo:     syncRepo,
		LogRepo:      logRepo,
		FlowRepo:     flowRepo,
		GroupRepo:    groupRepo,
		ContactRepo:  contactRepo,
		GroupService: groupService,
		AuditService: auditService,
	}
}

func (s *SyncServiceImpl) CreateSetting(ctx context.Context, setting *SyncSetting) error {
	if setting.Name == "" {
		return fmt.Errorf("setting name is required")
	}
	if setting.DSN == "" {
		return fmt.Errorf("setting dsn is required")
	}
	for _, entity := range setting.Entities {
		switch entity {
		case EntityFlows, EntityGroups, EntityContacts:
		default:
			return fmt.Errorf("unknown sync entity: %s", entity)
		}
	}

	err := s.SyncRepo.Create(ctx, setting)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "sync_settings", setting.Name, map[string]common_models.Change{
			"sync_setting": {
				New: setting,
			},
		})
	}
	return err
}

func (s *SyncServiceImpl) GetSetting(ctx context.Context, id string) (*SyncSetting, error) {
	return s.SyncRepo.Get(ctx, id)
}

func (s *SyncServiceImpl) ListSettings(ctx context.Context) ([]SyncSetting, error) {
	return s.SyncRepo.List(ctx)
}

func (s *SyncServiceImpl) UpdateSetting(ctx context.Context, id string, updates map[string]interface{}) error {
	oldSetting, _ := s.GetSetting(ctx, id)

	err := s.SyncRepo.Update(ctx, id, updates)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "sync_settings", id, map[string]common_models.Change{
			"sync_setting": {
				Old: oldSetting,
				New: updates,
			},
		})
	}
	return err
}

func (s *SyncServiceImpl) DeleteSetting(ctx context.Context, id string) error {
	oldSetting, _ := s.GetSetting(ctx, id)

	err := s.SyncRepo.Delete(ctx, id)
	if err == nil {
		name := id
		if oldSetting != nil {
			name = oldSetting.Name
		}
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "sync_settings", name, map[string]common_models.Change{
			"sync_setting": {
				Old: oldSetting,
				New: "DELETED",
			},
		})
	}
	return err
}

func (s *SyncServiceImpl) ListLogs(ctx context.Context, settingID string, limit int64) ([]SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.LogRepo.List(ctx, settingID, limit)
}

func (s *SyncServiceImpl) RunSync(ctx context.Context, id string) error {
	setting, err := s.SyncRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.executeSync(setting)
}

// RunAll syncs every active setting. Used by the scheduler; one failing
// setting does not stop the others.
func (s *SyncServiceImpl) RunAll(ctx context.Context) error {
	settings, err := s.SyncRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	var lastErr error
	for i := range settings {
		if err := s.executeSync(&settings[i]); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (s *SyncServiceImpl) executeSync(setting *SyncSetting) error {
	ctx := context.Background()

	log := &SyncLog{
		SyncSettingID: setting.ID,
		StartTime:     time.Now(),
		Status:        "in_progress",
	}
	_ = s.LogRepo.Create(ctx, log)

	var totalProcessed int
	var syncError error

	defer func() {
		log.EndTime = time.Now()
		if syncError != nil {
			log.Status = "failed"
			log.Error = syncError.Error()
		} else {
			log.Status = "success"
		}
		log.ProcessedCount = totalProcessed

		_ = s.LogRepo.Update(ctx, log)

		if syncError == nil {
			_ = s.SyncRepo.Update(ctx, setting.ID.Hex(), map[string]interface{}{
				"last_sync_at": log.StartTime,
			})
		}

		status := "success"
		if syncError != nil {
			status = "failed"
		}
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSync, "sync_settings", setting.Name, map[string]common_models.Change{
			"status":    {New: status},
			"processed": {New: totalProcessed},
			"error":     {New: log.Error},
		})
	}()

	db, err := sql.Open("postgres", setting.DSN)
	if err != nil {
		syncError = fmt.Errorf("failed to open upstream connection: %v", err)
		return syncError
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		syncError = fmt.Errorf("failed to ping upstream: %v", err)
		return syncError
	}

	contactsSynced := false
	for _, entity := range setting.Entities {
		var processed int
		var err error

		switch entity {
		case EntityFlows:
			processed, err = s.syncFlows(ctx, db, setting.LastSyncAt)
		case EntityGroups:
			processed, err = s.syncGroups(ctx, db, setting.LastSyncAt)
		case EntityContacts:
			processed, err = s.syncContacts(ctx, db, setting.LastSyncAt)
			contactsSynced = contactsSynced || processed > 0
		default:
			err = fmt.Errorf("unknown sync entity: %s", entity)
		}

		if err != nil {
			syncError = err
			break
		}
		totalProcessed += processed
	}

	// Membership may have shifted; recount groups once per run.
	if syncError == nil && contactsSynced {
		_, _ = s.GroupService.RefreshCounts(ctx)
	}

	return syncError
}

func (s *SyncServiceImpl) syncFlows(ctx context.Context, db *sql.DB, since time.Time) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT uuid, name, is_archived, labels, expires, contact_count,
		       runs_completed, runs_interrupted, runs_expired, rules, created_on
		FROM flows
		WHERE modified_on > $1`, since)
	if err != nil {
		return 0, fmt.Errorf("failed to query upstream flows: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var f flow.Flow
		var labelsRaw, rulesRaw []byte

		err := rows.Scan(&f.UUID, &f.Name, &f.Archived, &labelsRaw, &f.Expires, &f.Contacts,
			&f.Runs.Completed, &f.Runs.Interrupted, &f.Runs.Expired, &rulesRaw, &f.CreatedOn)
		if err != nil {
			return count, fmt.Errorf("failed to scan upstream flow: %v", err)
		}

		if len(labelsRaw) > 0 {
			if err := json.Unmarshal(labelsRaw, &f.Labels); err != nil {
				return count, fmt.Errorf("bad labels for flow %s: %v", f.UUID, err)
			}
		}
		if len(rulesRaw) > 0 {
			if err := json.Unmarshal(rulesRaw, &f.Rules); err != nil {
				return count, fmt.Errorf("bad rule fields for flow %s: %v", f.UUID, err)
			}
		}

		if err := s.FlowRepo.Upsert(ctx, &f); err != nil {
			return count, fmt.Errorf("failed to upsert flow %s: %v", f.UUID, err)
		}
		count++
	}
	return count, rows.Err()
}

func (s *SyncServiceImpl) syncGroups(ctx context.Context, db *sql.DB, since time.Time) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT uuid, name, COALESCE(query, ''), contact_count
		FROM contact_groups
		WHERE modified_on > $1`, since)
	if err != nil {
		return 0, fmt.Errorf("failed to query upstream groups: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var g group.Group

		if err := rows.Scan(&g.UUID, &g.Name, &g.Query, &g.Count); err != nil {
			return count, fmt.Errorf("failed to scan upstream group: %v", err)
		}

		if err := s.GroupRepo.Upsert(ctx, &g); err != nil {
			return count, fmt.Errorf("failed to upsert group %s: %v", g.UUID, err)
		}
		count++
	}
	return count, rows.Err()
}

func (s *SyncServiceImpl) syncContacts(ctx context.Context, db *sql.DB, since time.Time) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT uuid, name, urn, group_uuids, fields, created_on
		FROM contacts
		WHERE modified_on > $1`, since)
	if err != nil {
		return 0, fmt.Errorf("failed to query upstream contacts: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var c contact.Contact
		var groupsRaw, fieldsRaw []byte

		if err := rows.Scan(&c.UUID, &c.Name, &c.URN, &groupsRaw, &fieldsRaw, &c.CreatedOn); err != nil {
			return count, fmt.Errorf("failed to scan upstream contact: %v", err)
		}

		if len(groupsRaw) > 0 {
			if err := json.Unmarshal(groupsRaw, &c.GroupUUIDs); err != nil {
				return count, fmt.Errorf("bad group list for contact %s: %v", c.UUID, err)
			}
		}
		if len(fieldsRaw) > 0 {
			if err := json.Unmarshal(fieldsRaw, &c.Fields); err != nil {
				return count, fmt.Errorf("bad field values for contact %s: %v", c.UUID, err)
			}
		}

		if err := s.ContactRepo.Upsert(ctx, &c); err != nil {
			return count, fmt.Errorf("failed to upsert contact %s: %v", c.UUID, err)
		}
		count++
	}
	return count, rows.Err()
}
