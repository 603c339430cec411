package audit

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/commlog/internal/database/audit"
	"github.com/mrlokans/commlog/internal/entities"
)

// maxRecordedErrors caps how many row errors are kept in an import event.
const maxRecordedErrors = 10

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			zap.L().Error("failed to log audit event",
				zap.String("action", event.Action),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every event passed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogImport records the outcome of committing an import file.
func (s *Service) LogImport(userID uint, filename string, success, failed int, rowErrors []string) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if format == "" {
		format = "file"
	}

	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventImport,
		Action:      format + "_import",
		Description: truncate(fmt.Sprintf("Imported %d of %d entries from %s", success, success+failed, filepath.Base(filename)), 500),
		EntityType:  "entry",
		Status:      importStatus(success, failed),
	}

	recorded := rowErrors
	if len(recorded) > maxRecordedErrors {
		recorded = recorded[:maxRecordedErrors]
	}
	metadata := map[string]any{
		"filename": filename,
		"success":  success,
		"failed":   failed,
		"errors":   recorded,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}
	if len(rowErrors) > 0 {
		event.ErrorMsg = truncate(rowErrors[0], 500)
	}

	s.LogAsync(event)
}

// LogBulkDelete records a bulk deletion of entries.
func (s *Service) LogBulkDelete(userID uint, ids []uint, deleted int64) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventDelete,
		Action:      "entry_bulk_delete",
		Description: fmt.Sprintf("Deleted %d of %d requested entries", deleted, len(ids)),
		EntityType:  "entry",
		Status:      entities.AuditStatusSuccess,
	}
	if len(ids) == 1 {
		id := ids[0]
		event.EntityID = &id
	}

	if mdBytes, e := json.Marshal(map[string]any{"ids": ids, "deleted": deleted}); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(filter audit.EventFilter) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func importStatus(success, failed int) entities.AuditStatus {
	switch {
	case failed == 0:
		return entities.AuditStatusSuccess
	case success == 0:
		return entities.AuditStatusFailed
	default:
		return entities.AuditStatusPartial
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
