package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionPurger drops import sessions that have been idle too long.
type SessionPurger interface {
	PurgeExpired(now time.Time) int
}

// SessionPurgeJob clears abandoned import previews.
type SessionPurgeJob struct {
	registry SessionPurger
	now      func() time.Time
}

func NewSessionPurgeJob(registry SessionPurger) *SessionPurgeJob {
	return &SessionPurgeJob{registry: registry, now: time.Now}
}

func (j *SessionPurgeJob) Name() string { return "import_session_purge" }

func (j *SessionPurgeJob) Run(ctx context.Context) error {
	if removed := j.registry.PurgeExpired(j.now()); removed > 0 {
		zap.L().Info("expired import sessions removed", zap.Int("count", removed))
	}
	return nil
}

// AuditPruner deletes audit events past their retention.
type AuditPruner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// AuditCleanupJob enforces the audit retention period.
type AuditCleanupJob struct {
	audit     AuditPruner
	retention time.Duration
}

func NewAuditCleanupJob(audit AuditPruner, retentionDays int) *AuditCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &AuditCleanupJob{
		audit:     audit,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (j *AuditCleanupJob) Name() string { return "audit_cleanup" }

func (j *AuditCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.audit.DeleteOldEvents(j.retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		zap.L().Info("old audit events removed", zap.Int64("count", deleted))
	}
	return nil
}
