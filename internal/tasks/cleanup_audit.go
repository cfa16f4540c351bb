package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultAuditRetentionDays applies when a task does not set a retention.
const DefaultAuditRetentionDays = 30

var errNoCleaner = errors.New("audit event cleaner not configured")

// AuditEventCleaner deletes audit events older than a retention period.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// MaintenanceReporter records the outcome of a maintenance task.
type MaintenanceReporter interface {
	LogMaintenance(action, description string, metadata map[string]any, err error)
}

// CleanupAuditEventsTask prunes the audit trail.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config retries a failed prune a few times before giving up until the next schedule.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t CleanupAuditEventsTask) retentionDays() int {
	if t.RetentionDays > 0 {
		return t.RetentionDays
	}
	return DefaultAuditRetentionDays
}

// CleanupAuditEventsProcessor deletes expired events and, when reporter is
// set, records how many went. The report itself is an audit event, so it
// survives the prune it describes.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner, reporter MaintenanceReporter) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return errNoCleaner
		}

		days := task.retentionDays()
		deleted, err := cleaner.DeleteOldEvents(time.Duration(days) * 24 * time.Hour)

		if reporter != nil {
			reporter.LogMaintenance("audit_cleanup",
				fmt.Sprintf("Deleted %d audit events older than %d days", deleted, days),
				map[string]any{"deleted": deleted, "retention_days": days}, err)
		}
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}

		log.Printf("[TASK] Deleted %d audit events older than %d days", deleted, days)
		return nil
	}
}

// NewCleanupAuditEventsQueue builds the backlite queue for CleanupAuditEventsTask.
func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner, reporter MaintenanceReporter) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner, reporter))
}
