// Package audit provides database operations for the audit trail.
//
// # Usage
//
//	repo := audit.NewRepository(db)
//	events, total, err := repo.ListEvents(ctx, audit.EventFilter{Username: "alice"})
package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// DefaultLimit caps ListEvents when the filter does not set one.
const DefaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	Username  string
	EventType entities.AuditEventType
	Since     time.Time
	Limit     int
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// ListEvents returns the most recent events matching the filter together
// with the total number of matches.
func (r *Repository) ListEvents(ctx context.Context, filter EventFilter) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at > ?", filter.Since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}

// GetEventByID retrieves a single audit event by ID.
func (r *Repository) GetEventByID(id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	err := r.db.First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}
