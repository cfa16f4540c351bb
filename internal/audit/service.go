package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/PotatoCodder/library-management-backend/internal/database/audit"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// Origin identifies the request an event came from.
type Origin struct {
	RequestID string
	IPAddress string
}

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
		if err := s.Log(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event passed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogCatalog records a change to a book record.
func (s *Service) LogCatalog(origin Origin, action string, bookID uint, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCatalog,
		Action:      action,
		Description: truncate(description, 500),
		EntityType:  "book",
		EntityID:    &bookID,
		RequestID:   origin.RequestID,
		IPAddress:   origin.IPAddress,
		Status:      entities.AuditStatusSuccess,
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// LogBorrow records a borrow or one of its two legacy steps.
// bookID is nil when only the title is known.
func (s *Service) LogBorrow(origin Origin, username, action string, bookID *uint, title string, err error) {
	event := &entities.AuditEvent{
		Username:    username,
		EventType:   entities.AuditEventBorrow,
		Action:      action,
		Description: truncate("Borrowed "+title, 500),
		EntityType:  "book",
		EntityID:    bookID,
		RequestID:   origin.RequestID,
		IPAddress:   origin.IPAddress,
		Status:      entities.AuditStatusSuccess,
	}
	if title == "" && bookID != nil {
		event.Description = fmt.Sprintf("Marked book %d borrowed", *bookID)
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// LogReturn records a return with the number of list entries and books it touched.
func (s *Service) LogReturn(origin Origin, username, title string, entriesRemoved, booksReleased int64, err error) {
	event := &entities.AuditEvent{
		Username:    username,
		EventType:   entities.AuditEventReturn,
		Action:      "book_return",
		Description: truncate("Returned "+title, 500),
		EntityType:  "book",
		RequestID:   origin.RequestID,
		IPAddress:   origin.IPAddress,
		Status:      entities.AuditStatusSuccess,
	}
	event.Metadata = encodeMetadata(map[string]any{
		"entries_removed": entriesRemoved,
		"books_released":  booksReleased,
	})
	markFailed(event, err)

	s.LogAsync(event)
}

// LogAuth records a login or registration attempt.
func (s *Service) LogAuth(origin Origin, username, action string, success bool) {
	event := &entities.AuditEvent{
		Username:  username,
		EventType: entities.AuditEventAuth,
		Action:    action,
		RequestID: origin.RequestID,
		IPAddress: origin.IPAddress,
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogMaintenance records the outcome of a background task. Unlike the
// request-path helpers it writes synchronously.
func (s *Service) LogMaintenance(action, description string, metadata map[string]any, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}
	if len(metadata) > 0 {
		event.Metadata = encodeMetadata(metadata)
	}
	markFailed(event, err)

	if err := s.Log(event); err != nil {
		log.Printf("Failed to log maintenance event %s: %v", action, err)
	}
}

// ListEvents returns recent audit events matching the filter.
func (s *Service) ListEvents(ctx context.Context, filter audit.EventFilter) ([]entities.AuditEvent, int64, error) {
	return s.repo.ListEvents(ctx, filter)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func markFailed(event *entities.AuditEvent, err error) {
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
}

func encodeMetadata(metadata map[string]any) string {
	mdBytes, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(mdBytes)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
