package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/PotatoCodder/library-management-backend/internal/audit"
	auditRepo "github.com/PotatoCodder/library-management-backend/internal/database/audit"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
	"github.com/PotatoCodder/library-management-backend/internal/services"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller takes only the interface it needs so tests can supply mocks.

// CatalogStore manages book records.
type CatalogStore interface {
	AddBook(ctx context.Context, input services.BookInput) (*entities.Book, error)
	ListAvailableBooks(ctx context.Context) ([]entities.Book, error)
	ListAllBooks(ctx context.Context) ([]entities.Book, error)
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	UpdateBook(ctx context.Context, id uint, input services.BookInput) error
	DeleteBook(ctx context.Context, id uint) error
}

// BorrowingStore tracks which user holds which book.
type BorrowingStore interface {
	MarkBorrowed(ctx context.Context, bookID uint) error
	AppendBorrowed(ctx context.Context, username, title string, bookID *uint) error
	Borrow(ctx context.Context, bookID uint, username string) (*entities.Book, error)
	ListBorrowed(ctx context.Context, username string) ([]string, error)
	ReturnBook(ctx context.Context, username, title string) (*services.ReturnResult, error)
}

// Authenticator checks credentials and registers users.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (entities.Role, error)
	Register(ctx context.Context, username, password string) (*entities.User, error)
}

// LoginLimiter throttles repeated failed logins.
type LoginLimiter interface {
	Allow(ip, username string) (bool, time.Duration)
	RecordFailure(ip, username string) (bool, time.Duration)
	RecordSuccess(ip, username string)
}

// AuditRecorder receives audit events from controllers.
type AuditRecorder interface {
	LogCatalog(origin audit.Origin, action string, bookID uint, description string, err error)
	LogBorrow(origin audit.Origin, username, action string, bookID *uint, title string, err error)
	LogReturn(origin audit.Origin, username, title string, entriesRemoved, booksReleased int64, err error)
	LogAuth(origin audit.Origin, username, action string, success bool)
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	ListEvents(ctx context.Context, filter auditRepo.EventFilter) ([]entities.AuditEvent, int64, error)
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// MaintenanceStatus reports the state of the maintenance scheduler.
type MaintenanceStatus interface {
	IsRunning() bool
	NextRun() time.Time
}

// nopAuditor drops every event. Used when no audit service is configured.
type nopAuditor struct{}

func (nopAuditor) LogCatalog(audit.Origin, string, uint, string, error)         {}
func (nopAuditor) LogBorrow(audit.Origin, string, string, *uint, string, error) {}
func (nopAuditor) LogReturn(audit.Origin, string, string, int64, int64, error)  {}
func (nopAuditor) LogAuth(audit.Origin, string, string, bool)                   {}
