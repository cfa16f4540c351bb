package http

import (
	"context"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/PotatoCodder/library-management-backend/internal/audit"
	auditRepo "github.com/PotatoCodder/library-management-backend/internal/database/audit"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
	"github.com/PotatoCodder/library-management-backend/internal/services"
)

type mockCatalog struct {
	books     []entities.Book
	added     *services.BookInput
	updatedID uint
	updated   *services.BookInput
	deletedID uint
	err       error
}

func (m *mockCatalog) AddBook(ctx context.Context, input services.BookInput) (*entities.Book, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added = &input
	return &entities.Book{ID: 1, Title: input.Title, Author: input.Author, YearPublished: input.Year, Cover: input.Cover}, nil
}

func (m *mockCatalog) ListAvailableBooks(ctx context.Context) ([]entities.Book, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []entities.Book
	for _, b := range m.books {
		if !b.Borrowed() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockCatalog) ListAllBooks(ctx context.Context) ([]entities.Book, error) {
	return m.books, m.err
}

func (m *mockCatalog) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.books {
		if m.books[i].ID == id {
			return &m.books[i], nil
		}
	}
	return nil, services.ErrBookNotFound
}

func (m *mockCatalog) UpdateBook(ctx context.Context, id uint, input services.BookInput) error {
	m.updatedID = id
	m.updated = &input
	return m.err
}

func (m *mockCatalog) DeleteBook(ctx context.Context, id uint) error {
	m.deletedID = id
	return m.err
}

type mockBorrowing struct {
	marked   []uint
	appended []string
	borrowed map[string][]string
	book     *entities.Book
	result   *services.ReturnResult
	err      error
}

func (m *mockBorrowing) MarkBorrowed(ctx context.Context, bookID uint) error {
	m.marked = append(m.marked, bookID)
	return m.err
}

func (m *mockBorrowing) AppendBorrowed(ctx context.Context, username, title string, bookID *uint) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, title)
	return nil
}

func (m *mockBorrowing) Borrow(ctx context.Context, bookID uint, username string) (*entities.Book, error) {
	return m.book, m.err
}

func (m *mockBorrowing) ListBorrowed(ctx context.Context, username string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	titles, ok := m.borrowed[username]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return titles, nil
}

func (m *mockBorrowing) ReturnBook(ctx context.Context, username, title string) (*services.ReturnResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if title == "" {
		return nil, services.ErrMissingTitle
	}
	return m.result, nil
}

type mockAuthenticator struct {
	role entities.Role
	err  error
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (entities.Role, error) {
	return m.role, m.err
}

func (m *mockAuthenticator) Register(ctx context.Context, username, password string) (*entities.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &entities.User{ID: 1, Username: username}, nil
}

type mockLimiter struct {
	blocked   bool
	failures  int
	successes int
}

func (m *mockLimiter) Allow(ip, username string) (bool, time.Duration) {
	if m.blocked {
		return false, 90 * time.Second
	}
	return true, 0
}

func (m *mockLimiter) RecordFailure(ip, username string) (bool, time.Duration) {
	m.failures++
	return false, 0
}

func (m *mockLimiter) RecordSuccess(ip, username string) {
	m.successes++
}

// recordingAuditor remembers the actions it was given.
type recordingAuditor struct {
	mu      sync.Mutex
	actions []string
	failed  []string
}

func (r *recordingAuditor) record(action string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	if err != nil {
		r.failed = append(r.failed, action)
	}
}

func (r *recordingAuditor) LogCatalog(origin audit.Origin, action string, bookID uint, description string, err error) {
	r.record(action, err)
}

func (r *recordingAuditor) LogBorrow(origin audit.Origin, username, action string, bookID *uint, title string, err error) {
	r.record(action, err)
}

func (r *recordingAuditor) LogReturn(origin audit.Origin, username, title string, entriesRemoved, booksReleased int64, err error) {
	r.record("book_return", err)
}

func (r *recordingAuditor) LogAuth(origin audit.Origin, username, action string, success bool) {
	r.record(action, nil)
}

type mockTaskQueue struct {
	enqueued []backlite.Task
	status   backlite.TaskStatus
	err      error
}

func (m *mockTaskQueue) Enqueue(task backlite.Task) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.enqueued = append(m.enqueued, task)
	return "task-1", nil
}

func (m *mockTaskQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return m.status, m.err
}

type mockAuditReader struct {
	events []entities.AuditEvent
	filter auditRepo.EventFilter
	err    error
}

func (m *mockAuditReader) ListEvents(ctx context.Context, filter auditRepo.EventFilter) ([]entities.AuditEvent, int64, error) {
	m.filter = filter
	return m.events, int64(len(m.events)), m.err
}
