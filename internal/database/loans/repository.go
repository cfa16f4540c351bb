// Package loans provides database operations for users' borrowed lists.
//
// A borrowed list is the ordered set of loan rows for a user. Titles may
// repeat and are compared with surrounding whitespace ignored.
//
// # Usage
//
//	repo := loans.NewRepository(db)
//	titles, err := repo.ListTitles(ctx, user.ID)
package loans

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/database/books"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// Repository handles all loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append adds a title to the end of the user's borrowed list.
func (r *Repository) Append(ctx context.Context, userID uint, bookID *uint, title string) (*entities.Loan, error) {
	loan := &entities.Loan{
		UserID:     userID,
		BookID:     bookID,
		Title:      title,
		BorrowedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(loan).Error; err != nil {
		return nil, err
	}
	return loan, nil
}

// ListTitles returns the user's borrowed titles in insertion order.
// The result is never nil.
func (r *Repository) ListTitles(ctx context.Context, userID uint) ([]string, error) {
	titles := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.Loan{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("title", &titles).Error
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	for i := range titles {
		titles[i] = strings.TrimSpace(titles[i])
	}
	return titles, nil
}

// RemoveTitle deletes every entry in the user's list whose trimmed title
// equals title. Returns the number of removed entries.
func (r *Repository) RemoveTitle(ctx context.Context, userID uint, title string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND TRIM(title) = ?", userID, strings.TrimSpace(title)).
		Delete(&entities.Loan{})
	return result.RowsAffected, result.Error
}

// Drift lists records on either side of the borrow invariant that have no
// counterpart on the other side.
type Drift struct {
	// Books flagged borrowed whose title is in nobody's list.
	UntrackedBooks []entities.Book `json:"untracked_books"`
	// Loans whose title matches no borrowed book.
	DanglingLoans []entities.Loan `json:"dangling_loans"`
}

// Empty reports whether no drift was found.
func (d *Drift) Empty() bool {
	return len(d.UntrackedBooks) == 0 && len(d.DanglingLoans) == 0
}

// FindDrift compares borrow flags against borrowed lists.
func (r *Repository) FindDrift(ctx context.Context) (*Drift, error) {
	flagged, err := books.NewRepository(r.db).ListBorrowed(ctx)
	if err != nil {
		return nil, err
	}

	var listed []string
	err = r.db.WithContext(ctx).Model(&entities.Loan{}).Pluck("title", &listed).Error
	if err != nil {
		return nil, err
	}
	onLoan := make(map[string]struct{}, len(listed))
	for _, title := range listed {
		onLoan[strings.TrimSpace(title)] = struct{}{}
	}

	drift := &Drift{}
	for _, book := range flagged {
		if _, ok := onLoan[strings.TrimSpace(book.Title)]; !ok {
			drift.UntrackedBooks = append(drift.UntrackedBooks, book)
		}
	}

	err = r.db.WithContext(ctx).Model(&entities.Loan{}).
		Where("NOT EXISTS (SELECT 1 FROM books WHERE TRIM(books.title) = TRIM(loans.title) AND books.is_borrowed = ?)", true).
		Order("id ASC").
		Find(&drift.DanglingLoans).Error
	if err != nil {
		return nil, err
	}

	return drift, nil
}
