package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/database/books"
	"github.com/PotatoCodder/library-management-backend/internal/database/loans"
	"github.com/PotatoCodder/library-management-backend/internal/database/users"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// BorrowingService keeps book borrow flags and users' borrowed lists in step.
//
// MarkBorrowed and AppendBorrowed are the two halves of a borrow issued by
// separate requests. Nothing ties them together: if one succeeds and the
// other does not, the flag and the list disagree until someone notices.
// Borrow performs both halves in one transaction.
type BorrowingService struct {
	db *gorm.DB
}

// NewBorrowingService creates a new borrowing service.
func NewBorrowingService(db *gorm.DB) *BorrowingService {
	return &BorrowingService{db: db}
}

// ReturnResult reports what a return changed.
type ReturnResult struct {
	EntriesRemoved int64 `json:"entriesRemoved"`
	BooksReleased  int64 `json:"booksReleased"`
}

// MarkBorrowed sets the borrow flag of a book. It does not check the current
// state and an unknown id is not an error.
func (s *BorrowingService) MarkBorrowed(ctx context.Context, bookID uint) error {
	rows, err := books.NewRepository(s.db).SetBorrowed(ctx, bookID, true)
	if err != nil {
		return fmt.Errorf("failed to mark book borrowed: %w", err)
	}
	if rows == 0 {
		log.Printf("Mark borrowed for book %d matched no rows", bookID)
	}
	return nil
}

// AppendBorrowed adds a title to the end of the user's borrowed list.
// bookID is optional and only recorded for reference.
func (s *BorrowingService) AppendBorrowed(ctx context.Context, username, title string, bookID *uint) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrMissingTitle
	}

	user, err := users.NewRepository(s.db).GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if _, err := loans.NewRepository(s.db).Append(ctx, user.ID, bookID, title); err != nil {
		return fmt.Errorf("failed to append to borrowed list: %w", err)
	}
	return nil
}

// Borrow flags the book and appends its title to the user's list atomically.
func (s *BorrowingService) Borrow(ctx context.Context, bookID uint, username string) (*entities.Book, error) {
	var borrowed *entities.Book

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookRepo := books.NewRepository(tx)

		user, err := users.NewRepository(tx).GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		book, err := bookRepo.GetBookByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return fmt.Errorf("failed to get book: %w", err)
		}

		// Conditional update so two concurrent borrows cannot both win
		rows, err := bookRepo.ClaimAvailable(ctx, book.ID)
		if err != nil {
			return fmt.Errorf("failed to mark book borrowed: %w", err)
		}
		if rows == 0 {
			return ErrAlreadyBorrowed
		}

		if _, err := loans.NewRepository(tx).Append(ctx, user.ID, &book.ID, strings.TrimSpace(book.Title)); err != nil {
			return fmt.Errorf("failed to append to borrowed list: %w", err)
		}

		flag := true
		book.IsBorrowed = &flag
		borrowed = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return borrowed, nil
}

// ListBorrowed returns the user's borrowed titles in the order they were added.
func (s *BorrowingService) ListBorrowed(ctx context.Context, username string) ([]string, error) {
	user, err := users.NewRepository(s.db).GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	titles, err := loans.NewRepository(s.db).ListTitles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowed titles: %w", err)
	}
	return titles, nil
}

// ReturnBook removes every entry equal to title from the user's list and
// makes every book with that title available again. All three steps share a
// transaction; a failure in any of them leaves the store unchanged.
func (s *BorrowingService) ReturnBook(ctx context.Context, username, title string) (*ReturnResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	result := &ReturnResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := users.NewRepository(tx).GetUserByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFetchUser, err)
		}

		removed, err := loans.NewRepository(tx).RemoveTitle(ctx, user.ID, title)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUpdateUser, err)
		}

		released, err := books.NewRepository(tx).MarkAvailableByTitle(ctx, title)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUpdateBook, err)
		}

		result.EntriesRemoved = removed
		result.BooksReleased = released
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindDrift reports books and loans that disagree with each other.
func (s *BorrowingService) FindDrift(ctx context.Context) (*loans.Drift, error) {
	drift, err := loans.NewRepository(s.db).FindDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find drift: %w", err)
	}
	return drift, nil
}
