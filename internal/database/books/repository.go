// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	available, err := repo.ListAvailable(ctx)
package books

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a new book. The borrow flag is left NULL.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	book.IsBorrowed = nil
	return r.db.WithContext(ctx).Create(book).Error
}

// GetBookByID retrieves a book including its cover.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListAvailable returns books whose borrow flag is false or unset.
func (r *Repository) ListAvailable(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where("is_borrowed = ? OR is_borrowed IS NULL", false).
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// ListAll returns every book regardless of borrow state.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error
	return books, err
}

// UpdateDetails overwrites title, author and year. Cover and borrow flag are untouched.
func (r *Repository) UpdateDetails(ctx context.Context, id uint, title, author string, year int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"title":          title,
		"author":         author,
		"year_published": year,
	})
	return result.RowsAffected, result.Error
}

// DeleteBook removes a book row. Loans referencing it are left in place.
func (r *Repository) DeleteBook(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&entities.Book{}, id)
	return result.RowsAffected, result.Error
}

// SetBorrowed sets the borrow flag of a single book.
func (r *Repository) SetBorrowed(ctx context.Context, id uint, borrowed bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Update("is_borrowed", borrowed)
	return result.RowsAffected, result.Error
}

// ClaimAvailable sets the borrow flag only if the book is currently available.
// Zero rows affected means the book is missing or already borrowed.
func (r *Repository) ClaimAvailable(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ? AND (is_borrowed = ? OR is_borrowed IS NULL)", id, false).
		Update("is_borrowed", true)
	return result.RowsAffected, result.Error
}

// MarkAvailableByTitle clears the borrow flag of every book whose trimmed
// title equals title.
func (r *Repository) MarkAvailableByTitle(ctx context.Context, title string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("TRIM(title) = ?", strings.TrimSpace(title)).
		Update("is_borrowed", false)
	return result.RowsAffected, result.Error
}

// ListBorrowed returns books whose borrow flag is set.
func (r *Repository) ListBorrowed(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Omit("cover").Where("is_borrowed = ?", true).Order("id ASC").Find(&books).Error
	return books, err
}
