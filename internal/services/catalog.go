// Package services implements the catalog and borrowing operations on top of
// the database repositories.
//
// # Usage
//
//	catalog := services.NewCatalogService(db.DB)
//	book, err := catalog.AddBook(ctx, services.BookInput{Title: "Dune", Author: "Frank Herbert", Year: 1965})
//
//	borrowing := services.NewBorrowingService(db.DB)
//	_, err = borrowing.Borrow(ctx, book.ID, "alice")
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/PotatoCodder/library-management-backend/internal/database/books"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// BookInput holds the editable fields of a book.
type BookInput struct {
	Title  string
	Author string
	Year   int
	Cover  []byte
}

// CatalogService manages book records.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// AddBook inserts a new, available book.
func (s *CatalogService) AddBook(ctx context.Context, input BookInput) (*entities.Book, error) {
	book := &entities.Book{
		Title:         strings.TrimSpace(input.Title),
		Author:        strings.TrimSpace(input.Author),
		YearPublished: input.Year,
		Cover:         input.Cover,
	}
	if err := books.NewRepository(s.db).CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// ListAvailableBooks returns books that are not borrowed.
func (s *CatalogService) ListAvailableBooks(ctx context.Context) ([]entities.Book, error) {
	list, err := books.NewRepository(s.db).ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available books: %w", err)
	}
	return list, nil
}

// ListAllBooks returns every book regardless of borrow state.
func (s *CatalogService) ListAllBooks(ctx context.Context) ([]entities.Book, error) {
	list, err := books.NewRepository(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return list, nil
}

// GetBook returns a single book including its cover.
func (s *CatalogService) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := books.NewRepository(s.db).GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// UpdateBook overwrites title, author and year. The cover and borrow state
// are left alone. An unknown id is not an error.
func (s *CatalogService) UpdateBook(ctx context.Context, id uint, input BookInput) error {
	rows, err := books.NewRepository(s.db).UpdateDetails(ctx, id, strings.TrimSpace(input.Title), strings.TrimSpace(input.Author), input.Year)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if rows == 0 {
		log.Printf("Update of book %d matched no rows", id)
	}
	return nil
}

// DeleteBook removes a book unconditionally. Loans naming the book are kept
// and show up in the drift report.
func (s *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	rows, err := books.NewRepository(s.db).DeleteBook(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if rows == 0 {
		log.Printf("Delete of book %d matched no rows", id)
	}
	return nil
}
