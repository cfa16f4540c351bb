package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/covers"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
	"github.com/PotatoCodder/library-management-backend/internal/services"
)

// BookResponse is the JSON shape of a book. Cover is a data URI or null.
type BookResponse struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Year       int     `json:"year"`
	Cover      *string `json:"cover"`
	IsBorrowed *bool   `json:"isBorrowed,omitempty"`
}

func newBookResponse(book *entities.Book) BookResponse {
	return BookResponse{
		ID:         book.ID,
		Title:      book.Title,
		Author:     book.Author,
		Year:       book.YearPublished,
		Cover:      covers.DataURI(book.Cover),
		IsBorrowed: book.IsBorrowed,
	}
}

func newBookResponses(list []entities.Book) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for i := range list {
		out = append(out, newBookResponse(&list[i]))
	}
	return out
}

// UpdateBookRequest is the body of PUT /books/:id. Year may be sent as a
// number or a numeric string.
type UpdateBookRequest struct {
	Title  string      `json:"title"`
	Author string      `json:"author"`
	Year   json.Number `json:"year"`
}

type BooksController struct {
	store         CatalogStore
	audit         AuditRecorder
	maxCoverBytes int64
}

func NewBooksController(store CatalogStore, auditor AuditRecorder, maxCoverBytes int64) *BooksController {
	return &BooksController{
		store:         store,
		audit:         auditor,
		maxCoverBytes: maxCoverBytes,
	}
}

// AddBook handles POST /add-book with multipart fields title, author, year
// and an optional cover file.
func (bc *BooksController) AddBook(c *gin.Context) {
	year, err := parseYear(c.PostForm("year"))
	if err != nil {
		respondBadRequest(c, "Invalid year")
		return
	}

	cover, err := bc.readCover(c)
	if err != nil {
		if errors.Is(err, covers.ErrCoverTooLarge) {
			respondBadRequest(c, "Cover image is too large")
			return
		}
		respondBadRequest(c, "Invalid cover upload")
		return
	}

	book, err := bc.store.AddBook(c.Request.Context(), services.BookInput{
		Title:  c.PostForm("title"),
		Author: c.PostForm("author"),
		Year:   year,
		Cover:  cover,
	})
	if err != nil {
		bc.audit.LogCatalog(auditOrigin(c), "book_create", 0, "Failed to add book", err)
		respondInternalError(c, err, "Error adding book")
		return
	}

	bc.audit.LogCatalog(auditOrigin(c), "book_create", book.ID, fmt.Sprintf("Added %q", book.Title), nil)
	respondSuccess(c, "Book added successfully!")
}

func (bc *BooksController) readCover(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return covers.ReadUpload(header, bc.maxCoverBytes)
}

// ListAvailable handles GET /books.
func (bc *BooksController) ListAvailable(c *gin.Context) {
	list, err := bc.store.ListAvailableBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error retrieving books")
		return
	}
	c.JSON(http.StatusOK, newBookResponses(list))
}

// ListAll handles GET /books/all, including borrowed books.
func (bc *BooksController) ListAll(c *gin.Context) {
	list, err := bc.store.ListAllBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error retrieving books")
		return
	}
	c.JSON(http.StatusOK, newBookResponses(list))
}

func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			respondNotFound(c, "Book")
			return
		}
		respondInternalError(c, err, "Error retrieving book")
		return
	}
	c.JSON(http.StatusOK, newBookResponse(book))
}

// GetCover handles GET /books/:id/cover and serves the raw image bytes.
func (bc *BooksController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			respondNotFound(c, "Book")
			return
		}
		respondInternalError(c, err, "Error retrieving cover")
		return
	}
	if len(book.Cover) == 0 {
		respondNotFound(c, "Cover")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, covers.DetectMIME(book.Cover), book.Cover)
}

// UpdateBook handles PUT /books/:id. Only title, author and year change.
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	year, err := parseYear(req.Year.String())
	if err != nil {
		respondBadRequest(c, "Invalid year")
		return
	}

	err = bc.store.UpdateBook(c.Request.Context(), id, services.BookInput{
		Title:  req.Title,
		Author: req.Author,
		Year:   year,
	})
	bc.audit.LogCatalog(auditOrigin(c), "book_update", id, fmt.Sprintf("Updated book %d", id), err)
	if err != nil {
		respondInternalError(c, err, "Error updating book")
		return
	}
	respondSuccess(c, "Book updated successfully")
}

// DeleteBook handles DELETE /books/:id. Borrowed-list entries naming the
// book are left alone.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.DeleteBook(c.Request.Context(), id)
	bc.audit.LogCatalog(auditOrigin(c), "book_delete", id, fmt.Sprintf("Deleted book %d", id), err)
	if err != nil {
		respondInternalError(c, err, "Error deleting book")
		return
	}
	respondSuccess(c, "Book deleted successfully")
}

// parseYear accepts an integer year. An empty value means no year.
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
