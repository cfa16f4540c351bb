package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/services"
)

// BorrowedTitleRequest names a title to append or return.
// BookID is optional and only recorded for reference.
type BorrowedTitleRequest struct {
	BookTitle string `json:"bookTitle"`
	BookID    *uint  `json:"bookId,omitempty"`
}

// BorrowedBooksResponse lists a user's borrowed titles in borrow order.
type BorrowedBooksResponse struct {
	BorrowedBooks []string `json:"borrowedBooks"`
}

// BorrowResponse is returned by the single-call borrow.
type BorrowResponse struct {
	Message string       `json:"message"`
	Book    BookResponse `json:"book"`
}

type BorrowingController struct {
	store BorrowingStore
	audit AuditRecorder
}

func NewBorrowingController(store BorrowingStore, auditor AuditRecorder) *BorrowingController {
	return &BorrowingController{
		store: store,
		audit: auditor,
	}
}

// MarkBorrowed handles PUT /books/borrow/:id. Clients follow it with
// AppendBorrowed; the two calls are not atomic.
func (bc *BorrowingController) MarkBorrowed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.MarkBorrowed(c.Request.Context(), id)
	bc.audit.LogBorrow(auditOrigin(c), "", "book_mark_borrowed", &id, "", err)
	if err != nil {
		respondInternalError(c, err, "Error borrowing book")
		return
	}
	respondSuccess(c, "Book marked as borrowed")
}

// AppendBorrowed handles PUT /users/borrow/:username.
func (bc *BorrowingController) AppendBorrowed(c *gin.Context) {
	username := c.Param("username")

	var req BorrowedTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	err := bc.store.AppendBorrowed(c.Request.Context(), username, req.BookTitle, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingTitle):
			respondBadRequest(c, "Missing book title")
		case errors.Is(err, services.ErrUserNotFound):
			respondNotFound(c, "User")
		default:
			bc.audit.LogBorrow(auditOrigin(c), username, "borrowed_list_append", req.BookID, req.BookTitle, err)
			respondInternalError(c, err, "Error updating user")
		}
		return
	}

	bc.audit.LogBorrow(auditOrigin(c), username, "borrowed_list_append", req.BookID, req.BookTitle, nil)
	respondSuccess(c, "User borrowedBooks updated")
}

// Borrow handles POST /users/:username/borrow/:id, flagging the book and
// appending its title in one transaction.
func (bc *BorrowingController) Borrow(c *gin.Context) {
	username := c.Param("username")
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.Borrow(c.Request.Context(), id, username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondNotFound(c, "User")
		case errors.Is(err, services.ErrBookNotFound):
			respondNotFound(c, "Book")
		case errors.Is(err, services.ErrAlreadyBorrowed):
			bc.audit.LogBorrow(auditOrigin(c), username, "book_borrow", &id, "", err)
			respondError(c, http.StatusConflict, "Book is already borrowed")
		default:
			bc.audit.LogBorrow(auditOrigin(c), username, "book_borrow", &id, "", err)
			respondInternalError(c, err, "Error borrowing book")
		}
		return
	}

	bc.audit.LogBorrow(auditOrigin(c), username, "book_borrow", &id, book.Title, nil)
	c.JSON(http.StatusOK, BorrowResponse{
		Message: "Book borrowed successfully",
		Book:    newBookResponse(book),
	})
}

// ListBorrowed handles GET /users/:username/borrowed-books.
func (bc *BorrowingController) ListBorrowed(c *gin.Context) {
	titles, err := bc.store.ListBorrowed(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "Error retrieving borrowed books")
		return
	}
	if titles == nil {
		titles = []string{}
	}
	c.JSON(http.StatusOK, BorrowedBooksResponse{BorrowedBooks: titles})
}

// ReturnBook handles PUT /users/:username/return-book. Every entry with the
// title is removed and every book with the title becomes available.
func (bc *BorrowingController) ReturnBook(c *gin.Context) {
	username := c.Param("username")

	var req BorrowedTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing book title")
		return
	}

	result, err := bc.store.ReturnBook(c.Request.Context(), username, req.BookTitle)
	if err != nil {
		if errors.Is(err, services.ErrMissingTitle) {
			respondBadRequest(c, "Missing book title")
			return
		}

		bc.audit.LogReturn(auditOrigin(c), username, req.BookTitle, 0, 0, err)
		switch {
		case errors.Is(err, services.ErrFetchUser):
			respondInternalError(c, err, "Error fetching user data")
		case errors.Is(err, services.ErrUpdateUser):
			respondInternalError(c, err, "Error updating user data")
		case errors.Is(err, services.ErrUpdateBook):
			respondInternalError(c, err, "Error updating book status")
		default:
			respondInternalError(c, err, "Error returning book")
		}
		return
	}

	bc.audit.LogReturn(auditOrigin(c), username, req.BookTitle, result.EntriesRemoved, result.BooksReleased, nil)
	respondSuccess(c, "Book returned successfully")
}
