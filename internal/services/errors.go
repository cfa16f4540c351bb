package services

import "errors"

var (
	ErrMissingTitle    = errors.New("book title is required")
	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyBorrowed = errors.New("book is already borrowed")

	// Return protocol steps. Each wraps the underlying store error.
	ErrFetchUser  = errors.New("failed to fetch user")
	ErrUpdateUser = errors.New("failed to update borrowed list")
	ErrUpdateBook = errors.New("failed to update book availability")
)
