package entities

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Author        string    `gorm:"size:256" json:"author"`
	YearPublished int       `json:"year"`
	Cover         []byte    `json:"-"`
	IsBorrowed    *bool     `gorm:"index" json:"isBorrowed,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Borrowed reports whether the book is currently checked out. A NULL flag
// counts as available.
func (b *Book) Borrowed() bool {
	return b.IsBorrowed != nil && *b.IsBorrowed
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Loans        []Loan    `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Admin credentials live in their own table and can only be created from the CLI.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// Loan is one entry of a user's borrowed list. Entries are ordered by ID and
// matched by Title on return, so two loans may carry the same title.
// BookID is nil when the entry was recorded without a book reference.
type Loan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	BookID     *uint     `gorm:"index" json:"book_id,omitempty"`
	Title      string    `gorm:"index;size:512;not null" json:"title"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

func (Loan) TableName() string {
	return "loans"
}
