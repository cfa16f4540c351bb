package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PotatoCodder/library-management-backend/internal/database/users"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "services.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.User{}, &entities.Admin{}, &entities.Loan{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user, err := users.NewRepository(db).CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	return user
}

func addBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	t.Helper()
	book, err := NewCatalogService(db).AddBook(context.Background(), BookInput{
		Title:  title,
		Author: "Frank Herbert",
		Year:   1965,
	})
	require.NoError(t, err)
	return book
}
