package loans

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "loans.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.User{}, &entities.Loan{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_ListTitles_EmptyIsNotNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createUser(t, db, "alice")

	titles, err := repo.ListTitles(context.Background(), user.ID)

	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)
}

func TestRepository_AppendKeepsOrderAndDuplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	other := createUser(t, db, "bob")

	for _, title := range []string{"Dune", "Emma", "Dune"} {
		_, err := repo.Append(ctx, user.ID, nil, title)
		require.NoError(t, err)
	}
	_, err := repo.Append(ctx, other.ID, nil, "Ulysses")
	require.NoError(t, err)

	titles, err := repo.ListTitles(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"Dune", "Emma", "Dune"}, titles)
}

func TestRepository_RemoveTitle_RemovesAllMatches(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice")

	for _, title := range []string{"Dune", "Emma", "Dune"} {
		_, err := repo.Append(ctx, user.ID, nil, title)
		require.NoError(t, err)
	}

	removed, err := repo.RemoveTitle(ctx, user.ID, "Dune")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	titles, err := repo.ListTitles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma"}, titles)
}

func TestRepository_PaddedTitlesAreTrimmed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice")

	for _, title := range []string{"Dune ", " Emma"} {
		_, err := repo.Append(ctx, user.ID, nil, title)
		require.NoError(t, err)
	}

	titles, err := repo.ListTitles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune", "Emma"}, titles)

	removed, err := repo.RemoveTitle(ctx, user.ID, " Dune")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	titles, err = repo.ListTitles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma"}, titles)
}

func TestRepository_RemoveTitle_NoMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	_, err := repo.Append(ctx, user.ID, nil, "Emma")
	require.NoError(t, err)

	removed, err := repo.RemoveTitle(ctx, user.ID, "Dune")

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRepository_RemoveTitle_OnlyTouchesOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	_, err := repo.Append(ctx, alice.ID, nil, "Dune")
	require.NoError(t, err)
	_, err = repo.Append(ctx, bob.ID, nil, "Dune")
	require.NoError(t, err)

	_, err = repo.RemoveTitle(ctx, alice.ID, "Dune")
	require.NoError(t, err)

	titles, err := repo.ListTitles(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles)
}

func TestRepository_FindDrift(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	borrowed := true

	tracked := &entities.Book{Title: "Dune", IsBorrowed: &borrowed}
	untracked := &entities.Book{Title: "Emma", IsBorrowed: &borrowed}
	available := &entities.Book{Title: "Ulysses"}
	require.NoError(t, db.Create(tracked).Error)
	require.NoError(t, db.Create(untracked).Error)
	require.NoError(t, db.Create(available).Error)

	_, err := repo.Append(ctx, user.ID, &tracked.ID, "Dune")
	require.NoError(t, err)
	dangling, err := repo.Append(ctx, user.ID, &available.ID, "Ulysses")
	require.NoError(t, err)

	drift, err := repo.FindDrift(ctx)

	require.NoError(t, err)
	assert.False(t, drift.Empty())
	require.Len(t, drift.UntrackedBooks, 1)
	assert.Equal(t, untracked.ID, drift.UntrackedBooks[0].ID)
	require.Len(t, drift.DanglingLoans, 1)
	assert.Equal(t, dangling.ID, drift.DanglingLoans[0].ID)
}

func TestRepository_FindDrift_Consistent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	borrowed := true

	book := &entities.Book{Title: "Dune", IsBorrowed: &borrowed}
	require.NoError(t, db.Create(book).Error)
	_, err := repo.Append(ctx, user.ID, &book.ID, "Dune")
	require.NoError(t, err)

	drift, err := repo.FindDrift(ctx)

	require.NoError(t, err)
	assert.True(t, drift.Empty())
}
