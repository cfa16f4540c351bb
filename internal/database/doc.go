// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Catalog: book rows and cover blobs
//	├── users/           # User and admin credentials
//	├── loans/           # Borrowed-list entries and drift detection
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type wrapping a *gorm.DB:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.GetBookByID(ctx, 1)
//
// Repositories are cheap to construct, so multi-table operations build them
// on top of a transaction handle:
//
//	err := db.DB.Transaction(func(tx *gorm.DB) error {
//		_, err := loans.NewRepository(tx).RemoveTitle(ctx, userID, title)
//		return err
//	})
//
// # Supported Backends
//
// SQLite is the default. MySQL and PostgreSQL are selected with
// DATABASE_DRIVER and configured through DATABASE_DSN.
package database
