package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PotatoCodder/library-management-backend/internal/config"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured backend and migrates the schema.
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Book{},
		&entities.User{},
		&entities.Admin{},
		&entities.Loan{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", describe(cfg))

	return &Database{DB: db}, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", config.DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite database path is not set")
		}
		// busy_timeout lets concurrent writers wait for the lock instead of failing fast.
		// Immediate transactions take that lock at BEGIN, so a borrow never reads a stale flag.
		return sqlite.Open(cfg.Path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"), nil
	case config.DriverMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("mysql requires DATABASE_DSN")
		}
		return mysql.Open(cfg.DSN), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres requires DATABASE_DSN")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func describe(cfg config.Database) string {
	if cfg.Driver == "" || cfg.Driver == config.DriverSQLite {
		return "sqlite at " + cfg.Path
	}
	return cfg.Driver
}

// Ping checks that the underlying connection pool can reach the database.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
