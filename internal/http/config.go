package http

import (
	"github.com/PotatoCodder/library-management-backend/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog   CatalogStore
	Borrowing BorrowingStore
	Auth      Authenticator
	Database  *database.Database

	// Login throttling (optional)
	LoginLimiter LoginLimiter

	// Audit trail (optional)
	Audit       AuditRecorder
	AuditReader AuditReader

	// Task queue client and maintenance scheduler (optional)
	TaskQueue   TaskQueue
	Maintenance MaintenanceStatus

	// CORS origins; "*" or an empty list allows any origin
	AllowedOrigins []string

	// HSTS max-age in seconds for HTTPS requests; zero leaves the header off
	HSTSMaxAge int

	// Upload limit for cover images in bytes; zero disables the limit
	MaxCoverBytes int64

	// Application info
	Version string
}
