package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/PotatoCodder/library-management-backend/internal/audit"
	"github.com/PotatoCodder/library-management-backend/internal/auth"
	"github.com/PotatoCodder/library-management-backend/internal/http"
	"github.com/PotatoCodder/library-management-backend/internal/scheduler"
	"github.com/PotatoCodder/library-management-backend/internal/services"
	"github.com/PotatoCodder/library-management-backend/internal/tasks"
)

// =============================================================================
// Controller Stores
// =============================================================================

var _ http.CatalogStore = (*services.CatalogService)(nil)
var _ http.BorrowingStore = (*services.BorrowingService)(nil)
var _ http.Authenticator = (*auth.Service)(nil)
var _ http.LoginLimiter = (*auth.RateLimiter)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.AuditRecorder = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceReporter = (*audit.Service)(nil)
var _ tasks.DriftFinder = (*services.BorrowingService)(nil)
var _ http.MaintenanceStatus = (*scheduler.MaintenanceScheduler)(nil)
