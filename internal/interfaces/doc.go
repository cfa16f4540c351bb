// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Controller Stores
//
// HTTP controllers depend on narrow interfaces declared in internal/http/stores.go:
//
//   - CatalogStore: book CRUD and covers (services.CatalogService)
//   - BorrowingStore: borrow flags and borrowed lists (services.BorrowingService)
//   - Authenticator: login and registration (auth.Service)
//   - LoginLimiter: failed-login throttling (auth.RateLimiter)
//   - AuditRecorder, AuditReader: audit trail (audit.Service)
//   - TaskQueue: enqueue and inspect background tasks (tasks.Client)
//
// ## Task Processors
//
// Processors in internal/tasks take the smallest interface they need:
//
//   - AuditEventCleaner: deletes expired audit events
//   - DriftFinder: compares borrow flags with borrowed lists
//   - MaintenanceReporter: records the outcome of a maintenance run
//
// # Adding a New Task
//
//  1. Define the task and its queue in internal/tasks/
//
//     type RebuildIndexTask struct{}
//
//     func (t RebuildIndexTask) Config() backlite.QueueConfig {
//     return backlite.QueueConfig{Name: "rebuild_index", MaxAttempts: 1}
//     }
//
//  2. Register the queue in entrypoint.go
//
//  3. Add a case to TasksController.RunTask so it can be triggered over HTTP
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
