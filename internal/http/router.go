package http

import (
	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.HSTSMaxAge > 0 {
		router.Use(auth.StrictTransportSecurityMiddleware(cfg.HSTSMaxAge))
	}

	var auditor AuditRecorder = nopAuditor{}
	if cfg.Audit != nil {
		auditor = cfg.Audit
	}

	health := NewHealthController(cfg.Database, cfg.TaskQueue != nil, cfg.Maintenance, cfg.Version)
	books := NewBooksController(cfg.Catalog, auditor, cfg.MaxCoverBytes)
	identity := NewIdentityController(cfg.Auth, cfg.LoginLimiter, auditor)
	borrowing := NewBorrowingController(cfg.Borrowing, auditor)
	tasksController := NewTasksController(cfg.TaskQueue)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Catalog endpoints
	router.POST("/add-book", books.AddBook)
	router.GET("/books", books.ListAvailable)
	router.GET("/books/all", books.ListAll)
	router.GET("/books/:id", books.GetBook)
	router.GET("/books/:id/cover", books.GetCover)
	router.PUT("/books/:id", books.UpdateBook)
	router.DELETE("/books/:id", books.DeleteBook)

	// Identity endpoints
	router.POST("/login", identity.Login)
	router.POST("/register", identity.Register)

	// Borrowing endpoints
	router.PUT("/books/borrow/:id", borrowing.MarkBorrowed)
	router.PUT("/users/borrow/:username", borrowing.AppendBorrowed)
	router.POST("/users/:username/borrow/:id", borrowing.Borrow)
	router.GET("/users/:username/borrowed-books", borrowing.ListBorrowed)
	router.PUT("/users/:username/return-book", borrowing.ReturnBook)

	// Task management endpoints
	router.GET("/api/tasks/types", tasksController.ListTaskTypes)
	router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	router.POST("/api/tasks/:type/run", tasksController.RunTask)

	// Audit endpoints
	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		router.GET("/api/audit", auditController.GetAuditEvents)
	}

	return router
}
