package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/auth"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

// CredentialsRequest is accepted as JSON or form data.
type CredentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResponse reports which table the credentials matched.
type LoginResponse struct {
	Message string        `json:"message"`
	Role    entities.Role `json:"role"`
}

type IdentityController struct {
	auth    Authenticator
	limiter LoginLimiter
	audit   AuditRecorder
}

// NewIdentityController creates the login and registration handlers.
// limiter may be nil to disable throttling.
func NewIdentityController(authenticator Authenticator, limiter LoginLimiter, auditor AuditRecorder) *IdentityController {
	return &IdentityController{
		auth:    authenticator,
		limiter: limiter,
		audit:   auditor,
	}
}

// Login handles POST /login.
func (ic *IdentityController) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		respondBadRequest(c, "Please provide username and password")
		return
	}

	ip := c.ClientIP()
	if ic.limiter != nil {
		if allowed, retryAfter := ic.limiter.Allow(ip, req.Username); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondError(c, http.StatusTooManyRequests, "Too many login attempts, please try again later")
			return
		}
	}

	role, err := ic.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			respondBadRequest(c, "Please provide username and password")
		case errors.Is(err, auth.ErrInvalidCredentials):
			if ic.limiter != nil {
				ic.limiter.RecordFailure(ip, req.Username)
			}
			ic.audit.LogAuth(auditOrigin(c), req.Username, "login_failed", false)
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
		default:
			respondInternalError(c, err, "Internal server error")
		}
		return
	}

	if ic.limiter != nil {
		ic.limiter.RecordSuccess(ip, req.Username)
	}
	ic.audit.LogAuth(auditOrigin(c), req.Username, "login", true)

	message := "User login successful"
	if role == entities.RoleAdmin {
		message = "Admin login successful"
	}
	c.JSON(http.StatusOK, LoginResponse{Message: message, Role: role})
}

// Register handles POST /register.
func (ic *IdentityController) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Please provide username and password")
		return
	}

	_, err := ic.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			respondBadRequest(c, "Please provide username and password")
		case errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, "Password is too long")
		case errors.Is(err, auth.ErrDuplicateUsername):
			respondError(c, http.StatusConflict, "Username already exists")
		default:
			respondInternalError(c, err, "Internal server error")
		}
		return
	}

	ic.audit.LogAuth(auditOrigin(c), req.Username, "register", true)
	respondCreated(c, "User registered successfully!")
}
