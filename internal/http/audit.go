package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	auditRepo "github.com/PotatoCodder/library-management-backend/internal/database/audit"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

const maxAuditLimit = 200

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{
		reader: reader,
	}
}

// GetAuditEvents returns recent audit events, newest first.
// GET /api/audit?username=&type=&since=&limit=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	filter := auditRepo.EventFilter{
		Username:  c.Query("username"),
		EventType: entities.AuditEventType(c.Query("type")),
		Limit:     auditRepo.DefaultLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxAuditLimit {
			respondBadRequest(c, "limit must be between 1 and "+strconv.Itoa(maxAuditLimit))
			return
		}
		filter.Limit = limit
	}

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondBadRequest(c, "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = since
	}

	events, total, err := ac.reader.ListEvents(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "Failed to load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
	})
}
