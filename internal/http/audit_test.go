package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	auditRepo "github.com/PotatoCodder/library-management-backend/internal/database/audit"
	"github.com/PotatoCodder/library-management-backend/internal/entities"
)

func setupAuditRouter(reader *mockAuditReader) *gin.Engine {
	router := gin.New()
	router.GET("/api/audit", NewAuditController(reader).GetAuditEvents)
	return router
}

func TestAuditController_GetAuditEvents(t *testing.T) {
	reader := &mockAuditReader{events: []entities.AuditEvent{
		{ID: 2, Username: "alice", EventType: entities.AuditEventReturn, Action: "book_return", Status: entities.AuditStatusSuccess},
	}}

	w := serve(setupAuditRouter(reader), httptest.NewRequest("GET", "/api/audit?username=alice&type=return&limit=10&since=2026-01-02T15:04:05Z", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"action":"book_return"`)
	assert.Equal(t, "alice", reader.filter.Username)
	assert.Equal(t, entities.AuditEventReturn, reader.filter.EventType)
	assert.Equal(t, 10, reader.filter.Limit)
	assert.Equal(t, 2026, reader.filter.Since.Year())
}

func TestAuditController_Defaults(t *testing.T) {
	reader := &mockAuditReader{}

	w := serve(setupAuditRouter(reader), httptest.NewRequest("GET", "/api/audit", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"events":[],"total":0}`, w.Body.String())
	assert.Equal(t, auditRepo.DefaultLimit, reader.filter.Limit)
	assert.True(t, reader.filter.Since.IsZero())
}

func TestAuditController_BadQuery(t *testing.T) {
	router := setupAuditRouter(&mockAuditReader{})

	for _, query := range []string{"limit=0", "limit=abc", "limit=1000", "since=yesterday"} {
		w := serve(router, httptest.NewRequest("GET", "/api/audit?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestAuditController_StoreError(t *testing.T) {
	w := serve(setupAuditRouter(&mockAuditReader{err: errors.New("boom")}), httptest.NewRequest("GET", "/api/audit", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
