package audit_logs

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"logkeeper/internal/features/auth"
	"logkeeper/internal/util/logger"
	test_utils "logkeeper/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "audit-test-secret"

func Test_AuditLogRoutes_WithValidToken_ReturnEntriesAttributedToSubject(t *testing.T) {
	store := &memoryAuditLogStore{}
	service := NewAuditLogService(store, logger.GetLogger())
	router := createAuditLogTestRouter(service)

	token, err := auth.GenerateToken("auditor", testJwtSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	test_utils.MakePostRequest(t, router, "/api/v1/touch/7", "Bearer "+token, nil, http.StatusNoContent)

	var response GetAuditLogsResponse
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/api/v1/audit-logs/log-records/7",
		"Bearer "+token,
		http.StatusOK,
		&response,
	)

	require.Len(t, response.AuditLogs, 1)
	require.NotNil(t, response.AuditLogs[0].Subject)
	assert.Equal(t, "auditor", *response.AuditLogs[0].Subject)
	assert.Equal(t, int64(7), *response.AuditLogs[0].LogRecordID)

	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/api/v1/audit-logs?limit=10",
		"Bearer "+token,
		http.StatusOK,
		&response,
	)
	assert.Equal(t, int64(1), response.Total)
	assert.Equal(t, 10, response.Limit)
}

func Test_AuditLogRoutes_WithoutToken_ReturnUnauthorized(t *testing.T) {
	router := createAuditLogTestRouter(NewAuditLogService(&memoryAuditLogStore{}, logger.GetLogger()))

	test_utils.MakeGetRequest(t, router, "/api/v1/audit-logs", "", http.StatusUnauthorized)
}

func Test_GetLogRecordAuditLogs_WithInvalidID_ReturnsBadRequest(t *testing.T) {
	router := createAuditLogTestRouter(NewAuditLogService(&memoryAuditLogStore{}, logger.GetLogger()))
	token, err := auth.GenerateToken("auditor", testJwtSecret, jwt.RegisteredClaims{})
	require.NoError(t, err)

	test_utils.MakeGetRequest(t, router, "/api/v1/audit-logs/log-records/abc", "Bearer "+token, http.StatusBadRequest)
}

func createAuditLogTestRouter(service *AuditLogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	protected := router.Group("/api/v1")
	protected.Use(auth.AuthMiddleware(testJwtSecret))

	NewAuditLogController(service).RegisterRoutes(protected)

	// stands in for a mutating endpoint
	protected.POST("/touch/:id", func(ctx *gin.Context) {
		var id int64
		_, _ = fmt.Sscan(ctx.Param("id"), &id)

		service.WriteAuditLog(ctx.Request.Context(), fmt.Sprintf("Log record %d touched", id), &id, nil)
		ctx.Status(http.StatusNoContent)
	})

	return router
}
