package audit_logs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AuditLogController struct {
	auditLogService *AuditLogService
}

func NewAuditLogController(auditLogService *AuditLogService) *AuditLogController {
	return &AuditLogController{auditLogService: auditLogService}
}

func (c *AuditLogController) RegisterRoutes(router *gin.RouterGroup) {
	// authentication is applied by the caller's router group
	auditRoutes := router.Group("/audit-logs")

	auditRoutes.GET("", c.GetGlobalAuditLogs)
	auditRoutes.GET("/log-records/:id", c.GetLogRecordAuditLogs)
}

// GetGlobalAuditLogs
// @Summary Get audit logs
// @Description Retrieve every audit log, newest first
// @Tags audit-logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Filter logs created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetAuditLogsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /audit-logs [get]
func (c *AuditLogController) GetGlobalAuditLogs(ctx *gin.Context) {
	request := &GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.auditLogService.GetGlobalAuditLogs(ctx.Request.Context(), request)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetLogRecordAuditLogs
// @Summary Get log record audit logs
// @Description Retrieve the audit trail of a single log record
// @Tags audit-logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log record ID"
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Filter logs created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetAuditLogsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /audit-logs/log-records/{id} [get]
func (c *AuditLogController) GetLogRecordAuditLogs(ctx *gin.Context) {
	logRecordID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log record ID"})
		return
	}

	request := &GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.auditLogService.GetLogRecordAuditLogs(ctx.Request.Context(), logRecordID, request)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
