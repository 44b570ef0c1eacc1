package log_records_managing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	log_records_core "logkeeper/internal/features/log_records/core"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

// burst capacity of the import bucket relative to the per second rate
const importBurstMultiplier = 2

type LogRecordController struct {
	logRecordService *LogRecordService
	rateLimiter      ImportRateLimiter
	ratePerSecond    int
	maxRequestBytes  int64
	logger           *slog.Logger
}

func NewLogRecordController(
	logRecordService *LogRecordService,
	rateLimiter ImportRateLimiter,
	ratePerSecond int,
	maxRequestBytes int64,
	logger *slog.Logger,
) *LogRecordController {
	return &LogRecordController{
		logRecordService: logRecordService,
		rateLimiter:      rateLimiter,
		ratePerSecond:    ratePerSecond,
		maxRequestBytes:  maxRequestBytes,
		logger:           logger,
	}
}

func (c *LogRecordController) RegisterRoutes(router *gin.RouterGroup) {
	logRecordRoutes := router.Group("/log-records")

	logRecordRoutes.POST("", c.CreateLogRecord)
	logRecordRoutes.GET("", c.ListLogRecords)
	logRecordRoutes.POST("/import", c.ImportBatch)
	logRecordRoutes.GET("/imports/:importId", c.GetImportSummary)
	logRecordRoutes.GET("/:id", c.GetLogRecord)
	logRecordRoutes.PUT("/:id", c.UpdateLogRecord)
	logRecordRoutes.DELETE("/:id", c.DeleteLogRecord)
}

// CreateLogRecord
// @Summary Create log record
// @Description Validate and store a single log record. `request`, `userAgent` and `ip` are required.
// @Description `occurredAt` accepts ISO dates, slash dates, the legacy batch layout or epoch milliseconds.
// @Description An empty `occurredAt` is replaced by the current time unless the server rejects empty dates.
// @Tags log-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body log_records_core.LogRecordInput true "Log record"
// @Success 201 {object} log_records_core.LogRecordDTO
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Storage failure"
// @Router /log-records [post]
func (c *LogRecordController) CreateLogRecord(ctx *gin.Context) {
	var request log_records_core.LogRecordInput
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	record, err := c.logRecordService.CreateSingle(ctx.Request.Context(), &request)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, record.ToDTO())
}

// ListLogRecords
// @Summary List log records
// @Description Page through stored log records. A zero limit returns every record.
// @Tags log-records
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Records to skip"
// @Param sortBy query string false "id, occurredAt or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} ListLogRecordsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /log-records [get]
func (c *LogRecordController) ListLogRecords(ctx *gin.Context) {
	var request ListLogRecordsRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.logRecordService.List(ctx.Request.Context(), &request)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetLogRecord
// @Summary Get log record
// @Tags log-records
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log record ID"
// @Success 200 {object} log_records_core.LogRecordDTO
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Log record not found"
// @Router /log-records/{id} [get]
func (c *LogRecordController) GetLogRecord(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	record, err := c.logRecordService.Find(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, record.ToDTO())
}

// UpdateLogRecord
// @Summary Update log record
// @Description Replace every mutable field of an existing log record.
// @Tags log-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log record ID"
// @Param request body log_records_core.LogRecordInput true "Log record"
// @Success 200 {object} log_records_core.LogRecordDTO
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 404 {object} map[string]string "Log record not found"
// @Router /log-records/{id} [put]
func (c *LogRecordController) UpdateLogRecord(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	var request log_records_core.LogRecordInput
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	record, err := c.logRecordService.Update(ctx.Request.Context(), id, &request)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, record.ToDTO())
}

// DeleteLogRecord
// @Summary Delete log record
// @Tags log-records
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log record ID"
// @Success 200 {object} DeleteLogRecordResponseDTO
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Log record not found"
// @Router /log-records/{id} [delete]
func (c *LogRecordController) DeleteLogRecord(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	if err := c.logRecordService.Delete(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, DeleteLogRecordResponseDTO{ID: id})
}

// ImportBatch
// @Summary Import batch file
// @Description Import a base64 encoded batch file. The body is either the bare base64 string
// @Description (text/plain, optionally with a data-URI prefix), JSON `{"payload": "..."}` or the raw
// @Description file as application/octet-stream. Content may be gzip or zstd compressed.
// @Description
// @Description Invalid lines are reported in the summary and never block valid ones.
// @Description Requests are rate limited per client IP.
// @Tags log-records
// @Accept plain
// @Accept json
// @Accept octet-stream
// @Produce json
// @Security BearerAuth
// @Param request body ImportBatchRequestDTO true "Batch payload"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]string "Payload could not be decoded"
// @Failure 413 {object} map[string]string "Payload too large"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Failure 504 {object} ImportSummary "Import timed out, partial summary"
// @Router /log-records/import [post]
func (c *LogRecordController) ImportBatch(ctx *gin.Context) {
	if !c.allowImport(ctx) {
		return
	}

	if c.maxRequestBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxRequestBytes)
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.handleError(ctx, &log_records_core.ValidationError{
				Code:    log_records_core.ErrorPayloadTooLarge,
				Message: "request body exceeds the import size limit",
			})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var summary *ImportSummary

	switch ctx.ContentType() {
	case "application/json":
		var request ImportBatchRequestDTO
		if err := json.Unmarshal(body, &request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		summary, err = c.logRecordService.ImportBatch(ctx.Request.Context(), request.Payload)
	case "application/octet-stream":
		summary, err = c.logRecordService.ImportContent(ctx.Request.Context(), body)
	default:
		// legacy clients post the bare base64 string
		summary, err = c.logRecordService.ImportBatch(ctx.Request.Context(), string(body))
	}

	if err != nil {
		c.handleImportError(ctx, summary, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// GetImportSummary
// @Summary Get import summary
// @Description Summaries are kept for a limited time after the import finished.
// @Tags log-records
// @Produce json
// @Security BearerAuth
// @Param importId path string true "Import ID (UUID format)"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]string "Invalid import ID"
// @Failure 404 {object} map[string]string "Import summary not found"
// @Router /log-records/imports/{importId} [get]
func (c *LogRecordController) GetImportSummary(ctx *gin.Context) {
	importID, err := uuid.Parse(ctx.Param("importId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid import ID"})
		return
	}

	summary := c.logRecordService.GetImportSummary(importID)
	if summary == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Import summary not found"})
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func (c *LogRecordController) allowImport(ctx *gin.Context) bool {
	if c.rateLimiter == nil || c.ratePerSecond <= 0 {
		return true
	}

	result, err := c.rateLimiter.CheckRateLimit(
		// forwarding headers count only from proxies trusted by the engine
		ctx.ClientIP(),
		c.ratePerSecond,
		c.ratePerSecond*importBurstMultiplier,
	)
	if err != nil {
		// imports keep working when Valkey is down
		c.logger.Warn("Import rate limit check failed", slog.String("error", err.Error()))
		return true
	}

	if result.Allowed {
		return true
	}

	ctx.Header("Retry-After", strconv.Itoa(max(result.RetryAfterSec, 1)))
	c.handleError(ctx, &log_records_core.ValidationError{
		Code:    log_records_core.ErrorRateLimitExceeded,
		Message: "too many import requests, retry later",
	})

	return false
}

func (c *LogRecordController) parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid log record ID",
			"code":  log_records_core.ErrorInvalidID,
		})
		return 0, false
	}

	return id, true
}

func (c *LogRecordController) handleImportError(ctx *gin.Context, summary *ImportSummary, err error) {
	if summary == nil {
		c.handleError(ctx, err)
		return
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusGatewayTimeout, summary)
	case errors.Is(err, context.Canceled):
		ctx.JSON(http.StatusRequestTimeout, summary)
	default:
		c.handleError(ctx, err)
	}
}

func (c *LogRecordController) handleError(ctx *gin.Context, err error) {
	var validationErr *log_records_core.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(c.getStatusCodeForValidationError(validationErr.Code), gin.H{
			"error": validationErr.Message,
			"code":  validationErr.Code,
			"field": validationErr.Field,
		})
		return
	}

	if errors.Is(err, log_records_core.ErrLogRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Log record not found"})
		return
	}

	c.logger.Error("Log record request failed", slog.String("error", err.Error()))
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error": "Failed to process log records",
		"code":  log_records_core.ErrorStorageFailed,
	})
}

func (c *LogRecordController) getStatusCodeForValidationError(errorCode string) int {
	switch errorCode {
	case log_records_core.ErrorPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case log_records_core.ErrorRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
