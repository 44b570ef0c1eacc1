package log_records_managing_tests

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"logkeeper/internal/config"
	log_records_managing "logkeeper/internal/features/log_records/managing"
	log_records_testing "logkeeper/internal/features/log_records/testing"
	"logkeeper/internal/util/logger"
	"logkeeper/internal/util/rate_limit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateTestEnv() config.EnvVariables {
	return config.EnvVariables{
		IsTesting:            true,
		ImportLineFormat:     config.ImportLineFormatPipe,
		ImportMaxPayloadMB:   1,
		DateSlashOrder:       "DMY",
		DateIsZeroBasedMonth: true,
		DateEmptyPolicy:      config.DateEmptyPolicyNow,
	}
}

func CreateTestService(
	env config.EnvVariables,
) (*log_records_managing.LogRecordService, *log_records_testing.MemoryLogRecordStore) {
	store := log_records_testing.NewMemoryLogRecordStore()

	service, err := log_records_managing.NewLogRecordServiceFromConfig(env, store)
	if err != nil {
		panic(err)
	}

	return service, store
}

func CreateTestRouter(
	service *log_records_managing.LogRecordService,
	rateLimiter log_records_managing.ImportRateLimiter,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	_ = router.SetTrustedProxies(nil)

	v1 := router.Group("/api/v1")

	controller := log_records_managing.NewLogRecordController(
		service,
		rateLimiter,
		2,
		1024*1024,
		logger.GetLogger(),
	)
	controller.RegisterRoutes(v1)

	return router
}

// EncodeBatch builds a payload the way the legacy dashboard sent it.
func EncodeBatch(lines ...string) string {
	content := strings.Join(lines, "\n")
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte(content))
}

func CreateValidPipeLines(count int, uniqueID string) []string {
	lines := make([]string, count)

	for i := range count {
		lines[i] = fmt.Sprintf(
			"2024-01-01 10:00:%02d.000|10.0.0.%d|GET /%s/%d HTTP/1.1|200|curl/8.0",
			i%60,
			i%250+1,
			uniqueID,
			i+1,
		)
	}

	return lines
}

type AuditLogEntry struct {
	Message     string
	LogRecordID *int64
	ImportID    *uuid.UUID
}

type FakeAuditLogWriter struct {
	mu      sync.Mutex
	Entries []AuditLogEntry
}

func (w *FakeAuditLogWriter) WriteAuditLog(
	_ context.Context,
	message string,
	logRecordID *int64,
	importID *uuid.UUID,
) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Entries = append(w.Entries, AuditLogEntry{
		Message:     message,
		LogRecordID: logRecordID,
		ImportID:    importID,
	})
}

type MemoryImportSummaryCache struct {
	mu        sync.Mutex
	summaries map[string]*log_records_managing.ImportSummary
}

func NewMemoryImportSummaryCache() *MemoryImportSummaryCache {
	return &MemoryImportSummaryCache{summaries: make(map[string]*log_records_managing.ImportSummary)}
}

func (c *MemoryImportSummaryCache) Get(key string) *log_records_managing.ImportSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.summaries[key]
}

func (c *MemoryImportSummaryCache) Set(key string, item *log_records_managing.ImportSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summaries[key] = item
}

// FakeRateLimiter allows the first Allowed calls per key and denies the rest.
type FakeRateLimiter struct {
	mu      sync.Mutex
	Allowed int
	Err     error
	calls   map[string]int
}

func (l *FakeRateLimiter) CheckRateLimit(key string, _, _ int) (*rate_limit.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Err != nil {
		return nil, l.Err
	}

	if l.calls == nil {
		l.calls = make(map[string]int)
	}
	l.calls[key]++

	if l.calls[key] > l.Allowed {
		return &rate_limit.RateLimitResult{Allowed: false, RetryAfterSec: 3}, nil
	}

	return &rate_limit.RateLimitResult{Allowed: true, Remaining: l.Allowed - l.calls[key]}, nil
}
