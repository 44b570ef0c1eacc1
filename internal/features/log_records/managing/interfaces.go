package log_records_managing

import (
	"context"

	"logkeeper/internal/util/rate_limit"

	"github.com/google/uuid"
)

type AuditLogWriter interface {
	WriteAuditLog(ctx context.Context, message string, logRecordID *int64, importID *uuid.UUID)
}

type ImportSummaryCache interface {
	Get(key string) *ImportSummary
	Set(key string, item *ImportSummary)
}

type ImportRateLimiter interface {
	CheckRateLimit(key string, rpsLimit, burstLimit int) (*rate_limit.RateLimitResult, error)
}
