package audit_logs

import (
	"context"
	"time"
)

type AuditLogStore interface {
	Create(ctx context.Context, auditLog *AuditLog) error
	Find(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error)
	Count(ctx context.Context, filter *AuditLogFilter) (int64, error)
}

// AuditLogFilter narrows audit log queries, nil fields match everything.
type AuditLogFilter struct {
	LogRecordID *int64
	BeforeDate  *time.Time
	Limit       int
	Offset      int
}
