package audit_logs

import (
	"context"
	"log/slog"
	"time"

	"logkeeper/internal/features/auth"

	"github.com/google/uuid"
)

const (
	defaultAuditLogsLimit = 100
	maxAuditLogsLimit     = 1000
)

type AuditLogService struct {
	auditLogStore AuditLogStore
	logger        *slog.Logger
}

func NewAuditLogService(auditLogStore AuditLogStore, logger *slog.Logger) *AuditLogService {
	return &AuditLogService{
		auditLogStore: auditLogStore,
		logger:        logger,
	}
}

// WriteAuditLog stores an audit entry attributed to the authenticated
// subject of ctx, if any. Failures are logged and never returned.
func (s *AuditLogService) WriteAuditLog(
	ctx context.Context,
	message string,
	logRecordID *int64,
	importID *uuid.UUID,
) {
	auditLog := &AuditLog{
		LogRecordID: logRecordID,
		ImportID:    importID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}

	if subject, ok := auth.SubjectFromContext(ctx); ok {
		auditLog.Subject = &subject
	}

	if err := s.auditLogStore.Create(ctx, auditLog); err != nil {
		s.logger.Error("failed to create audit log", "error", err)
		return
	}
}

func (s *AuditLogService) GetGlobalAuditLogs(
	ctx context.Context,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	return s.getAuditLogs(ctx, nil, request)
}

func (s *AuditLogService) GetLogRecordAuditLogs(
	ctx context.Context,
	logRecordID int64,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	return s.getAuditLogs(ctx, &logRecordID, request)
}

func (s *AuditLogService) getAuditLogs(
	ctx context.Context,
	logRecordID *int64,
	request *GetAuditLogsRequest,
) (*GetAuditLogsResponse, error) {
	limit := request.Limit
	if limit <= 0 || limit > maxAuditLogsLimit {
		limit = defaultAuditLogsLimit
	}

	offset := max(request.Offset, 0)

	filter := &AuditLogFilter{
		LogRecordID: logRecordID,
		BeforeDate:  request.BeforeDate,
		Limit:       limit,
		Offset:      offset,
	}

	auditLogs, err := s.auditLogStore.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.auditLogStore.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &GetAuditLogsResponse{
		AuditLogs: auditLogs,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}, nil
}
