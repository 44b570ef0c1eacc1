package audit_logs

import (
	"context"

	"logkeeper/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository struct{}

func (r *AuditLogRepository) Create(ctx context.Context, auditLog *AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	return storage.GetDb().WithContext(ctx).Create(auditLog).Error
}

func (r *AuditLogRepository) Find(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error) {
	auditLogs := make([]*AuditLog, 0)

	query := r.applyFilter(storage.GetDb().WithContext(ctx).Model(&AuditLog{}), filter).
		Order("created_at DESC").
		Order("id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Find(&auditLogs).Error

	return auditLogs, err
}

func (r *AuditLogRepository) Count(ctx context.Context, filter *AuditLogFilter) (int64, error) {
	var count int64

	err := r.applyFilter(storage.GetDb().WithContext(ctx).Model(&AuditLog{}), filter).
		Count(&count).Error

	return count, err
}

func (r *AuditLogRepository) applyFilter(query *gorm.DB, filter *AuditLogFilter) *gorm.DB {
	if filter.LogRecordID != nil {
		query = query.Where("log_record_id = ?", *filter.LogRecordID)
	}

	if filter.BeforeDate != nil {
		query = query.Where("created_at < ?", *filter.BeforeDate)
	}

	return query
}
