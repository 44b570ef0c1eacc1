package audit_logs

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id"          gorm:"column:id"`
	Subject     *string    `json:"subject"     gorm:"column:subject"`
	LogRecordID *int64     `json:"logRecordId" gorm:"column:log_record_id"`
	ImportID    *uuid.UUID `json:"importId"    gorm:"column:import_id"`
	Message     string     `json:"message"     gorm:"column:message"`
	CreatedAt   time.Time  `json:"createdAt"   gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
