package log_records_core

import (
	"time"

	"logkeeper/internal/util/data_uri"
)

type LogRecord struct {
	ID                    int64     `json:"id"                    gorm:"column:id;primaryKey"`
	OccurredAt            time.Time `json:"occurredAt"            gorm:"column:occurred_at"`
	Request               string    `json:"request"               gorm:"column:request"`
	Status                string    `json:"status"                gorm:"column:status"`
	UserAgent             string    `json:"userAgent"             gorm:"column:user_agent"`
	IP                    string    `json:"ip"                    gorm:"column:ip"`
	Attachment            []byte    `json:"-"                     gorm:"column:attachment"`
	AttachmentContentType string    `json:"-"                     gorm:"column:attachment_content_type"`
	CreatedAt             time.Time `json:"createdAt"             gorm:"column:created_at"`
	UpdatedAt             time.Time `json:"updatedAt"             gorm:"column:updated_at"`

	// set when OccurredAt was filled with the current time, never persisted
	IsDateFabricated bool `json:"-" gorm:"-"`
}

func (LogRecord) TableName() string {
	return "log_records"
}

func (r *LogRecord) ToDTO() *LogRecordDTO {
	dto := &LogRecordDTO{
		ID:         r.ID,
		OccurredAt: r.OccurredAt.UTC(),
		Request:    r.Request,
		Status:     r.Status,
		UserAgent:  r.UserAgent,
		IP:         r.IP,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}

	if len(r.Attachment) > 0 {
		attachment := data_uri.Encode(r.AttachmentContentType, r.Attachment)
		dto.Attachment = &attachment
	}

	return dto
}

// Clone returns a deep copy, the attachment bytes are not shared.
func (r *LogRecord) Clone() *LogRecord {
	clone := *r
	if r.Attachment != nil {
		clone.Attachment = append([]byte(nil), r.Attachment...)
	}

	return &clone
}
