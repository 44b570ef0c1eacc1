package log_records_core

import "time"

// LogRecordInput is what clients submit for create and update. OccurredAt
// stays untyped because clients send strings in several layouts as well as
// epoch milliseconds.
type LogRecordInput struct {
	OccurredAt any     `json:"occurredAt"`
	Request    string  `json:"request"`
	Status     string  `json:"status"`
	UserAgent  string  `json:"userAgent"`
	IP         string  `json:"ip"`
	Attachment *string `json:"attachment,omitempty"`
}

type LogRecordDTO struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Request    string    `json:"request"`
	Status     string    `json:"status"`
	UserAgent  string    `json:"userAgent"`
	IP         string    `json:"ip"`
	Attachment *string   `json:"attachment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type SortField string

const (
	SortFieldID         SortField = "id"
	SortFieldOccurredAt SortField = "occurredAt"
	SortFieldCreatedAt  SortField = "createdAt"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ListQuery with Limit 0 returns every record.
type ListQuery struct {
	Limit     int
	Offset    int
	SortBy    SortField
	SortOrder SortOrder
}

type SaveResult struct {
	Index int
	ID    int64
	Err   error
}
