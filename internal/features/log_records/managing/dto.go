package log_records_managing

import (
	"time"

	log_records_core "logkeeper/internal/features/log_records/core"

	"github.com/google/uuid"
)

type ListLogRecordsRequest struct {
	Limit     int    `form:"limit"     json:"limit"`
	Offset    int    `form:"offset"    json:"offset"`
	SortBy    string `form:"sortBy"    json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder"`
}

type ListLogRecordsResponse struct {
	LogRecords []*log_records_core.LogRecordDTO `json:"logRecords"`
	Total      int64                            `json:"total"`
	Limit      int                              `json:"limit"`
	Offset     int                              `json:"offset"`
}

type ImportBatchRequestDTO struct {
	Payload string `json:"payload"`
}

type DeleteLogRecordResponseDTO struct {
	ID int64 `json:"id"`
}

type ImportSummary struct {
	ImportID    uuid.UUID                      `json:"importId"`
	Format      string                         `json:"format"`
	Succeeded   int                            `json:"succeeded"`
	Failed      int                            `json:"failed"`
	Errors      []log_records_core.RecordError `json:"errors"`
	CreatedIDs  []int64                        `json:"createdIds"`
	IsCancelled bool                           `json:"isCancelled"`
	StartedAt   time.Time                      `json:"startedAt"`
	FinishedAt  time.Time                      `json:"finishedAt"`
}
