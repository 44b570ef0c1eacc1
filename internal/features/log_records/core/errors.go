package log_records_core

import (
	"errors"
	"fmt"
)

var (
	ErrLogRecordNotFound = errors.New("log record not found")
	ErrBatchRolledBack   = errors.New("batch rolled back")
)

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RecordError describes why one unit of a batch import was not stored.
// Position is the 1-based line number inside the decoded payload.
type RecordError struct {
	Position int    `json:"position"`
	Code     string `json:"code"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Position, e.Message)
}

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

const (
	ErrorRequestRequired   = "REQUEST_REQUIRED"
	ErrorUserAgentRequired = "USER_AGENT_REQUIRED"
	ErrorIPRequired        = "IP_REQUIRED"
	ErrorDateRequired      = "DATE_REQUIRED"
	ErrorInvalidDate       = "INVALID_DATE"
	ErrorInvalidAttachment = "INVALID_ATTACHMENT"
	ErrorInvalidID         = "INVALID_ID"
	ErrorInvalidSort       = "INVALID_SORT"
)

// Error codes for batch import
const (
	ErrorInvalidPayload    = "INVALID_PAYLOAD"
	ErrorPayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	ErrorMalformedLine     = "MALFORMED_LINE"
	ErrorLineTooLong       = "LINE_TOO_LONG"
	ErrorStorageFailed     = "STORAGE_FAILED"
	ErrorImportCancelled   = "IMPORT_CANCELLED"
	ErrorRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// ToRecordError converts any unit failure into a batch scoped error.
func ToRecordError(position int, err error) *RecordError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return &RecordError{
			Position: position,
			Code:     validationErr.Code,
			Field:    validationErr.Field,
			Message:  validationErr.Message,
		}
	}

	return &RecordError{
		Position: position,
		Code:     ErrorStorageFailed,
		Message:  err.Error(),
	}
}
