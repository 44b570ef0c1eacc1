package log_records_core

import (
	"errors"
	"strings"

	"logkeeper/internal/util/data_uri"
	time_parser "logkeeper/internal/util/time"
)

// BuildLogRecord validates client input and turns it into a storable record.
// Single submissions and batch lines go through here so both paths share
// the same date normalization and attachment decoding.
func BuildLogRecord(input *LogRecordInput, normalizer *time_parser.DateNormalizer) (*LogRecord, error) {
	record := &LogRecord{
		Request:   strings.TrimSpace(input.Request),
		Status:    strings.TrimSpace(input.Status),
		UserAgent: strings.TrimSpace(input.UserAgent),
		IP:        strings.TrimSpace(input.IP),
	}

	if err := ValidateRequiredFields(record); err != nil {
		return nil, err
	}

	occurredAt, err := normalizer.Normalize(input.OccurredAt)
	if err != nil {
		if errors.Is(err, time_parser.ErrEmptyDate) {
			return nil, &ValidationError{
				Code:    ErrorDateRequired,
				Message: "occurredAt is required",
				Field:   "occurredAt",
			}
		}

		return nil, &ValidationError{
			Code:    ErrorInvalidDate,
			Message: "occurredAt is not a recognized date",
			Field:   "occurredAt",
		}
	}
	record.OccurredAt = occurredAt
	record.IsDateFabricated = time_parser.IsEmptyDate(input.OccurredAt)

	if input.Attachment != nil && strings.TrimSpace(*input.Attachment) != "" {
		attachment, contentType, err := data_uri.Decode(*input.Attachment)
		if err != nil {
			return nil, &ValidationError{
				Code:    ErrorInvalidAttachment,
				Message: "attachment must be base64 encoded",
				Field:   "attachment",
			}
		}

		if len(attachment) > 0 {
			if contentType == "" {
				contentType = data_uri.DefaultContentType
			}

			record.Attachment = attachment
			record.AttachmentContentType = contentType
		}
	}

	return record, nil
}

func ValidateRequiredFields(record *LogRecord) error {
	if strings.TrimSpace(record.Request) == "" {
		return &ValidationError{
			Code:    ErrorRequestRequired,
			Message: "request is required",
			Field:   "request",
		}
	}

	if strings.TrimSpace(record.UserAgent) == "" {
		return &ValidationError{
			Code:    ErrorUserAgentRequired,
			Message: "userAgent is required",
			Field:   "userAgent",
		}
	}

	if strings.TrimSpace(record.IP) == "" {
		return &ValidationError{
			Code:    ErrorIPRequired,
			Message: "ip is required",
			Field:   "ip",
		}
	}

	return nil
}
