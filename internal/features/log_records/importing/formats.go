package log_records_importing

import (
	"fmt"
	"strings"

	log_records_core "logkeeper/internal/features/log_records/core"

	"github.com/segmentio/encoding/json"
)

const (
	FormatPipe      = "pipe"
	FormatJSONLines = "jsonl"

	pipeFieldsCount = 5
)

// LineFormat maps one line of a batch file to record input.
type LineFormat interface {
	Name() string
	ParseLine(line string) (*log_records_core.LogRecordInput, error)
}

// PipeDelimitedFormat reads "date|ip|request|status|userAgent" lines. The user
// agent takes the rest of the line, so pipes inside it are kept.
type PipeDelimitedFormat struct{}

func (PipeDelimitedFormat) Name() string {
	return FormatPipe
}

func (PipeDelimitedFormat) ParseLine(line string) (*log_records_core.LogRecordInput, error) {
	fields := strings.SplitN(line, "|", pipeFieldsCount)
	if len(fields) < pipeFieldsCount {
		return nil, &log_records_core.ValidationError{
			Code: log_records_core.ErrorMalformedLine,
			Message: fmt.Sprintf(
				"expected %d pipe separated fields, got %d",
				pipeFieldsCount,
				len(fields),
			),
		}
	}

	return &log_records_core.LogRecordInput{
		OccurredAt: strings.TrimSpace(fields[0]),
		IP:         fields[1],
		Request:    fields[2],
		Status:     fields[3],
		UserAgent:  fields[4],
	}, nil
}

// JSONLinesFormat reads one JSON object per line with the same field names
// as single record submissions.
type JSONLinesFormat struct{}

func (JSONLinesFormat) Name() string {
	return FormatJSONLines
}

func (JSONLinesFormat) ParseLine(line string) (*log_records_core.LogRecordInput, error) {
	input := &log_records_core.LogRecordInput{}

	if err := json.Unmarshal([]byte(line), input); err != nil {
		return nil, &log_records_core.ValidationError{
			Code:    log_records_core.ErrorMalformedLine,
			Message: fmt.Sprintf("line is not a valid JSON object: %v", err),
		}
	}

	return input, nil
}

func GetLineFormat(name string) (LineFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatPipe:
		return PipeDelimitedFormat{}, nil
	case FormatJSONLines:
		return JSONLinesFormat{}, nil
	default:
		return nil, fmt.Errorf("unknown batch line format %q", name)
	}
}
