package log_records_importing

import (
	"bytes"
	"context"
	"fmt"
	"iter"

	log_records_core "logkeeper/internal/features/log_records/core"
	time_parser "logkeeper/internal/util/time"
)

const maxLineSize = 1024 * 1024

// ParsedUnit is either a record ready to store or the reason the line was rejected.
type ParsedUnit struct {
	Position int
	Record   *log_records_core.LogRecord
	Error    *log_records_core.RecordError
}

type BatchImportParser struct {
	format          LineFormat
	normalizer      *time_parser.DateNormalizer
	maxDecodedBytes int64
}

func NewBatchImportParser(
	format LineFormat,
	normalizer *time_parser.DateNormalizer,
	maxDecodedBytes int64,
) *BatchImportParser {
	if format == nil {
		format = PipeDelimitedFormat{}
	}

	return &BatchImportParser{
		format:          format,
		normalizer:      normalizer,
		maxDecodedBytes: maxDecodedBytes,
	}
}

func (p *BatchImportParser) FormatName() string {
	return p.format.Name()
}

// Parse decodes the payload and returns a lazy sequence of units. The error
// is set only when the payload as a whole cannot be decoded. Once ctx is done
// the remaining lines are reported as cancelled without being parsed.
func (p *BatchImportParser) Parse(ctx context.Context, encodedPayload string) (iter.Seq[ParsedUnit], error) {
	content, err := DecodePayload(encodedPayload, p.maxDecodedBytes)
	if err != nil {
		return nil, err
	}

	return p.ParseContent(ctx, content), nil
}

// ParseDecoded is Parse for payloads that were not base64 encoded, for
// example files read from disk. Compressed content is still inflated.
func (p *BatchImportParser) ParseDecoded(ctx context.Context, content []byte) (iter.Seq[ParsedUnit], error) {
	content, err := DecodeContent(content, p.maxDecodedBytes)
	if err != nil {
		return nil, err
	}

	return p.ParseContent(ctx, content), nil
}

// ParseContent splits decoded text into one unit per non blank line. Every
// range over the returned sequence starts again from the first line.
func (p *BatchImportParser) ParseContent(ctx context.Context, content []byte) iter.Seq[ParsedUnit] {
	return func(yield func(ParsedUnit) bool) {
		remaining := content
		position := 0
		for len(remaining) > 0 {
			position++

			var line []byte
			if index := bytes.IndexByte(remaining, '\n'); index >= 0 {
				line, remaining = remaining[:index], remaining[index+1:]
			} else {
				line, remaining = remaining, nil
			}

			line = bytes.TrimRight(line, "\r")
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}

			if !yield(p.parseUnit(ctx, position, line)) {
				return
			}
		}
	}
}

func (p *BatchImportParser) parseUnit(ctx context.Context, position int, line []byte) ParsedUnit {
	if ctx.Err() != nil {
		return errorUnit(
			position,
			log_records_core.ErrorImportCancelled,
			"import was cancelled before this record was stored",
		)
	}

	if len(line) > maxLineSize {
		return errorUnit(
			position,
			log_records_core.ErrorLineTooLong,
			fmt.Sprintf("line exceeds %d bytes", maxLineSize),
		)
	}

	return p.parseLine(position, string(line))
}

func errorUnit(position int, code, message string) ParsedUnit {
	return ParsedUnit{
		Position: position,
		Error: &log_records_core.RecordError{
			Position: position,
			Code:     code,
			Message:  message,
		},
	}
}

func (p *BatchImportParser) parseLine(position int, line string) ParsedUnit {
	input, err := p.format.ParseLine(line)
	if err != nil {
		return ParsedUnit{Position: position, Error: log_records_core.ToRecordError(position, err)}
	}

	record, err := log_records_core.BuildLogRecord(input, p.normalizer)
	if err != nil {
		return ParsedUnit{Position: position, Error: log_records_core.ToRecordError(position, err)}
	}

	return ParsedUnit{Position: position, Record: record}
}
