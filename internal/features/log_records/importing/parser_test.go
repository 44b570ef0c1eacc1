package log_records_importing

import (
	"context"
	"encoding/base64"
	"iter"
	"strings"
	"testing"
	"time"

	log_records_core "logkeeper/internal/features/log_records/core"
	time_parser "logkeeper/internal/util/time"

	"github.com/stretchr/testify/assert"
)

const legacyPrefix = "data:application/octet-stream;base64,"

func Test_Parse_WithLegacyPipeFile_YieldsRecordPerLine(t *testing.T) {
	content := strings.Join([]string{
		`2019-01-01 00:00:11.763|192.168.234.82|"GET / HTTP/1.1"|200|"swcd (unknown version) CFNetwork/808.2.16 Darwin/15.6.0"`,
		`2019-01-01 00:00:21.164|192.168.169.194|"GET / HTTP/1.1"|200|"Mozilla/5.0 (Windows NT 10.0; Win64; x64)"`,
	}, "\n")

	parser := createParser(PipeDelimitedFormat{})
	units, err := parser.Parse(context.Background(), legacyPrefix + base64.StdEncoding.EncodeToString([]byte(content)))
	assert.NoError(t, err)

	collected := collectUnits(units)
	assert.Len(t, collected, 2)

	first := collected[0]
	assert.Equal(t, 1, first.Position)
	assert.Nil(t, first.Error)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 11, 763_000_000, time.UTC), first.Record.OccurredAt)
	assert.Equal(t, "192.168.234.82", first.Record.IP)
	assert.Equal(t, `"GET / HTTP/1.1"`, first.Record.Request)
	assert.Equal(t, "200", first.Record.Status)
	assert.Equal(t, `"swcd (unknown version) CFNetwork/808.2.16 Darwin/15.6.0"`, first.Record.UserAgent)

	assert.Equal(t, 2, collected[1].Position)
	assert.Equal(t, "192.168.169.194", collected[1].Record.IP)
}

func Test_Parse_WithMalformedLines_ReportsErrorsAndContinues(t *testing.T) {
	content := strings.Join([]string{
		"2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|curl/8.0",
		"2024-01-01 10:00:01.000|10.0.0.2|GET /b",
		"not-a-date|10.0.0.3|GET /c|200|curl/8.0",
		"2024-01-01 10:00:03.000||GET /d|500|curl/8.0",
		"2024-01-01 10:00:04.000|10.0.0.5|GET /e|200|curl/8.0",
	}, "\n")

	units, err := createParser(PipeDelimitedFormat{}).Parse(context.Background(), encode(content))
	assert.NoError(t, err)

	collected := collectUnits(units)
	assert.Len(t, collected, 5)

	records, recordErrors := splitUnits(collected)
	assert.Len(t, records, 2)
	assert.Len(t, recordErrors, 3)

	assert.Equal(t, 2, recordErrors[0].Position)
	assert.Equal(t, log_records_core.ErrorMalformedLine, recordErrors[0].Code)

	assert.Equal(t, 3, recordErrors[1].Position)
	assert.Equal(t, log_records_core.ErrorInvalidDate, recordErrors[1].Code)
	assert.Equal(t, "occurredAt", recordErrors[1].Field)

	assert.Equal(t, 4, recordErrors[2].Position)
	assert.Equal(t, log_records_core.ErrorIPRequired, recordErrors[2].Code)
}

func Test_Parse_WithBlankLinesAndCRLF_SkipsBlankLinesAndKeepsLinePositions(t *testing.T) {
	content := "2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|curl/8.0\r\n" +
		"\r\n" +
		"   \n" +
		"2024-01-01 10:00:01.000|10.0.0.2|GET /b|200|curl/8.0\r\n"

	units, err := createParser(PipeDelimitedFormat{}).Parse(context.Background(), encode(content))
	assert.NoError(t, err)

	collected := collectUnits(units)
	assert.Len(t, collected, 2)
	assert.Equal(t, 1, collected[0].Position)
	assert.Equal(t, 4, collected[1].Position)
	assert.Equal(t, "curl/8.0", collected[1].Record.UserAgent)
}

func Test_Parse_WithUserAgentContainingPipes_KeepsRestOfLine(t *testing.T) {
	content := "2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|agent|with|pipes"

	units, err := createParser(PipeDelimitedFormat{}).Parse(context.Background(), encode(content))
	assert.NoError(t, err)

	collected := collectUnits(units)
	assert.Len(t, collected, 1)
	assert.Equal(t, "agent|with|pipes", collected[0].Record.UserAgent)
}

func Test_Parse_WithJSONLines_UsesSingleRecordFieldNames(t *testing.T) {
	content := strings.Join([]string{
		`{"occurredAt":"15/06/2024","request":"GET /a","userAgent":"curl","ip":"10.0.0.1","attachment":"data:text/plain;base64,aGk="}`,
		`{"occurredAt":1718409600000,"request":"GET /b","userAgent":"curl","ip":"10.0.0.2"}`,
		`{"occurredAt":"2024-06-15","request":"GET /c","userAgent":"curl"}`,
		`{not json`,
	}, "\n")

	units, err := createParser(JSONLinesFormat{}).Parse(context.Background(), encode(content))
	assert.NoError(t, err)

	records, recordErrors := splitUnits(collectUnits(units))
	assert.Len(t, records, 2)
	assert.Len(t, recordErrors, 2)

	assert.Equal(t, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), records[0].OccurredAt)
	assert.Equal(t, []byte("hi"), records[0].Attachment)
	assert.Equal(t, "text/plain", records[0].AttachmentContentType)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), records[1].OccurredAt)

	assert.Equal(t, log_records_core.ErrorIPRequired, recordErrors[0].Code)
	assert.Equal(t, 3, recordErrors[0].Position)
	assert.Equal(t, log_records_core.ErrorMalformedLine, recordErrors[1].Code)
	assert.Equal(t, 4, recordErrors[1].Position)
}

func Test_Parse_WithInvalidBase64_ReturnsInvalidPayload(t *testing.T) {
	units, err := createParser(PipeDelimitedFormat{}).Parse(context.Background(), legacyPrefix + "%%%")

	assert.Nil(t, units)
	validationErr, ok := err.(*log_records_core.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, log_records_core.ErrorInvalidPayload, validationErr.Code)
}

func Test_Parse_WithEmptyPayload_YieldsNothing(t *testing.T) {
	units, err := createParser(PipeDelimitedFormat{}).Parse(context.Background(), legacyPrefix)

	assert.NoError(t, err)
	assert.Empty(t, collectUnits(units))
}

func Test_ParseContent_RangedTwice_YieldsSameUnits(t *testing.T) {
	content := []byte("2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|curl\nbroken line\n")
	units := createParser(PipeDelimitedFormat{}).ParseContent(context.Background(), content)

	first := collectUnits(units)
	second := collectUnits(units)

	assert.Len(t, first, 2)
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Position, second[i].Position)
		assert.Equal(t, first[i].Error, second[i].Error)
	}
}

func Test_ParseContent_WhenConsumerStopsEarly_StopsScanning(t *testing.T) {
	var lines []string
	for range 10 {
		lines = append(lines, "2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|curl")
	}

	units := createParser(PipeDelimitedFormat{}).ParseContent(context.Background(), []byte(strings.Join(lines, "\n")))

	consumed := 0
	for range units {
		consumed++
		if consumed == 3 {
			break
		}
	}

	assert.Equal(t, 3, consumed)
}

func Test_ParseContent_WithTooLongLine_ReportsItAndParsesFollowingLines(t *testing.T) {
	content := strings.Join([]string{
		"2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|curl",
		"2024-01-01 10:00:00.000|10.0.0.2|GET /" + strings.Repeat("a", maxLineSize) + "|200|curl",
		"2024-01-01 10:00:00.000|10.0.0.3|GET /c|200|curl",
		"2024-01-01 10:00:00.000|10.0.0.4|GET /d|200|curl",
	}, "\n")

	collected := collectUnits(createParser(PipeDelimitedFormat{}).ParseContent(context.Background(), []byte(content)))

	assert.Len(t, collected, 4)
	records, recordErrors := splitUnits(collected)
	assert.Len(t, records, 3)
	assert.Len(t, recordErrors, 1)

	assert.Equal(t, log_records_core.ErrorLineTooLong, collected[1].Error.Code)
	assert.Equal(t, 2, collected[1].Position)
	assert.Equal(t, "10.0.0.3", collected[2].Record.IP)
	assert.Equal(t, 4, collected[3].Position)
}

func Test_ParseContent_WithCancelledContext_ReportsLinesAsCancelledWithoutNormalizing(t *testing.T) {
	emptyDates := 0
	parser := NewBatchImportParser(
		PipeDelimitedFormat{},
		time_parser.NewDateNormalizer(time_parser.DateNormalizerOptions{
			OnEmptyDate: func() { emptyDates++ },
		}),
		1024*1024,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collected := collectUnits(parser.ParseContent(ctx, []byte("|10.0.0.1|GET /a|200|curl\n|10.0.0.2|GET /b|200|curl\n")))

	assert.Len(t, collected, 2)
	for i, unit := range collected {
		assert.Nil(t, unit.Record)
		assert.Equal(t, i+1, unit.Position)
		assert.Equal(t, log_records_core.ErrorImportCancelled, unit.Error.Code)
	}
	assert.Equal(t, 0, emptyDates)
}

func Test_GetLineFormat_WithKnownAndUnknownNames_ReturnsFormatOrError(t *testing.T) {
	format, err := GetLineFormat("")
	assert.NoError(t, err)
	assert.Equal(t, FormatPipe, format.Name())

	format, err = GetLineFormat("JSONL")
	assert.NoError(t, err)
	assert.Equal(t, FormatJSONLines, format.Name())

	_, err = GetLineFormat("csv")
	assert.Error(t, err)
}

func createParser(format LineFormat) *BatchImportParser {
	return NewBatchImportParser(format, time_parser.NewLegacyDateNormalizer(), 0)
}

func encode(content string) string {
	return legacyPrefix + base64.StdEncoding.EncodeToString([]byte(content))
}

func collectUnits(units iter.Seq[ParsedUnit]) []ParsedUnit {
	collected := make([]ParsedUnit, 0)
	for unit := range units {
		collected = append(collected, unit)
	}

	return collected
}

func splitUnits(units []ParsedUnit) ([]*log_records_core.LogRecord, []*log_records_core.RecordError) {
	records := make([]*log_records_core.LogRecord, 0)
	recordErrors := make([]*log_records_core.RecordError, 0)

	for _, unit := range units {
		if unit.Error != nil {
			recordErrors = append(recordErrors, unit.Error)
			continue
		}

		records = append(records, unit.Record)
	}

	return records, recordErrors
}
