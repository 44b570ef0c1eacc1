package time_parser

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

type SlashOrder string

const (
	SlashOrderDayMonthYear SlashOrder = "DMY"
	SlashOrderMonthDayYear SlashOrder = "MDY"
	SlashOrderYearMonthDay SlashOrder = "YMD"
)

type EmptyDatePolicy string

const (
	EmptyDatePolicyNow    EmptyDatePolicy = "now"
	EmptyDatePolicyReject EmptyDatePolicy = "reject"
)

// larger float64 values no longer convert to int64 exactly
const maxEpochMillis = 1 << 53

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrEmptyDate   = errors.New("date is required")
)

// layouts tried for non slash strings, in order of preference
var dateTimeLayouts = []string{
	time.RFC3339,              // "2006-01-02T15:04:05Z07:00"
	time.RFC3339Nano,          // "2006-01-02T15:04:05.999999999Z07:00"
	"2006-01-02T15:04:05Z",    // ISO with Z suffix
	"2006-01-02T15:04:05.000", // ISO with milliseconds, no timezone
	"2006-01-02T15:04:05",     // ISO without timezone
	"2006-01-02 15:04:05.000", // batch file layout
	"2006-01-02 15:04:05",     // Space-separated format
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

type DateNormalizerOptions struct {
	SlashOrder SlashOrder
	// IsZeroBasedMonth reads the month of slash dates as a zero-based index,
	// so "15/01/2024" is February 15th. Old dashboard clients sent dates this way.
	IsZeroBasedMonth bool
	EmptyPolicy      EmptyDatePolicy
	// OnEmptyDate is called every time an empty value is replaced by the current time.
	OnEmptyDate func()
	Now         func() time.Time
}

// DateNormalizer converts the date representations clients send into UTC instants.
// Supported inputs:
//   - nil or empty string: current time (or ErrEmptyDate with EmptyDatePolicyReject)
//   - slash strings: three integer parts read positionally per SlashOrder
//   - ISO and space separated date-time strings, see dateTimeLayouts
//   - unix epoch milliseconds as number or all-digit string
//
// Anything else is ErrInvalidDate, a value is never substituted for garbage.
type DateNormalizer struct {
	options DateNormalizerOptions
}

func NewDateNormalizer(options DateNormalizerOptions) *DateNormalizer {
	if options.SlashOrder == "" {
		options.SlashOrder = SlashOrderDayMonthYear
	}

	if options.EmptyPolicy == "" {
		options.EmptyPolicy = EmptyDatePolicyNow
	}

	if options.Now == nil {
		options.Now = time.Now
	}

	return &DateNormalizer{options: options}
}

// NewLegacyDateNormalizer keeps the behavior existing clients rely on:
// day/month/year slash dates with a zero-based month and "now" for empty dates.
func NewLegacyDateNormalizer() *DateNormalizer {
	return NewDateNormalizer(DateNormalizerOptions{
		SlashOrder:       SlashOrderDayMonthYear,
		IsZeroBasedMonth: true,
		EmptyPolicy:      EmptyDatePolicyNow,
	})
}

func (n *DateNormalizer) Normalize(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return n.emptyDate()

	case string:
		return n.normalizeString(v)

	case *string:
		if v == nil {
			return n.emptyDate()
		}
		return n.normalizeString(*v)

	case time.Time:
		if v.IsZero() {
			return n.emptyDate()
		}
		return v.UTC(), nil

	case float64:
		// JSON numbers are decoded as float64
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > maxEpochMillis {
			return time.Time{}, ErrInvalidDate
		}
		return time.UnixMilli(int64(v)).UTC(), nil

	case int64:
		return time.UnixMilli(v).UTC(), nil

	case int:
		return time.UnixMilli(int64(v)).UTC(), nil

	default:
		// bool, arrays, objects
		return time.Time{}, ErrInvalidDate
	}
}

func (n *DateNormalizer) normalizeString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return n.emptyDate()
	}

	if strings.Contains(value, "/") {
		return n.parseSlashDate(value)
	}

	if isDigits(value) {
		millis, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return time.UnixMilli(millis).UTC(), nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

func (n *DateNormalizer) parseSlashDate(value string) (time.Time, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return time.Time{}, ErrInvalidDate
	}

	numbers := make([]int, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !isDigits(part) {
			return time.Time{}, ErrInvalidDate
		}

		number, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		numbers[i] = number
	}

	var day, month, year int
	switch n.options.SlashOrder {
	case SlashOrderMonthDayYear:
		month, day, year = numbers[0], numbers[1], numbers[2]
	case SlashOrderYearMonthDay:
		year, month, day = numbers[0], numbers[1], numbers[2]
	default:
		day, month, year = numbers[0], numbers[1], numbers[2]
	}

	if n.options.IsZeroBasedMonth {
		// legacy clients: two digit years are 19xx and overflowing
		// day or month values roll into the next period
		if year <= 99 {
			year += 1900
		}
		return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC), nil
	}

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, ErrInvalidDate
	}

	result := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if result.Day() != day {
		// e.g. 31/02/2024 would silently become March 2nd
		return time.Time{}, ErrInvalidDate
	}

	return result, nil
}

func (n *DateNormalizer) emptyDate() (time.Time, error) {
	if n.options.EmptyPolicy == EmptyDatePolicyReject {
		return time.Time{}, ErrEmptyDate
	}

	if n.options.OnEmptyDate != nil {
		n.options.OnEmptyDate()
	}

	return n.options.Now().UTC(), nil
}

// IsEmptyDate reports whether Normalize treats value as a missing date.
func IsEmptyDate(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	case time.Time:
		return v.IsZero()
	default:
		return false
	}
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}

	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
