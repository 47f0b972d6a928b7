package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used by custom ranges and day keys.
const DateLayout = "2006-01-02"

// ErrInvalidFilter reports a date filter selection that cannot be evaluated.
var ErrInvalidFilter = errors.New("invalid date filter")

// FilterMode is the granularity of a date filter selection.
type FilterMode string

const (
	FilterToday  FilterMode = "today"
	FilterMonth  FilterMode = "month"
	FilterYear   FilterMode = "year"
	FilterCustom FilterMode = "custom"
	FilterAll    FilterMode = "all"
)

// DateFilter is the transient filter selection applied to orders and expenses.
//
// Today and Location pin the evaluation so that Includes never reads the
// clock: the same filter value always gives the same answer.
type DateFilter struct {
	Mode      FilterMode
	Month     int
	Year      int
	StartDate string
	EndDate   string
	Today     time.Time
	Location  *time.Location
}

// DateRange is a half-open [From, To) interval of instants. The zero value is
// unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Bounded reports whether the range restricts anything.
func (r DateRange) Bounded() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// FilterQuery is the raw query-string form of a DateFilter.
type FilterQuery struct {
	Mode      string `form:"mode"`
	Month     int    `form:"month"`
	Year      int    `form:"year"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ParseDateFilter validates q and builds a DateFilter evaluated against now in
// loc. An empty mode falls back to defaultMode; missing month or year default
// to the current ones.
func ParseDateFilter(q FilterQuery, defaultMode FilterMode, now time.Time, loc *time.Location) (DateFilter, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	mode := FilterMode(strings.ToLower(strings.TrimSpace(q.Mode)))
	if mode == "" {
		mode = defaultMode
	}

	f := DateFilter{
		Mode:     mode,
		Month:    int(local.Month()),
		Year:     local.Year(),
		Today:    local,
		Location: loc,
	}

	switch mode {
	case FilterToday, FilterAll:
	case FilterMonth, FilterYear:
		if q.Month != 0 {
			if q.Month < 1 || q.Month > 12 {
				return DateFilter{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidFilter)
			}
			f.Month = q.Month
		}
		if q.Year != 0 {
			if q.Year < 1970 || q.Year > 9999 {
				return DateFilter{}, fmt.Errorf("%w: year %d out of range", ErrInvalidFilter, q.Year)
			}
			f.Year = q.Year
		}
	case FilterCustom:
		start, err := normalizeDay(q.StartDate)
		if err != nil {
			return DateFilter{}, fmt.Errorf("%w: startDate: %v", ErrInvalidFilter, err)
		}
		end, err := normalizeDay(q.EndDate)
		if err != nil {
			return DateFilter{}, fmt.Errorf("%w: endDate: %v", ErrInvalidFilter, err)
		}
		if start != "" && end != "" && start > end {
			return DateFilter{}, fmt.Errorf("%w: startDate is after endDate", ErrInvalidFilter)
		}
		f.StartDate, f.EndDate = start, end
	default:
		return DateFilter{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidFilter, q.Mode)
	}

	return f, nil
}

// normalizeDay accepts YYYY-MM-DD or an RFC 3339 timestamp, whose calendar
// date is kept as written.
func normalizeDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if len(value) > len(DateLayout) {
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return "", err
		}
		value = value[:len(DateLayout)]
	}
	day, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", err
	}
	return day.Format(DateLayout), nil
}

func (f DateFilter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Includes reports whether a record dated date falls inside the selection.
// Zero dates are never included.
func (f DateFilter) Includes(date time.Time) bool {
	if date.IsZero() {
		return false
	}

	local := date.In(f.location())

	switch f.Mode {
	case FilterToday:
		y, m, d := local.Date()
		ty, tm, td := f.Today.In(f.location()).Date()
		return y == ty && m == tm && d == td
	case FilterMonth:
		return int(local.Month()) == f.Month && local.Year() == f.Year
	case FilterYear:
		return local.Year() == f.Year
	case FilterCustom:
		// A half-open custom range selects everything.
		if f.StartDate == "" || f.EndDate == "" {
			return true
		}
		day := local.Format(DateLayout)
		return day >= f.StartDate && day <= f.EndDate
	default:
		return true
	}
}

// Bounds returns the instant range covering the selection, for narrowing
// storage queries. Includes stays authoritative.
func (f DateFilter) Bounds() DateRange {
	loc := f.location()

	switch f.Mode {
	case FilterToday:
		y, m, d := f.Today.In(loc).Date()
		from := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return DateRange{From: from, To: from.AddDate(0, 0, 1)}
	case FilterMonth:
		from := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, loc)
		return DateRange{From: from, To: from.AddDate(0, 1, 0)}
	case FilterYear:
		from := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, loc)
		return DateRange{From: from, To: from.AddDate(1, 0, 0)}
	case FilterCustom:
		if f.StartDate == "" || f.EndDate == "" {
			return DateRange{}
		}
		from, errFrom := time.ParseInLocation(DateLayout, f.StartDate, loc)
		to, errTo := time.ParseInLocation(DateLayout, f.EndDate, loc)
		if errFrom != nil || errTo != nil {
			return DateRange{}
		}
		return DateRange{From: from, To: to.AddDate(0, 0, 1)}
	default:
		return DateRange{}
	}
}

// Key identifies the selection for caching purposes.
func (f DateFilter) Key() string {
	switch f.Mode {
	case FilterToday:
		return "today:" + f.Today.In(f.location()).Format(DateLayout)
	case FilterMonth:
		return fmt.Sprintf("month:%04d-%02d", f.Year, f.Month)
	case FilterYear:
		return fmt.Sprintf("year:%04d", f.Year)
	case FilterCustom:
		if f.StartDate == "" || f.EndDate == "" {
			return "all"
		}
		return "custom:" + f.StartDate + ":" + f.EndDate
	default:
		return "all"
	}
}

// Label describes the selection for report headers.
func (f DateFilter) Label() string {
	switch f.Mode {
	case FilterToday:
		return f.Today.In(f.location()).Format("2 January 2006")
	case FilterMonth:
		return fmt.Sprintf("%s %d", time.Month(f.Month), f.Year)
	case FilterYear:
		return fmt.Sprintf("%d", f.Year)
	case FilterCustom:
		if f.StartDate == "" || f.EndDate == "" {
			return "All time"
		}
		return f.StartDate + " to " + f.EndDate
	default:
		return "All time"
	}
}

// ParseRecordDate reads a record date sent by a client. Both RFC 3339
// timestamps and plain YYYY-MM-DD days (midnight in loc) are accepted.
func ParseRecordDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(DateLayout, value, loc)
}
