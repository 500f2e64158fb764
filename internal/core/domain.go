package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date read from a spreadsheet cell. The zero value means
// the cell was blank or could not be parsed.
type Date struct {
	time.Time
}

var strictDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// IsEmpty returns true if the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Display renders the date as DD/MM/YYYY, or "-" when absent.
func (d Date) Display() string {
	if d.IsEmpty() {
		return "-"
	}
	return d.Time.Format("02/01/2006")
}

// MarshalJSON encodes the date as YYYY-MM-DD, or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsEmpty() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// ParseDate accepts only the DD/MM/YYYY pattern. Anything else, including
// impossible calendar dates, yields an absent date.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if !strictDatePattern.MatchString(s) {
		return Date{}, false
	}
	parts := strings.Split(s, "/")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	return calendarDate(year, month, day)
}

// ParseFlexibleDate accepts three numeric parts separated by '-' or '/'.
// A leading four digit part is read as year-month-day (2024-12-31,
// 2024/12/31); a trailing one as day-month-year (31/12/2024, 31-12-2024).
func ParseFlexibleDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 {
		return Date{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return Date{}, false
		}
		nums[i] = n
	}
	switch {
	case len(strings.TrimSpace(parts[0])) == 4:
		return calendarDate(nums[0], nums[1], nums[2])
	case len(strings.TrimSpace(parts[2])) == 4:
		return calendarDate(nums[2], nums[1], nums[0])
	default:
		return Date{}, false
	}
}

// calendarDate rejects values that time.Date would silently normalize,
// such as 31/02.
func calendarDate(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return Date{}, false
	}
	d := NewDate(year, month, day)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return Date{}, false
	}
	return d, true
}
