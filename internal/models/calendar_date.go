package models

import (
	"strings"
	"time"
)

// CalendarDate drops the time-of-day component and pins the value to UTC so
// that dates compare and subtract as whole days.
func CalendarDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseCalendarDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from time.Time, to time.Time) int {
	return int(CalendarDate(to).Sub(CalendarDate(from)).Hours() / 24)
}

func AddDays(value time.Time, days int) time.Time {
	return CalendarDate(value).AddDate(0, 0, days)
}

func MonthStart(value time.Time) time.Time {
	year, month, _ := value.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func MonthEnd(value time.Time) time.Time {
	return MonthStart(value).AddDate(0, 1, -1)
}
