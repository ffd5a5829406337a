package api

import (
	"strings"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

func parseDayParam(raw string) (time.Time, bool) {
	parsed, err := models.ParseCalendarDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// parseMonthParam accepts YYYY-MM and falls back to the month of today when
// the value is empty.
func parseMonthParam(raw string, today time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.MonthStart(today), true
	}
	parsed, err := time.Parse(monthLayout, trimmed)
	if err != nil {
		return time.Time{}, false
	}
	return models.MonthStart(parsed), true
}
