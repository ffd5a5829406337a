package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"

	DefaultFlow = FlowMedium
)

// DateLayout is the calendar-date wire format used by documents and the API.
const DateLayout = "2006-01-02"

// PeriodInterval is one logged period: an inclusive range of calendar days.
type PeriodInterval struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	Flow      string
}

type periodIntervalRecord struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Flow      string `json:"flow"`
}

// Contains reports whether day falls within [StartDate, EndDate].
func (interval PeriodInterval) Contains(day time.Time) bool {
	day = CalendarDate(day)
	return !day.Before(interval.StartDate) && !day.After(interval.EndDate)
}

// Days returns the inclusive day count of the interval.
func (interval PeriodInterval) Days() int {
	return DaysBetween(interval.StartDate, interval.EndDate) + 1
}

func (interval PeriodInterval) String() string {
	return fmt.Sprintf("[%s, %s]", interval.StartDate.Format(DateLayout), interval.EndDate.Format(DateLayout))
}

func (interval PeriodInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodIntervalRecord{
		ID:        interval.ID,
		StartDate: interval.StartDate.Format(DateLayout),
		EndDate:   interval.EndDate.Format(DateLayout),
		Flow:      interval.Flow,
	})
}

func (interval *PeriodInterval) UnmarshalJSON(raw []byte) error {
	record := periodIntervalRecord{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return err
	}

	start, err := ParseCalendarDate(record.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	end, err := ParseCalendarDate(record.EndDate)
	if err != nil {
		return fmt.Errorf("end_date: %w", err)
	}

	interval.ID = strings.TrimSpace(record.ID)
	interval.StartDate = start
	interval.EndDate = end
	interval.Flow = strings.ToLower(strings.TrimSpace(record.Flow))
	return nil
}

func IsValidFlow(flow string) bool {
	switch flow {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}

// NormalizeFlow lowercases flow and falls back to DefaultFlow when it is empty.
func NormalizeFlow(flow string) string {
	normalized := strings.ToLower(strings.TrimSpace(flow))
	if normalized == "" {
		return DefaultFlow
	}
	return normalized
}
