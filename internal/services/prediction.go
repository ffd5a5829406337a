package services

import (
	"math"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

const (
	defaultOvulationOffset = 14
	fertileDaysBefore      = 5
	fertileDaysAfter       = 1
)

type Prediction struct {
	Month              time.Time
	AnchorStart        time.Time
	NextPeriodStart    time.Time
	NextPeriodEnd      time.Time
	OvulationDay       time.Time
	OvulationOffset    int
	FertileWindowStart time.Time
	FertileWindowEnd   time.Time
}

// OvulationOffset is the number of days between ovulation and the next period
// start. Short cycles move it down towards 12, long cycles up towards 16.
func OvulationOffset(cycleLength int) int {
	switch {
	case cycleLength < 28:
		return max(12, roundHalfUp(float64(cycleLength)*0.5))
	case cycleLength > 32:
		return min(16, roundHalfUp(float64(cycleLength)*0.45))
	default:
		return defaultOvulationOffset
	}
}

// PredictForMonth projects the next period, ovulation day and fertile window
// from the most recent period that started on or before the end of month.
// A nil stats means the history is too short to predict anything.
func PredictForMonth(intervals []models.PeriodInterval, stats *CycleStatistics, month time.Time) (Prediction, error) {
	if stats == nil || stats.MedianCycleLength <= 0 {
		return Prediction{}, ErrInsufficientHistory
	}

	monthStart := models.MonthStart(month)
	monthEnd := models.MonthEnd(month)

	anchor, found := anchorInterval(intervals, monthEnd)
	if !found {
		return Prediction{}, ErrNoAnchorForMonth
	}

	prediction := projectCycle(anchor.StartDate, *stats)
	prediction.Month = monthStart

	touchesMonth := rangesIntersect(prediction.NextPeriodStart, prediction.NextPeriodEnd, monthStart, monthEnd) ||
		betweenCalendarDaysInclusive(prediction.OvulationDay, monthStart, monthEnd) ||
		rangesIntersect(prediction.FertileWindowStart, prediction.FertileWindowEnd, monthStart, monthEnd)
	if !touchesMonth {
		return Prediction{}, ErrNoPredictionForMonth
	}
	return prediction, nil
}

func projectCycle(anchorStart time.Time, stats CycleStatistics) Prediction {
	periodLength := stats.MedianPeriodLength
	if periodLength <= 0 {
		periodLength = 1
	}

	nextStart := models.AddDays(anchorStart, stats.MedianCycleLength)
	offset := OvulationOffset(stats.MedianCycleLength)
	ovulation := models.AddDays(nextStart, -offset)

	return Prediction{
		AnchorStart:        models.CalendarDate(anchorStart),
		NextPeriodStart:    nextStart,
		NextPeriodEnd:      models.AddDays(nextStart, periodLength-1),
		OvulationDay:       ovulation,
		OvulationOffset:    offset,
		FertileWindowStart: models.AddDays(ovulation, -fertileDaysBefore),
		FertileWindowEnd:   models.AddDays(ovulation, fertileDaysAfter),
	}
}

func anchorInterval(intervals []models.PeriodInterval, notAfter time.Time) (models.PeriodInterval, bool) {
	var anchor models.PeriodInterval
	found := false
	for _, interval := range intervals {
		if interval.StartDate.After(notAfter) {
			continue
		}
		if !found || interval.StartDate.After(anchor.StartDate) {
			anchor = interval
			found = true
		}
	}
	return anchor, found
}

func rangesIntersect(start time.Time, end time.Time, otherStart time.Time, otherEnd time.Time) bool {
	return !start.After(otherEnd) && !otherStart.After(end)
}

func betweenCalendarDaysInclusive(day time.Time, start time.Time, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return (day.Equal(start) || day.After(start)) && (day.Equal(end) || day.Before(end))
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
