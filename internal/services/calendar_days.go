package services

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

const (
	PredictionLabelNextPeriod = "next_period"
	PredictionLabelOvulation  = "ovulation"
	PredictionLabelFertile    = "fertile"
)

type CalendarDayState struct {
	Date             time.Time
	DateString       string
	Day              int
	InMonth          bool
	IsToday          bool
	IsPeriod         bool
	Flow             string
	IsSelectedStart  bool
	IsSelectedEnd    bool
	IsInPendingRange bool
	PredictionLabel  string
}

// BuildCalendarDayStates maps a month onto a Sunday-first grid of day cells.
// It holds no state of its own; prediction may be nil.
func BuildCalendarDayStates(month time.Time, intervals []models.PeriodInterval, prediction *Prediction, session EditSessionSnapshot, today time.Time) []CalendarDayState {
	monthStart := models.MonthStart(month)
	monthEnd := models.MonthEnd(month)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	flowByDate := make(map[string]string)
	for _, interval := range intervals {
		from := interval.StartDate
		if from.Before(gridStart) {
			from = gridStart
		}
		for day := from; !day.After(interval.EndDate) && !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
			flowByDate[day.Format(models.DateLayout)] = interval.Flow
		}
	}

	labelByDate := make(map[string]string)
	if prediction != nil {
		for day := prediction.FertileWindowStart; !day.After(prediction.FertileWindowEnd); day = day.AddDate(0, 0, 1) {
			labelByDate[day.Format(models.DateLayout)] = PredictionLabelFertile
		}
		labelByDate[prediction.OvulationDay.Format(models.DateLayout)] = PredictionLabelOvulation
		for day := prediction.NextPeriodStart; !day.After(prediction.NextPeriodEnd); day = day.AddDate(0, 0, 1) {
			labelByDate[day.Format(models.DateLayout)] = PredictionLabelNextPeriod
		}
	}

	var pendingStart, pendingEnd time.Time
	if session.PendingStart != nil {
		pendingStart = models.CalendarDate(*session.PendingStart)
		pendingEnd = pendingStart
		if session.PendingEnd != nil {
			pendingEnd = models.CalendarDate(*session.PendingEnd)
		}
	}

	todayKey := models.CalendarDate(today).Format(models.DateLayout)

	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format(models.DateLayout)
		flow, isPeriod := flowByDate[key]

		state := CalendarDayState{
			Date:       day,
			DateString: key,
			Day:        day.Day(),
			InMonth:    day.Month() == monthStart.Month(),
			IsToday:    key == todayKey,
			IsPeriod:   isPeriod,
			Flow:       flow,
		}
		if !isPeriod {
			state.PredictionLabel = labelByDate[key]
		}
		if !pendingStart.IsZero() {
			state.IsSelectedStart = day.Equal(pendingStart)
			state.IsSelectedEnd = session.PendingEnd != nil && day.Equal(pendingEnd)
			state.IsInPendingRange = betweenCalendarDaysInclusive(day, pendingStart, pendingEnd)
		}

		days = append(days, state)
	}

	return days
}
