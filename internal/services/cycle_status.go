package services

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

const (
	PhaseMenstrual  = "menstrual"
	PhaseFollicular = "follicular"
	PhaseFertile    = "fertile"
	PhaseOvulation  = "ovulation"
	PhaseLuteal     = "luteal"
	PhaseUnknown    = "unknown"
)

type CycleStatus struct {
	CurrentCycleDay     int
	CurrentPhase        string
	LastPeriodStart     time.Time
	NextPeriodStart     time.Time
	OvulationDay        time.Time
	DaysUntilNextPeriod int
	HasPrediction       bool
}

// BuildCycleStatus places today inside the current cycle. Without statistics
// only the cycle day and a logged menstrual phase can be reported.
func BuildCycleStatus(intervals []models.PeriodInterval, stats *CycleStatistics, today time.Time) CycleStatus {
	status := CycleStatus{CurrentPhase: PhaseUnknown}
	today = models.CalendarDate(today)

	anchor, found := anchorInterval(intervals, today)
	if !found {
		return status
	}

	status.LastPeriodStart = anchor.StartDate
	status.CurrentCycleDay = models.DaysBetween(anchor.StartDate, today) + 1
	inLoggedPeriod := anchor.Contains(today)
	if inLoggedPeriod {
		status.CurrentPhase = PhaseMenstrual
	}

	if stats == nil || stats.MedianCycleLength <= 0 {
		return status
	}

	prediction := projectCycle(anchor.StartDate, *stats)
	status.HasPrediction = true
	status.NextPeriodStart = prediction.NextPeriodStart
	status.OvulationDay = prediction.OvulationDay
	status.DaysUntilNextPeriod = models.DaysBetween(today, prediction.NextPeriodStart)

	if inLoggedPeriod {
		return status
	}

	switch {
	case today.Equal(prediction.OvulationDay):
		status.CurrentPhase = PhaseOvulation
	case betweenCalendarDaysInclusive(today, prediction.FertileWindowStart, prediction.FertileWindowEnd):
		status.CurrentPhase = PhaseFertile
	case today.Before(prediction.OvulationDay):
		status.CurrentPhase = PhaseFollicular
	default:
		status.CurrentPhase = PhaseLuteal
	}
	return status
}
