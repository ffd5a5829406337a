package services

import (
	"testing"

	"github.com/terraincognita07/lunacycle/internal/models"
)

func TestBuildCycleStatusPhases(t *testing.T) {
	periods := workedExamplePeriods()
	stats := mustStatistics(t, periods)

	tests := []struct {
		today     string
		phase     string
		cycleDay  int
		daysUntil int
	}{
		{today: "2024-01-30", phase: PhaseMenstrual, cycleDay: 2, daysUntil: 27},
		{today: "2024-02-05", phase: PhaseFollicular, cycleDay: 8, daysUntil: 21},
		{today: "2024-02-09", phase: PhaseFertile, cycleDay: 12, daysUntil: 17},
		{today: "2024-02-12", phase: PhaseOvulation, cycleDay: 15, daysUntil: 14},
		{today: "2024-02-20", phase: PhaseLuteal, cycleDay: 23, daysUntil: 6},
	}

	for _, tc := range tests {
		t.Run(tc.today, func(t *testing.T) {
			status := BuildCycleStatus(periods, stats, mustParseDay(tc.today))
			if status.CurrentPhase != tc.phase {
				t.Fatalf("expected phase %q, got %q", tc.phase, status.CurrentPhase)
			}
			if status.CurrentCycleDay != tc.cycleDay {
				t.Fatalf("expected cycle day %d, got %d", tc.cycleDay, status.CurrentCycleDay)
			}
			if !status.HasPrediction || status.DaysUntilNextPeriod != tc.daysUntil {
				t.Fatalf("expected %d days until next period, got %d (prediction=%v)", tc.daysUntil, status.DaysUntilNextPeriod, status.HasPrediction)
			}
			assertDay(t, "next period start", status.NextPeriodStart, "2024-02-26")
		})
	}
}

func TestBuildCycleStatusWithoutHistory(t *testing.T) {
	status := BuildCycleStatus(nil, nil, mustParseDay("2024-02-01"))
	if status.CurrentPhase != PhaseUnknown || status.CurrentCycleDay != 0 || status.HasPrediction {
		t.Fatalf("expected unknown status, got %#v", status)
	}
}

func TestBuildCycleStatusWithoutStatisticsReportsLoggedPeriodOnly(t *testing.T) {
	periods := []models.PeriodInterval{makePeriod("only", "2024-03-01", "2024-03-05")}

	inside := BuildCycleStatus(periods, nil, mustParseDay("2024-03-03"))
	if inside.CurrentPhase != PhaseMenstrual || inside.CurrentCycleDay != 3 {
		t.Fatalf("expected menstrual day 3, got %#v", inside)
	}
	if inside.HasPrediction {
		t.Fatal("expected no prediction without statistics")
	}

	after := BuildCycleStatus(periods, nil, mustParseDay("2024-03-20"))
	if after.CurrentPhase != PhaseUnknown || after.CurrentCycleDay != 20 {
		t.Fatalf("expected unknown phase on day 20, got %#v", after)
	}
}
