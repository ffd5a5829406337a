package services

import (
	"sort"

	"github.com/terraincognita07/lunacycle/internal/models"
)

const (
	MinCycleLength = 21
	MaxCycleLength = 45

	cycleSampleSize = 6
)

type CycleStatistics struct {
	CycleLengths        []int   `json:"cycle_lengths"`
	PeriodLengths       []int   `json:"period_lengths"`
	MedianCycleLength   int     `json:"median_cycle_length"`
	MedianPeriodLength  int     `json:"median_period_length"`
	AverageCycleLength  float64 `json:"average_cycle_length"`
	AveragePeriodLength float64 `json:"average_period_length"`
}

// ComputeCycleStatistics derives cycle and period lengths from logged periods.
// It reports false when there is no usable cycle gap, which callers must treat
// as "no prediction available" rather than as zero-length cycles.
func ComputeCycleStatistics(intervals []models.PeriodInterval) (CycleStatistics, bool) {
	if len(intervals) < 2 {
		return CycleStatistics{}, false
	}

	sorted := sortedIntervals(intervals)
	lengths := cycleLengths(sorted)
	if len(lengths) == 0 {
		return CycleStatistics{}, false
	}

	periodLengths := make([]int, 0, len(sorted))
	for _, interval := range sorted {
		periodLengths = append(periodLengths, interval.Days())
	}

	samples := tailInts(lengths, cycleSampleSize)
	return CycleStatistics{
		CycleLengths:        lengths,
		PeriodLengths:       periodLengths,
		MedianCycleLength:   medianInt(samples),
		MedianPeriodLength:  medianInt(periodLengths),
		AverageCycleLength:  averageInts(samples),
		AveragePeriodLength: averageInts(periodLengths),
	}, true
}

// cycleLengths returns the gaps between consecutive period starts that fall in
// the plausible range, oldest first.
func cycleLengths(sorted []models.PeriodInterval) []int {
	lengths := make([]int, 0, len(sorted))
	for i := 1; i < len(sorted); i++ {
		gap := models.DaysBetween(sorted[i-1].StartDate, sorted[i].StartDate)
		if gap < MinCycleLength || gap > MaxCycleLength {
			continue
		}
		lengths = append(lengths, gap)
	}
	return lengths
}

func tailInts(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, 0, len(values))
	sorted = append(sorted, values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	left := sorted[mid-1]
	right := sorted[mid]
	return int(float64(left+right)/2 + 0.5)
}
