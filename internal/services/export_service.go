package services

import (
	"context"
	"strconv"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

var ExportCSVHeaders = []string{
	"Start",
	"End",
	"Days",
	"Flow",
}

type ExportPeriodReader interface {
	Periods(ctx context.Context, userKey string) ([]models.PeriodInterval, error)
}

type ExportService struct {
	periods ExportPeriodReader
}

type ExportSummary struct {
	TotalPeriods int    `json:"total_periods"`
	TotalDays    int    `json:"total_days"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

type ExportJSONEntry struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
	Flow  string `json:"flow"`
}

type ExportCSVRow struct {
	Start string
	End   string
	Days  int
	Flow  string
}

func NewExportService(periods ExportPeriodReader) *ExportService {
	return &ExportService{periods: periods}
}

// LoadPeriodsForRange returns the periods that overlap [from, to]. Either
// bound may be nil.
func (service *ExportService) LoadPeriodsForRange(ctx context.Context, userKey string, from *time.Time, to *time.Time) ([]models.PeriodInterval, error) {
	periods, err := service.periods.Periods(ctx, userKey)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.PeriodInterval, 0, len(periods))
	for _, period := range periods {
		if from != nil && period.EndDate.Before(models.CalendarDate(*from)) {
			continue
		}
		if to != nil && period.StartDate.After(models.CalendarDate(*to)) {
			continue
		}
		filtered = append(filtered, period)
	}
	return sortedIntervals(filtered), nil
}

func (service *ExportService) BuildSummary(ctx context.Context, userKey string, from *time.Time, to *time.Time) (ExportSummary, error) {
	periods, err := service.LoadPeriodsForRange(ctx, userKey, from, to)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(periods) == 0 {
		return ExportSummary{}, nil
	}

	totalDays := 0
	for _, period := range periods {
		totalDays += period.Days()
	}

	return ExportSummary{
		TotalPeriods: len(periods),
		TotalDays:    totalDays,
		HasData:      true,
		DateFrom:     periods[0].StartDate.Format(models.DateLayout),
		DateTo:       periods[len(periods)-1].EndDate.Format(models.DateLayout),
	}, nil
}

func (service *ExportService) BuildJSONEntries(ctx context.Context, userKey string, from *time.Time, to *time.Time) ([]ExportJSONEntry, error) {
	periods, err := service.LoadPeriodsForRange(ctx, userKey, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportJSONEntry, 0, len(periods))
	for _, period := range periods {
		entries = append(entries, ExportJSONEntry{
			ID:    period.ID,
			Start: period.StartDate.Format(models.DateLayout),
			End:   period.EndDate.Format(models.DateLayout),
			Days:  period.Days(),
			Flow:  period.Flow,
		})
	}
	return entries, nil
}

func (service *ExportService) BuildCSVRows(ctx context.Context, userKey string, from *time.Time, to *time.Time) ([]ExportCSVRow, error) {
	periods, err := service.LoadPeriodsForRange(ctx, userKey, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(periods))
	for _, period := range periods {
		rows = append(rows, ExportCSVRow{
			Start: period.StartDate.Format(models.DateLayout),
			End:   period.EndDate.Format(models.DateLayout),
			Days:  period.Days(),
			Flow:  period.Flow,
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{
		row.Start,
		row.End,
		strconv.Itoa(row.Days),
		row.Flow,
	}
}
