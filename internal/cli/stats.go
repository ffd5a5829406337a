package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/services"
)

type statsReport struct {
	User       string                    `json:"user"`
	Month      string                    `json:"month"`
	Periods    int                       `json:"periods"`
	Available  bool                      `json:"available"`
	Statistics *services.CycleStatistics `json:"statistics,omitempty"`
	Prediction *predictionReport         `json:"prediction,omitempty"`
	Reason     string                    `json:"reason,omitempty"`
}

type predictionReport struct {
	NextPeriodStart    string `json:"next_period_start"`
	NextPeriodEnd      string `json:"next_period_end"`
	OvulationDay       string `json:"ovulation_day"`
	FertileWindowStart string `json:"fertile_window_start"`
	FertileWindowEnd   string `json:"fertile_window_end"`
}

func newStatsCommand(options *rootOptions) *cobra.Command {
	var (
		userKey string
		month   string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cycle statistics and the prediction for a month as JSON",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := config.Load(options.configPath)
			if err != nil {
				return err
			}

			monthStart, err := parseMonthFlag(month, cfg.Location())
			if err != nil {
				return err
			}

			documents, closeStore, err := openDocumentStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, closeStore())
			}()

			report, err := buildStatsReport(cmd, newPeriodService(cfg, documents), userKey, monthStart)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&userKey, "user", "u", "", "user key")
	cmd.Flags().StringVarP(&month, "month", "m", "", "month to predict (YYYY-MM), defaults to the current month")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func buildStatsReport(cmd *cobra.Command, periods *services.PeriodService, userKey string, month time.Time) (statsReport, error) {
	ctx := cmd.Context()
	report := statsReport{User: userKey, Month: month.Format("2006-01")}

	intervals, err := periods.Periods(ctx, userKey)
	if err != nil {
		return statsReport{}, err
	}
	report.Periods = len(intervals)

	stats, ok, err := periods.Statistics(ctx, userKey)
	if err != nil {
		return statsReport{}, err
	}
	if ok {
		report.Statistics = &stats
	}

	prediction, err := periods.Prediction(ctx, userKey, month)
	switch {
	case err == nil:
		report.Available = true
		report.Prediction = &predictionReport{
			NextPeriodStart:    prediction.NextPeriodStart.Format(models.DateLayout),
			NextPeriodEnd:      prediction.NextPeriodEnd.Format(models.DateLayout),
			OvulationDay:       prediction.OvulationDay.Format(models.DateLayout),
			FertileWindowStart: prediction.FertileWindowStart.Format(models.DateLayout),
			FertileWindowEnd:   prediction.FertileWindowEnd.Format(models.DateLayout),
		}
	case errors.Is(err, services.ErrInsufficientHistory),
		errors.Is(err, services.ErrNoAnchorForMonth),
		errors.Is(err, services.ErrNoPredictionForMonth):
		report.Reason = err.Error()
	default:
		return statsReport{}, err
	}
	return report, nil
}

func parseMonthFlag(raw string, location *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.MonthStart(models.CalendarDate(time.Now().In(location))), nil
	}
	parsed, err := time.Parse("2006-01", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --month %q: expected YYYY-MM", raw)
	}
	return parsed, nil
}
