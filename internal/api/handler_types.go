package api

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/services"
)

const monthLayout = "2006-01"

type periodsResponse struct {
	Periods []models.PeriodInterval `json:"periods"`
}

type sessionResponse struct {
	Mode         string  `json:"mode"`
	PendingStart *string `json:"pending_start"`
	PendingEnd   *string `json:"pending_end"`
	ViewingDate  *string `json:"viewing_date"`
}

type selectResponse struct {
	Outcome string          `json:"outcome"`
	Session sessionResponse `json:"session"`
}

type removeDayResponse struct {
	Original  models.PeriodInterval   `json:"original"`
	Remaining []models.PeriodInterval `json:"remaining"`
}

type statsResponse struct {
	Available  bool                      `json:"available"`
	Statistics *services.CycleStatistics `json:"statistics,omitempty"`
}

type predictionResponse struct {
	Available          bool   `json:"available"`
	Reason             string `json:"reason,omitempty"`
	Month              string `json:"month"`
	AnchorStart        string `json:"anchor_start,omitempty"`
	NextPeriodStart    string `json:"next_period_start,omitempty"`
	NextPeriodEnd      string `json:"next_period_end,omitempty"`
	OvulationDay       string `json:"ovulation_day,omitempty"`
	OvulationOffset    int    `json:"ovulation_offset,omitempty"`
	FertileWindowStart string `json:"fertile_window_start,omitempty"`
	FertileWindowEnd   string `json:"fertile_window_end,omitempty"`
}

type calendarDayResponse struct {
	Date            string `json:"date"`
	Day             int    `json:"day"`
	InMonth         bool   `json:"in_month"`
	IsToday         bool   `json:"is_today"`
	IsPeriod        bool   `json:"is_period"`
	Flow            string `json:"flow,omitempty"`
	IsSelectedStart bool   `json:"is_selected_start"`
	IsSelectedEnd   bool   `json:"is_selected_end"`
	InPendingRange  bool   `json:"in_pending_range"`
	Prediction      string `json:"prediction,omitempty"`
}

type calendarResponse struct {
	Month      string                `json:"month"`
	Days       []calendarDayResponse `json:"days"`
	Prediction predictionResponse    `json:"prediction"`
	Session    sessionResponse       `json:"session"`
}

type statusResponse struct {
	Today               string `json:"today"`
	CurrentCycleDay     int    `json:"current_cycle_day"`
	CurrentPhase        string `json:"current_phase"`
	LastPeriodStart     string `json:"last_period_start,omitempty"`
	HasPrediction       bool   `json:"has_prediction"`
	NextPeriodStart     string `json:"next_period_start,omitempty"`
	OvulationDay        string `json:"ovulation_day,omitempty"`
	DaysUntilNextPeriod int    `json:"days_until_next_period,omitempty"`
}

type dayResponse struct {
	Date     string                 `json:"date"`
	Period   *models.PeriodInterval `json:"period"`
	Symptoms []string               `json:"symptoms"`
	Note     string                 `json:"note"`
}

func formatDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(models.DateLayout)
}

func formatOptionalDay(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := formatDay(*value)
	return &formatted
}

func newSessionResponse(snapshot services.EditSessionSnapshot) sessionResponse {
	return sessionResponse{
		Mode:         string(snapshot.Mode),
		PendingStart: formatOptionalDay(snapshot.PendingStart),
		PendingEnd:   formatOptionalDay(snapshot.PendingEnd),
		ViewingDate:  formatOptionalDay(snapshot.ViewingDate),
	}
}

func newPredictionResponse(month time.Time, prediction services.Prediction) predictionResponse {
	return predictionResponse{
		Available:          true,
		Month:              month.Format(monthLayout),
		AnchorStart:        formatDay(prediction.AnchorStart),
		NextPeriodStart:    formatDay(prediction.NextPeriodStart),
		NextPeriodEnd:      formatDay(prediction.NextPeriodEnd),
		OvulationDay:       formatDay(prediction.OvulationDay),
		OvulationOffset:    prediction.OvulationOffset,
		FertileWindowStart: formatDay(prediction.FertileWindowStart),
		FertileWindowEnd:   formatDay(prediction.FertileWindowEnd),
	}
}

func newCalendarDayResponses(days []services.CalendarDayState) []calendarDayResponse {
	result := make([]calendarDayResponse, 0, len(days))
	for _, day := range days {
		result = append(result, calendarDayResponse{
			Date:            day.DateString,
			Day:             day.Day,
			InMonth:         day.InMonth,
			IsToday:         day.IsToday,
			IsPeriod:        day.IsPeriod,
			Flow:            day.Flow,
			IsSelectedStart: day.IsSelectedStart,
			IsSelectedEnd:   day.IsSelectedEnd,
			InPendingRange:  day.IsInPendingRange,
			Prediction:      day.PredictionLabel,
		})
	}
	return result
}

func newStatusResponse(today time.Time, status services.CycleStatus) statusResponse {
	return statusResponse{
		Today:               formatDay(today),
		CurrentCycleDay:     status.CurrentCycleDay,
		CurrentPhase:        status.CurrentPhase,
		LastPeriodStart:     formatDay(status.LastPeriodStart),
		HasPrediction:       status.HasPrediction,
		NextPeriodStart:     formatDay(status.NextPeriodStart),
		OvulationDay:        formatDay(status.OvulationDay),
		DaysUntilNextPeriod: status.DaysUntilNextPeriod,
	}
}
