package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/lunacycle/internal/services"
)

const (
	reasonInsufficientHistory  = "insufficient_history"
	reasonNoAnchorForMonth     = "no_anchor_for_month"
	reasonNoPredictionForMonth = "no_prediction_for_month"
)

func (handler *Handler) GetStatistics(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	stats, ok, err := handler.periods.Statistics(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	if !ok {
		return c.JSON(statsResponse{Available: false})
	}
	return c.JSON(statsResponse{Available: true, Statistics: &stats})
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	month, ok := parseMonthParam(c.Query("month"), handler.today())
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	response, err := handler.predictionFor(c, userKey, month)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(response)
}

func (handler *Handler) GetStatus(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	today := handler.today()
	status, err := handler.periods.Status(c.UserContext(), userKey, today)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newStatusResponse(today, status))
}

// predictionFor turns the "nothing to predict" errors into an unavailable
// response and passes every other error through.
func (handler *Handler) predictionFor(c *fiber.Ctx, userKey string, month time.Time) (predictionResponse, error) {
	prediction, err := handler.periods.Prediction(c.UserContext(), userKey, month)
	if err == nil {
		return newPredictionResponse(month, prediction), nil
	}

	reason, unavailable := predictionUnavailableReason(err)
	if !unavailable {
		return predictionResponse{}, err
	}
	return predictionResponse{Available: false, Reason: reason, Month: month.Format(monthLayout)}, nil
}

func predictionUnavailableReason(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrInsufficientHistory):
		return reasonInsufficientHistory, true
	case errors.Is(err, services.ErrNoAnchorForMonth):
		return reasonNoAnchorForMonth, true
	case errors.Is(err, services.ErrNoPredictionForMonth):
		return reasonNoPredictionForMonth, true
	default:
		return "", false
	}
}
