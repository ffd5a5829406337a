package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	today := handler.today()
	month, ok := parseMonthParam(c.Query("month"), today)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	days, prediction, err := handler.periods.Calendar(c.UserContext(), userKey, month, today)
	if err != nil {
		return serviceError(c, err)
	}

	var predicted predictionResponse
	if prediction != nil {
		predicted = newPredictionResponse(month, *prediction)
	} else {
		// recovers the unavailable reason
		predicted, err = handler.predictionFor(c, userKey, month)
		if err != nil {
			return serviceError(c, err)
		}
	}

	snapshot, err := handler.periods.Session(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(calendarResponse{
		Month:      month.Format(monthLayout),
		Days:       newCalendarDayResponses(days),
		Prediction: predicted,
		Session:    newSessionResponse(snapshot),
	})
}
