package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/lunacycle/internal/services"
)

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	userKey, day, err := dayRequest(c)
	if err != nil {
		return err
	}

	journal, err := handler.periods.Day(c.UserContext(), userKey, day)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newDayResponse(journal))
}

func (handler *Handler) AddDaySymptom(c *fiber.Ctx) error {
	userKey, day, err := dayRequest(c)
	if err != nil {
		return err
	}

	payload := symptomPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	journal, err := handler.periods.LogSymptom(c.UserContext(), userKey, day, payload.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newDayResponse(journal))
}

func (handler *Handler) RemoveDaySymptom(c *fiber.Ctx) error {
	userKey, day, err := dayRequest(c)
	if err != nil {
		return err
	}

	journal, removed, err := handler.periods.RemoveSymptom(c.UserContext(), userKey, day, c.Params("name"))
	if err != nil {
		return serviceError(c, err)
	}
	if !removed {
		return apiError(c, fiber.StatusNotFound, "symptom not found")
	}
	return c.JSON(newDayResponse(journal))
}

func (handler *Handler) SetDayNote(c *fiber.Ctx) error {
	userKey, day, err := dayRequest(c)
	if err != nil {
		return err
	}

	payload := notePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	journal, err := handler.periods.SetNote(c.UserContext(), userKey, day, payload.Text)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newDayResponse(journal))
}

func (handler *Handler) GetSymptomFrequencies(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	frequencies, err := handler.periods.SymptomFrequencies(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"symptoms": frequencies})
}

func dayRequest(c *fiber.Ctx) (string, time.Time, error) {
	userKey, err := requireUserKey(c)
	if err != nil {
		return "", time.Time{}, err
	}
	day, ok := parseDayParam(c.Params("date"))
	if !ok {
		return "", time.Time{}, apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	return userKey, day, nil
}

func newDayResponse(journal services.DayJournal) dayResponse {
	return dayResponse{
		Date:     formatDay(journal.Date),
		Period:   journal.Period,
		Symptoms: journal.Symptoms,
		Note:     journal.Note,
	}
}
