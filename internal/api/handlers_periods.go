package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/lunacycle/internal/models"
)

func (handler *Handler) GetPeriods(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	periods, err := handler.periods.Periods(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(periodsResponse{Periods: periods})
}

func (handler *Handler) AddPeriod(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	payload := periodPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	start, ok := parseDayParam(payload.Start)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid start date")
	}
	end, ok := parseDayParam(payload.End)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid end date")
	}
	interval, err := handler.periods.AddPeriod(c.UserContext(), userKey, start, end, payload.Flow)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(interval)
}

// ImportPeriods replaces the whole period list.
func (handler *Handler) ImportPeriods(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	payload := importPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	periods, err := handler.periods.ImportPeriods(c.UserContext(), userKey, payload.Periods)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(periodsResponse{Periods: periods})
}

func (handler *Handler) SyncPeriods(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	if err := handler.periods.Sync(c.UserContext(), userKey); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) RemovePeriodDay(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	day, ok := parseDayParam(c.Params("date"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	result, removed, err := handler.periods.RemoveDay(c.UserContext(), userKey, day)
	if err != nil {
		return serviceError(c, err)
	}
	if !removed {
		return apiError(c, fiber.StatusNotFound, "day is not inside a period")
	}

	remaining := result.Remaining
	if remaining == nil {
		remaining = []models.PeriodInterval{}
	}
	return c.JSON(removeDayResponse{Original: result.Original, Remaining: remaining})
}
