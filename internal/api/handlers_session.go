package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetSession(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	snapshot, err := handler.periods.Session(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newSessionResponse(snapshot))
}

func (handler *Handler) BeginLogging(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	snapshot, err := handler.periods.BeginLogging(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newSessionResponse(snapshot))
}

func (handler *Handler) SelectDate(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	payload := selectDatePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	day, ok := parseDayParam(payload.Date)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	outcome, snapshot, err := handler.periods.SelectDate(c.UserContext(), userKey, day)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(selectResponse{Outcome: string(outcome), Session: newSessionResponse(snapshot)})
}

func (handler *Handler) CommitSelection(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	interval, err := handler.periods.Commit(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(interval)
}

func (handler *Handler) CancelSelection(c *fiber.Ctx) error {
	userKey, err := requireUserKey(c)
	if err != nil {
		return err
	}

	snapshot, err := handler.periods.Cancel(c.UserContext(), userKey)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newSessionResponse(snapshot))
}
