package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/terraincognita07/lunacycle/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func retryableError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": message, "retryable": true})
}

// serviceError maps period service failures onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPersistFailed):
		return retryableError(c, "failed to persist periods")
	case errors.Is(err, services.ErrLoadFailed):
		return retryableError(c, "failed to load periods")
	case errors.Is(err, services.ErrInvalidRange):
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	case errors.Is(err, services.ErrInvalidFlow):
		return apiError(c, fiber.StatusBadRequest, "invalid flow")
	case errors.Is(err, services.ErrOverlappingRange):
		return apiError(c, fiber.StatusConflict, "period overlaps an existing period")
	case errors.Is(err, services.ErrInvalidSymptomName):
		return apiError(c, fiber.StatusBadRequest, "invalid symptom name")
	case errors.Is(err, services.ErrNoteTooLong):
		return apiError(c, fiber.StatusBadRequest, "note is too long")
	case errors.Is(err, services.ErrSelectionIncomplete):
		return apiError(c, fiber.StatusUnprocessableEntity, "selection incomplete")
	default:
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func requireUserKey(c *fiber.Ctx) (string, error) {
	userKey, ok := currentUserKey(c)
	if !ok {
		return "", apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return userKey, nil
}
