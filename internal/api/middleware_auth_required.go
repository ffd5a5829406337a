package api

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userKey, err := handler.authenticateRequest(c)
	if err != nil {
		log.WithError(err).WithField("path", c.Path()).Debug("rejected request")
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, userKey)
	return c.Next()
}
