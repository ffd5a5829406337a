package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/lunacycle/internal/services"
)

func parseExportRange(c *fiber.Ctx) (*time.Time, *time.Time, string) {
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExportFromDateInvalid):
			return nil, nil, "invalid from date"
		case errors.Is(err, services.ErrExportToDateInvalid):
			return nil, nil, "invalid to date"
		default:
			return nil, nil, "invalid range"
		}
	}

	return from, to, ""
}

func exportUserAndRange(c *fiber.Ctx) (string, *time.Time, *time.Time, int, string) {
	userKey, ok := currentUserKey(c)
	if !ok {
		return "", nil, nil, fiber.StatusUnauthorized, "unauthorized"
	}

	from, to, rangeError := parseExportRange(c)
	if rangeError != "" {
		return "", nil, nil, fiber.StatusBadRequest, rangeError
	}

	return userKey, from, to, 0, ""
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("lunacycle-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
