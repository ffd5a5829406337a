package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/lunacycle/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	userKey, from, to, status, message := exportUserAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	rows, err := handler.exports.BuildCSVRows(c.UserContext(), userKey, from, to)
	if err != nil {
		return serviceError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.today(), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	userKey, from, to, status, message := exportUserAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	entries, err := handler.exports.BuildJSONEntries(c.UserContext(), userKey, from, to)
	if err != nil {
		return serviceError(c, err)
	}

	payload, err := json.MarshalIndent(fiber.Map{
		"exported_at": formatDay(handler.today()),
		"periods":     entries,
	}, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "application/json", buildExportFilename(handler.today(), "json"))
	return c.Send(payload)
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	userKey, from, to, status, message := exportUserAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	summary, err := handler.exports.BuildSummary(c.UserContext(), userKey, from, to)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}
