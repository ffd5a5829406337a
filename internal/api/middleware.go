package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestMetrics counts every request by method and final status.
func (handler *Handler) RequestMetrics(c *fiber.Ctx) error {
	if handler.metrics == nil {
		return c.Next()
	}

	handler.metrics.GaugeRequests.Inc()
	defer handler.metrics.GaugeRequests.Dec()

	started := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}
	handler.metrics.ObserveRequest(c.Method(), status, time.Since(started).Seconds())
	return err
}
