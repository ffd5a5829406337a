package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/services"
)

type Handler struct {
	periods   *services.PeriodService
	exports   *services.ExportService
	metrics   *metrics.Manager
	secretKey []byte
	location  *time.Location
	now       func() time.Time
}

func NewHandler(periods *services.PeriodService, secret string, location *time.Location, metricsManager *metrics.Manager) (*Handler, error) {
	if periods == nil {
		return nil, errors.New("period service is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		periods:   periods,
		exports:   services.NewExportService(periods),
		metrics:   metricsManager,
		secretKey: []byte(secret),
		location:  location,
		now:       time.Now,
	}, nil
}

// today is the current calendar day in the configured time zone.
func (handler *Handler) today() time.Time {
	year, month, day := handler.now().In(handler.location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
