package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ParseExportRange reads optional YYYY-MM-DD bounds. An empty bound is nil.
func ParseExportRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	var from *time.Time
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsed, err := models.ParseCalendarDate(fromRaw)
		if err != nil {
			return nil, nil, ErrExportFromDateInvalid
		}
		from = &parsed
	}

	var to *time.Time
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsed, err := models.ParseCalendarDate(toRaw)
		if err != nil {
			return nil, nil, ErrExportToDateInvalid
		}
		to = &parsed
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}
