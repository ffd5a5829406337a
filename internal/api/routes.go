package api

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp builds the fiber app with middleware and every route registered.
// gatherer may be nil, in which case /metrics is not exposed.
func NewApp(handler *Handler, gatherer prometheus.Gatherer, logWriter io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "lunacycle",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if logWriter != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
			Output: logWriter,
		}))
	}
	app.Use(handler.RequestMetrics)

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	RegisterRoutes(app, handler)
	return app
}

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.AuthRequired)

	periods := api.Group("/periods")
	periods.Get("", handler.GetPeriods)
	periods.Post("", handler.AddPeriod)
	periods.Put("", handler.ImportPeriods)
	periods.Post("/sync", handler.SyncPeriods)
	periods.Delete("/days/:date", handler.RemovePeriodDay)

	session := api.Group("/session")
	session.Get("", handler.GetSession)
	session.Post("/begin", handler.BeginLogging)
	session.Post("/select", handler.SelectDate)
	session.Post("/commit", handler.CommitSelection)
	session.Post("/cancel", handler.CancelSelection)

	days := api.Group("/days")
	days.Get("/:date", handler.GetDay)
	days.Post("/:date/symptoms", handler.AddDaySymptom)
	days.Delete("/:date/symptoms/:name", handler.RemoveDaySymptom)
	days.Put("/:date/note", handler.SetDayNote)
	api.Get("/symptoms/frequencies", handler.GetSymptomFrequencies)

	api.Get("/stats", handler.GetStatistics)
	api.Get("/prediction", handler.GetPrediction)
	api.Get("/calendar", handler.GetCalendar)
	api.Get("/status", handler.GetStatus)

	export := api.Group("/export")
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}
