package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/terraincognita07/lunacycle/internal/api"
	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/logging"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(options.configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) (err error) {
	logWriter := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFileName(),
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})

	secretKey, err := cfg.ResolveSecretKey()
	if err != nil {
		return err
	}
	location := cfg.Location()

	documents, closeStore, err := openDocumentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeStore())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("lunacycle", "server", registry)

	periods := newPeriodService(cfg, documents, services.WithPeriodMetrics(metricsManager))
	handler, err := api.NewHandler(periods, secretKey, location, metricsManager)
	if err != nil {
		return err
	}
	app := api.NewApp(handler, registry, logWriter)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Infof("lunacycle %s listening on http://0.0.0.0:%s (store: %s, tz: %s)", Version, cfg.Port, cfg.Store, location)
		return app.Listen(":" + cfg.Port)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Infoln("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if waitErr := group.Wait(); waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return waitErr
	}
	return nil
}
