// Package main is the entry point for the aggregator service. It wires all
// dependencies using samber/do v2, starts the refresh loop and the HTTP
// server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beevik/etree"
	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/metadata-aggregator/internal/adapters/http"
	"github.com/jsamuelsen11/metadata-aggregator/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/metadata-aggregator/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/metadata-aggregator/internal/app"
	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/dom/saml"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/config"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/health"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/httpclient"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/logging"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/telemetry"
	"github.com/jsamuelsen11/metadata-aggregator/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvoke[*httpclient.Client](injector))

	aggregator := do.MustInvoke[*app.Aggregator](injector)
	registry.Register(aggregator)

	// Start the refresh loop.
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		aggregator.Run(refreshCtx)
	}()

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		stopRefresh()
		<-refreshDone
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: stop refreshing, drain HTTP requests.
	stopRefresh()
	<-refreshDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

// newSources builds one pipeline source per configured metadata source.
func newSources(cfg config.AggregatorConfig, client *httpclient.Client) ([]pipeline.Source[*etree.Element], error) {
	sources := make([]pipeline.Source[*etree.Element], 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		var (
			src pipeline.Source[*etree.Element]
			err error
		)
		if sc.URL != "" {
			src, err = dom.NewHTTPSource(sc.ID, sc.URL, client)
		} else {
			src, err = dom.NewFilesystemSource(sc.ID, sc.Path)
		}
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// newProcessingPipeline builds the stage list every refresh runs: split
// aggregates into per-entity items, annotate them, validate their validity
// windows, report findings, and drop items marked with errors.
func newProcessingPipeline(cfg config.AggregatorConfig, logger *slog.Logger) (*pipeline.Pipeline[*etree.Element], error) {
	ident := pipeline.FirstItemID[*etree.Element]{}

	stages := []pipeline.Stage[*etree.Element]{
		saml.NewDisassemblerStage("disassemble", logger),
		saml.NewItemIDPopulationStage("populate-item-ids"),
		saml.NewRegistrationAuthorityPopulationStage("populate-registration-authorities"),
		saml.NewValidateValidUntilStage("validate-valid-until",
			cfg.RequireValidUntil, cfg.MaxValidityInterval),
		pipeline.NewStatusLoggingStage[*etree.Element]("log-statuses", logger, ident),
		pipeline.NewMetadataFilterStage[*etree.Element]("drop-error-items", pipeline.KindErrorStatus),
	}

	return pipeline.NewPipeline("process", stages, pipeline.WithPipelineLogger[*etree.Element](logger))
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "metadata-source", metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Aggregator, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		sources, err := newSources(cfg.Aggregator, client)
		if err != nil {
			return nil, fmt.Errorf("building sources: %w", err)
		}
		proc, err := newProcessingPipeline(cfg.Aggregator, logger)
		if err != nil {
			return nil, fmt.Errorf("building pipeline: %w", err)
		}
		return app.NewAggregator(cfg.Aggregator, sources, proc, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.MetadataService, error) {
		return do.MustInvoke[*app.Aggregator](i), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.QueryHandler, error) {
		svc := do.MustInvoke[ports.MetadataService](i)
		return handlers.NewQueryHandler(svc,
			handlers.WithDescriptorName(cfg.Aggregator.DescriptorName)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		queryH := do.MustInvoke[*handlers.QueryHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(queryH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
