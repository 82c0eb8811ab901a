package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/oklog/run"

	"github.com/okian/crewboard/internal/adapters/http/api"
	"github.com/okian/crewboard/internal/adapters/http/site"
	"github.com/okian/crewboard/internal/adapters/http/swagger"
	"github.com/okian/crewboard/internal/adapters/source"
	service "github.com/okian/crewboard/internal/app"
	"github.com/okian/crewboard/internal/config"
	"github.com/okian/crewboard/internal/domain/snapshot"
	"github.com/okian/crewboard/pkg/logger"
	"github.com/okian/crewboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	applyLogging(ctx, cfg)

	if err := serve(ctx, cfg); err != nil {
		var sig run.SignalError
		if errors.As(err, &sig) {
			logger.Get().Info(ctx, "server stopped", logger.String("signal", sig.Signal.String()))
			return
		}
		logger.Get().Error(ctx, "server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// applyLogging applies configured log format and level, falling back to text/info on invalid input.
func applyLogging(ctx context.Context, cfg *config.Config) {
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		_ = logger.SetFormat(logger.FormatText)
		logger.Get().Warn(ctx, "invalid log_format; falling back to text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
}

// newService wires the source router and snapshot cache into the pipeline.
func newService(cfg *config.Config) *service.Service {
	router := source.NewRouter(
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithMaxPayloadBytes(cfg.MaxPayloadBytes),
		source.WithLogFieldMaxLen(cfg.HTTPLogMaxLen),
		source.WithAWS(cfg.AWSRegion, cfg.AWSProfile),
	)
	loader := snapshot.NewLoader(router, snapshot.WithTTL(cfg.CacheTTL()))
	return service.New(loader, cfg.SourceURL, service.WithLogger(logger.Named("pipeline")))
}

// newMux registers the dashboard, API docs and business routes.
func newMux(svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(mux)
	swagger.Register(mux)
	api.NewServer(svc, svc).Register(mux)
	return mux
}

// serve runs the HTTP server, the background pull and the metrics updaters until
// one of them stops or the process is signalled.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()
	svc := newService(cfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	var g run.Group

	g.Add(func() error {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("source", cfg.SourceURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		log.Info(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
		}
	})

	g.Add(actor(ctx, func(ctx context.Context) error {
		return svc.Poll(ctx, cfg.PollInterval())
	}))
	g.Add(actor(ctx, func(ctx context.Context) error {
		startSystemMetricsUpdater(ctx)
		return nil
	}))
	g.Add(actor(ctx, func(ctx context.Context) error {
		startServiceMetricsUpdater(ctx, svc)
		return nil
	}))
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	return g.Run()
}

// actor adapts a context-driven loop to a run.Group actor.
func actor(ctx context.Context, fn func(context.Context) error) (func() error, func(error)) {
	ctx, cancel := context.WithCancelCause(ctx)
	return func() error {
			return fn(ctx)
		}, func(err error) {
			cancel(err)
		}
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.SystemRefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater mirrors pipeline stats into gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates pipeline gauges from the service's stats.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	metrics.UpdatePipelineState(stats.State)
	metrics.UpdateLeaderboardSize(stats.Carriers, stats.CrewMembers)
}
