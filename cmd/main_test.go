package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/crewboard/internal/app"
	"github.com/okian/crewboard/internal/config"
	"github.com/okian/crewboard/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeSales(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	payload := "Airline_Code,Crew_ID,Crew_Name,crew_sold_quantity\nAA,C1,Alice,5\nAA,C2,Bob,9\nBB,C3,Carl,1\n"
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CREWBOARD_ADDR", ":8080")
			_ = os.Setenv("CREWBOARD_CACHE_TTL_SECONDS", "120")
			defer func() {
				_ = os.Unsetenv("CREWBOARD_ADDR")
				_ = os.Unsetenv("CREWBOARD_CACHE_TTL_SECONDS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTL(), convey.ShouldEqual, 2*time.Minute)
			})
		})

		convey.Convey("When applying an invalid log configuration", func() {
			cfg := config.New()
			cfg.LogFormat = "xml"
			cfg.LogLevel = "loud"

			convey.Convey("Then it falls back without panicking", func() {
				convey.So(func() { applyLogging(context.Background(), cfg) }, convey.ShouldNotPanic)
				_ = logger.SetFormat(logger.FormatText)
			})
		})
	})
}

func TestRoutes(t *testing.T) {
	convey.Convey("Given a service over a sales file", t, func() {
		cfg := config.New()
		cfg.SourceURL = writeSales(t)
		svc := newService(cfg)
		srv := httptest.NewServer(newMux(svc))
		defer srv.Close()

		convey.Convey("When the leaderboard is requested", func() {
			resp, err := http.Get(srv.URL + "/leaderboard/AA")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the pipeline is READY", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(svc.State(), convey.ShouldEqual, service.StateReady)
			})
		})

		convey.Convey("When the docs and metrics are requested", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/metrics", "/healthz", "/stats"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a loaded service", t, func() {
		cfg := config.New()
		cfg.SourceURL = writeSales(t)
		svc := newService(cfg)
		_, err := svc.Leaderboard(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the updaters run without panicking and stop with ctx", func() {
			convey.So(func() {
				updateSystemMetrics()
				updateServiceMetrics(svc)
			}, convey.ShouldNotPanic)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() {
				startServiceMetricsUpdater(ctx, svc)
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a server on a busy address", t, func() {
		busy := httptest.NewServer(http.NotFoundHandler())
		defer busy.Close()

		cfg := config.New()
		cfg.SourceURL = writeSales(t)
		cfg.Addr = busy.Listener.Addr().String()
		cfg.PollIntervalSeconds = 0

		convey.Convey("Then serve returns the listen error and stops every actor", func() {
			done := make(chan error, 1)
			go func() { done <- serve(context.Background(), cfg) }()

			select {
			case err := <-done:
				convey.So(err, convey.ShouldNotBeNil)
			case <-time.After(5 * time.Second):
				convey.So(errors.New("serve did not return"), convey.ShouldBeNil)
			}
		})
	})
}
