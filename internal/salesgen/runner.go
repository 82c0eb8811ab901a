// Package salesgen generates synthetic crew sales files and checks a running
// service serves the leaderboard those files imply.
package salesgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samber/lo"

	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/model"
	"github.com/okian/crewboard/pkg/logger"
)

// ErrVerification is returned when the served leaderboard differs from the expected one.
var ErrVerification = errors.New("leaderboard verification failed")

// Run generates rows, writes them to cfg.OutputFile and, when cfg.BaseURL is set,
// asks the service to refresh and verifies what it serves.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting sales generator",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("carriers", cfg.Carriers),
		logger.Int("crewPerCarrier", cfg.CrewPerCarrier),
		logger.Int64("seed", cfg.Seed),
		logger.String("output", cfg.OutputFile))

	rows, err := Generate(cfg)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}
	stats.RowsGenerated = len(rows)
	stats.Carriers = cfg.Carriers
	stats.CrewMembers = len(lo.UniqBy(rows, func(r model.SalesRecord) string { return r.CarrierCode + "/" + r.CrewID }))

	if err := saveRows(ctx, cfg.OutputFile, rows); err != nil {
		return stats, err
	}

	if cfg.BaseURL != "" {
		client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
		if err := client.Health(ctx); err != nil {
			return stats, fmt.Errorf("service health check failed: %w", err)
		}
		if err := client.Refresh(ctx); err != nil {
			return stats, fmt.Errorf("refresh failed: %w", err)
		}
		got, err := client.Leaderboard(ctx)
		if err != nil {
			return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
		}

		mismatches := Verify(leaderboard.Build(rows), got)
		stats.Mismatches = len(mismatches)
		stats.Verified = true
		for i, m := range mismatches {
			if !cfg.Verbose && i >= 5 {
				break
			}
			log.Warn(ctx, "leaderboard mismatch", logger.String("detail", m.String()))
		}
		if len(mismatches) > 0 {
			finish(ctx, stats)
			return stats, fmt.Errorf("%w: %d mismatches", ErrVerification, len(mismatches))
		}
		log.Info(ctx, "leaderboard verified", logger.Int("carriers", len(got.Carriers)))
	}

	finish(ctx, stats)
	return stats, nil
}

func finish(ctx context.Context, stats *Stats) {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "final statistics",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("carriers", stats.Carriers),
		logger.Int("crewMembers", stats.CrewMembers),
		logger.Bool("verified", stats.Verified),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration))
}

// SetupLogging sends log output to stdout and, when logFile is set, to that file too.
// The returned closer releases the file.
func SetupLogging(logFile string) (io.Closer, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile == "" {
		return io.NopCloser(nil), nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}
