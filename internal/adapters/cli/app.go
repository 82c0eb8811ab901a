// Package cli is the crewboard terminal collaborator: it renders the leaderboard
// held by the in-process pipeline and exports it to files.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/crewboard/internal/adapters/source"
	service "github.com/okian/crewboard/internal/app"
	"github.com/okian/crewboard/internal/config"
	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/snapshot"
	"github.com/okian/crewboard/pkg/logger"
)

// Pipeline is the part of the service the CLI consumes.
type Pipeline interface {
	Leaderboard(ctx context.Context) (*leaderboard.Leaderboard, error)
	Refresh(ctx context.Context) (*leaderboard.Leaderboard, error)
}

// PipelineFactory builds a Pipeline from resolved configuration.
type PipelineFactory func(ctx context.Context, cfg *config.Config) (Pipeline, error)

// DefaultPipeline wires the source router, snapshot cache and service for cfg.
func DefaultPipeline(_ context.Context, cfg *config.Config) (Pipeline, error) {
	router := source.NewRouter(
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithMaxPayloadBytes(cfg.MaxPayloadBytes),
		source.WithLogFieldMaxLen(cfg.HTTPLogMaxLen),
		source.WithAWS(cfg.AWSRegion, cfg.AWSProfile),
	)
	loader := snapshot.NewLoader(router, snapshot.WithTTL(cfg.CacheTTL()))
	return service.New(loader, cfg.SourceURL), nil
}

// App is the crewboard command tree.
type App struct {
	root        *cobra.Command
	out         io.Writer
	newPipeline PipelineFactory

	configPath string
	sourceURL  string
	logLevel   string
	logFormat  string

	cfg      *config.Config
	pipeline Pipeline
}

// NewApp builds the command tree.
func NewApp(version string, opts ...Option) *App {
	a := &App{
		out:         os.Stdout,
		newPipeline: DefaultPipeline,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:               "crewboard",
		Short:             "Crew sales leaderboard per carrier",
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(`{{printf "crewboard version: %s\n" .Version}}`)
	root.SetOut(a.out)
	root.SetErr(a.out)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "C", "", "Path to a YAML, TOML or JSON configuration file")
	root.PersistentFlags().StringVarP(&a.sourceURL, "source", "s", "", "Sales source: http(s)://, file://, s3:// or a path (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text, json, tint")

	root.AddCommand(
		a.showCommand(),
		a.watchCommand(),
		a.refreshCommand(),
		a.exportCommand(),
	)

	a.root = root
	return a
}

// Command exposes the root command, mainly for tests and completion generation.
func (a *App) Command() *cobra.Command {
	return a.root
}

// Execute runs the command tree with args. Failures are rendered to the output
// before being returned, so callers only need to pick an exit status.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	if err := a.root.ExecuteContext(ctx); err != nil {
		newRenderer(a.out).Error(err)
		return err
	}
	return nil
}

// setup resolves config, logging and the pipeline before any subcommand runs.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(ctx, a.configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(a.sourceURL); s != "" {
		cfg.SourceURL = s
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	// logs go to stderr so rendered output stays clean
	logger.SetOutput(os.Stderr)
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		return fmt.Errorf("log format: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	p, err := a.newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.pipeline = p
	return nil
}
