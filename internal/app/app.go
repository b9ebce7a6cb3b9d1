package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fxstory/internal/config"
	"fxstory/internal/infrastructure"
	"fxstory/internal/operations"
	"fxstory/internal/story"
)

const AppName = "fxstory"

var (
	// Version is set at build time with -ldflags "-X fxstory/internal/app.Version=..."
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID identifies the build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte(BuildTime))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Options override the loaded configuration. Empty fields keep it.
type Options struct {
	ConfigPath string
	InputPath  string
	OutputDir  string
	// BaseDir anchors relative paths; the working directory when empty.
	BaseDir string
}

// Application holds the collaborators of one run
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	Runtime       *infrastructure.RuntimeMetrics
	Runner        *operations.Runner[*story.State]
}

// Report describes a finished run
type Report struct {
	RunID   string
	State   *story.State
	Result  *operations.RunResult
	Runtime *infrastructure.RuntimeStats
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	var paths *config.Paths
	if opts.BaseDir != "" {
		paths = config.NewPaths(cfg, opts.BaseDir)
	} else if paths, err = config.GetPaths(cfg); err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logging := cfg.Logging
	logging.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("build_id", BuildID))
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(
		infrastructure.NewOTelConfig(cfg.Telemetry, paths, Version), logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}
	if err := app.initializePipeline(); err != nil {
		otelProviders.Shutdown(context.Background())
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	return app, nil
}

func applyOptions(cfg *config.Config, opts Options) error {
	if opts.InputPath == "" && opts.OutputDir == "" {
		return nil
	}
	if opts.InputPath != "" {
		cfg.Input.Path = opts.InputPath
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (a *Application) initializePipeline() error {
	metrics, err := infrastructure.CreatePipelineMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("create pipeline metrics: %w", err)
	}
	a.Metrics = metrics

	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("create runtime metrics: %w", err)
	}
	a.Runtime = runtimeMetrics

	registry, err := story.NewRegistry(story.Deps{
		Config:  a.Config,
		Paths:   a.Paths,
		Logger:  a.Logger,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}
	a.Runner = operations.NewRunner(registry, a.Logger, a.OTelProviders.Tracer, metrics)
	return nil
}

// Run executes the story once. A missing input file is not an error: the
// report's state is marked Aborted. A run ID already in ctx is kept.
func (a *Application) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	report := &Report{
		RunID: infrastructure.GetTraceID(ctx),
		State: story.NewState(a.Paths.InputFile),
	}

	ctx, span := a.OTelProviders.Tracer.Start(ctx, "story.run",
		trace.WithAttributes(
			attribute.String("run.id", report.RunID),
			attribute.String("input.path", a.Paths.InputFile),
		))
	defer span.End()

	result, err := a.Runner.Run(ctx, report.State)
	report.Result = result
	report.Runtime = a.Runtime.Collect(ctx, start)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Run failed")
		return report, err
	}

	span.SetAttributes(
		attribute.Bool("run.aborted", report.State.Aborted),
		attribute.Int("run.charts", len(report.State.Charts)),
		attribute.Int("run.reports", len(report.State.Reports)),
	)
	a.Logger.InfoContext(ctx, "Run summary",
		slog.Bool("aborted", report.State.Aborted),
		slog.Int("charts", len(report.State.Charts)),
		slog.Int("reports", len(report.State.Reports)),
		slog.Duration("duration", report.Runtime.RunDuration),
		slog.Int64("heap_bytes", report.Runtime.HeapAllocated))
	return report, nil
}

// Shutdown flushes telemetry and closes the log file
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}
	a.Logger.Info("Application stopped")
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}
