package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file system location a run touches. Relative
// configuration values are resolved against BaseDir.
type Paths struct {
	BaseDir     string
	InputFile   string
	OutputDir   string
	ChartsDir   string
	ReportsDir  string
	LogFile     string
	TraceFile   string
	MetricsFile string
}

// GetPaths resolves cfg against the current working directory.
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewPaths(cfg, wd), nil
}

// NewPaths resolves cfg against baseDir.
func NewPaths(cfg *Config, baseDir string) *Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	outputDir := resolve(cfg.Output.Dir)
	under := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(outputDir, p)
	}

	return &Paths{
		BaseDir:     baseDir,
		InputFile:   resolve(cfg.Input.Path),
		OutputDir:   outputDir,
		ChartsDir:   under(cfg.Output.ChartsDir),
		ReportsDir:  under(cfg.Output.ReportsDir),
		LogFile:     resolve(cfg.Logging.FilePath),
		TraceFile:   resolve(cfg.Telemetry.TraceFile),
		MetricsFile: resolve(cfg.Telemetry.MetricsFile),
	}
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.OutputDir, p.ChartsDir, p.ReportsDir}
	for _, f := range []string{p.TraceFile, p.MetricsFile} {
		if f != "" {
			directories = append(directories, filepath.Dir(f))
		}
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetChartPath returns the PNG file for the named chart
func (p *Paths) GetChartPath(name string) string {
	return filepath.Join(p.ChartsDir, name+".png")
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs where this run reads and writes.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.String("base", p.BaseDir),
		slog.String("input", p.InputFile),
		slog.Bool("input_exists", FileExists(p.InputFile)),
		slog.Group("directories",
			slog.String("output", p.OutputDir),
			slog.String("charts", p.ChartsDir),
			slog.String("reports", p.ReportsDir),
		),
		slog.Group("files",
			slog.String("log", p.LogFile),
			slog.String("traces", p.TraceFile),
			slog.String("metrics", p.MetricsFile),
		))
}
