package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fxstory/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fxstory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir moves into an empty directory so default file lookup finds nothing.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data/euro-daily-hist_1999_2021.csv", cfg.Input.Path)
	assert.Equal(t, `Period\Unit:`, cfg.Input.TimeColumn)
	assert.Equal(t, "-", cfg.Input.Sentinel)
	assert.Equal(t, "results.log", cfg.Logging.FilePath)
	assert.True(t, cfg.Logging.Truncate)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Equal(t, 30, cfg.Story.RollingWindow)
	assert.Equal(t, []int{1, 7, 30, 50, 100, 365}, cfg.Story.RollingWindows)
	assert.Len(t, cfg.Story.USPresidents, 4)
	assert.Len(t, cfg.Story.BRPresidents, 5)

	assert.NoError(t, cfg.Validate())
}

func TestDefaultStory_NotShared(t *testing.T) {
	a := DefaultStory()
	a.RollingWindows[0] = 99
	assert.Equal(t, 1, DefaultStory().RollingWindows[0])
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "file overrides defaults",
			file: `
input:
  path: rates.csv
logging:
  level: debug
story:
  rolling_window: 15
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "rates.csv", cfg.Input.Path)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 15, cfg.Story.RollingWindow)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, DefaultSentinel, cfg.Input.Sentinel)
			},
		},
		{
			name: "env overrides file",
			file: `
logging:
  level: debug
story:
  rolling_window: 15
`,
			env: map[string]string{
				"FXS_LOGGING_LEVEL":         "warn",
				"FXS_STORY_ROLLING_WINDOWS": "5,10",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 15, cfg.Story.RollingWindow)
				assert.Equal(t, []int{5, 10}, cfg.Story.RollingWindows)
			},
		},
		{
			name: "file replaces periods",
			file: `
story:
  us_presidents:
    - name: OBAMA
      start: "2009-01-01"
      end: "2017-01-01"
      color: "#00BFFF"
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Story.USPresidents, 1)
				assert.Equal(t, "OBAMA", cfg.Story.USPresidents[0].Name)
				assert.Len(t, cfg.Story.BRPresidents, 5)
			},
		},
		{
			name:    "unknown key",
			file:    "inptu:\n  path: x.csv\n",
			wantErr: true,
		},
		{
			name:    "invalid level",
			env:     map[string]string{"FXS_LOGGING_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "invalid window",
			env:     map[string]string{"FXS_STORY_ROLLING_WINDOW": "0"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"FXS_OUTPUT_CHART_WIDTH": "wide"},
			wantErr: true,
		},
		{
			name: "overlapping periods",
			file: `
story:
  br_presidents:
    - name: A
      end: "2010-01-01"
    - name: B
      start: "2009-01-01"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(ConfigFileEnv, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(ConfigFileEnv, "")
	for _, key := range []string{"PATH", "LEVEL", "FORMAT", "OUTPUT", "DIR", "SIGNATURE", "SENTINEL", "TRUNCATE"} {
		t.Setenv(key, "/usr/local/bin:/usr/bin")
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultInputPath, cfg.Input.Path)
}

func TestLoad_MultiWordEnvKeys(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("FXS_INPUT_PATH", "rates.csv")
	t.Setenv("FXS_INPUT_TIME_COLUMN", "Date")
	t.Setenv("FXS_LOGGING_FILE_PATH", "logs/run.log")
	t.Setenv("FXS_OUTPUT_CHART_WIDTH", "1200")
	t.Setenv("FXS_OUTPUT_WRITE_REPORTS", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "rates.csv", cfg.Input.Path)
	assert.Equal(t, "Date", cfg.Input.TimeColumn)
	assert.Equal(t, "logs/run.log", cfg.Logging.FilePath)
	assert.Equal(t, 1200, cfg.Output.ChartWidth)
	assert.False(t, cfg.Output.WriteReports)
}

func TestLoad_ConfigFileLookup(t *testing.T) {
	t.Run("default location", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		t.Setenv(ConfigFileEnv, "")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "fxstory.yaml"), []byte("input:\n  path: found.csv\n"), 0644))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "found.csv", cfg.Input.Path)
	})

	t.Run("FXS_CONFIG", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv(ConfigFileEnv, writeConfig(t, "input:\n  path: env.csv\n"))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "env.csv", cfg.Input.Path)
	})

	t.Run("explicit file missing", func(t *testing.T) {
		chdir(t, t.TempDir())
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "empty input path",
			mutate:  func(c *Config) { c.Input.Path = "" },
			wantErr: "input.path",
		},
		{
			name:    "two character delimiter",
			mutate:  func(c *Config) { c.Input.Delimiter = ";;" },
			wantErr: "input.delimiter",
		},
		{
			name:    "file output without path",
			mutate:  func(c *Config) { c.Logging.FilePath = "" },
			wantErr: "logging.file_path",
		},
		{
			name: "console output without path",
			mutate: func(c *Config) {
				c.Logging.Output = "console"
				c.Logging.FilePath = ""
			},
		},
		{
			name:    "stdout traces without file",
			mutate:  func(c *Config) { c.Telemetry.TraceExporter, c.Telemetry.TraceFile = "stdout", "" },
			wantErr: "telemetry.trace_file",
		},
		{
			name:    "too many windows",
			mutate:  func(c *Config) { c.Story.RollingWindows = []int{1, 2, 3, 4, 5, 6, 7} },
			wantErr: "story.rolling_windows",
		},
		{
			name:    "bad period color",
			mutate:  func(c *Config) { c.Story.USPresidents[0].Color = "blue" },
			wantErr: "color",
		},
		{
			name:    "bad period date",
			mutate:  func(c *Config) { c.Story.USPresidents[0].Start = "01/01/2001" },
			wantErr: "start",
		},
		{
			name:    "period ends before it starts",
			mutate:  func(c *Config) { c.Story.USPresidents[1].End = "2008-01-01" },
			wantErr: "not before end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPeriods(t *testing.T) {
	periods, err := Periods(DefaultStory().USPresidents)
	require.NoError(t, err)
	require.Len(t, periods, 4)

	assert.Equal(t, "BUSH", periods[0].Name)
	assert.Equal(t, "2001-01-01", periods[0].Start.Format(DefaultDateLayout))
	assert.Equal(t, periods[0].End, periods[1].Start)
	assert.True(t, periods[3].End.IsZero())

	br, err := Periods(DefaultStory().BRPresidents)
	require.NoError(t, err)
	assert.True(t, br[0].Start.IsZero())
	assert.Equal(t, "2016-09-01", br[3].Start.Format(DefaultDateLayout))
}
