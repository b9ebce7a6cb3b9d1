package config

// Application constants
const (
	AppName = "fxstory"

	// EnvPrefix namespaces every environment variable, e.g. FXS_INPUT_PATH.
	EnvPrefix = "FXS"
	// ConfigFileEnv names an explicit YAML config file.
	ConfigFileEnv = "FXS_CONFIG"

	DefaultInputPath   = "data/euro-daily-hist_1999_2021.csv"
	DefaultTimeColumn  = `Period\Unit:`
	DefaultSentinel    = "-"
	DefaultDateLayout  = "2006-01-02"
	DefaultOutputDir   = "output"
	DefaultChartsDir   = "charts"
	DefaultReportsDir  = "reports"
	DefaultLogFile     = "results.log"
	DefaultTraceFile   = "output/traces.json"
	DefaultMetricsFile = "output/metrics.prom"

	// Charts are rendered at 100 pixels per inch of the figure sizes the
	// story was designed around.
	DefaultChartWidth  = 2000
	DefaultChartHeight = 1000

	DefaultRollingWindow = 30
	DefaultSignature     = "Source: European Central Bank"
)

// DefaultRollingWindows are the window sizes compared side by side.
var DefaultRollingWindows = []int{1, 7, 30, 50, 100, 365}

// configFileLocations are searched in order when no file is named explicitly.
var configFileLocations = []string{
	"fxstory.yaml",
	"configs/fxstory.yaml",
}
