package story

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric/noop"

	"fxstory/internal/charts"
	"fxstory/internal/config"
	"fxstory/internal/exporter"
	"fxstory/internal/frame"
	"fxstory/internal/infrastructure"
	"fxstory/internal/operations"
)

// Step IDs, in run order.
const (
	StepLoad              = "load"
	StepNormalize         = "normalize"
	StepSegment           = "segment-currencies"
	StepChartEvolution    = "chart-evolution"
	StepChartRolling      = "chart-rolling"
	StepRollingMean       = "rolling-mean"
	StepChartUSPresidents = "chart-us-presidents"
	StepChartBRPresidents = "chart-br-presidents"
	StepChartDollarReal   = "chart-dollar-real"
	StepExportReports     = "export-reports"
)

// Deps are the collaborators of the story steps. Metrics may be nil.
type Deps struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Metrics *infrastructure.PipelineMetrics
}

// NewRegistry registers every story step in run order.
func NewRegistry(deps Deps) (*operations.Registry[*State], error) {
	if deps.Config == nil || deps.Paths == nil {
		return nil, fmt.Errorf("story needs a config and paths")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		var err error
		if metrics, err = infrastructure.CreatePipelineMetrics(noop.NewMeterProvider().Meter(infrastructure.MeterName)); err != nil {
			return nil, err
		}
	}

	cfg := deps.Config
	stories, err := Stories(cfg.Story)
	if err != nil {
		return nil, err
	}

	loader := frame.NewLoader(logger)
	if cfg.Input.Delimiter != "" {
		loader = loader.WithComma([]rune(cfg.Input.Delimiter)[0])
	}
	writer := &chartWriter{
		renderer: charts.NewRenderer(logger),
		paths:    deps.Paths,
		metrics:  metrics,
		width:    cfg.Output.ChartWidth,
		height:   cfg.Output.ChartHeight,
	}
	stepLogger := infrastructure.WithComponent(logger, "story")

	storyIDs := map[string]string{
		EuroDollar: StepChartUSPresidents,
		EuroReal:   StepChartBRPresidents,
		DollarReal: StepChartDollarReal,
	}

	r := operations.NewRegistry[*State]()
	steps := []operations.Step[*State]{
		&loadStep{BaseStep: base(StepLoad, "Load rate history"), loader: loader, metrics: metrics},
		&normalizeStep{BaseStep: base(StepNormalize, "Normalize columns"), input: cfg.Input, logger: stepLogger},
		&segmentStep{BaseStep: base(StepSegment, "Segment currencies"), sentinel: cfg.Input.Sentinel, metrics: metrics, logger: stepLogger},
		&evolutionStep{BaseStep: base(StepChartEvolution, "Chart rate evolution"), charts: writer},
		&rollingChartStep{BaseStep: base(StepChartRolling, "Chart rolling windows"), charts: writer, windows: cfg.Story.RollingWindows},
		&rollingMeanStep{BaseStep: base(StepRollingMean, "Add rolling mean"), window: cfg.Story.RollingWindow},
	}
	for _, s := range stories {
		id, ok := storyIDs[s.Series]
		if !ok {
			id = "chart-" + s.ID
		}
		steps = append(steps, &storyStep{
			BaseStep:  base(id, "Chart "+s.Sheet),
			story:     s,
			signature: cfg.Story.Signature,
			charts:    writer,
			logger:    stepLogger,
		})
	}
	steps = append(steps, &exportStep{
		BaseStep: base(StepExportReports, "Export reports"),
		enabled:  cfg.Output.WriteReports,
		series:   exporter.NewSeriesExporter(exporter.NewCSVWriter(deps.Paths, logger)),
		workbook: exporter.NewWorkbookExporter(deps.Paths, logger),
		stories:  stories,
		metrics:  metrics,
		logger:   stepLogger,
	})

	for _, s := range steps {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func base(id, name string) operations.BaseStep[*State] {
	return operations.NewBaseStep[*State](id, name)
}
