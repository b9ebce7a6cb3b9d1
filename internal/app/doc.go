// Package app wires a single fxstory run together.
//
// NewApplication loads the configuration (defaults, YAML file, FXS_*
// environment), applies command-line overrides, resolves and creates the
// output directories, then initializes logging, tracing and metrics before
// registering the story steps. Run executes the story once; Shutdown flushes
// telemetry and closes the log file.
//
// Typical use from a command:
//
//	application, err := app.NewApplication(app.Options{ConfigPath: path})
//	if err != nil {
//	    return err
//	}
//	defer application.Shutdown(context.Background())
//	report, err := application.Run(ctx)
//
// The package never calls os.Exit; the command decides the exit status.
package app
