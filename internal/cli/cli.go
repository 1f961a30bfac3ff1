package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/HelveticaScenario/modular-sub001/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("patchc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
patchc - Reconciles a compiled patch graph against the one running in the engine.

Usage:
  patchc [options] DESIRED [CURRENT]

Arguments:
  DESIRED
    Path to a single .hcl patch file or a directory containing .hcl files.
  CURRENT
    The previously-applied patch. Omit on first run.

Options:
`)
		flagSet.PrintDefaults()
	}

	desiredFlag := flagSet.String("desired", "", "Path to the desired patch file or directory.")
	dFlag := flagSet.String("d", "", "Path to the desired patch file or directory (shorthand).")
	currentFlag := flagSet.String("current", "", "Path to the currently running patch file or directory.")
	cFlag := flagSet.String("c", "", "Path to the currently running patch file or directory (shorthand).")
	outputFlag := flagSet.String("output", "text", "Report format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	thresholdFlag := flagSet.Float64("match-threshold", 0, "Minimum similarity score for a module match. 0 uses the default.")
	marginFlag := flagSet.Float64("ambiguity-margin", 0, "Minimum best-to-second-best score gap. 0 uses the default.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	desired := ""
	if *desiredFlag != "" {
		desired = *desiredFlag
	} else if *dFlag != "" {
		desired = *dFlag
	} else if flagSet.NArg() > 0 {
		desired = flagSet.Arg(0)
	}

	current := ""
	if *currentFlag != "" {
		current = *currentFlag
	} else if *cFlag != "" {
		current = *cFlag
	} else if flagSet.NArg() > 1 {
		current = flagSet.Arg(1)
	}

	if desired == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	outFormat := strings.ToLower(*outputFlag)
	if outFormat != "text" && outFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		DesiredPath:     desired,
		CurrentPath:     current,
		Output:          outFormat,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		MatchThreshold:  *thresholdFlag,
		AmbiguityMargin: *marginFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
