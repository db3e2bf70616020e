package cmd

import (
	"fmt"
	"io"

	"tipctl/internal/errors"
	"tipctl/internal/interfaces"
	"tipctl/internal/models"
	"tipctl/internal/output"
	"tipctl/internal/script"
)

// newFormatter returns the formatter for the configured output format
func newFormatter(cfg *models.Config) (interfaces.OutputFormatter, error) {
	formatter, err := output.NewFormatterFactory().GetFormatter(cfg.Output)
	if err != nil {
		return nil, errors.WrapError(err, errors.ValidationErrorType, "unsupported output format").
			WithContext("output", cfg.Output)
	}
	return formatter, nil
}

// reportCheck prints every parse error of a checked script. It returns the
// first error so the exit code reflects its kind.
func reportCheck(out, errOut io.Writer, path string, found []*script.LineError) error {
	if len(found) == 0 {
		fmt.Fprintf(out, "%s: no errors found\n", path)
		return nil
	}

	for _, lineErr := range found {
		fmt.Fprintln(errOut, lineErr.Error())
		if commandErr, ok := errors.AsCommandError(lineErr); ok {
			if suggestions := commandErr.GetSuggestions(); suggestions != "" {
				fmt.Fprint(errOut, suggestions)
			}
		}
	}

	noun := "errors"
	if len(found) == 1 {
		noun = "error"
	}
	fmt.Fprintf(errOut, "%s: %d %s found\n", path, len(found), noun)
	return found[0]
}
