// Package main provides the entry point for tipctl.
//
// tipctl runs scripts of one-line commands against a hosting account. Each
// line is parsed into a command, executed, and its result printed as YAML or
// JSON. Lines that fail are reported with their line number.
//
// Usage:
//
//	tipctl script.tip [flags]
//	tipctl check script.tip
//	tipctl version
//
// For detailed usage information, run: tipctl --help
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"tipctl/cmd"
	"tipctl/internal/errors"
	"tipctl/internal/script"
)

// main is the entry point for the tipctl application.
// It executes the CLI commands and handles error formatting and exit codes.
func main() {
	if err := cmd.Execute(); err != nil {
		// Line errors were already reported next to their line
		var lineErr *script.LineError
		if stderrors.As(err, &lineErr) {
			os.Exit(errors.GetExitCode(err))
		}

		if commandErr, ok := errors.AsCommandError(err); ok {
			fmt.Fprint(os.Stderr, errors.FormatErrorForUser(commandErr))
			os.Exit(errors.GetExitCode(commandErr))
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
