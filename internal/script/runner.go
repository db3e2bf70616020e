// Package script runs tipctl scripts line by line, from a file, from a pipe
// or from the interactive prompt.
package script

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"tipctl/internal/command"
	"tipctl/internal/errors"
	"tipctl/internal/interfaces"
	"tipctl/internal/logging"
	"tipctl/internal/output"
)

// LineError is an error raised while handling one line of a script.
type LineError struct {
	Line  int
	Text  string
	Stage string
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("Error %v %s line %d", e.Err, e.Stage, e.Line)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

const (
	stageParsing   = "parsing"
	stageExecuting = "executing"
)

// Runner parses and executes lines, keeping the onerror mode between them.
type Runner struct {
	parser    *command.Parser
	executor  interfaces.Executor
	formatter interfaces.OutputFormatter
	out       io.Writer
	errOut    io.Writer

	mode     command.OnErrorMode
	failures int
}

// NewRunner creates a runner that prints results to out and errors to errOut.
func NewRunner(parser *command.Parser, executor interfaces.Executor, formatter interfaces.OutputFormatter,
	mode command.OnErrorMode, out, errOut io.Writer) *Runner {
	return &Runner{
		parser:    parser,
		executor:  executor,
		formatter: formatter,
		out:       out,
		errOut:    errOut,
		mode:      mode,
	}
}

// Mode returns the current onerror mode.
func (r *Runner) Mode() command.OnErrorMode {
	return r.mode
}

// Failures returns how many lines failed so far.
func (r *Runner) Failures() int {
	return r.failures
}

// Run executes every line of in. In exit mode the first failing line stops
// the run and its *LineError is returned; in print mode failures are
// reported to errOut and the run continues.
func (r *Runner) Run(ctx context.Context, in io.Reader, source string) error {
	logger := logging.FromContext(ctx).With("source", source)
	logger.Info("script started", "mode", string(r.mode))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.RunLine(ctx, lineNumber, scanner.Text()); err != nil {
			logger.Info("script stopped", "line", lineNumber, "failures", r.failures)
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.FileErrorWithCause("failed to read script", err).
			WithContext("source", source)
	}

	logger.Info("script finished", "lines", lineNumber, "failures", r.failures)
	return nil
}

// RunLine handles one line. It returns an error only when the line failed
// and the runner is in exit mode, or when ctx was cancelled.
func (r *Runner) RunLine(ctx context.Context, lineNumber int, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	logger := logging.FromContext(ctx)

	cmd, err := r.parser.Parse(line)
	if err != nil {
		logger.Warn("parse error", "line", lineNumber, "text", line, "error", err)
		return r.fail(&LineError{Line: lineNumber, Text: line, Stage: stageParsing, Err: err})
	}

	switch c := cmd.(type) {
	case command.Comment:
		return nil
	case command.OnError:
		logger.Debug("onerror mode changed", "line", lineNumber, "mode", string(c.Mode))
		r.mode = c.Mode
		return nil
	}

	result, err := r.executor.Execute(ctx, cmd)
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		logger.Warn("command failed", "line", lineNumber, "command", cmd.String(), "error", err)
		return r.fail(&LineError{Line: lineNumber, Text: line, Stage: stageExecuting, Err: err})
	}

	if err := output.WriteResult(r.out, r.formatter, result); err != nil {
		return r.fail(&LineError{Line: lineNumber, Text: line, Stage: stageExecuting, Err: err})
	}
	return nil
}

func (r *Runner) fail(lineErr *LineError) error {
	r.failures++
	fmt.Fprintln(r.errOut, lineErr.Error())
	if r.mode == command.OnErrorExit {
		return lineErr
	}
	return nil
}

// Check parses every line of in without executing anything and returns the
// errors found, in line order.
func Check(parser *command.Parser, in io.Reader) ([]*LineError, error) {
	var found []*LineError

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := parser.Parse(line); err != nil {
			found = append(found, &LineError{Line: lineNumber, Text: line, Stage: stageParsing, Err: err})
		}
	}
	if err := scanner.Err(); err != nil {
		return found, errors.FileErrorWithCause("failed to read script", err)
	}
	return found, nil
}
