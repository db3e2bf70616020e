package script

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"tipctl/internal/command"
	"tipctl/internal/errors"
	"tipctl/internal/logging"
)

const prompt = "tipctl> "

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Completer builds tab completion for every keyword and its verbs.
func Completer() *readline.PrefixCompleter {
	completions := command.Completions()

	keywords := make([]string, 0, len(completions))
	for keyword := range completions {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	items := make([]readline.PrefixCompleterInterface, 0, len(keywords)+2)
	for _, keyword := range keywords {
		verbs := make([]readline.PrefixCompleterInterface, 0, len(completions[keyword]))
		for _, verb := range completions[keyword] {
			verbs = append(verbs, readline.PcItem(verb))
		}
		items = append(items, readline.PcItem(keyword, verbs...))
	}
	items = append(items, readline.PcItem("exit"), readline.PcItem("quit"))

	return readline.NewPrefixCompleter(items...)
}

// Interactive reads lines from a readline prompt until exit, quit or end of input.
func (r *Runner) Interactive(ctx context.Context, historyFile string, stdin io.ReadCloser) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           stdin,
		Stdout:          r.out,
		Stderr:          r.errOut,
	})
	if err != nil {
		return errors.FileErrorWithCause("failed to start the interactive prompt", err).
			WithContext("historyFile", historyFile)
	}
	defer rl.Close()

	logger := logging.FromContext(ctx).With("source", "tty")
	logger.Info("interactive session started")

	lineNumber := 0
	for {
		line, err := rl.Readline()
		if stderrors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				fmt.Fprintln(r.errOut, "Use 'exit' or 'quit' to leave.")
			}
			continue
		}
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.FileErrorWithCause("failed to read from the prompt", err)
		}

		switch strings.TrimSpace(line) {
		case "exit", "quit":
			logger.Info("interactive session finished", "lines", lineNumber, "failures", r.failures)
			return nil
		}

		lineNumber++
		if err := r.RunLine(ctx, lineNumber, line); err != nil {
			return err
		}
	}

	logger.Info("interactive session finished", "lines", lineNumber, "failures", r.failures)
	return nil
}
