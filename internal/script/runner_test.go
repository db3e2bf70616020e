package script

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipctl/internal/command"
	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/grammar"
	"tipctl/internal/models"
	"tipctl/internal/output"
)

type fakeExecutor struct {
	executed []string
	fail     map[string]error
}

func (f *fakeExecutor) Execute(ctx context.Context, cmd command.Command) (*models.Result, error) {
	f.executed = append(f.executed, cmd.String())
	if err, ok := f.fail[cmd.String()]; ok {
		return nil, err
	}
	if _, ok := cmd.(command.Ping); ok {
		return &models.Result{Command: cmd.String(), Data: "pong"}, nil
	}
	return &models.Result{Command: cmd.String()}, nil
}

func newRunner(exec *fakeExecutor, mode command.OnErrorMode) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	parser := command.NewParser(environment.Map{"CERTBOT_DOMAIN": "example.nl"}, grammar.Policy{})
	var out, errOut bytes.Buffer
	return NewRunner(parser, exec, output.NewYAMLFormatter(), mode, &out, &errOut), &out, &errOut
}

func TestRunPrintsResults(t *testing.T) {
	exec := &fakeExecutor{}
	runner, out, errOut := newRunner(exec, command.OnErrorPrint)

	script := "# warm up\n\nping\nsleep 1\n   \ndns list ${CERTBOT_DOMAIN}\n"
	require.NoError(t, runner.Run(context.Background(), strings.NewReader(script), "test.tip"))

	assert.Equal(t, []string{"ping", "sleep 1", "dns list example.nl"}, exec.executed)
	assert.Equal(t, "pong\n", out.String())
	assert.Empty(t, errOut.String())
	assert.Equal(t, 0, runner.Failures())
}

func TestRunPrintModeContinues(t *testing.T) {
	exec := &fakeExecutor{fail: map[string]error{"domain list": errors.APIError("boom")}}
	runner, _, errOut := newRunner(exec, command.OnErrorPrint)

	script := "ping\ndns frobnicate example.nl\ndomain list\nsleep 2\n"
	require.NoError(t, runner.Run(context.Background(), strings.NewReader(script), "test.tip"))

	assert.Equal(t, []string{"ping", "domain list", "sleep 2"}, exec.executed)
	assert.Equal(t, 2, runner.Failures())

	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Error "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "parsing line 2"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "executing line 3"), lines[1])
}

func TestRunExitModeStops(t *testing.T) {
	exec := &fakeExecutor{}
	runner, _, errOut := newRunner(exec, command.OnErrorExit)

	script := "ping\nsleep soon\nping\n"
	err := runner.Run(context.Background(), strings.NewReader(script), "test.tip")
	require.Error(t, err)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, stageParsing, lineErr.Stage)
	assert.True(t, errors.IsErrorType(err, errors.InvalidNumberType))
	assert.Equal(t, 8, errors.GetExitCode(err))

	assert.Equal(t, []string{"ping"}, exec.executed)
	assert.Contains(t, errOut.String(), "parsing line 2")
}

func TestOnErrorLineChangesMode(t *testing.T) {
	exec := &fakeExecutor{fail: map[string]error{"domain list": errors.APIError("boom")}}
	runner, _, _ := newRunner(exec, command.OnErrorPrint)

	script := "domain list\nonerror exit\ndomain list\nping\n"
	err := runner.Run(context.Background(), strings.NewReader(script), "test.tip")
	require.Error(t, err)

	assert.Equal(t, command.OnErrorExit, runner.Mode())
	assert.Equal(t, []string{"domain list", "domain list"}, exec.executed)
	assert.Equal(t, 4, errors.GetExitCode(err))
}

func TestRunCancelled(t *testing.T) {
	exec := &fakeExecutor{}
	runner, _, _ := newRunner(exec, command.OnErrorPrint)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx, strings.NewReader("ping\n"), "test.tip")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exec.executed)
}

func TestRunStopsOnWrappedCancellation(t *testing.T) {
	cancelled := errors.APIErrorWithCause("request aborted", context.Canceled)
	exec := &fakeExecutor{fail: map[string]error{"domain list": cancelled}}
	runner, _, errOut := newRunner(exec, command.OnErrorPrint)

	err := runner.Run(context.Background(), strings.NewReader("domain list\nping\n"), "test.tip")
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"domain list"}, exec.executed)
	assert.Equal(t, 0, runner.Failures())
	assert.Empty(t, errOut.String())
}

func TestCheck(t *testing.T) {
	parser := command.NewParser(environment.Map{}, grammar.Policy{})

	script := "ping\n\nvps start\n# fine\ndomain list extra\nsleep 3\n"
	found, err := Check(parser, strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, 3, found[0].Line)
	assert.True(t, errors.IsErrorType(found[0], errors.MissingRequiredFieldType))
	assert.Equal(t, 5, found[1].Line)
	assert.True(t, errors.IsErrorType(found[1], errors.TooManyParametersType))
}

func TestCompleter(t *testing.T) {
	completer := Completer()

	var names []string
	for _, child := range completer.GetChildren() {
		names = append(names, strings.TrimSpace(string(child.GetName())))
	}
	assert.Contains(t, names, command.KeywordDNS)
	assert.Contains(t, names, command.KeywordEmailForward)
	assert.Contains(t, names, "exit")
	assert.Contains(t, names, "quit")
}
