package cmd

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"tipctl/internal/config"
	"tipctl/internal/errors"
	"tipctl/internal/script"
)

const seedPath = "../internal/sandbox/testdata/seed.yaml"

// resetFlags puts every flag back to its default between runs of rootCmd
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("failed to reset flag %s: %v", f.Name, err)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	rootCmd.Flags().VisitAll(reset)
}

// isolate points logs, history and the sandbox at a temporary directory
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv(config.EnvLogDir, dir)
	for _, name := range []string{
		config.EnvOutput, config.EnvOnError, config.EnvCaseInsensitive,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvHistoryFile,
		config.EnvCacheTTL, config.EnvSandboxDB, config.EnvSandboxSeed,
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	resetFlags(t)
	return dir
}

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "script.tip")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test script: %v", err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestOpenScript(t *testing.T) {
	dir := t.TempDir()
	existing := writeScript(t, dir, "ping\n")

	tests := []struct {
		name        string
		path        string
		expectError bool
		errorType   errors.ErrorType
	}{
		{
			name: "existing script",
			path: existing,
		},
		{
			name:        "non-existent script",
			path:        filepath.Join(dir, "missing.tip"),
			expectError: true,
			errorType:   errors.FileErrorType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := openScript(tt.path)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				if tt.errorType != "" && !errors.IsErrorType(err, tt.errorType) {
					t.Errorf("expected error type %s, got %s", tt.errorType, errors.GetErrorType(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			f.Close()
		})
	}
}

func TestApplyCliOverrides(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, output, onError, sandbox string, insensitive bool)
	}{
		{
			name: "no flags keep the configuration",
			args: nil,
			verify: func(t *testing.T, output, onError, sandbox string, insensitive bool) {
				if output != "yaml" || onError != "print" || sandbox != "" || insensitive {
					t.Errorf("unexpected overrides: %s %s %q %v", output, onError, sandbox, insensitive)
				}
			},
		},
		{
			name: "flags override the configuration",
			args: []string{"-o", "json", "--onerror", "exit", "--sandbox", "account.db", "--case-insensitive"},
			verify: func(t *testing.T, output, onError, sandbox string, insensitive bool) {
				if output != "json" || onError != "exit" || sandbox != "account.db" || !insensitive {
					t.Errorf("unexpected overrides: %s %s %q %v", output, onError, sandbox, insensitive)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			if err := rootCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg := config.Defaults()
			applyCliOverrides(rootCmd, cfg)
			tt.verify(t, cfg.Output, cfg.OnError, cfg.Sandbox.Database, cfg.CaseInsensitive)
		})
	}
	resetFlags(t)
}

func TestRunScriptAgainstSandbox(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvSandboxSeed, seedPath)
	path := writeScript(t, dir, "# list everything\nping\n\ndomain list\nvps item example-vps\n")

	stdout, stderr, err := execute(t, "", path, "--sandbox", filepath.Join(dir, "sandbox.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	for _, want := range []string{"pong", "example.nl", "paulmin.nl", "example-vps"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output is missing %q:\n%s", want, stdout)
		}
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}

	logs, err := filepath.Glob(filepath.Join(dir, "tipctl-*.log"))
	if err != nil || len(logs) != 1 {
		t.Errorf("expected one log file in %s, got %v (%v)", dir, logs, err)
	}
}

func TestRunScriptJSONFromStdin(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvSandboxSeed, seedPath)

	stdout, _, err := execute(t, "availability-zones\n", "-o", "json", "--sandbox", filepath.Join(dir, "sandbox.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, `"name": "ams0"`) {
		t.Errorf("expected json zones, got:\n%s", stdout)
	}
}

func TestRunScriptExitMode(t *testing.T) {
	dir := isolate(t)
	path := writeScript(t, dir, "ping\nsleep later\nping\n")

	stdout, stderr, err := execute(t, "", path, "--onerror", "exit", "--sandbox", filepath.Join(dir, "sandbox.db"))
	if err == nil {
		t.Fatal("expected error but got none")
	}

	var lineErr *script.LineError
	if !stderrors.As(err, &lineErr) || lineErr.Line != 2 {
		t.Errorf("expected an error on line 2, got %v", err)
	}
	if code := errors.GetExitCode(err); code != 8 {
		t.Errorf("expected exit code 8, got %d", code)
	}
	if strings.Count(stdout, "pong") != 1 {
		t.Errorf("expected one ping before stopping, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "parsing line 2") {
		t.Errorf("expected the failing line in stderr, got:\n%s", stderr)
	}
}

func TestRunScriptPrintMode(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvSandboxSeed, seedPath)
	path := writeScript(t, dir, "vps start locked-vps\nping\n")

	stdout, stderr, err := execute(t, "", path, "--sandbox", filepath.Join(dir, "sandbox.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "executing line 1") {
		t.Errorf("expected the failing line in stderr, got:\n%s", stderr)
	}
	if !strings.Contains(stdout, "pong") {
		t.Errorf("expected the run to continue, got:\n%s", stdout)
	}
}

func TestRunScriptWithoutAccount(t *testing.T) {
	dir := isolate(t)
	path := writeScript(t, dir, "ping\n")

	_, _, err := execute(t, "", path)
	if !errors.IsErrorType(err, errors.ConfigErrorType) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name         string
		script       string
		expectError  bool
		expectStdout string
		expectStderr []string
	}{
		{
			name:         "valid script",
			script:       "# renew\nping\nsleep 5\ndns list example.nl\n",
			expectStdout: "no errors found",
		},
		{
			name:         "invalid lines",
			script:       "ping\ndns frobnicate example.nl\n\nsleep soon\n",
			expectError:  true,
			expectStderr: []string{"parsing line 2", "parsing line 4", "2 errors found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeScript(t, dir, tt.script)

			stdout, stderr, err := execute(t, "", "check", path)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if code := errors.GetExitCode(err); code != 8 {
					t.Errorf("expected exit code 8, got %d", code)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expectStdout != "" && !strings.Contains(stdout, tt.expectStdout) {
				t.Errorf("expected %q in stdout, got:\n%s", tt.expectStdout, stdout)
			}
			for _, want := range tt.expectStderr {
				if !strings.Contains(stderr, want) {
					t.Errorf("expected %q in stderr, got:\n%s", want, stderr)
				}
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "keywords: ") {
		t.Errorf("expected version information, got:\n%s", stdout)
	}
}

func TestRunScriptLogsCacheUsage(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvSandboxSeed, seedPath)
	path := writeScript(t, dir, "domain list\ndomain list\nvps list\n")

	_, stderr, err := execute(t, "", path, "--log-level", "debug", "--sandbox", filepath.Join(dir, "sandbox.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}

	logs, err := filepath.Glob(filepath.Join(dir, "tipctl-*.log"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", logs, err)
	}
	data, err := os.ReadFile(logs[0])
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	log := string(data)
	for _, want := range []string{`msg="response cache"`, "entries=2", "hits=1"} {
		if !strings.Contains(log, want) {
			t.Errorf("log is missing %q:\n%s", want, log)
		}
	}
}
