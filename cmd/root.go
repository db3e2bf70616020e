package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tipctl/internal/command"
	"tipctl/internal/config"
	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/grammar"
	"tipctl/internal/models"
	"tipctl/internal/script"
	"tipctl/internal/version"
)

var (
	// Global flags
	configFile      string
	outputFormat    string
	onError         string
	caseInsensitive bool
	logLevel        string
	sandboxDB       string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "tipctl [script]",
		Short: "Scriptable command line for a hosting account",
		Long: `tipctl runs scripts of one-line commands against a hosting account: dns
records, domains, invoices, products, virtual private servers, availability
zones, mailboxes and mail forwards. Without a script file it reads commands
from an interactive prompt, or from standard input when that is not a terminal.`,
		Example: `  # Run a script against a local sandbox account
  tipctl renew-certs.tip --sandbox sandbox.db

  # Pipe commands in
  echo "dns list example.nl" | tipctl --sandbox sandbox.db

  # Stop at the first failing line and print json
  tipctl deploy.tip --onerror exit --output json --sandbox sandbox.db

  # Check a script without running it
  tipctl check renew-certs.tip`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runScript,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Check command
	checkCmd = &cobra.Command{
		Use:   "check [script]",
		Short: "Parse a script without executing it",
		Long: `Parse every line of a script and report each line that does not parse,
with its line number. Environment placeholders are resolved, so the variables a
script uses must be set. Nothing is sent to the account.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version and build information for tipctl.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Details())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format (yaml, json)")
	rootCmd.PersistentFlags().StringVar(&onError, "onerror", "", "What to do when a line fails (print, exit)")
	rootCmd.PersistentFlags().BoolVar(&caseInsensitive, "case-insensitive", false, "Match verbs and enum values regardless of case")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&sandboxDB, "sandbox", "", "Run against a local sandbox database instead of a real account")

	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetHelpTemplate(getHelpTemplate())
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// runScript handles the root command
func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()
	ctx = sess.Context(ctx)

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}

	runner := script.NewRunner(newCommandParser(cfg), sess.executor, formatter,
		command.OnErrorMode(cfg.OnError), cmd.OutOrStdout(), cmd.ErrOrStderr())

	if len(args) == 1 {
		f, err := openScript(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return runner.Run(ctx, f, args[0])
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && script.IsTerminal(f) {
		return runner.Interactive(ctx, cfg.HistoryFile, f)
	}
	return runner.Run(ctx, in, "stdin")
}

// runCheck handles the check command
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f, err := openScript(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	found, err := script.Check(newCommandParser(cfg), f)
	if err != nil {
		return err
	}
	return reportCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], found)
}

// loadConfig builds the configuration from defaults, the config file, the
// environment and finally the flags the user set
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	parser := config.NewParserWithEnv(environment.OS)

	cfg, err := parser.Load(configFile, func(cfg *models.Config) {
		applyCliOverrides(cmd, cfg)
	})
	if err != nil {
		return nil, errors.WrapError(err, "", "failed to load configuration").
			WithContext("configFile", configFile)
	}
	return cfg, nil
}

func applyCliOverrides(cmd *cobra.Command, cfg *models.Config) {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
	if flags.Changed("onerror") {
		cfg.OnError = onError
	}
	if flags.Changed("case-insensitive") {
		cfg.CaseInsensitive = caseInsensitive
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("sandbox") {
		cfg.Sandbox.Database = sandboxDB
	}
}

func newCommandParser(cfg *models.Config) *command.Parser {
	return command.NewParser(environment.OS, grammar.Policy{CaseInsensitive: cfg.CaseInsensitive})
}

func openScript(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.FileError("script file does not exist").
			WithContext("script", path).
			WithSuggestion("Check the file path and ensure the file exists")
	}
	if err != nil {
		return nil, errors.FileErrorWithCause("failed to open script", err).
			WithContext("script", path)
	}
	return f, nil
}

func getHelpTemplate() string {
	return `{{.Long}}

Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}
