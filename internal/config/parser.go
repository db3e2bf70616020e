package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tipctl/internal/command"
	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/interfaces"
	"tipctl/internal/logging"
	"tipctl/internal/models"
)

const (
	EnvOutput          = "TIPCTL_OUTPUT"
	EnvOnError         = "TIPCTL_ONERROR"
	EnvCaseInsensitive = "TIPCTL_CASE_INSENSITIVE"
	EnvLogLevel        = "TIPCTL_LOG_LEVEL"
	EnvLogFormat       = "TIPCTL_LOG_FORMAT"
	EnvLogDir          = "TIPCTL_LOG_DIR"
	EnvHistoryFile     = "TIPCTL_HISTORY_FILE"
	EnvCacheTTL        = "TIPCTL_CACHE_TTL"
	EnvSandboxDB       = "TIPCTL_SANDBOX_DB"
	EnvSandboxSeed     = "TIPCTL_SANDBOX_SEED"
)

var (
	supportedOutputs    = []string{"yaml", "json"}
	supportedLogFormats = []string{"text", "json"}
)

// Parser implements the ConfigParser interface
type Parser struct {
	env environment.Lookup
}

// NewParser creates a new configuration parser reading overrides from the process environment
func NewParser() interfaces.ConfigParser {
	return NewParserWithEnv(environment.OS)
}

// NewParserWithEnv creates a parser reading overrides from lookup
func NewParserWithEnv(lookup environment.Lookup) *Parser {
	if lookup == nil {
		lookup = environment.OS
	}
	return &Parser{env: lookup}
}

// Defaults returns the built-in configuration
func Defaults() *models.Config {
	logDir := filepath.Join(os.TempDir(), "tipctl")
	if cacheDir, err := os.UserCacheDir(); err == nil {
		logDir = filepath.Join(cacheDir, "tipctl")
	}

	return &models.Config{
		Output:    "yaml",
		OnError:   string(command.OnErrorPrint),
		LogLevel:  "info",
		LogFormat: "text",
		LogDir:    logDir,
		CacheTTL:  5 * time.Minute,
	}
}

// Load builds the configuration from defaults, an optional file, the
// environment and overrides, in that order, and validates the result
func (p *Parser) Load(filePath string, overrides ...func(*models.Config)) (*models.Config, error) {
	config := Defaults()
	if filePath != "" {
		parsed, err := p.read(filePath)
		if err != nil {
			return nil, err
		}
		config = parsed
	}

	if err := p.ApplyEnv(config); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(config)
	}
	return p.finish(config)
}

// ParseConfig reads and parses a configuration file
func (p *Parser) ParseConfig(filePath string) (*models.Config, error) {
	config, err := p.read(filePath)
	if err != nil {
		return nil, err
	}
	return p.finish(config)
}

// read decodes a configuration file on top of the defaults without validating it
func (p *Parser) read(filePath string) (*models.Config, error) {
	if filePath == "" {
		return nil, errors.FileError("file path cannot be empty").
			WithSuggestion("Provide a valid path to a YAML or JSON configuration file")
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, errors.FileErrorWithCause("configuration file does not exist", err).
			WithContext("filePath", filePath).
			WithSuggestion("Check that the file path is correct")
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, errors.FileErrorf("unsupported file format: %s (only .json, .yaml and .yml files are supported)", ext).
			WithContext("filePath", filePath).
			WithContext("extension", ext).
			WithSuggestion("Use a .yaml or .json file for configuration")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.FileErrorWithCause("failed to read configuration file", err).
			WithContext("filePath", filePath).
			WithSuggestion("Check file permissions")
	}

	var config *models.Config
	if ext == ".json" {
		config, err = p.decodeJSON(data)
	} else {
		config, err = p.decodeYAML(data)
	}
	if err != nil {
		return nil, errors.WrapError(err, "", "failed to parse configuration file").
			WithContext("filePath", filePath)
	}

	return config, nil
}

// ParseConfigFromBytes parses a YAML (or JSON) document on top of the defaults
func (p *Parser) ParseConfigFromBytes(data []byte) (*models.Config, error) {
	config, err := p.decodeYAML(data)
	if err != nil {
		return nil, err
	}
	return p.finish(config)
}

func (p *Parser) decodeYAML(data []byte) (*models.Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.ConfigError("configuration data is empty").
			WithSuggestion("Check that the file is not empty")
	}

	config := Defaults()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.ConfigErrorWithCause("invalid YAML format", err).
			WithSuggestion("Check the indentation and the key names")
	}
	return config, nil
}

func (p *Parser) decodeJSON(data []byte) (*models.Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.ConfigError("configuration data is empty").
			WithSuggestion("Check that the file is not empty")
	}

	config := Defaults()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.ConfigErrorWithCause("invalid JSON format", err).
			WithSuggestion("Check for missing commas, brackets, or quotes")
	}
	return config, nil
}

func (p *Parser) finish(config *models.Config) (*models.Config, error) {
	p.applyDefaults(config)
	if err := p.ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config with the TIPCTL_* environment variables that are set
func (p *Parser) ApplyEnv(config *models.Config) error {
	overrides := map[string]*string{
		EnvOutput:      &config.Output,
		EnvOnError:     &config.OnError,
		EnvLogLevel:    &config.LogLevel,
		EnvLogFormat:   &config.LogFormat,
		EnvLogDir:      &config.LogDir,
		EnvHistoryFile: &config.HistoryFile,
		EnvSandboxDB:   &config.Sandbox.Database,
		EnvSandboxSeed: &config.Sandbox.Seed,
	}
	for name, target := range overrides {
		if value, ok := p.env.LookupEnv(name); ok {
			*target = value
		}
	}

	if value, ok := p.env.LookupEnv(EnvCaseInsensitive); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return errors.ConfigErrorWithCause("invalid boolean", err).
				WithContext("variable", EnvCaseInsensitive).
				WithSuggestion("Use true or false")
		}
		config.CaseInsensitive = enabled
	}

	if value, ok := p.env.LookupEnv(EnvCacheTTL); ok {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return errors.ConfigErrorWithCause("invalid duration", err).
				WithContext("variable", EnvCacheTTL).
				WithSuggestion("Use a duration such as 30s or 5m")
		}
		config.CacheTTL = ttl
	}

	return nil
}

// ValidateConfig validates the parsed configuration
func (p *Parser) ValidateConfig(config *models.Config) error {
	if config == nil {
		return errors.ValidationError("configuration cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return errors.ValidationErrorWithCause("basic configuration validation failed", err).
			WithSuggestion("Check that all required fields are present")
	}

	if !contains(supportedOutputs, config.Output) {
		return errors.ValidationErrorf("invalid output format '%s'", config.Output).
			WithSuggestion("Use one of: " + strings.Join(supportedOutputs, ", "))
	}

	modes := make([]string, len(command.OnErrorModes))
	for i, mode := range command.OnErrorModes {
		modes[i] = string(mode)
	}
	if !contains(modes, config.OnError) {
		return errors.ValidationErrorf("invalid onerror mode '%s'", config.OnError).
			WithSuggestion("Use one of: " + strings.Join(modes, ", "))
	}

	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return errors.WrapError(err, errors.ValidationErrorType, "invalid log level")
	}

	if !contains(supportedLogFormats, config.LogFormat) {
		return errors.ValidationErrorf("invalid log format '%s'", config.LogFormat).
			WithSuggestion("Use one of: " + strings.Join(supportedLogFormats, ", "))
	}

	return nil
}

// applyDefaults fills fields a configuration file explicitly emptied
func (p *Parser) applyDefaults(config *models.Config) {
	defaults := Defaults()

	if config.Output == "" {
		config.Output = defaults.Output
	}
	if config.OnError == "" {
		config.OnError = defaults.OnError
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.LogFormat == "" {
		config.LogFormat = defaults.LogFormat
	}
	if config.LogDir == "" {
		config.LogDir = defaults.LogDir
	}
	if config.HistoryFile == "" {
		config.HistoryFile = filepath.Join(config.LogDir, "history")
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
