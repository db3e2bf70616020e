package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"tipctl/internal/errors"
	"tipctl/internal/interfaces"
	"tipctl/internal/models"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// YAMLFormatter formats result data as YAML
type YAMLFormatter struct {
	indent int
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter() interfaces.OutputFormatter {
	return &YAMLFormatter{indent: 2}
}

// FormatType returns the format type
func (f *YAMLFormatter) FormatType() string {
	return FormatYAML
}

// Format formats the data of result as a YAML document. A result without data formats as "".
func (f *YAMLFormatter) Format(result *models.Result) (string, error) {
	if !result.HasData() {
		return "", nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(f.indent)
	if err := encoder.Encode(result.Data); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.String(), nil
}

// JSONFormatter formats result data as indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() interfaces.OutputFormatter {
	return &JSONFormatter{}
}

// FormatType returns the format type
func (f *JSONFormatter) FormatType() string {
	return FormatJSON
}

// Format formats the data of result as JSON. A result without data formats as "".
func (f *JSONFormatter) Format(result *models.Result) (string, error) {
	if !result.HasData() {
		return "", nil
	}

	data, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatterFactory creates formatters based on type
type FormatterFactory struct {
	formatters map[string]interfaces.OutputFormatter
}

// NewFormatterFactory creates a new formatter factory
func NewFormatterFactory() *FormatterFactory {
	factory := &FormatterFactory{
		formatters: make(map[string]interfaces.OutputFormatter),
	}

	factory.RegisterFormatter(NewYAMLFormatter())
	factory.RegisterFormatter(NewJSONFormatter())

	return factory
}

// RegisterFormatter registers a new formatter
func (f *FormatterFactory) RegisterFormatter(formatter interfaces.OutputFormatter) {
	f.formatters[formatter.FormatType()] = formatter
}

// GetFormatter returns a formatter by type
func (f *FormatterFactory) GetFormatter(formatType string) (interfaces.OutputFormatter, error) {
	formatter, exists := f.formatters[formatType]
	if !exists {
		return nil, errors.ValidationErrorf("unsupported output format '%s'", formatType).
			WithContext("available", strings.Join(f.GetSupportedFormats(), ", ")).
			WithSuggestion("Use --output " + strings.Join(f.GetSupportedFormats(), " or --output "))
	}
	return formatter, nil
}

// GetSupportedFormats returns a list of supported format types
func (f *FormatterFactory) GetSupportedFormats() []string {
	formats := make([]string, 0, len(f.formatters))
	for formatType := range f.formatters {
		formats = append(formats, formatType)
	}
	sort.Strings(formats)
	return formats
}

// WriteResult formats result with formatter and writes it. Results without
// data write nothing.
func WriteResult(writer io.Writer, formatter interfaces.OutputFormatter, result *models.Result) error {
	formatted, err := formatter.Format(result)
	if err != nil {
		return err
	}
	if formatted == "" {
		return nil
	}

	_, err = io.WriteString(writer, formatted)
	return err
}
