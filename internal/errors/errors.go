package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// MissingSubCommandType is reported when a resource keyword has no verb
	MissingSubCommandType ErrorType = "MISSING_SUB_COMMAND"
	// WrongSubCommandType is reported for a verb outside the domain's verb set
	WrongSubCommandType ErrorType = "WRONG_SUB_COMMAND"
	// MissingRequiredFieldType is reported when a positional field is absent or empty
	MissingRequiredFieldType ErrorType = "MISSING_REQUIRED_FIELD"
	// TooManyParametersType is reported for tokens left after the last field
	TooManyParametersType ErrorType = "TOO_MANY_PARAMETERS"
	// InvalidNumberType is reported when a numeric field is not a base-10 unsigned integer
	InvalidNumberType ErrorType = "INVALID_NUMBER"
	// InvalidEnumValueType is reported when a value is outside a closed set
	InvalidEnumValueType ErrorType = "INVALID_ENUM_VALUE"
	// EnvironmentVariableMissingType is reported for a placeholder naming an unset variable
	EnvironmentVariableMissingType ErrorType = "ENVIRONMENT_VARIABLE_MISSING"
	// MalformedPlaceholderType is reported for a token that starts like a placeholder but is not one
	MalformedPlaceholderType ErrorType = "MALFORMED_PLACEHOLDER"
	// UnparseableLineType is reported for a line no keyword recognizes
	UnparseableLineType ErrorType = "UNPARSEABLE_LINE"

	// ConfigErrorType represents configuration-related errors
	ConfigErrorType ErrorType = "CONFIG"
	// APIErrorType represents hosting API errors
	APIErrorType ErrorType = "API"
	// ValidationErrorType represents validation-related errors
	ValidationErrorType ErrorType = "VALIDATION"
	// FileErrorType represents file system-related errors
	FileErrorType ErrorType = "FILE"
)

// CommandError is the base error type for all application errors
type CommandError struct {
	Type    ErrorType
	Message string
	// Subject is the offending token, field or variable name.
	Subject string
	// Domain names the resource domain or value set the error was raised in.
	Domain      string
	Context     map[string]interface{}
	Cause       error
	Suggestions []string
}

// Error implements the error interface
func (e *CommandError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s]", e.Type))
	parts = append(parts, e.Message)

	if len(e.Context) > 0 {
		var contextParts []string
		for _, key := range sortedKeys(e.Context) {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", key, e.Context[key]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(contextParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("caused by: %v", e.Cause))
	}

	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause error
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error type
func (e *CommandError) Is(target error) bool {
	if targetErr, ok := target.(*CommandError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *CommandError) WithContext(key string, value interface{}) *CommandError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to help resolve the error
func (e *CommandError) WithSuggestion(suggestion string) *CommandError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// GetSuggestions returns formatted suggestions for resolving the error
func (e *CommandError) GetSuggestions() string {
	if len(e.Suggestions) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString("Suggestions:\n")
	for i, suggestion := range e.Suggestions {
		result.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion))
	}
	return result.String()
}

// IsParseError reports whether the error type belongs to the command language taxonomy
func (t ErrorType) IsParseError() bool {
	switch t {
	case MissingSubCommandType, WrongSubCommandType, MissingRequiredFieldType,
		TooManyParametersType, InvalidNumberType, InvalidEnumValueType,
		EnvironmentVariableMissingType, MalformedPlaceholderType, UnparseableLineType:
		return true
	}
	return false
}

// MissingSubCommand creates an error for a resource keyword without a verb
func MissingSubCommand(domain string) *CommandError {
	return &CommandError{
		Type:    MissingSubCommandType,
		Message: fmt.Sprintf("missing sub command for %s", domain),
		Domain:  domain,
	}
}

// WrongSubCommand creates an error for an unknown verb
func WrongSubCommand(domain, verb string) *CommandError {
	return &CommandError{
		Type:    WrongSubCommandType,
		Message: fmt.Sprintf("wrong sub command %q for %s", verb, domain),
		Subject: verb,
		Domain:  domain,
	}
}

// MissingRequiredField creates an error for an absent positional field
func MissingRequiredField(name string) *CommandError {
	return &CommandError{
		Type:    MissingRequiredFieldType,
		Message: fmt.Sprintf("missing required field %s", name),
		Subject: name,
	}
}

// TooManyParameters creates an error for trailing text after the last field
func TooManyParameters(text string) *CommandError {
	return &CommandError{
		Type:    TooManyParametersType,
		Message: fmt.Sprintf("too many parameters: %q", text),
		Subject: text,
	}
}

// InvalidNumber creates an error for a field that is not an unsigned integer
func InvalidNumber(text string, cause error) *CommandError {
	return &CommandError{
		Type:    InvalidNumberType,
		Message: fmt.Sprintf("invalid number %q", text),
		Subject: text,
		Cause:   cause,
	}
}

// InvalidEnumValue creates an error for a value outside the allowed set of domain
func InvalidEnumValue(text, domain string) *CommandError {
	return &CommandError{
		Type:    InvalidEnumValueType,
		Message: fmt.Sprintf("invalid %s %q", domain, text),
		Subject: text,
		Domain:  domain,
	}
}

// EnvironmentVariableMissing creates an error for a placeholder naming an unset variable
func EnvironmentVariableMissing(name string) *CommandError {
	return &CommandError{
		Type:    EnvironmentVariableMissingType,
		Message: fmt.Sprintf("environment variable %s is not set", name),
		Subject: name,
	}
}

// MalformedPlaceholder creates an error for a token that is not a valid ${NAME} placeholder
func MalformedPlaceholder(text string) *CommandError {
	return &CommandError{
		Type:    MalformedPlaceholderType,
		Message: fmt.Sprintf("malformed placeholder %q", text),
		Subject: text,
	}
}

// UnparseableLine creates an error for a line that matches no command
func UnparseableLine(text string) *CommandError {
	return &CommandError{
		Type:    UnparseableLineType,
		Message: fmt.Sprintf("unparseable line %q", text),
		Subject: text,
	}
}

// ConfigError creates a new configuration error
func ConfigError(message string) *CommandError {
	return &CommandError{
		Type:    ConfigErrorType,
		Message: message,
	}
}

// ConfigErrorf creates a new configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *CommandError {
	return &CommandError{
		Type:    ConfigErrorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// ConfigErrorWithCause creates a new configuration error with a cause
func ConfigErrorWithCause(message string, cause error) *CommandError {
	return &CommandError{
		Type:    ConfigErrorType,
		Message: message,
		Cause:   cause,
	}
}

// APIError creates a new hosting API error
func APIError(message string) *CommandError {
	return &CommandError{
		Type:    APIErrorType,
		Message: message,
	}
}

// APIErrorf creates a new hosting API error with formatting
func APIErrorf(format string, args ...interface{}) *CommandError {
	return &CommandError{
		Type:    APIErrorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// APIErrorWithCause creates a new hosting API error with a cause
func APIErrorWithCause(message string, cause error) *CommandError {
	return &CommandError{
		Type:    APIErrorType,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError creates a new validation error
func ValidationError(message string) *CommandError {
	return &CommandError{
		Type:    ValidationErrorType,
		Message: message,
	}
}

// ValidationErrorf creates a new validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *CommandError {
	return &CommandError{
		Type:    ValidationErrorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationErrorWithCause creates a new validation error with a cause
func ValidationErrorWithCause(message string, cause error) *CommandError {
	return &CommandError{
		Type:    ValidationErrorType,
		Message: message,
		Cause:   cause,
	}
}

// FileError creates a new file system error
func FileError(message string) *CommandError {
	return &CommandError{
		Type:    FileErrorType,
		Message: message,
	}
}

// FileErrorf creates a new file system error with formatting
func FileErrorf(format string, args ...interface{}) *CommandError {
	return &CommandError{
		Type:    FileErrorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// FileErrorWithCause creates a new file system error with a cause
func FileErrorWithCause(message string, cause error) *CommandError {
	return &CommandError{
		Type:    FileErrorType,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *CommandError {
	if err == nil {
		return nil
	}

	// An empty errorType keeps the type, subject and details of a wrapped CommandError
	if commandErr, ok := AsCommandError(err); ok && errorType == "" {
		context := make(map[string]interface{}, len(commandErr.Context))
		for key, value := range commandErr.Context {
			context[key] = value
		}
		return &CommandError{
			Type:        commandErr.Type,
			Message:     message,
			Subject:     commandErr.Subject,
			Domain:      commandErr.Domain,
			Context:     context,
			Cause:       commandErr,
			Suggestions: append([]string(nil), commandErr.Suggestions...),
		}
	}

	return &CommandError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// AsCommandError finds the first CommandError in the chain of err
func AsCommandError(err error) (*CommandError, bool) {
	var commandErr *CommandError
	if stderrors.As(err, &commandErr) {
		return commandErr, true
	}
	return nil, false
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if commandErr, ok := AsCommandError(err); ok {
		return commandErr.Type == errorType
	}
	return false
}

// GetErrorType returns the error type of an error, or empty string if not a CommandError
func GetErrorType(err error) ErrorType {
	if commandErr, ok := AsCommandError(err); ok {
		return commandErr.Type
	}
	return ""
}

// FormatErrorForUser formats an error in a user-friendly way
func FormatErrorForUser(err error) string {
	if err == nil {
		return ""
	}

	commandErr, ok := AsCommandError(err)
	if !ok {
		return fmt.Sprintf("Error: %v\n", err)
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Error: %s\n", commandErr.Message))

	if len(commandErr.Context) > 0 {
		result.WriteString("Details:\n")
		for _, key := range sortedKeys(commandErr.Context) {
			result.WriteString(fmt.Sprintf("  %s: %v\n", key, commandErr.Context[key]))
		}
	}

	if len(commandErr.Suggestions) > 0 {
		result.WriteString("\n")
		result.WriteString(commandErr.GetSuggestions())
	}

	return result.String()
}

// GetExitCode returns an appropriate exit code based on error type
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	commandErr, ok := AsCommandError(err)
	if !ok {
		return 1
	}

	switch commandErr.Type {
	case ConfigErrorType:
		return 2
	case APIErrorType:
		return 4
	case ValidationErrorType:
		return 6
	case FileErrorType:
		return 7
	}
	if commandErr.Type.IsParseError() {
		return 8
	}
	return 1
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
