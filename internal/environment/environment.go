// Package environment substitutes ${NAME} placeholders with values from an
// injected lookup, so callers never read process state directly.
package environment

import (
	"os"
	"regexp"
	"strings"

	"tipctl/internal/errors"
)

var placeholderPattern = regexp.MustCompile(`^\$\{([A-Z][A-Z_]*)\}$`)

// Lookup reads one variable; ok is false when it is unset.
type Lookup interface {
	LookupEnv(name string) (value string, ok bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(name string) (string, bool)

// LookupEnv calls f.
func (f LookupFunc) LookupEnv(name string) (string, bool) {
	return f(name)
}

// OS reads the process environment.
var OS Lookup = LookupFunc(os.LookupEnv)

// Map is a fixed environment, used in tests and for dry runs.
type Map map[string]string

// LookupEnv returns the value stored under name.
func (m Map) LookupEnv(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// Resolver replaces whole-token placeholders.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a resolver reading from lookup. A nil lookup reads the process environment.
func NewResolver(lookup Lookup) *Resolver {
	if lookup == nil {
		lookup = OS
	}
	return &Resolver{lookup: lookup}
}

// Resolve returns token unchanged unless it is a ${NAME} placeholder, in which
// case the variable's value is returned. Values are not resolved again, so a
// value starting with "${" is rejected: it would not render back to itself.
func (r *Resolver) Resolve(token string) (string, error) {
	name, isPlaceholder, err := PlaceholderName(token)
	if err != nil {
		return "", err
	}
	if !isPlaceholder {
		return token, nil
	}

	value, ok := r.lookup.LookupEnv(name)
	if !ok {
		return "", errors.EnvironmentVariableMissing(name).
			WithSuggestion("Export " + name + " before running the script")
	}
	if strings.HasPrefix(value, "${") {
		return "", errors.MalformedPlaceholder(value).
			WithContext("variable", name).
			WithSuggestion("Placeholders are not nested; export the final value of " + name)
	}
	return value, nil
}

// PlaceholderName extracts NAME from a ${NAME} token. A token that starts with
// "${" without being a valid placeholder is reported as malformed.
func PlaceholderName(token string) (name string, isPlaceholder bool, err error) {
	if match := placeholderPattern.FindStringSubmatch(token); match != nil {
		return match[1], true, nil
	}
	if strings.HasPrefix(token, "${") {
		return "", false, errors.MalformedPlaceholder(token).
			WithSuggestion("Placeholders look like ${NAME} with NAME made of upper case letters and underscores")
	}
	return "", false, nil
}
