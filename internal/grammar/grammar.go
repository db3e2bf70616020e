// Package grammar holds the field reader shared by every sub-command grammar.
//
// A Reader walks one line left to right: first the verb, then the verb's
// positional fields, optionally a trailing rest-of-line field, and finally
// Done, which rejects anything left over. Data fields go through the
// environment resolver; verbs never do.
package grammar

import (
	"strconv"
	"strings"
	"unicode"

	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/words"
)

// Policy controls how keywords and enum values are matched.
type Policy struct {
	// CaseInsensitive folds case when matching verbs and enum values.
	// Matches are always returned in their canonical spelling.
	CaseInsensitive bool
}

// Reader reads the fields of one sub-command.
type Reader struct {
	domain string
	words  *words.Words
	env    *environment.Resolver
	policy Policy
}

// NewReader creates a reader for the sub-command of domain, positioned after the resource keyword.
func NewReader(domain string, w *words.Words, env *environment.Resolver, policy Policy) *Reader {
	if env == nil {
		env = environment.NewResolver(nil)
	}
	return &Reader{
		domain: domain,
		words:  w,
		env:    env,
		policy: policy,
	}
}

// Match compares a token with a keyword according to the policy.
func (r *Reader) Match(token, keyword string) bool {
	if r.policy.CaseInsensitive {
		return strings.EqualFold(token, keyword)
	}
	return token == keyword
}

// Verb reads the sub-command keyword and returns the canonical spelling of the matching verb.
func (r *Reader) Verb(verbs ...string) (string, error) {
	token, ok := r.words.Next()
	if !ok {
		return "", errors.MissingSubCommand(r.domain).
			WithSuggestion("Use one of: " + strings.Join(verbs, ", "))
	}

	for _, verb := range verbs {
		if r.Match(token, verb) {
			return verb, nil
		}
	}

	return "", errors.WrongSubCommand(r.domain, token).
		WithSuggestion("Use one of: " + strings.Join(verbs, ", "))
}

// Field reads one positional data field.
func (r *Reader) Field(name string) (string, error) {
	token, ok := r.words.Next()
	if !ok {
		return "", errors.MissingRequiredField(name).WithContext("domain", r.domain)
	}

	value, err := r.env.Resolve(token)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", errors.MissingRequiredField(name).WithContext("domain", r.domain)
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return "", errors.TooManyParameters(value).WithContext("field", name)
	}
	return value, nil
}

// Uint reads a base-10 unsigned integer field.
func (r *Reader) Uint(name string) (uint64, error) {
	value, err := r.Field(name)
	if err != nil {
		return 0, err
	}
	return ParseUint(name, value)
}

// Enum reads a field whose value must be one of values, named set in errors.
func (r *Reader) Enum(name, set string, values ...string) (string, error) {
	value, err := r.Field(name)
	if err != nil {
		return "", err
	}
	for _, candidate := range values {
		if r.Match(value, candidate) {
			return candidate, nil
		}
	}
	return "", errors.InvalidEnumValue(value, set).
		WithSuggestion("Use one of: " + strings.Join(values, ", "))
}

// Rest reads the trailing free-form field. It consumes the remainder of the line.
func (r *Reader) Rest(name string) (string, error) {
	rest, ok := r.words.Rest()
	if !ok {
		return "", errors.MissingRequiredField(name).WithContext("domain", r.domain)
	}

	value, err := r.env.Resolve(rest)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.MissingRequiredField(name).WithContext("domain", r.domain)
	}
	return value, nil
}

// Done fails when anything but white space is left on the line.
func (r *Reader) Done() error {
	if rest, ok := r.words.Rest(); ok {
		return errors.TooManyParameters(rest).WithContext("domain", r.domain)
	}
	return nil
}

// ParseUint parses a base-10 unsigned integer field value.
func ParseUint(name, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.InvalidNumber(value, err).WithContext("field", name)
	}
	return n, nil
}
