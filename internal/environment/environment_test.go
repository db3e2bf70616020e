package environment

import (
	"testing"

	"tipctl/internal/errors"
)

func TestResolve(t *testing.T) {
	resolver := NewResolver(Map{
		"CERTBOT_DOMAIN":     "example.com",
		"CERTBOT_VALIDATION": "abc123",
		"EMPTY":              "",
		"NESTED":             "${CERTBOT_DOMAIN}",
		"NESTED_TEXT":        "${CERTBOT_DOMAIN} and more",
	})

	tests := []struct {
		name        string
		token       string
		expected    string
		expectError errors.ErrorType
		expectName  string
	}{
		{name: "plain token", token: "example.nl", expected: "example.nl"},
		{name: "placeholder", token: "${CERTBOT_DOMAIN}", expected: "example.com"},
		{name: "placeholder with underscore", token: "${CERTBOT_VALIDATION}", expected: "abc123"},
		{name: "empty value", token: "${EMPTY}", expected: ""},
		{name: "partial token passes through", token: "www.${CERTBOT_DOMAIN}", expected: "www.${CERTBOT_DOMAIN}"},
		{name: "dollar without braces passes through", token: "$CERTBOT_DOMAIN", expected: "$CERTBOT_DOMAIN"},
		{name: "unset variable", token: "${FOO}", expectError: errors.EnvironmentVariableMissingType, expectName: "FOO"},
		{name: "lower case name", token: "${foo}", expectError: errors.MalformedPlaceholderType, expectName: "${foo}"},
		{name: "digit in name", token: "${FOO1}", expectError: errors.MalformedPlaceholderType, expectName: "${FOO1}"},
		{name: "leading underscore", token: "${_FOO}", expectError: errors.MalformedPlaceholderType, expectName: "${_FOO}"},
		{name: "unterminated", token: "${FOO", expectError: errors.MalformedPlaceholderType, expectName: "${FOO"},
		{name: "trailing text", token: "${FOO}x", expectError: errors.MalformedPlaceholderType, expectName: "${FOO}x"},
		{name: "empty name", token: "${}", expectError: errors.MalformedPlaceholderType, expectName: "${}"},
		{name: "value is a placeholder", token: "${NESTED}", expectError: errors.MalformedPlaceholderType, expectName: "${CERTBOT_DOMAIN}"},
		{name: "value starts with a placeholder", token: "${NESTED_TEXT}", expectError: errors.MalformedPlaceholderType, expectName: "${CERTBOT_DOMAIN} and more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.token)

			if tt.expectError != "" {
				if err == nil {
					t.Fatalf("expected %s error, got value %q", tt.expectError, got)
				}
				if !errors.IsErrorType(err, tt.expectError) {
					t.Errorf("expected error type %s, got %s", tt.expectError, errors.GetErrorType(err))
				}
				commandErr, _ := errors.AsCommandError(err)
				if commandErr.Subject != tt.expectName {
					t.Errorf("expected subject %q, got %q", tt.expectName, commandErr.Subject)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLookupFunc(t *testing.T) {
	calls := 0
	resolver := NewResolver(LookupFunc(func(name string) (string, bool) {
		calls++
		return "value-of-" + name, true
	}))

	got, err := resolver.Resolve("${ANY_NAME}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value-of-ANY_NAME" {
		t.Errorf("expected value-of-ANY_NAME, got %q", got)
	}

	if _, err := resolver.Resolve("literal"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected lookup to be called once, got %d", calls)
	}
}

func TestProcessEnvironment(t *testing.T) {
	t.Setenv("TIPCTL_TEST_VALUE", "from-process")

	got, err := NewResolver(nil).Resolve("${TIPCTL_TEST_VALUE}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-process" {
		t.Errorf("expected from-process, got %q", got)
	}
}
