package product

import (
	"testing"

	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/grammar"
	"tipctl/internal/words"
)

func TestParse(t *testing.T) {
	env := environment.NewResolver(environment.Map{})

	got, err := Parse(grammar.NewReader("product", words.New("elements vps-bladevps-x1"), env, grammar.Policy{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Elements{Name: "vps-bladevps-x1"}) {
		t.Errorf("unexpected command %#v", got)
	}
	if got.String() != "elements vps-bladevps-x1" {
		t.Errorf("unexpected rendering %q", got.String())
	}

	_, err = Parse(grammar.NewReader("product", words.New("elements"), env, grammar.Policy{}))
	if !errors.IsErrorType(err, errors.MissingRequiredFieldType) {
		t.Errorf("expected missing required field, got %v", err)
	}

	_, err = Parse(grammar.NewReader("product", words.New("elements ${PRODUCT}"), env, grammar.Policy{}))
	if !errors.IsErrorType(err, errors.EnvironmentVariableMissingType) {
		t.Errorf("expected missing environment variable, got %v", err)
	}
}
