package email

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/grammar"
	"tipctl/internal/words"
)

func reader(line string) *grammar.Reader {
	env := environment.NewResolver(environment.Map{"MAIL_ID": "42", "LOCAL": "info"})
	return grammar.NewReader("email-box", words.New(line), env, grammar.Policy{})
}

func TestParseStringID(t *testing.T) {
	tests := []struct {
		line     string
		expected Command[string]
	}{
		{line: "list example.nl", expected: List[string]{Domain: "example.nl"}},
		{line: "item example.nl ${LOCAL}", expected: Item[string]{Domain: "example.nl", ID: "info"}},
		{line: "delete example.nl info", expected: Delete[string]{Domain: "example.nl", ID: "info"}},
		{line: "insert example.nl info pw 10", expected: Insert[string]{Domain: "example.nl", Value: "info pw 10"}},
		{line: "update example.nl info info pw 20", expected: Update[string]{Domain: "example.nl", ID: "info", Value: "info pw 20"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(reader(tt.line), StringID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.line && tt.line != "item example.nl ${LOCAL}" {
				t.Errorf("expected %q to render as itself, got %q", tt.line, got.String())
			}
		})
	}
}

func TestParseNumericID(t *testing.T) {
	got, err := Parse(reader("item example.nl ${MAIL_ID}"), NumericID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Command[uint64](Item[uint64]{Domain: "example.nl", ID: 42}), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	reparsed, err := Parse(reader(got.String()), NumericID)
	if err != nil {
		t.Fatalf("unexpected error reparsing %q: %v", got.String(), err)
	}
	if diff := cmp.Diff(got, reparsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = Parse(reader("delete example.nl info"), NumericID)
	if !errors.IsErrorType(err, errors.InvalidNumberType) {
		t.Errorf("expected invalid number for a non-numeric id, got %v", err)
	}
}

func TestParseMissingValue(t *testing.T) {
	for _, line := range []string{"insert example.nl", "update example.nl info", "insert example.nl   "} {
		if _, err := Parse(reader(line), StringID); !errors.IsErrorType(err, errors.MissingRequiredFieldType) {
			t.Errorf("%q: expected missing required field, got %v", line, err)
		}
	}
}
