// Package invoice parses the sub-commands of the invoice resource keyword.
package invoice

import (
	"fmt"

	"tipctl/internal/grammar"
)

const verbList = "list"

// Kind is the action applied to an invoice.
type Kind string

const (
	Item Kind = "item"
	Pdf  Kind = "pdf"
)

// Verbs lists every verb the invoice grammar accepts.
var Verbs = []string{verbList, string(Item), string(Pdf)}

// Command is one invoice sub-command.
type Command interface {
	fmt.Stringer
	invoiceCommand()
}

// List lists the invoices of the account.
type List struct{}

// Action applies Kind to the invoice with the given number.
type Action struct {
	Number string
	Kind   Kind
}

func (List) invoiceCommand()   {}
func (Action) invoiceCommand() {}

func (List) String() string {
	return verbList
}

func (c Action) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Number)
}

// Parse reads an invoice sub-command.
func Parse(r *grammar.Reader) (Command, error) {
	verb, err := r.Verb(Verbs...)
	if err != nil {
		return nil, err
	}

	var command Command
	if verb == verbList {
		command = List{}
	} else {
		number, err := r.Field("invoice number")
		if err != nil {
			return nil, err
		}
		command = Action{Number: number, Kind: Kind(verb)}
	}

	if err := r.Done(); err != nil {
		return nil, err
	}
	return command, nil
}
