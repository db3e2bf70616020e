// Package product parses the sub-commands of the product resource keyword.
package product

import (
	"fmt"

	"tipctl/internal/grammar"
)

const (
	verbList     = "list"
	verbElements = "elements"
)

// Verbs lists every verb the product grammar accepts.
var Verbs = []string{verbList, verbElements}

// Command is one product sub-command.
type Command interface {
	fmt.Stringer
	productCommand()
}

// List lists the products on offer.
type List struct{}

// Elements lists the elements of one product.
type Elements struct {
	Name string
}

func (List) productCommand()     {}
func (Elements) productCommand() {}

func (List) String() string {
	return verbList
}

func (c Elements) String() string {
	return fmt.Sprintf("%s %s", verbElements, c.Name)
}

// Parse reads a product sub-command.
func Parse(r *grammar.Reader) (Command, error) {
	verb, err := r.Verb(Verbs...)
	if err != nil {
		return nil, err
	}

	var command Command
	switch verb {
	case verbList:
		command = List{}
	case verbElements:
		name, err := r.Field("product")
		if err != nil {
			return nil, err
		}
		command = Elements{Name: name}
	default:
		panic("product: unhandled verb " + verb)
	}

	if err := r.Done(); err != nil {
		return nil, err
	}
	return command, nil
}
