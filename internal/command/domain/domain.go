// Package domain parses the sub-commands of the domain resource keyword.
package domain

import (
	"fmt"

	"tipctl/internal/grammar"
)

const (
	verbList = "list"
	verbItem = "item"
)

// Verbs lists every verb the domain grammar accepts.
var Verbs = []string{verbList, verbItem}

// Command is one domain sub-command.
type Command interface {
	fmt.Stringer
	domainCommand()
}

// List lists the domains of the account.
type List struct{}

// Item shows one domain.
type Item struct {
	Domain string
}

func (List) domainCommand() {}
func (Item) domainCommand() {}

func (List) String() string {
	return verbList
}

func (c Item) String() string {
	return fmt.Sprintf("%s %s", verbItem, c.Domain)
}

// Parse reads a domain sub-command.
func Parse(r *grammar.Reader) (Command, error) {
	verb, err := r.Verb(Verbs...)
	if err != nil {
		return nil, err
	}

	var command Command
	switch verb {
	case verbList:
		command = List{}
	case verbItem:
		name, err := r.Field("domain")
		if err != nil {
			return nil, err
		}
		command = Item{Domain: name}
	default:
		panic("domain: unhandled verb " + verb)
	}

	if err := r.Done(); err != nil {
		return nil, err
	}
	return command, nil
}
