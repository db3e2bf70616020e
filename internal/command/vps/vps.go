// Package vps parses the sub-commands of the vps resource keyword.
package vps

import (
	"fmt"

	"tipctl/internal/grammar"
)

const verbList = "list"

// Kind is the action applied to a named vps.
type Kind string

const (
	Item   Kind = "item"
	Lock   Kind = "lock"
	Unlock Kind = "unlock"
	Start  Kind = "start"
	Stop   Kind = "stop"
	Reset  Kind = "reset"
)

// Kinds lists the actions in the order they are matched.
var Kinds = []Kind{Item, Lock, Unlock, Start, Stop, Reset}

// Verbs lists every verb the vps grammar accepts.
var Verbs = func() []string {
	verbs := []string{verbList}
	for _, kind := range Kinds {
		verbs = append(verbs, string(kind))
	}
	return verbs
}()

// Command is one vps sub-command.
type Command interface {
	fmt.Stringer
	vpsCommand()
}

// List lists the virtual private servers of the account.
type List struct{}

// Action applies Kind to the vps called Name.
type Action struct {
	Name string
	Kind Kind
}

func (List) vpsCommand()   {}
func (Action) vpsCommand() {}

func (List) String() string {
	return verbList
}

func (c Action) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Name)
}

// Parse reads a vps sub-command.
func Parse(r *grammar.Reader) (Command, error) {
	verb, err := r.Verb(Verbs...)
	if err != nil {
		return nil, err
	}

	var command Command
	if verb == verbList {
		command = List{}
	} else {
		name, err := r.Field("vps")
		if err != nil {
			return nil, err
		}
		command = Action{Name: name, Kind: Kind(verb)}
	}

	if err := r.Done(); err != nil {
		return nil, err
	}
	return command, nil
}
