// Package email parses the sub-commands shared by the email-box and
// email-forward resource keywords. The grammar is generic over the identifier
// type: mailboxes and forwards are addressed by local part, other record kinds
// by a numeric id.
package email

import (
	"fmt"

	"tipctl/internal/grammar"
)

const (
	verbList   = "list"
	verbItem   = "item"
	verbDelete = "delete"
	verbInsert = "insert"
	verbUpdate = "update"
)

// Verbs lists every verb the email grammars accept.
var Verbs = []string{verbList, verbItem, verbDelete, verbInsert, verbUpdate}

// ID is the set of identifier types an email record can be addressed by.
type ID interface {
	~string | ~uint64
}

// Command is one email sub-command addressing records by I.
type Command[I ID] interface {
	fmt.Stringer
	emailCommand(I)
}

// List lists the records of a domain.
type List[I ID] struct {
	Domain string
}

// Item shows one record.
type Item[I ID] struct {
	Domain string
	ID     I
}

// Delete removes one record.
type Delete[I ID] struct {
	Domain string
	ID     I
}

// Insert creates a record from the free-form Value.
type Insert[I ID] struct {
	Domain string
	Value  string
}

// Update replaces the record ID with the free-form Value.
type Update[I ID] struct {
	Domain string
	ID     I
	Value  string
}

func (List[I]) emailCommand(I)   {}
func (Item[I]) emailCommand(I)   {}
func (Delete[I]) emailCommand(I) {}
func (Insert[I]) emailCommand(I) {}
func (Update[I]) emailCommand(I) {}

func (c List[I]) String() string {
	return fmt.Sprintf("%s %s", verbList, c.Domain)
}

func (c Item[I]) String() string {
	return fmt.Sprintf("%s %s %v", verbItem, c.Domain, c.ID)
}

func (c Delete[I]) String() string {
	return fmt.Sprintf("%s %s %v", verbDelete, c.Domain, c.ID)
}

func (c Insert[I]) String() string {
	return fmt.Sprintf("%s %s %s", verbInsert, c.Domain, c.Value)
}

func (c Update[I]) String() string {
	return fmt.Sprintf("%s %s %v %s", verbUpdate, c.Domain, c.ID, c.Value)
}

// IDReader reads the identifier field of a record.
type IDReader[I ID] func(r *grammar.Reader) (I, error)

// StringID reads an identifier such as a mailbox local part.
func StringID(r *grammar.Reader) (string, error) {
	return r.Field("id")
}

// NumericID reads a base-10 numeric identifier.
func NumericID(r *grammar.Reader) (uint64, error) {
	return r.Uint("id")
}

// Parse reads an email sub-command, using readID for the identifier field.
func Parse[I ID](r *grammar.Reader, readID IDReader[I]) (Command[I], error) {
	verb, err := r.Verb(Verbs...)
	if err != nil {
		return nil, err
	}

	domain, err := r.Field("domain")
	if err != nil {
		return nil, err
	}

	switch verb {
	case verbList:
		if err := r.Done(); err != nil {
			return nil, err
		}
		return List[I]{Domain: domain}, nil
	case verbInsert:
		value, err := r.Rest("value")
		if err != nil {
			return nil, err
		}
		return Insert[I]{Domain: domain, Value: value}, nil
	}

	id, err := readID(r)
	if err != nil {
		return nil, err
	}

	switch verb {
	case verbItem:
		if err := r.Done(); err != nil {
			return nil, err
		}
		return Item[I]{Domain: domain, ID: id}, nil
	case verbDelete:
		if err := r.Done(); err != nil {
			return nil, err
		}
		return Delete[I]{Domain: domain, ID: id}, nil
	case verbUpdate:
		value, err := r.Rest("value")
		if err != nil {
			return nil, err
		}
		return Update[I]{Domain: domain, ID: id, Value: value}, nil
	default:
		panic("email: unhandled verb " + verb)
	}
}
