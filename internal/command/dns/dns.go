// Package dns parses the sub-commands of the dns resource keyword.
package dns

import (
	"fmt"

	"tipctl/internal/grammar"
)

const (
	verbList                 = "list"
	verbAcmeValidationDelete = "acme-validation-delete"
	verbAcmeChallengeDelete  = "acme-challenge-delete"
	verbAcmeValidationSet    = "acme-validation-set"
	verbAcmeChallengeSet     = "acme-challenge-set"
	verbInsert               = "insert"
	verbDelete               = "delete"
)

// Verbs lists every verb the dns grammar accepts, aliases included.
var Verbs = []string{
	verbList,
	verbAcmeValidationDelete,
	verbAcmeChallengeDelete,
	verbAcmeValidationSet,
	verbAcmeChallengeSet,
	verbInsert,
	verbDelete,
}

// RecordType is the type of a dns entry.
type RecordType string

const (
	A     RecordType = "A"
	AAAA  RecordType = "AAAA"
	CNAME RecordType = "CNAME"
	MX    RecordType = "MX"
	NS    RecordType = "NS"
	TXT   RecordType = "TXT"
	SRV   RecordType = "SRV"
)

// RecordTypes lists the supported record types.
var RecordTypes = []RecordType{A, AAAA, CNAME, MX, NS, TXT, SRV}

// Entry is one dns record as written on a command line: name ttl type content.
type Entry struct {
	Name    string     `json:"name" yaml:"name"`
	TTL     uint64     `json:"expire" yaml:"expire"`
	Type    RecordType `json:"type" yaml:"type"`
	Content string     `json:"content" yaml:"content"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %d %s %s", e.Name, e.TTL, e.Type, e.Content)
}

// Command is one dns sub-command.
type Command interface {
	fmt.Stringer
	dnsCommand()
}

// List lists the entries of a domain.
type List struct {
	Domain string
}

// AcmeChallengeDelete removes the ACME challenge records of a domain.
type AcmeChallengeDelete struct {
	Domain string
}

// AcmeChallengeSet replaces the ACME challenge records of a domain.
type AcmeChallengeSet struct {
	Domain    string
	Challenge string
}

// Insert adds an entry to a domain.
type Insert struct {
	Domain string
	Entry  Entry
}

// Delete removes an entry from a domain.
type Delete struct {
	Domain string
	Entry  Entry
}

func (List) dnsCommand()                {}
func (AcmeChallengeDelete) dnsCommand() {}
func (AcmeChallengeSet) dnsCommand()    {}
func (Insert) dnsCommand()              {}
func (Delete) dnsCommand()              {}

func (c List) String() string {
	return fmt.Sprintf("%s %s", verbList, c.Domain)
}

func (c AcmeChallengeDelete) String() string {
	return fmt.Sprintf("%s %s", verbAcmeValidationDelete, c.Domain)
}

func (c AcmeChallengeSet) String() string {
	return fmt.Sprintf("%s %s %s", verbAcmeValidationSet, c.Domain, c.Challenge)
}

func (c Insert) String() string {
	return fmt.Sprintf("%s %s %s", verbInsert, c.Domain, c.Entry)
}

func (c Delete) String() string {
	return fmt.Sprintf("%s %s %s", verbDelete, c.Domain, c.Entry)
}

// Parse reads a dns sub-command.
func Parse(r *grammar.Reader) (Command, error) {
	verb, err := r.Verb(Verbs...)
	if err != nil {
		return nil, err
	}

	domain, err := r.Field("domain")
	if err != nil {
		return nil, err
	}

	var command Command
	switch verb {
	case verbList:
		command = List{Domain: domain}
	case verbAcmeValidationDelete, verbAcmeChallengeDelete:
		command = AcmeChallengeDelete{Domain: domain}
	case verbAcmeValidationSet, verbAcmeChallengeSet:
		challenge, err := r.Field("challenge")
		if err != nil {
			return nil, err
		}
		command = AcmeChallengeSet{Domain: domain, Challenge: challenge}
	case verbInsert, verbDelete:
		entry, err := parseEntry(r)
		if err != nil {
			return nil, err
		}
		if verb == verbInsert {
			return Insert{Domain: domain, Entry: entry}, nil
		}
		return Delete{Domain: domain, Entry: entry}, nil
	default:
		panic("dns: unhandled verb " + verb)
	}

	if err := r.Done(); err != nil {
		return nil, err
	}
	return command, nil
}

// parseEntry reads name, ttl, type and the rest-of-line content.
func parseEntry(r *grammar.Reader) (Entry, error) {
	name, err := r.Field("name")
	if err != nil {
		return Entry{}, err
	}

	ttl, err := r.Uint("ttl")
	if err != nil {
		return Entry{}, err
	}

	names := make([]string, len(RecordTypes))
	for i, recordType := range RecordTypes {
		names[i] = string(recordType)
	}
	recordType, err := r.Enum("type", "record type", names...)
	if err != nil {
		return Entry{}, err
	}

	content, err := r.Rest("content")
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:    name,
		TTL:     ttl,
		Type:    RecordType(recordType),
		Content: content,
	}, nil
}
