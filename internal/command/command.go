// Package command turns one line of the tipctl language into a typed Command.
//
// Lines are dispatched on their first word: comments, the zero-argument
// keywords ping and availability-zones, the single-value keywords sleep and
// onerror, and the resource keywords whose remaining words are handed to the
// grammar of that resource domain.
//
// Usage:
//
//	parser := command.NewParser(environment.OS, grammar.Policy{})
//	cmd, err := parser.Parse("dns list example.nl")
package command

import (
	"fmt"

	"tipctl/internal/command/dns"
	"tipctl/internal/command/domain"
	"tipctl/internal/command/email"
	"tipctl/internal/command/invoice"
	"tipctl/internal/command/product"
	"tipctl/internal/command/vps"
)

const (
	KeywordComment           = "#"
	KeywordPing              = "ping"
	KeywordAvailabilityZones = "availability-zones"
	KeywordSleep             = "sleep"
	KeywordOnError           = "onerror"
	KeywordDNS               = "dns"
	KeywordDomain            = "domain"
	KeywordInvoice           = "invoice"
	KeywordProduct           = "product"
	KeywordVPS               = "vps"
	KeywordEmailBox          = "email-box"
	KeywordEmailForward      = "email-forward"

	// keywordAvailibilityZones is the historic misspelling, still accepted.
	keywordAvailibilityZones = "availibility-zones"
)

// Command is one parsed line. The set of implementations is closed.
type Command interface {
	fmt.Stringer
	command()
}

// OnErrorMode selects what a script does after a failing line.
type OnErrorMode string

const (
	// OnErrorPrint reports the error and continues with the next line
	OnErrorPrint OnErrorMode = "print"
	// OnErrorExit reports the error and stops the script
	OnErrorExit OnErrorMode = "exit"
)

// OnErrorModes lists the accepted modes.
var OnErrorModes = []OnErrorMode{OnErrorPrint, OnErrorExit}

// Comment is a line starting with '#'. Text is the line as read.
type Comment struct {
	Text string
}

// Ping checks that the API is reachable.
type Ping struct{}

// AvailabilityZones lists the availability zones of the provider.
type AvailabilityZones struct{}

// Sleep pauses the script.
type Sleep struct {
	Seconds uint64
}

// OnError changes the error mode for the lines that follow.
type OnError struct {
	Mode OnErrorMode
}

// DNS wraps a dns sub-command.
type DNS struct {
	Sub dns.Command
}

// Domain wraps a domain sub-command.
type Domain struct {
	Sub domain.Command
}

// Invoice wraps an invoice sub-command.
type Invoice struct {
	Sub invoice.Command
}

// Product wraps a product sub-command.
type Product struct {
	Sub product.Command
}

// VPS wraps a vps sub-command.
type VPS struct {
	Sub vps.Command
}

// EmailBox wraps a mailbox sub-command.
type EmailBox struct {
	Sub email.Command[string]
}

// EmailForward wraps a mail forward sub-command.
type EmailForward struct {
	Sub email.Command[string]
}

func (Comment) command()           {}
func (Ping) command()              {}
func (AvailabilityZones) command() {}
func (Sleep) command()             {}
func (OnError) command()           {}
func (DNS) command()               {}
func (Domain) command()            {}
func (Invoice) command()           {}
func (Product) command()           {}
func (VPS) command()               {}
func (EmailBox) command()          {}
func (EmailForward) command()      {}

func (c Comment) String() string         { return c.Text }
func (Ping) String() string              { return KeywordPing }
func (AvailabilityZones) String() string { return KeywordAvailabilityZones }

func (c Sleep) String() string {
	return fmt.Sprintf("%s %d", KeywordSleep, c.Seconds)
}

func (c OnError) String() string {
	return fmt.Sprintf("%s %s", KeywordOnError, c.Mode)
}

func (c DNS) String() string          { return KeywordDNS + " " + c.Sub.String() }
func (c Domain) String() string       { return KeywordDomain + " " + c.Sub.String() }
func (c Invoice) String() string      { return KeywordInvoice + " " + c.Sub.String() }
func (c Product) String() string      { return KeywordProduct + " " + c.Sub.String() }
func (c VPS) String() string          { return KeywordVPS + " " + c.Sub.String() }
func (c EmailBox) String() string     { return KeywordEmailBox + " " + c.Sub.String() }
func (c EmailForward) String() string { return KeywordEmailForward + " " + c.Sub.String() }

// Completions maps every keyword to the verbs that may follow it.
func Completions() map[string][]string {
	return map[string][]string{
		KeywordPing:              nil,
		KeywordAvailabilityZones: nil,
		KeywordSleep:             nil,
		KeywordOnError:           {string(OnErrorPrint), string(OnErrorExit)},
		KeywordDNS:               dns.Verbs,
		KeywordDomain:            domain.Verbs,
		KeywordInvoice:           invoice.Verbs,
		KeywordProduct:           product.Verbs,
		KeywordVPS:               vps.Verbs,
		KeywordEmailBox:          email.Verbs,
		KeywordEmailForward:      email.Verbs,
	}
}
