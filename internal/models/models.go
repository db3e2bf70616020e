package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the complete tipctl configuration
type Config struct {
	Output          string        `json:"output,omitempty" yaml:"output,omitempty"`
	OnError         string        `json:"onError,omitempty" yaml:"onError,omitempty"`
	CaseInsensitive bool          `json:"caseInsensitive,omitempty" yaml:"caseInsensitive,omitempty"`
	LogLevel        string        `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat       string        `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
	LogDir          string        `json:"logDir,omitempty" yaml:"logDir,omitempty"`
	HistoryFile     string        `json:"historyFile,omitempty" yaml:"historyFile,omitempty"`
	CacheTTL        time.Duration `json:"cacheTTL,omitempty" yaml:"cacheTTL,omitempty"`
	Sandbox         SandboxConfig `json:"sandbox,omitempty" yaml:"sandbox,omitempty"`
}

// SandboxConfig selects the local database that stands in for a hosting account
type SandboxConfig struct {
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	Seed     string `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Validate performs basic validation on Config
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output format is required")
	}
	if c.OnError == "" {
		return fmt.Errorf("onerror mode is required")
	}
	if c.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	if c.Sandbox.Seed != "" && c.Sandbox.Database == "" {
		return fmt.Errorf("sandbox seed requires a sandbox database")
	}
	return nil
}

// DNSEntry represents one record of a domain's zone
type DNSEntry struct {
	Name    string `json:"name" yaml:"name"`
	Expire  uint64 `json:"expire" yaml:"expire"`
	Type    string `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
}

// Validate performs basic validation on DNSEntry
func (e *DNSEntry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("dns entry name is required")
	}
	if e.Type == "" {
		return fmt.Errorf("dns entry type is required")
	}
	if e.Content == "" {
		return fmt.Errorf("dns entry content is required")
	}
	return nil
}

// Matches reports whether e and other describe the same record
func (e DNSEntry) Matches(other DNSEntry) bool {
	return e.Name == other.Name && e.Expire == other.Expire &&
		e.Type == other.Type && e.Content == other.Content
}

// Domain represents a registered domain name
type Domain struct {
	Name             string `json:"name" yaml:"name"`
	AuthCode         string `json:"authCode,omitempty" yaml:"authCode,omitempty"`
	IsLocked         bool   `json:"isTransferLocked" yaml:"isTransferLocked"`
	RegistrationDate string `json:"registrationDate,omitempty" yaml:"registrationDate,omitempty"`
	RenewalDate      string `json:"renewalDate,omitempty" yaml:"renewalDate,omitempty"`
}

// Invoice represents an invoice of the account
type Invoice struct {
	InvoiceNumber      string `json:"invoiceNumber" yaml:"invoiceNumber"`
	CreationDate       string `json:"creationDate" yaml:"creationDate"`
	DueDate            string `json:"dueDate" yaml:"dueDate"`
	InvoiceStatus      string `json:"invoiceStatus" yaml:"invoiceStatus"`
	TotalAmount        int64  `json:"totalAmount" yaml:"totalAmount"`
	TotalAmountInclVat int64  `json:"totalAmountInclVat" yaml:"totalAmountInclVat"`
}

// InvoicePDF holds the base64 encoded pdf of an invoice
type InvoicePDF struct {
	InvoiceNumber string `json:"invoiceNumber" yaml:"invoiceNumber"`
	PDF           string `json:"pdf" yaml:"pdf"`
}

// Product represents an orderable product
type Product struct {
	Name           string `json:"name" yaml:"name"`
	Category       string `json:"category" yaml:"category"`
	Description    string `json:"description" yaml:"description"`
	Price          int64  `json:"price" yaml:"price"`
	RecurringPrice int64  `json:"recurringPrice" yaml:"recurringPrice"`
}

// ProductElement represents one specification of a product
type ProductElement struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Amount      uint64 `json:"amount" yaml:"amount"`
}

// VPSStatus is the power state of a virtual private server
type VPSStatus string

const (
	VPSRunning VPSStatus = "running"
	VPSStopped VPSStatus = "stopped"
)

// VPSAction is a state change applied to a virtual private server
type VPSAction string

const (
	VPSLock   VPSAction = "lock"
	VPSUnlock VPSAction = "unlock"
	VPSStart  VPSAction = "start"
	VPSStop   VPSAction = "stop"
	VPSReset  VPSAction = "reset"
)

// VPS represents a virtual private server
type VPS struct {
	Name             string    `json:"name" yaml:"name"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty"`
	ProductName      string    `json:"productName" yaml:"productName"`
	OperatingSystem  string    `json:"operatingSystem,omitempty" yaml:"operatingSystem,omitempty"`
	Status           VPSStatus `json:"status" yaml:"status"`
	IsLocked         bool      `json:"isLocked" yaml:"isLocked"`
	AvailabilityZone string    `json:"availabilityZone" yaml:"availabilityZone"`
}

// AvailabilityZone represents a data center location
type AvailabilityZone struct {
	Name      string `json:"name" yaml:"name"`
	Country   string `json:"country" yaml:"country"`
	IsDefault bool   `json:"isDefault" yaml:"isDefault"`
}

// MailBox represents a mailbox of a domain
type MailBox struct {
	Identifier   string `json:"identifier" yaml:"identifier"`
	LocalPart    string `json:"localPart" yaml:"localPart"`
	Domain       string `json:"domain" yaml:"domain"`
	MaxDiskUsage uint64 `json:"maxDiskUsage" yaml:"maxDiskUsage"`
	ForwardTo    string `json:"forwardTo,omitempty" yaml:"forwardTo,omitempty"`
}

// MailBoxInput carries the fields of a mailbox insert or update
type MailBoxInput struct {
	LocalPart    string
	Password     string
	MaxDiskUsage uint64
	ForwardTo    string
}

// MailForward represents a mail forward of a domain
type MailForward struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	LocalPart  string `json:"localPart" yaml:"localPart"`
	Domain     string `json:"domain" yaml:"domain"`
	ForwardTo  string `json:"forwardTo" yaml:"forwardTo"`
}

// Address joins a local part and a domain
func Address(localPart, domain string) string {
	return localPart + "@" + domain
}

// ParseMailBoxInput reads "<local-part> <password> <max-disk-usage-mb> [forward-to]"
func ParseMailBoxInput(value string) (MailBoxInput, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 || len(fields) > 4 {
		return MailBoxInput{}, fmt.Errorf("mailbox value %q must be: local-part password max-disk-usage [forward-to]", value)
	}

	usage, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return MailBoxInput{}, fmt.Errorf("mailbox max disk usage %q is not a number: %w", fields[2], err)
	}

	input := MailBoxInput{
		LocalPart:    fields[0],
		Password:     fields[1],
		MaxDiskUsage: usage,
	}
	if len(fields) == 4 {
		input.ForwardTo = fields[3]
	}
	return input, nil
}

// ParseMailForward reads "<local-part> <forward-to>"
func ParseMailForward(value string) (MailForward, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return MailForward{}, fmt.Errorf("mail forward value %q must be: local-part forward-to", value)
	}
	if !strings.Contains(fields[1], "@") {
		return MailForward{}, fmt.Errorf("forward address %q is not an email address", fields[1])
	}
	return MailForward{LocalPart: fields[0], ForwardTo: fields[1]}, nil
}

// Result is the outcome of one executed command
type Result struct {
	Command    string      `json:"command" yaml:"command"`
	Data       interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	ExecutedAt time.Time   `json:"executedAt" yaml:"executedAt"`
}

// HasData reports whether the result carries anything to print
func (r *Result) HasData() bool {
	return r != nil && r.Data != nil
}
