package interfaces

import (
	"context"

	"tipctl/internal/command"
	"tipctl/internal/models"
)

// HostingClient defines the interface for interacting with a hosting account
type HostingClient interface {
	// Ping checks that the account is reachable
	Ping(ctx context.Context) (string, error)

	// AvailabilityZones lists the data center locations
	AvailabilityZones(ctx context.Context) ([]models.AvailabilityZone, error)

	// DNSEntries lists the zone of a domain
	DNSEntries(ctx context.Context, domain string) ([]models.DNSEntry, error)

	// InsertDNSEntry adds a record to the zone of a domain
	InsertDNSEntry(ctx context.Context, domain string, entry models.DNSEntry) error

	// DeleteDNSEntry removes a record from the zone of a domain
	DeleteDNSEntry(ctx context.Context, domain string, entry models.DNSEntry) error

	// Domains lists the registered domains
	Domains(ctx context.Context) ([]models.Domain, error)

	// Domain returns one registered domain
	Domain(ctx context.Context, name string) (*models.Domain, error)

	// Invoices lists the invoices of the account
	Invoices(ctx context.Context) ([]models.Invoice, error)

	// Invoice returns one invoice
	Invoice(ctx context.Context, number string) (*models.Invoice, error)

	// InvoicePDF returns the pdf of one invoice
	InvoicePDF(ctx context.Context, number string) (*models.InvoicePDF, error)

	// Products lists the orderable products
	Products(ctx context.Context) ([]models.Product, error)

	// ProductElements lists the specifications of a product
	ProductElements(ctx context.Context, name string) ([]models.ProductElement, error)

	// VPSs lists the virtual private servers
	VPSs(ctx context.Context) ([]models.VPS, error)

	// VPS returns one virtual private server
	VPS(ctx context.Context, name string) (*models.VPS, error)

	// VPSAction applies a state change to a virtual private server
	VPSAction(ctx context.Context, name string, action models.VPSAction) error

	MailBoxes(ctx context.Context, domain string) ([]models.MailBox, error)
	MailBox(ctx context.Context, domain, localPart string) (*models.MailBox, error)
	InsertMailBox(ctx context.Context, domain string, input models.MailBoxInput) error
	UpdateMailBox(ctx context.Context, domain, localPart string, input models.MailBoxInput) error
	DeleteMailBox(ctx context.Context, domain, localPart string) error

	MailForwards(ctx context.Context, domain string) ([]models.MailForward, error)
	MailForward(ctx context.Context, domain, localPart string) (*models.MailForward, error)
	InsertMailForward(ctx context.Context, domain string, forward models.MailForward) error
	UpdateMailForward(ctx context.Context, domain, localPart string, forward models.MailForward) error
	DeleteMailForward(ctx context.Context, domain, localPart string) error
}

// ConfigParser defines the interface for parsing configuration files
type ConfigParser interface {
	// ParseConfig reads and parses a configuration file
	ParseConfig(filePath string) (*models.Config, error)

	// ValidateConfig validates the parsed configuration
	ValidateConfig(config *models.Config) error

	// ParseConfigFromBytes parses configuration from byte array
	ParseConfigFromBytes(data []byte) (*models.Config, error)
}

// OutputFormatter defines the interface for formatting command results
type OutputFormatter interface {
	// Format formats the result according to the formatter's type
	Format(result *models.Result) (string, error)

	// FormatType returns the format type (e.g., "yaml", "json")
	FormatType() string
}

// Executor defines the interface for running parsed commands against an account
type Executor interface {
	// Execute runs one command and returns what it produced
	Execute(ctx context.Context, cmd command.Command) (*models.Result, error)
}
