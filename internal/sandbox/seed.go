package sandbox

import (
	"context"
	"database/sql"
	"os"

	"gopkg.in/yaml.v3"

	"tipctl/internal/errors"
	"tipctl/internal/models"
)

// Seed is a YAML fixture describing the contents of a sandbox account.
type Seed struct {
	Domains           []models.Domain              `yaml:"domains"`
	DNSEntries        map[string][]models.DNSEntry `yaml:"dnsEntries"`
	Invoices          []SeedInvoice                `yaml:"invoices"`
	Products          []SeedProduct                `yaml:"products"`
	VPS               []models.VPS                 `yaml:"vps"`
	AvailabilityZones []models.AvailabilityZone    `yaml:"availabilityZones"`
	MailBoxes         []SeedMailBox                `yaml:"mailBoxes"`
	MailForwards      []models.MailForward         `yaml:"mailForwards"`
}

// SeedInvoice is an invoice with its base64 encoded pdf.
type SeedInvoice struct {
	models.Invoice `yaml:",inline"`
	PDF            string `yaml:"pdf"`
}

// SeedProduct is a product with its elements.
type SeedProduct struct {
	models.Product `yaml:",inline"`
	Elements       []models.ProductElement `yaml:"elements"`
}

// SeedMailBox is a mailbox with its plain text password.
type SeedMailBox struct {
	models.MailBox `yaml:",inline"`
	Password       string `yaml:"password"`
}

// LoadSeed reads a seed fixture from path.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileErrorWithCause("failed to read sandbox seed", err).
			WithContext("path", path)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.ConfigErrorWithCause("invalid sandbox seed", err).
			WithContext("path", path).
			WithSuggestion("Check the indentation and the key names")
	}
	return &seed, nil
}

// ApplySeed inserts or replaces the records of seed in one transaction.
func (s *Store) ApplySeed(ctx context.Context, seed *Seed) error {
	if seed == nil {
		return nil
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		exec := func(query string, args ...any) error {
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return errors.APIErrorWithCause("failed to apply sandbox seed", err)
			}
			return nil
		}

		for _, domain := range seed.Domains {
			if err := exec("INSERT OR REPLACE INTO domains (name, auth_code, is_locked, registration_date, renewal_date) VALUES (?, ?, ?, ?, ?)",
				domain.Name, domain.AuthCode, domain.IsLocked, domain.RegistrationDate, domain.RenewalDate); err != nil {
				return err
			}
		}

		for domain, entries := range seed.DNSEntries {
			for _, entry := range entries {
				if err := exec("INSERT OR IGNORE INTO dns_entries (domain, name, expire, type, content) VALUES (?, ?, ?, ?, ?)",
					domain, entry.Name, entry.Expire, entry.Type, entry.Content); err != nil {
					return err
				}
			}
		}

		for _, invoice := range seed.Invoices {
			if err := exec("INSERT OR REPLACE INTO invoices (number, creation_date, due_date, status, total_amount, total_amount_incl_vat, pdf) VALUES (?, ?, ?, ?, ?, ?, ?)",
				invoice.InvoiceNumber, invoice.CreationDate, invoice.DueDate, invoice.InvoiceStatus,
				invoice.TotalAmount, invoice.TotalAmountInclVat, invoice.PDF); err != nil {
				return err
			}
		}

		for _, product := range seed.Products {
			if err := exec("INSERT OR REPLACE INTO products (name, category, description, price, recurring_price) VALUES (?, ?, ?, ?, ?)",
				product.Name, product.Category, product.Description, product.Price, product.RecurringPrice); err != nil {
				return err
			}
			for _, element := range product.Elements {
				if err := exec("INSERT OR REPLACE INTO product_elements (product, name, description, amount) VALUES (?, ?, ?, ?)",
					product.Name, element.Name, element.Description, element.Amount); err != nil {
					return err
				}
			}
		}

		for _, vps := range seed.VPS {
			status := vps.Status
			if status == "" {
				status = models.VPSStopped
			}
			if err := exec("INSERT OR REPLACE INTO vps (name, description, product_name, operating_system, status, is_locked, availability_zone) VALUES (?, ?, ?, ?, ?, ?, ?)",
				vps.Name, vps.Description, vps.ProductName, vps.OperatingSystem, status, vps.IsLocked, vps.AvailabilityZone); err != nil {
				return err
			}
		}

		for _, zone := range seed.AvailabilityZones {
			if err := exec("INSERT OR REPLACE INTO availability_zones (name, country, is_default) VALUES (?, ?, ?)",
				zone.Name, zone.Country, zone.IsDefault); err != nil {
				return err
			}
		}

		for _, box := range seed.MailBoxes {
			hash, err := hashPassword(box.Password)
			if err != nil {
				return err
			}
			if err := exec("INSERT OR REPLACE INTO mailboxes (domain, local_part, password_hash, max_disk_usage, forward_to) VALUES (?, ?, ?, ?, ?)",
				box.Domain, box.LocalPart, hash, box.MaxDiskUsage, box.ForwardTo); err != nil {
				return err
			}
		}

		for _, forward := range seed.MailForwards {
			if err := exec("INSERT OR REPLACE INTO mail_forwards (domain, local_part, forward_to) VALUES (?, ?, ?)",
				forward.Domain, forward.LocalPart, forward.ForwardTo); err != nil {
				return err
			}
		}

		return nil
	})
}
