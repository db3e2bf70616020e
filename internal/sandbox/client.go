package sandbox

import (
	"context"
	"database/sql"
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"

	"tipctl/internal/errors"
	"tipctl/internal/interfaces"
	"tipctl/internal/models"
)

var _ interfaces.HostingClient = (*Store)(nil)

// Ping reports that the sandbox is reachable.
func (s *Store) Ping(ctx context.Context) (string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return "", errors.APIErrorWithCause("sandbox database is unreachable", err)
	}
	return "pong", nil
}

func (s *Store) AvailabilityZones(ctx context.Context) ([]models.AvailabilityZone, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, country, is_default FROM availability_zones ORDER BY name")
	if err != nil {
		return nil, queryError(err, "availability zones")
	}
	defer rows.Close()

	zones := []models.AvailabilityZone{}
	for rows.Next() {
		var zone models.AvailabilityZone
		if err := rows.Scan(&zone.Name, &zone.Country, &zone.IsDefault); err != nil {
			return nil, queryError(err, "availability zones")
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}

func (s *Store) DNSEntries(ctx context.Context, domain string) ([]models.DNSEntry, error) {
	if err := s.requireDomain(ctx, s.db, domain); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, expire, type, content FROM dns_entries WHERE domain = ? ORDER BY id", domain)
	if err != nil {
		return nil, queryError(err, "dns entries")
	}
	defer rows.Close()

	entries := []models.DNSEntry{}
	for rows.Next() {
		var entry models.DNSEntry
		if err := rows.Scan(&entry.Name, &entry.Expire, &entry.Type, &entry.Content); err != nil {
			return nil, queryError(err, "dns entries")
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) InsertDNSEntry(ctx context.Context, domain string, entry models.DNSEntry) error {
	if err := entry.Validate(); err != nil {
		return errors.ValidationErrorWithCause("invalid dns entry", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireDomain(ctx, tx, domain); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM dns_entries WHERE domain = ? AND name = ? AND expire = ? AND type = ? AND content = ?",
			domain, entry.Name, entry.Expire, entry.Type, entry.Content).Scan(&count); err != nil {
			return queryError(err, "dns entries")
		}
		if count > 0 {
			return errors.APIErrorf("dns entry %s %d %s %s already exists", entry.Name, entry.Expire, entry.Type, entry.Content).
				WithContext("domain", domain)
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO dns_entries (domain, name, expire, type, content) VALUES (?, ?, ?, ?, ?)",
			domain, entry.Name, entry.Expire, entry.Type, entry.Content)
		if err != nil {
			return queryError(err, "dns entries")
		}
		return nil
	})
}

func (s *Store) DeleteDNSEntry(ctx context.Context, domain string, entry models.DNSEntry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireDomain(ctx, tx, domain); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM dns_entries WHERE domain = ? AND name = ? AND expire = ? AND type = ? AND content = ?",
			domain, entry.Name, entry.Expire, entry.Type, entry.Content)
		if err != nil {
			return queryError(err, "dns entries")
		}
		return requireAffected(result, "dns entry "+entry.Name+" "+entry.Type+" of "+domain)
	})
}

func (s *Store) Domains(ctx context.Context) ([]models.Domain, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, auth_code, is_locked, registration_date, renewal_date FROM domains ORDER BY name")
	if err != nil {
		return nil, queryError(err, "domains")
	}
	defer rows.Close()

	domains := []models.Domain{}
	for rows.Next() {
		var domain models.Domain
		if err := rows.Scan(&domain.Name, &domain.AuthCode, &domain.IsLocked, &domain.RegistrationDate, &domain.RenewalDate); err != nil {
			return nil, queryError(err, "domains")
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

func (s *Store) Domain(ctx context.Context, name string) (*models.Domain, error) {
	var domain models.Domain
	err := s.db.QueryRowContext(ctx,
		"SELECT name, auth_code, is_locked, registration_date, renewal_date FROM domains WHERE name = ?", name).
		Scan(&domain.Name, &domain.AuthCode, &domain.IsLocked, &domain.RegistrationDate, &domain.RenewalDate)
	if err != nil {
		return nil, notFound(err, "domain "+name)
	}
	return &domain, nil
}

func (s *Store) Invoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT number, creation_date, due_date, status, total_amount, total_amount_incl_vat FROM invoices ORDER BY number")
	if err != nil {
		return nil, queryError(err, "invoices")
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		var invoice models.Invoice
		if err := rows.Scan(&invoice.InvoiceNumber, &invoice.CreationDate, &invoice.DueDate,
			&invoice.InvoiceStatus, &invoice.TotalAmount, &invoice.TotalAmountInclVat); err != nil {
			return nil, queryError(err, "invoices")
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (s *Store) Invoice(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.QueryRowContext(ctx,
		"SELECT number, creation_date, due_date, status, total_amount, total_amount_incl_vat FROM invoices WHERE number = ?", number).
		Scan(&invoice.InvoiceNumber, &invoice.CreationDate, &invoice.DueDate,
			&invoice.InvoiceStatus, &invoice.TotalAmount, &invoice.TotalAmountInclVat)
	if err != nil {
		return nil, notFound(err, "invoice "+number)
	}
	return &invoice, nil
}

func (s *Store) InvoicePDF(ctx context.Context, number string) (*models.InvoicePDF, error) {
	pdf := models.InvoicePDF{InvoiceNumber: number}
	err := s.db.QueryRowContext(ctx, "SELECT pdf FROM invoices WHERE number = ?", number).Scan(&pdf.PDF)
	if err != nil {
		return nil, notFound(err, "invoice "+number)
	}
	return &pdf, nil
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, category, description, price, recurring_price FROM products ORDER BY category, name")
	if err != nil {
		return nil, queryError(err, "products")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(&product.Name, &product.Category, &product.Description, &product.Price, &product.RecurringPrice); err != nil {
			return nil, queryError(err, "products")
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *Store) ProductElements(ctx context.Context, name string) ([]models.ProductElement, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT 1 FROM products WHERE name = ?", name).Scan(&exists); err != nil {
		return nil, notFound(err, "product "+name)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, amount FROM product_elements WHERE product = ? ORDER BY name", name)
	if err != nil {
		return nil, queryError(err, "product elements")
	}
	defer rows.Close()

	elements := []models.ProductElement{}
	for rows.Next() {
		var element models.ProductElement
		if err := rows.Scan(&element.Name, &element.Description, &element.Amount); err != nil {
			return nil, queryError(err, "product elements")
		}
		elements = append(elements, element)
	}
	return elements, rows.Err()
}

const vpsColumns = "name, description, product_name, operating_system, status, is_locked, availability_zone"

func scanVPS(row interface{ Scan(...any) error }) (models.VPS, error) {
	var vps models.VPS
	err := row.Scan(&vps.Name, &vps.Description, &vps.ProductName, &vps.OperatingSystem,
		&vps.Status, &vps.IsLocked, &vps.AvailabilityZone)
	return vps, err
}

func (s *Store) VPSs(ctx context.Context) ([]models.VPS, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+vpsColumns+" FROM vps ORDER BY name")
	if err != nil {
		return nil, queryError(err, "vps")
	}
	defer rows.Close()

	servers := []models.VPS{}
	for rows.Next() {
		vps, err := scanVPS(rows)
		if err != nil {
			return nil, queryError(err, "vps")
		}
		servers = append(servers, vps)
	}
	return servers, rows.Err()
}

func (s *Store) VPS(ctx context.Context, name string) (*models.VPS, error) {
	vps, err := scanVPS(s.db.QueryRowContext(ctx, "SELECT "+vpsColumns+" FROM vps WHERE name = ?", name))
	if err != nil {
		return nil, notFound(err, "vps "+name)
	}
	return &vps, nil
}

// VPSAction changes the lock flag or power state. A locked vps only accepts unlock.
func (s *Store) VPSAction(ctx context.Context, name string, action models.VPSAction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		vps, err := scanVPS(tx.QueryRowContext(ctx, "SELECT "+vpsColumns+" FROM vps WHERE name = ?", name))
		if err != nil {
			return notFound(err, "vps "+name)
		}

		if vps.IsLocked && action != models.VPSUnlock && action != models.VPSLock {
			return errors.APIErrorf("vps %s is locked", name).
				WithContext("action", string(action)).
				WithSuggestion("Run: vps unlock " + name)
		}

		switch action {
		case models.VPSLock:
			vps.IsLocked = true
		case models.VPSUnlock:
			vps.IsLocked = false
		case models.VPSStart, models.VPSReset:
			vps.Status = models.VPSRunning
		case models.VPSStop:
			vps.Status = models.VPSStopped
		default:
			return errors.ValidationErrorf("unknown vps action %s", action)
		}

		_, err = tx.ExecContext(ctx, "UPDATE vps SET status = ?, is_locked = ? WHERE name = ?",
			vps.Status, vps.IsLocked, name)
		if err != nil {
			return queryError(err, "vps")
		}
		return nil
	})
}

func (s *Store) MailBoxes(ctx context.Context, domain string) ([]models.MailBox, error) {
	if err := s.requireDomain(ctx, s.db, domain); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT local_part, max_disk_usage, forward_to FROM mailboxes WHERE domain = ? ORDER BY local_part", domain)
	if err != nil {
		return nil, queryError(err, "mailboxes")
	}
	defer rows.Close()

	boxes := []models.MailBox{}
	for rows.Next() {
		box := models.MailBox{Domain: domain}
		if err := rows.Scan(&box.LocalPart, &box.MaxDiskUsage, &box.ForwardTo); err != nil {
			return nil, queryError(err, "mailboxes")
		}
		box.Identifier = models.Address(box.LocalPart, domain)
		boxes = append(boxes, box)
	}
	return boxes, rows.Err()
}

func (s *Store) MailBox(ctx context.Context, domain, localPart string) (*models.MailBox, error) {
	box := models.MailBox{Domain: domain, LocalPart: localPart, Identifier: models.Address(localPart, domain)}
	err := s.db.QueryRowContext(ctx,
		"SELECT max_disk_usage, forward_to FROM mailboxes WHERE domain = ? AND local_part = ?", domain, localPart).
		Scan(&box.MaxDiskUsage, &box.ForwardTo)
	if err != nil {
		return nil, notFound(err, "mailbox "+box.Identifier)
	}
	return &box, nil
}

func (s *Store) InsertMailBox(ctx context.Context, domain string, input models.MailBoxInput) error {
	hash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireDomain(ctx, tx, domain); err != nil {
			return err
		}
		if err := requireAbsent(ctx, tx, "mailboxes", domain, input.LocalPart); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO mailboxes (domain, local_part, password_hash, max_disk_usage, forward_to) VALUES (?, ?, ?, ?, ?)",
			domain, input.LocalPart, hash, input.MaxDiskUsage, input.ForwardTo)
		if err != nil {
			return queryError(err, "mailboxes")
		}
		return nil
	})
}

// UpdateMailBox replaces the mailbox localPart. The local part itself may change.
func (s *Store) UpdateMailBox(ctx context.Context, domain, localPart string, input models.MailBoxInput) error {
	hash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if input.LocalPart != localPart {
			if err := requireAbsent(ctx, tx, "mailboxes", domain, input.LocalPart); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE mailboxes SET local_part = ?, password_hash = ?, max_disk_usage = ?, forward_to = ? WHERE domain = ? AND local_part = ?",
			input.LocalPart, hash, input.MaxDiskUsage, input.ForwardTo, domain, localPart)
		if err != nil {
			return queryError(err, "mailboxes")
		}
		return requireAffected(result, "mailbox "+models.Address(localPart, domain))
	})
}

func (s *Store) DeleteMailBox(ctx context.Context, domain, localPart string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM mailboxes WHERE domain = ? AND local_part = ?", domain, localPart)
	if err != nil {
		return queryError(err, "mailboxes")
	}
	return requireAffected(result, "mailbox "+models.Address(localPart, domain))
}

// CheckMailBoxPassword reports whether password opens the mailbox.
func (s *Store) CheckMailBoxPassword(ctx context.Context, domain, localPart, password string) (bool, error) {
	var hash []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT password_hash FROM mailboxes WHERE domain = ? AND local_part = ?", domain, localPart).Scan(&hash)
	if err != nil {
		return false, notFound(err, "mailbox "+models.Address(localPart, domain))
	}

	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		return false, errors.APIErrorWithCause("failed to compare passwords", err)
	}
	return true, nil
}

func (s *Store) MailForwards(ctx context.Context, domain string) ([]models.MailForward, error) {
	if err := s.requireDomain(ctx, s.db, domain); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT local_part, forward_to FROM mail_forwards WHERE domain = ? ORDER BY local_part", domain)
	if err != nil {
		return nil, queryError(err, "mail forwards")
	}
	defer rows.Close()

	forwards := []models.MailForward{}
	for rows.Next() {
		forward := models.MailForward{Domain: domain}
		if err := rows.Scan(&forward.LocalPart, &forward.ForwardTo); err != nil {
			return nil, queryError(err, "mail forwards")
		}
		forward.Identifier = models.Address(forward.LocalPart, domain)
		forwards = append(forwards, forward)
	}
	return forwards, rows.Err()
}

func (s *Store) MailForward(ctx context.Context, domain, localPart string) (*models.MailForward, error) {
	forward := models.MailForward{Domain: domain, LocalPart: localPart, Identifier: models.Address(localPart, domain)}
	err := s.db.QueryRowContext(ctx,
		"SELECT forward_to FROM mail_forwards WHERE domain = ? AND local_part = ?", domain, localPart).
		Scan(&forward.ForwardTo)
	if err != nil {
		return nil, notFound(err, "mail forward "+forward.Identifier)
	}
	return &forward, nil
}

func (s *Store) InsertMailForward(ctx context.Context, domain string, forward models.MailForward) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireDomain(ctx, tx, domain); err != nil {
			return err
		}
		if err := requireAbsent(ctx, tx, "mail_forwards", domain, forward.LocalPart); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO mail_forwards (domain, local_part, forward_to) VALUES (?, ?, ?)",
			domain, forward.LocalPart, forward.ForwardTo)
		if err != nil {
			return queryError(err, "mail forwards")
		}
		return nil
	})
}

func (s *Store) UpdateMailForward(ctx context.Context, domain, localPart string, forward models.MailForward) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if forward.LocalPart != localPart {
			if err := requireAbsent(ctx, tx, "mail_forwards", domain, forward.LocalPart); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE mail_forwards SET local_part = ?, forward_to = ? WHERE domain = ? AND local_part = ?",
			forward.LocalPart, forward.ForwardTo, domain, localPart)
		if err != nil {
			return queryError(err, "mail forwards")
		}
		return requireAffected(result, "mail forward "+models.Address(localPart, domain))
	})
}

func (s *Store) DeleteMailForward(ctx context.Context, domain, localPart string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM mail_forwards WHERE domain = ? AND local_part = ?", domain, localPart)
	if err != nil {
		return queryError(err, "mail forwards")
	}
	return requireAffected(result, "mail forward "+models.Address(localPart, domain))
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) requireDomain(ctx context.Context, q queryer, domain string) error {
	var exists int
	if err := q.QueryRowContext(ctx, "SELECT 1 FROM domains WHERE name = ?", domain).Scan(&exists); err != nil {
		return notFound(err, "domain "+domain)
	}
	return nil
}

// requireAbsent fails when table already holds localPart for domain.
func requireAbsent(ctx context.Context, q queryer, table, domain, localPart string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE domain = ? AND local_part = ?", domain, localPart).Scan(&exists)
	if err == nil {
		return errors.APIErrorf("%s already exists", models.Address(localPart, domain))
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return queryError(err, table)
}

func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.ValidationErrorWithCause("failed to hash password", err)
	}
	return hash, nil
}

func notFound(err error, what string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.APIErrorf("%s not found", what)
	}
	return queryError(err, what)
}

func requireAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return queryError(err, what)
	}
	if affected == 0 {
		return errors.APIErrorf("%s not found", what)
	}
	return nil
}

func queryError(err error, what string) error {
	return errors.APIErrorWithCause("sandbox query failed", err).WithContext("table", what)
}
