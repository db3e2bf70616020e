package executor

import (
	"context"
	"fmt"

	"tipctl/internal/command/dns"
	"tipctl/internal/logging"
	"tipctl/internal/models"
)

const (
	acmeChallengeName = "_acme-challenge"
	acmeChallengeTTL  = 60
)

func (e *Executor) executeDNS(ctx context.Context, sub dns.Command) (interface{}, error) {
	switch c := sub.(type) {
	case dns.List:
		return apiCall(e.client.DNSEntries(ctx, c.Domain))
	case dns.AcmeChallengeDelete:
		return nil, e.deleteAcmeChallenges(ctx, c.Domain)
	case dns.AcmeChallengeSet:
		if err := e.deleteAcmeChallenges(ctx, c.Domain); err != nil {
			return nil, err
		}
		entry := models.DNSEntry{
			Name:    acmeChallengeName,
			Expire:  acmeChallengeTTL,
			Type:    string(dns.TXT),
			Content: c.Challenge,
		}
		return nil, apiError(e.client.InsertDNSEntry(ctx, c.Domain, entry))
	case dns.Insert:
		return nil, apiError(e.client.InsertDNSEntry(ctx, c.Domain, toModel(c.Entry)))
	case dns.Delete:
		return nil, apiError(e.client.DeleteDNSEntry(ctx, c.Domain, toModel(c.Entry)))
	default:
		panic(fmt.Sprintf("executor: unhandled dns command %T", sub))
	}
}

// deleteAcmeChallenges removes every _acme-challenge TXT record of domain.
func (e *Executor) deleteAcmeChallenges(ctx context.Context, domain string) error {
	entries, err := e.client.DNSEntries(ctx, domain)
	if err != nil {
		return apiError(err)
	}

	for _, entry := range entries {
		if entry.Name != acmeChallengeName || entry.Type != string(dns.TXT) {
			continue
		}
		logging.FromContext(ctx).Debug("removing acme challenge", "domain", domain, "content", entry.Content)
		if err := e.client.DeleteDNSEntry(ctx, domain, entry); err != nil {
			return apiError(err)
		}
	}
	return nil
}

func toModel(entry dns.Entry) models.DNSEntry {
	return models.DNSEntry{
		Name:    entry.Name,
		Expire:  entry.TTL,
		Type:    string(entry.Type),
		Content: entry.Content,
	}
}
