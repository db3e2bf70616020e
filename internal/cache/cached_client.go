package cache

import (
	"context"

	"tipctl/internal/interfaces"
	"tipctl/internal/models"
)

const (
	keyAvailabilityZones = "zones"
	keyDomains           = "domains"
	keyProducts          = "products"
	keyDNSPrefix         = "dns:"
	keyVPSPrefix         = "vps:"
	keyVPSList           = keyVPSPrefix + "list"
	keyVPSItemPrefix     = keyVPSPrefix + "item:"
)

// CachedClient wraps a hosting client and caches its listing calls.
// Calls it does not override go straight to the wrapped client.
type CachedClient struct {
	interfaces.HostingClient
	cache *ResponseCache
}

// NewCachedClient creates a new cached hosting client
func NewCachedClient(client interfaces.HostingClient, cache *ResponseCache) *CachedClient {
	return &CachedClient{
		HostingClient: client,
		cache:         cache,
	}
}

// AvailabilityZones lists the zones with caching
func (c *CachedClient) AvailabilityZones(ctx context.Context) ([]models.AvailabilityZone, error) {
	return cached(c.cache, keyAvailabilityZones, func() ([]models.AvailabilityZone, error) {
		return c.HostingClient.AvailabilityZones(ctx)
	})
}

// Domains lists the domains with caching
func (c *CachedClient) Domains(ctx context.Context) ([]models.Domain, error) {
	return cached(c.cache, keyDomains, func() ([]models.Domain, error) {
		return c.HostingClient.Domains(ctx)
	})
}

// Products lists the products with caching
func (c *CachedClient) Products(ctx context.Context) ([]models.Product, error) {
	return cached(c.cache, keyProducts, func() ([]models.Product, error) {
		return c.HostingClient.Products(ctx)
	})
}

// DNSEntries lists the zone of a domain with caching
func (c *CachedClient) DNSEntries(ctx context.Context, domain string) ([]models.DNSEntry, error) {
	return cached(c.cache, keyDNSPrefix+domain, func() ([]models.DNSEntry, error) {
		return c.HostingClient.DNSEntries(ctx, domain)
	})
}

// InsertDNSEntry delegates and drops the cached zone of domain
func (c *CachedClient) InsertDNSEntry(ctx context.Context, domain string, entry models.DNSEntry) error {
	defer c.cache.Invalidate(keyDNSPrefix + domain)
	return c.HostingClient.InsertDNSEntry(ctx, domain, entry)
}

// DeleteDNSEntry delegates and drops the cached zone of domain
func (c *CachedClient) DeleteDNSEntry(ctx context.Context, domain string, entry models.DNSEntry) error {
	defer c.cache.Invalidate(keyDNSPrefix + domain)
	return c.HostingClient.DeleteDNSEntry(ctx, domain, entry)
}

// VPSs lists the virtual private servers with caching
func (c *CachedClient) VPSs(ctx context.Context) ([]models.VPS, error) {
	return cached(c.cache, keyVPSList, func() ([]models.VPS, error) {
		return c.HostingClient.VPSs(ctx)
	})
}

// VPS returns one virtual private server with caching
func (c *CachedClient) VPS(ctx context.Context, name string) (*models.VPS, error) {
	key := keyVPSItemPrefix + name
	if value, found := c.cache.Get(key); found {
		if vps, ok := value.(models.VPS); ok {
			return &vps, nil
		}
	}

	vps, err := c.HostingClient.VPS(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, *vps)
	return vps, nil
}

// VPSAction delegates and drops the cached listing and every cached vps
func (c *CachedClient) VPSAction(ctx context.Context, name string, action models.VPSAction) error {
	defer c.cache.InvalidatePrefix(keyVPSPrefix)
	return c.HostingClient.VPSAction(ctx, name, action)
}

// cached returns the cached value for key or stores the result of fetch.
// Failed fetches are not cached. The returned slice is a copy.
func cached[T any](cache *ResponseCache, key string, fetch func() ([]T, error)) ([]T, error) {
	if value, found := cache.Get(key); found {
		if items, ok := value.([]T); ok {
			return append([]T(nil), items...), nil
		}
	}

	items, err := fetch()
	if err != nil {
		return nil, err
	}

	cache.Set(key, append([]T(nil), items...))
	return items, nil
}
