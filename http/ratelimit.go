package http

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/immodiag"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

var _ immodiag.DomainLimiter = (*MarketplaceLimiter)(nil)

// MarketplaceLimiter throttles listing fetches per marketplace. Hosts are
// reduced to their registrable domain, so www.leboncoin.fr and
// m.leboncoin.fr draw from one token bucket.
type MarketplaceLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter

	// rps applies to marketplaces without an entry in rates. Zero or
	// less means unlimited.
	rps   float64
	rates map[string]float64
}

// LimiterOption configures a MarketplaceLimiter.
type LimiterOption func(*MarketplaceLimiter)

// WithMarketplaceRate sets the rate for one marketplace. The domain is
// reduced with RegistrableDomain, so "www.seloger.com" and "seloger.com"
// name the same marketplace.
func WithMarketplaceRate(domain string, rps float64) LimiterOption {
	return func(l *MarketplaceLimiter) {
		l.rates[RegistrableDomain(domain)] = rps
	}
}

// NewMarketplaceLimiter creates a limiter allowing rps requests per second
// to each marketplace, with a burst of 1.
func NewMarketplaceLimiter(rps float64, opts ...LimiterOption) *MarketplaceLimiter {
	l := &MarketplaceLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rps,
		rates:   make(map[string]float64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until the marketplace serving host may be fetched again.
// Returns an error if the context is canceled before the wait completes.
func (l *MarketplaceLimiter) Wait(ctx context.Context, host string) error {
	return l.bucket(RegistrableDomain(host)).Wait(ctx)
}

func (l *MarketplaceLimiter) bucket(domain string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[domain]; ok {
		return b
	}
	rps, ok := l.rates[domain]
	if !ok {
		rps = l.rps
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	b := rate.NewLimiter(limit, 1)
	l.buckets[domain] = b
	return b
}

// RegistrableDomain returns the public suffix plus one label of host, for
// example "leboncoin.fr" for "www.leboncoin.fr". Ports are dropped. Hosts
// without a registrable domain, such as IP addresses or "localhost", are
// returned lower-cased.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	if net.ParseIP(host) != nil {
		return host
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
