// Package rdw resolves Dutch license plates against the RDW open-data API
// (opendata.rdw.nl). It queries the relevant datasets concurrently, merges
// them into a single vehicle-fact record, and keeps a short-lived in-memory
// cache per plate. No API key is required.
package rdw

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/autokosten/autokosten-cli/internal/model"
)

const (
	defaultBaseURL  = "https://opendata.rdw.nl"
	defaultCacheTTL = 5 * time.Minute
	defaultRateRPS  = 10
)

// ErrNotFound means the plate does not exist in the base registration
// dataset. Callers should treat this as "no vehicle data", not as a failure.
var ErrNotFound = eris.New("rdw: vehicle not found")

// ErrInvalidPlate means the input cannot be a Dutch license plate.
var ErrInvalidPlate = eris.New("rdw: invalid plate")

// UpstreamError wraps a transport or server failure from one dataset.
type UpstreamError struct {
	Dataset    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return "rdw: dataset " + e.Dataset + ": " + e.Err.Error()
	}
	return "rdw: dataset " + e.Dataset + ": unexpected status"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client looks up vehicle facts by license plate.
type Client interface {
	// Lookup resolves a plate to a merged vehicle-fact record. Returns
	// ErrNotFound when the plate is not registered and ErrInvalidPlate when
	// the input cannot be a plate at all.
	Lookup(ctx context.Context, plate string) (*model.Vehicle, error)

	// ClearCache drops all cached lookups.
	ClearCache()
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the RDW endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.httpClient = hc }
}

// WithRateLimit sets the requests-per-second limit shared by all dataset
// fetches.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCacheTTL sets how long a resolved vehicle stays cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *client) { c.cacheTTL = ttl }
}

// WithClock overrides the time source, for tests exercising cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *client) { c.now = now }
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *lookupCache
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewClient creates a resolver Client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(defaultRateRPS, defaultRateRPS),
		cache:      newLookupCache(),
		cacheTTL:   defaultCacheTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) ClearCache() {
	c.cache.clear()
}
