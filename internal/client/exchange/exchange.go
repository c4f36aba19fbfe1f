// Package exchange fetches the BRL→USD conversion rate and caches it in
// memory for one hour, falling back to a stale cached value when a refresh
// fails.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldenerp/backend/internal/entity"
)

const (
	DefaultBaseURL  = "https://api.exchangerate.host"
	DefaultCacheTTL = time.Hour
)

// Config tunes the adapter. Zero values fall back to the defaults above.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	// Now is the clock used for cache expiry. Defaults to time.Now.
	Now func() time.Time
}

// Adapter is the exchange-rate port implementation. The cached rate and its
// expiry are shared across requests and guarded by a mutex so a rate from
// one fetch is never paired with the expiry of another.
type Adapter struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	cached   decimal.Decimal
	hasCache bool
	expiry   time.Time
}

func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Adapter{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		ttl:        cfg.CacheTTL,
		now:        cfg.Now,
	}
}

// Rate returns the BRL→USD rate. A fresh cached value is returned without a
// fetch; otherwise the rate is fetched, rounded to 6 decimals and cached for
// the TTL. On fetch failure any cached value is returned, even expired; the
// boolean is false only when no rate was ever cached.
func (a *Adapter) Rate(ctx context.Context) (decimal.Decimal, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.hasCache && now.Before(a.expiry) {
		return a.cached, true
	}

	rate, err := a.fetch(ctx)
	if err == nil {
		a.cached = entity.RoundRate(rate)
		a.hasCache = true
		a.expiry = now.Add(a.ttl)
		return a.cached, true
	}

	slog.Error("Failed to fetch exchange rate", "err", err)
	if a.hasCache {
		slog.Warn("Using stale cached exchange rate")
		return a.cached, true
	}

	slog.Warn("Exchange rate unavailable")
	return decimal.Decimal{}, false
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (a *Adapter) fetch(ctx context.Context) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/latest?base=BRL&symbols=USD", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := body.Rates["USD"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate response missing USD")
	}
	return rate, nil
}
