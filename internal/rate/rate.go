// Package rate provides the USD to local-currency multiplier shown next to
// every price in the console.
package rate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/shopspring/decimal"
)

var ErrCurrencyMissing = errors.New("currency not present in rate table")

// Rate is local-currency units per USD. The zero value is an unknown rate.
type Rate struct {
	value decimal.Decimal
	known bool
}

func Unknown() Rate { return Rate{} }

func Of(v decimal.Decimal) Rate { return Rate{value: v, known: true} }

func (r Rate) Known() bool            { return r.known }
func (r Rate) Value() decimal.Decimal { return r.value }

// Convert multiplies a USD amount by the rate. ok is false when the rate has
// not been loaded yet.
func (r Rate) Convert(usd decimal.Decimal) (decimal.Decimal, bool) {
	if !r.known {
		return decimal.Zero, false
	}
	return usd.Mul(r.value), true
}

// Format renders the rate with two decimals, or "---" when unknown.
func (r Rate) Format() string {
	if !r.known {
		return Unavailable
	}
	return r.value.StringFixed(2)
}

// Unavailable is what the console shows instead of a local amount.
const Unavailable = "---"

// FormatLocal converts and renders usd, or returns Unavailable.
func (r Rate) FormatLocal(usd decimal.Decimal) string {
	v, ok := r.Convert(usd)
	if !ok {
		return Unavailable
	}
	return v.StringFixed(2)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.known {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

type Source interface {
	Current() Rate
}

// Provider fetches the rate table from an exchangerate-api style endpoint and
// keeps the last good value.
type Provider struct {
	URL        string
	Currency   string
	HTTPClient *http.Client

	mu        sync.RWMutex
	current   Rate
	fetchedAt time.Time
}

func NewProvider(url, currency string, timeout time.Duration) *Provider {
	return &Provider{
		URL:      url,
		Currency: strings.ToUpper(currency),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type rateTable struct {
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// Refresh fetches the table once. On any failure the previous rate stays.
func (p *Provider) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		logger.Error("RateProvider.Refresh: NewRequest failed", err)
		return fmt.Errorf("failed to create rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		logger.Error("RateProvider.Refresh: HTTPClient.Do failed", err)
		return fmt.Errorf("failed to call rate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("RateProvider.Refresh: rate service returned status %d", nil, resp.StatusCode)
		return fmt.Errorf("rate service returned status: %d", resp.StatusCode)
	}

	var table rateTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		logger.Error("RateProvider.Refresh: JSON decode failed", err)
		return fmt.Errorf("failed to decode rate table: %w", err)
	}
	v, ok := table.ConversionRates[p.Currency]
	if !ok || !v.IsPositive() {
		return fmt.Errorf("%w: %s", ErrCurrencyMissing, p.Currency)
	}

	p.mu.Lock()
	p.current = Of(v)
	p.fetchedAt = time.Now()
	p.mu.Unlock()
	logger.Info("Exchange rate USD->%s refreshed: %s", p.Currency, v.StringFixed(2))
	return nil
}

func (p *Provider) Current() Rate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *Provider) FetchedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetchedAt
}

// Fixed is a Source with a constant rate, used by tests and offline runs.
type Fixed Rate

func (f Fixed) Current() Rate { return Rate(f) }
