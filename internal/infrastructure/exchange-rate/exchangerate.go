package exchangerate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const BaseCurrency = "USD"

const defaultRetryAfter = time.Minute

// SupportedCurrencies lists the currencies a purchase can be invoiced in.
var SupportedCurrencies = []string{"USD", "INR", "EUR", "GBP", "AUD", "CAD"}

// fallbackRates are used until the first successful fetch, or when the
// rates API is unreachable.
var fallbackRates = map[string]float64{
	"USD": 1,
	"INR": 83.1,
	"EUR": 0.92,
	"GBP": 0.79,
	"AUD": 1.52,
	"CAD": 1.36,
}

type Provider struct {
	apiURL     string
	ttl        time.Duration
	retryAfter time.Duration
	httpClient *http.Client

	mu        sync.RWMutex
	rates     map[string]float64
	expiresAt time.Time
	now       func() time.Time
}

func CreateExchangeRateProvider(conf config.ExchangeRateConfig) *Provider {
	ttl := conf.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	retryAfter := defaultRetryAfter
	if retryAfter > ttl {
		retryAfter = ttl
	}

	return &Provider{
		apiURL:     conf.APIURL,
		ttl:        ttl,
		retryAfter: retryAfter,
		httpClient: httpclient.NewClient(5 * time.Second),
		now:        time.Now,
	}
}

func IsSupported(currency string) bool {
	currency = strings.ToUpper(currency)
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// Rate returns how many units of currency one USD buys.
func (p *Provider) Rate(ctx context.Context, currency string) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !IsSupported(currency) {
		return 0, errs.ErrUnsupportedCurrency
	}
	if currency == BaseCurrency {
		return 1, nil
	}

	rates := p.Rates(ctx)
	rate, ok := rates[currency]
	if !ok || rate <= 0 {
		return fallbackRates[currency], nil
	}

	return rate, nil
}

// Rates returns the cached rates for every supported currency, refreshing
// them once the cache is older than the TTL. A failed refresh keeps serving
// the last known (or built-in) rates and is not retried for retryAfter.
func (p *Provider) Rates(ctx context.Context) map[string]float64 {
	p.mu.RLock()
	if p.rates != nil && p.now().Before(p.expiresAt) {
		rates := copyRates(p.rates)
		p.mu.RUnlock()
		return rates
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rates != nil && p.now().Before(p.expiresAt) {
		return copyRates(p.rates)
	}

	rates, err := p.fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "ExchangeRateProvider").Dur("retry_after", p.retryAfter).Msg("using fallback rates")
		if p.rates == nil {
			p.rates = copyRates(fallbackRates)
		}
		p.expiresAt = p.now().Add(p.retryAfter)
		return copyRates(p.rates)
	}

	p.rates = rates
	p.expiresAt = p.now().Add(p.ttl)

	return copyRates(rates)
}

func (p *Provider) fetch(ctx context.Context) (map[string]float64, error) {
	if p.apiURL == "" {
		return nil, fmt.Errorf("exchange rate API URL is not configured")
	}

	statusCode, body, err := httpclient.SendRequest(ctx, p.httpClient, httpclient.HttpRequest{
		URL:     p.apiURL,
		Method:  http.MethodGet,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API returned non-OK status: %d", statusCode)
	}

	ratesJSON := gjson.GetBytes(body, "rates")
	if !ratesJSON.IsObject() {
		return nil, fmt.Errorf("exchange rate API response has no rates")
	}

	rates := make(map[string]float64, len(SupportedCurrencies))
	for _, currency := range SupportedCurrencies {
		if rate := ratesJSON.Get(currency); rate.Exists() && rate.Float() > 0 {
			rates[currency] = rate.Float()
		} else {
			rates[currency] = fallbackRates[currency]
		}
	}
	rates[BaseCurrency] = 1

	return rates, nil
}

func copyRates(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
