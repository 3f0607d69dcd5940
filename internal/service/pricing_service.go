package service

import (
	"context"
	"strings"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	exchangerate "github.com/mechinweb/mechinweb-service/internal/infrastructure/exchange-rate"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

type PricingServiceImpl struct {
	rates           RateProvider
	defaultCurrency string
}

func CreatePricingService(rates RateProvider, defaultCurrency string) PricingService {
	if defaultCurrency == "" {
		defaultCurrency = exchangerate.BaseCurrency
	}

	return &PricingServiceImpl{
		rates:           rates,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

func (s *PricingServiceImpl) ListServices() []domain.Service {
	return domain.Catalog()
}

func (s *PricingServiceImpl) ListCurrencies(ctx context.Context) []dto.CurrencyResponse {
	rates := s.rates.Rates(ctx)

	res := make([]dto.CurrencyResponse, 0, len(exchangerate.SupportedCurrencies))
	for _, code := range exchangerate.SupportedCurrencies {
		rate, ok := rates[code]
		if !ok {
			var err error
			rate, err = s.rates.Rate(ctx, code)
			if err != nil {
				log.Error().Err(err).Str("component", "ListCurrencies").Str("currency", code).Msg("")
				continue
			}
		}
		res = append(res, dto.CurrencyResponse{Code: code, Rate: rate})
	}

	return res
}

// Quote prices every item in the requested currency. Unit prices are
// converted from USD and rounded to cents before being multiplied out, so
// line totals always equal unit price times quantity.
func (s *PricingServiceImpl) Quote(ctx context.Context, currency string, items []dto.QuoteItemRequest) (quote domain.Quote, err error) {
	if len(items) == 0 {
		return quote, errs.ErrClient
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	rate, err := s.rates.Rate(ctx, currency)
	if err != nil {
		return quote, err
	}

	quote.Currency = currency
	quote.Rate = rate
	quote.Lines = make([]domain.LineItem, 0, len(items))

	var total float64
	for _, item := range items {
		if item.Quantity < 1 {
			return domain.Quote{}, errs.ErrInvalidQuantity
		}

		svc, err := domain.FindService(item.ServiceID)
		if err != nil {
			return domain.Quote{}, err
		}

		pkg, err := svc.Package(item.Package)
		if err != nil {
			return domain.Quote{}, err
		}

		unitPrice := domain.RoundCents(pkg.PriceUSD * rate)
		totalPrice := domain.RoundCents(unitPrice * float64(item.Quantity))
		total += totalPrice

		quote.Lines = append(quote.Lines, domain.LineItem{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			PackageTier: pkg.Tier,
			Description: svc.Description,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  totalPrice,
		})
	}

	quote.Total = domain.RoundCents(total)

	return quote, nil
}
