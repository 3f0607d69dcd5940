package dto

type QuoteItemRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	Package   string `json:"package" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

type QuoteRequest struct {
	Currency string             `json:"currency" validate:"omitempty,len=3"`
	Items    []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

type QuoteLineResponse struct {
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Package     string  `json:"package"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type QuoteResponse struct {
	Currency     string              `json:"currency"`
	ExchangeRate float64             `json:"exchange_rate"`
	Items        []QuoteLineResponse `json:"items"`
	Total        float64             `json:"total"`
}

type CurrencyResponse struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}
