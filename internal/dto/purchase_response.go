package dto

type PurchaseItemResponse struct {
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Package     string  `json:"package"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type PurchaseResponse struct {
	ID                int64                  `json:"id"`
	TransactionNumber string                 `json:"transaction_number"`
	InvoiceID         string                 `json:"invoice_id"`
	InvoiceNumber     string                 `json:"invoice_number"`
	PaymentURL        string                 `json:"payment_url"`
	Currency          string                 `json:"currency"`
	Total             float64                `json:"total"`
	Status            string                 `json:"status"`
	PaidAt            *int64                 `json:"paid_at"`
	CreatedAt         int64                  `json:"created_at"`
	Items             []PurchaseItemResponse `json:"items,omitempty"`
}

type CreatePurchaseResponse struct {
	PurchaseResponse
	NotificationsSent bool `json:"notifications_sent"`
}
