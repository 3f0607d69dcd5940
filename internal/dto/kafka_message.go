package dto

const (
	EventUserRegistered  = "user_registered"
	EventPurchaseCreated = "purchase_created"
	EventInvoicePaid     = "invoice_paid"
	EventInvoiceStatus   = "invoice_status_changed"
)

type KafkaMessage struct {
	EventType  string      `json:"event_type"`
	OccurredAt int64       `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type PurchaseEvent struct {
	TransactionNumber string  `json:"transaction_number"`
	UserExternalID    string  `json:"user_external_id"`
	InvoiceID         string  `json:"invoice_id"`
	InvoiceNumber     string  `json:"invoice_number"`
	Currency          string  `json:"currency"`
	Total             float64 `json:"total"`
	Status            string  `json:"status"`
}

type UserEvent struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}
