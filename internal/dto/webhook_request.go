package dto

type InvoiceWebhookRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}
