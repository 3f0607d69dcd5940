package dto

const (
	EmailTypeContact      = "contact"
	EmailTypeQuoteRequest = "quote_request"
)

type EmailRequest struct {
	Type    string `json:"type" validate:"required,oneof=contact quote_request"`
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=32"`
	Company string `json:"company" validate:"max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
	Service string `json:"service" validate:"max=255"`
}
