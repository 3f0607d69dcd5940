package invoicing

import "github.com/mechinweb/mechinweb-service/internal/domain"

type contactPerson struct {
	FirstName        string `json:"first_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	IsPrimaryContact bool   `json:"is_primary_contact"`
}

type contactPayload struct {
	ContactName    string          `json:"contact_name"`
	CompanyName    string          `json:"company_name,omitempty"`
	ContactType    string          `json:"contact_type"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	ContactPersons []contactPerson `json:"contact_persons,omitempty"`
}

type contact struct {
	ContactID   string `json:"contact_id"`
	ContactName string `json:"contact_name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func (c contact) toDomain() domain.Customer {
	return domain.Customer{
		ID:      c.ContactID,
		Name:    c.ContactName,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.CompanyName,
	}
}

type contactResponse struct {
	Contact contact `json:"contact"`
}

type contactListResponse struct {
	Contacts []contact `json:"contacts"`
}

type lineItemPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Rate        float64 `json:"rate"`
	Quantity    int64   `json:"quantity"`
}

type invoicePayload struct {
	CustomerID   string            `json:"customer_id"`
	CurrencyCode string            `json:"currency_code,omitempty"`
	Date         string            `json:"date,omitempty"`
	DueDate      string            `json:"due_date,omitempty"`
	ReferenceNo  string            `json:"reference_number,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	LineItems    []lineItemPayload `json:"line_items"`
}

type invoice struct {
	InvoiceID     string  `json:"invoice_id"`
	InvoiceNumber string  `json:"invoice_number"`
	Status        string  `json:"status"`
	Total         float64 `json:"total"`
	CurrencyCode  string  `json:"currency_code"`
	CustomerID    string  `json:"customer_id"`
	InvoiceURL    string  `json:"invoice_url"`
	Date          string  `json:"date"`
	DueDate       string  `json:"due_date"`
}

func (i invoice) toDomain() domain.InvoiceSummary {
	return domain.InvoiceSummary{
		ID:         i.InvoiceID,
		Number:     i.InvoiceNumber,
		PaymentURL: i.InvoiceURL,
		Total:      i.Total,
		Currency:   i.CurrencyCode,
		Status:     NormalizeStatus(i.Status),
		CustomerID: i.CustomerID,
		Date:       i.Date,
		DueDate:    i.DueDate,
	}
}

type invoiceResponse struct {
	Invoice invoice `json:"invoice"`
}

type invoiceListResponse struct {
	Invoices []invoice `json:"invoices"`
}

// CreateInvoiceRequest describes an invoice to raise for a customer.
type CreateInvoiceRequest struct {
	CustomerID  string
	Currency    string
	ReferenceNo string
	Notes       string
	Date        string
	DueDate     string
	Items       []domain.LineItem
}

// NormalizeStatus folds vendor invoice statuses into purchase statuses.
func NormalizeStatus(status string) string {
	switch status {
	case "", "draft":
		return domain.PurchaseStatusPending
	case "sent", "viewed", "unpaid":
		return domain.PurchaseStatusSent
	default:
		return status
	}
}
