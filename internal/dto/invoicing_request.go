package dto

const (
	InvoicingActionCreateCustomer = "create_customer"
	InvoicingActionFindCustomer   = "find_customer"
	InvoicingActionCreateInvoice  = "create_invoice"
	InvoicingActionGetInvoice     = "get_invoice"
	InvoicingActionListInvoices   = "list_invoices"
	InvoicingActionEmailInvoice   = "email_invoice"
)

type CustomerData struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

type ServiceItem struct {
	ServiceName string  `json:"serviceName"`
	PackageType string  `json:"packageType"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type InvoicingActionRequest struct {
	Type         string        `json:"type" validate:"required"`
	CustomerData *CustomerData `json:"customerData"`
	ServiceItems []ServiceItem `json:"serviceItems"`
	Currency     string        `json:"currency" validate:"omitempty,len=3"`
	InvoiceID    string        `json:"invoiceId"`
	Notes        string        `json:"notes"`
}

type CustomerResponse struct {
	ID      string `json:"customer_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Created bool   `json:"created"`
}

type InvoiceResponse struct {
	ID         string  `json:"invoice_id"`
	Number     string  `json:"invoice_number"`
	PaymentURL string  `json:"payment_url"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency,omitempty"`
	Status     string  `json:"status"`
	CustomerID string  `json:"customer_id,omitempty"`
	Date       string  `json:"date,omitempty"`
	DueDate    string  `json:"due_date,omitempty"`
}
