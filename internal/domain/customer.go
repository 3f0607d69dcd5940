package domain

// Customer is the contact record kept in the invoicing API.
type Customer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Company string
}

// LineItem is a priced service line on an invoice.
type LineItem struct {
	ServiceID   string
	ServiceName string
	PackageTier string
	Description string
	Quantity    int64
	UnitPrice   float64
	TotalPrice  float64
}

// InvoiceSummary is the subset of an invoice returned to callers.
type InvoiceSummary struct {
	ID         string
	Number     string
	PaymentURL string
	Total      float64
	Currency   string
	Status     string
	CustomerID string
	Date       string
	DueDate    string
}
