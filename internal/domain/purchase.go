package domain

const (
	PurchaseStatusPending       = "pending"
	PurchaseStatusSent          = "sent"
	PurchaseStatusPartiallyPaid = "partially_paid"
	PurchaseStatusPaid          = "paid"
	PurchaseStatusOverdue       = "overdue"
	PurchaseStatusVoid          = "void"
)

var knownPurchaseStatuses = map[string]struct{}{
	PurchaseStatusPending:       {},
	PurchaseStatusSent:          {},
	PurchaseStatusPartiallyPaid: {},
	PurchaseStatusPaid:          {},
	PurchaseStatusOverdue:       {},
	PurchaseStatusVoid:          {},
}

// IsKnownPurchaseStatus reports whether status is one the invoicing API can
// move a purchase into.
func IsKnownPurchaseStatus(status string) bool {
	_, ok := knownPurchaseStatuses[status]
	return ok
}

// IsFinalPurchaseStatus reports whether no further sync is needed.
func IsFinalPurchaseStatus(status string) bool {
	return status == PurchaseStatusPaid || status == PurchaseStatusVoid
}

type Purchase struct {
	ID                int64   `db:"id"`
	UserID            int64   `db:"user_id"`
	TransactionNumber string  `db:"transaction_number"`
	InvoiceID         string  `db:"invoice_id"`
	InvoiceNumber     string  `db:"invoice_number"`
	PaymentURL        string  `db:"payment_url"`
	Currency          string  `db:"currency"`
	Total             float64 `db:"total"`
	Status            string  `db:"status"`
	PaidAt            *int64  `db:"paid_at"`
	CreatedAt         int64   `db:"created_at"`
	UpdatedAt         int64   `db:"updated_at"`
	DeletedAt         *int64  `db:"deleted_at"`
	Items             []PurchaseItem
}

type PurchaseItem struct {
	ID          int64   `db:"id"`
	PurchaseID  int64   `db:"purchase_id"`
	ServiceID   string  `db:"service_id"`
	ServiceName string  `db:"service_name"`
	PackageTier string  `db:"package_tier"`
	Quantity    int64   `db:"quantity"`
	UnitPrice   float64 `db:"unit_price"`
	TotalPrice  float64 `db:"total_price"`
	CreatedAt   int64   `db:"created_at"`
	UpdatedAt   int64   `db:"updated_at"`
	DeletedAt   *int64  `db:"deleted_at"`
}
