package dto

type PurchaseRequest struct {
	UserID   int64
	Currency string             `json:"currency" validate:"omitempty,len=3"`
	Items    []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	Phone    *string            `json:"phone" validate:"omitempty,max=32"`
	Company  *string            `json:"company" validate:"omitempty,max=255"`
	Notes    string             `json:"notes" validate:"max=1000"`
}
