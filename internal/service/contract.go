package service

import (
	"context"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/invoicing"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/mailer"
	pkgdto "github.com/mechinweb/mechinweb-service/pkg/dto"
)

type UserService interface {
	AddUser(ctx context.Context, data dto.UserRequest) (res dto.UserResponse, err error)
	Login(ctx context.Context, payload dto.LoginRequest) (respPayload dto.LoginResponse, err error)
	GetUser(ctx context.Context, id int64) (res dto.UserResponse, err error)
	UpdateUser(ctx context.Context, payload dto.UpdateUserRequest) (res dto.UserResponse, err error)
}

type PricingService interface {
	ListServices() []domain.Service
	ListCurrencies(ctx context.Context) []dto.CurrencyResponse
	Quote(ctx context.Context, currency string, items []dto.QuoteItemRequest) (quote domain.Quote, err error)
}

type PurchaseService interface {
	CreatePurchase(ctx context.Context, req dto.PurchaseRequest) (res dto.CreatePurchaseResponse, err error)
	GetPurchases(ctx context.Context, filter pkgdto.Filter) (res pkgdto.PaginationResponse, err error)
	GetPurchase(ctx context.Context, userID int64, id int64) (res dto.PurchaseResponse, err error)
	VerifyWebhookToken(token string) (err error)
	HandleInvoiceWebhook(ctx context.Context, token string, req dto.InvoiceWebhookRequest) (err error)
	SyncInvoiceStatuses(ctx context.Context) (updated int, err error)
}

type InvoicingService interface {
	HandleAction(ctx context.Context, req dto.InvoicingActionRequest) (res interface{}, err error)
}

type EmailService interface {
	SendEnquiry(ctx context.Context, req dto.EmailRequest) (err error)
}

// InvoicingClient is the subset of the invoicing API the services call.
type InvoicingClient interface {
	FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, bool, error)
	FindCustomerByName(ctx context.Context, name string) (domain.Customer, bool, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	FindOrCreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, bool, error)
	CreateInvoice(ctx context.Context, req invoicing.CreateInvoiceRequest) (domain.InvoiceSummary, error)
	GetInvoice(ctx context.Context, invoiceID string) (domain.InvoiceSummary, error)
	ListInvoices(ctx context.Context, customerID string) ([]domain.InvoiceSummary, error)
	EmailInvoice(ctx context.Context, invoiceID string) error
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
	SendAll(ctx context.Context, msgs ...mailer.Message) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, data interface{}) error
}

type RateProvider interface {
	Rate(ctx context.Context, currency string) (float64, error)
	Rates(ctx context.Context) map[string]float64
}
