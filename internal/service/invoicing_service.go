package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/invoicing"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
)

type InvoicingServiceImpl struct {
	client InvoicingClient
	config *config.Config
	now    func() time.Time
}

func CreateInvoicingService(client InvoicingClient, config *config.Config) InvoicingService {
	return &InvoicingServiceImpl{client: client, config: config, now: time.Now}
}

func toCustomerResponse(customer domain.Customer, created bool) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      customer.ID,
		Name:    customer.Name,
		Email:   customer.Email,
		Phone:   customer.Phone,
		Company: customer.Company,
		Created: created,
	}
}

func toInvoiceResponse(invoice domain.InvoiceSummary) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:         invoice.ID,
		Number:     invoice.Number,
		PaymentURL: invoice.PaymentURL,
		Total:      invoice.Total,
		Currency:   invoice.Currency,
		Status:     invoice.Status,
		CustomerID: invoice.CustomerID,
		Date:       invoice.Date,
		DueDate:    invoice.DueDate,
	}
}

func toCustomer(data *dto.CustomerData) domain.Customer {
	return domain.Customer{
		Name:    strings.TrimSpace(data.Name),
		Email:   strings.ToLower(strings.TrimSpace(data.Email)),
		Phone:   strings.TrimSpace(data.Phone),
		Company: strings.TrimSpace(data.Company),
	}
}

func requireCustomer(data *dto.CustomerData) error {
	if data == nil || strings.TrimSpace(data.Name) == "" || strings.TrimSpace(data.Email) == "" {
		return fmt.Errorf("%w: customerData with name and email is required", errs.ErrClient)
	}
	return nil
}

// HandleAction dispatches one invoicing operation by its type.
func (s *InvoicingServiceImpl) HandleAction(ctx context.Context, req dto.InvoicingActionRequest) (res interface{}, err error) {
	switch req.Type {
	case dto.InvoicingActionCreateCustomer:
		return s.createCustomer(ctx, req)
	case dto.InvoicingActionFindCustomer:
		return s.findCustomer(ctx, req)
	case dto.InvoicingActionCreateInvoice:
		return s.createInvoice(ctx, req)
	case dto.InvoicingActionGetInvoice:
		return s.getInvoice(ctx, req)
	case dto.InvoicingActionListInvoices:
		return s.listInvoices(ctx, req)
	case dto.InvoicingActionEmailInvoice:
		return s.emailInvoice(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown invoicing action %q", errs.ErrClient, req.Type)
	}
}

func (s *InvoicingServiceImpl) createCustomer(ctx context.Context, req dto.InvoicingActionRequest) (dto.CustomerResponse, error) {
	if err := requireCustomer(req.CustomerData); err != nil {
		return dto.CustomerResponse{}, err
	}

	customer, created, err := s.client.FindOrCreateCustomer(ctx, toCustomer(req.CustomerData))
	if err != nil {
		return dto.CustomerResponse{}, err
	}

	return toCustomerResponse(customer, created), nil
}

func (s *InvoicingServiceImpl) lookupCustomer(ctx context.Context, data *dto.CustomerData) (domain.Customer, error) {
	if data == nil || (strings.TrimSpace(data.Email) == "" && strings.TrimSpace(data.Name) == "") {
		return domain.Customer{}, fmt.Errorf("%w: customerData with email or name is required", errs.ErrClient)
	}

	query := toCustomer(data)

	if query.Email != "" {
		customer, found, err := s.client.FindCustomerByEmail(ctx, query.Email)
		if err != nil {
			return domain.Customer{}, err
		}
		if found {
			return customer, nil
		}
	}

	if query.Name != "" {
		customer, found, err := s.client.FindCustomerByName(ctx, query.Name)
		if err != nil {
			return domain.Customer{}, err
		}
		if found {
			return customer, nil
		}
	}

	return domain.Customer{}, errs.ErrNotFound
}

func (s *InvoicingServiceImpl) findCustomer(ctx context.Context, req dto.InvoicingActionRequest) (dto.CustomerResponse, error) {
	customer, err := s.lookupCustomer(ctx, req.CustomerData)
	if err != nil {
		return dto.CustomerResponse{}, err
	}

	return toCustomerResponse(customer, false), nil
}

func (s *InvoicingServiceImpl) createInvoice(ctx context.Context, req dto.InvoicingActionRequest) (dto.InvoiceResponse, error) {
	if err := requireCustomer(req.CustomerData); err != nil {
		return dto.InvoiceResponse{}, err
	}

	if len(req.ServiceItems) == 0 {
		return dto.InvoiceResponse{}, fmt.Errorf("%w: at least one service item is required", errs.ErrClient)
	}

	items := make([]domain.LineItem, 0, len(req.ServiceItems))
	for _, item := range req.ServiceItems {
		if strings.TrimSpace(item.ServiceName) == "" || item.UnitPrice < 0 {
			return dto.InvoiceResponse{}, fmt.Errorf("%w: service items need a name and a non-negative unit price", errs.ErrClient)
		}
		if item.Quantity < 1 {
			return dto.InvoiceResponse{}, errs.ErrInvalidQuantity
		}

		total := item.TotalPrice
		if total <= 0 {
			total = item.UnitPrice * float64(item.Quantity)
		}

		items = append(items, domain.LineItem{
			ServiceName: strings.TrimSpace(item.ServiceName),
			PackageTier: strings.TrimSpace(item.PackageType),
			Quantity:    item.Quantity,
			UnitPrice:   domain.RoundCents(item.UnitPrice),
			TotalPrice:  domain.RoundCents(total),
		})
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.config.DefaultCurrencyCode
	}

	customer, _, err := s.client.FindOrCreateCustomer(ctx, toCustomer(req.CustomerData))
	if err != nil {
		return dto.InvoiceResponse{}, err
	}

	issueDate, dueDate := utils.InvoiceDates(s.now(), s.config.InvoicingConfig.PaymentTermsDays)

	invoice, err := s.client.CreateInvoice(ctx, invoicing.CreateInvoiceRequest{
		CustomerID: customer.ID,
		Currency:   currency,
		Notes:      req.Notes,
		Date:       issueDate,
		DueDate:    dueDate,
		Items:      items,
	})
	if err != nil {
		return dto.InvoiceResponse{}, err
	}

	return toInvoiceResponse(invoice), nil
}

func (s *InvoicingServiceImpl) getInvoice(ctx context.Context, req dto.InvoicingActionRequest) (dto.InvoiceResponse, error) {
	if strings.TrimSpace(req.InvoiceID) == "" {
		return dto.InvoiceResponse{}, fmt.Errorf("%w: invoiceId is required", errs.ErrClient)
	}

	invoice, err := s.client.GetInvoice(ctx, strings.TrimSpace(req.InvoiceID))
	if err != nil {
		return dto.InvoiceResponse{}, err
	}

	return toInvoiceResponse(invoice), nil
}

func (s *InvoicingServiceImpl) listInvoices(ctx context.Context, req dto.InvoicingActionRequest) ([]dto.InvoiceResponse, error) {
	customer, err := s.lookupCustomer(ctx, req.CustomerData)
	if err != nil {
		return nil, err
	}

	invoices, err := s.client.ListInvoices(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		res = append(res, toInvoiceResponse(invoice))
	}

	return res, nil
}

// emailInvoice asks the invoicing API to mail the invoice to its customer and
// returns the invoice as it stands afterwards.
func (s *InvoicingServiceImpl) emailInvoice(ctx context.Context, req dto.InvoicingActionRequest) (dto.InvoiceResponse, error) {
	invoiceID := strings.TrimSpace(req.InvoiceID)
	if invoiceID == "" {
		return dto.InvoiceResponse{}, fmt.Errorf("%w: invoiceId is required", errs.ErrClient)
	}

	if err := s.client.EmailInvoice(ctx, invoiceID); err != nil {
		return dto.InvoiceResponse{}, err
	}

	invoice, err := s.client.GetInvoice(ctx, invoiceID)
	if err != nil {
		return dto.InvoiceResponse{}, err
	}

	return toInvoiceResponse(invoice), nil
}
