package invoicing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
)

func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (domain.InvoiceSummary, error) {
	if req.CustomerID == "" || len(req.Items) == 0 {
		return domain.InvoiceSummary{}, errs.ErrClient
	}

	payload := invoicePayload{
		CustomerID:   req.CustomerID,
		CurrencyCode: strings.ToUpper(req.Currency),
		Date:         req.Date,
		DueDate:      req.DueDate,
		ReferenceNo:  req.ReferenceNo,
		Notes:        req.Notes,
		LineItems:    make([]lineItemPayload, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		name := item.ServiceName
		if item.PackageTier != "" {
			name = fmt.Sprintf("%s (%s)", item.ServiceName, item.PackageTier)
		}
		payload.LineItems = append(payload.LineItems, lineItemPayload{
			Name:        name,
			Description: item.Description,
			Rate:        item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	var resp invoiceResponse
	if err := c.do(ctx, http.MethodPost, "/invoices", nil, payload, &resp); err != nil {
		return domain.InvoiceSummary{}, err
	}

	return resp.Invoice.toDomain(), nil
}

func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (domain.InvoiceSummary, error) {
	if invoiceID == "" {
		return domain.InvoiceSummary{}, errs.ErrClient
	}

	var resp invoiceResponse
	if err := c.do(ctx, http.MethodGet, "/invoices/"+url.PathEscape(invoiceID), nil, nil, &resp); err != nil {
		return domain.InvoiceSummary{}, err
	}

	return resp.Invoice.toDomain(), nil
}

func (c *Client) ListInvoices(ctx context.Context, customerID string) ([]domain.InvoiceSummary, error) {
	if customerID == "" {
		return nil, errs.ErrClient
	}

	var resp invoiceListResponse
	if err := c.do(ctx, http.MethodGet, "/invoices", url.Values{"customer_id": []string{customerID}}, nil, &resp); err != nil {
		return nil, err
	}

	invoices := make([]domain.InvoiceSummary, 0, len(resp.Invoices))
	for _, inv := range resp.Invoices {
		invoices = append(invoices, inv.toDomain())
	}

	return invoices, nil
}

// EmailInvoice asks the invoicing API to mail the invoice to the customer's
// primary contact.
func (c *Client) EmailInvoice(ctx context.Context, invoiceID string) error {
	if invoiceID == "" {
		return errs.ErrClient
	}

	return c.do(ctx, http.MethodPost, "/invoices/"+url.PathEscape(invoiceID)+"/email", nil, nil, nil)
}
