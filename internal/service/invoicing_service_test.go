package service

import (
	"context"
	"testing"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAction_CreateCustomer(t *testing.T) {
	client := newFakeInvoicing()
	s := CreateInvoicingService(client, testConfig())

	res, err := s.HandleAction(context.Background(), dto.InvoicingActionRequest{
		Type:         dto.InvoicingActionCreateCustomer,
		CustomerData: &dto.CustomerData{Name: "Jane", Email: "Jane@Acme.io", Company: "Acme"},
	})
	require.NoError(t, err)

	customer := res.(dto.CustomerResponse)
	assert.True(t, customer.Created)
	assert.Equal(t, "jane@acme.io", customer.Email)

	res, err = s.HandleAction(context.Background(), dto.InvoicingActionRequest{
		Type:         dto.InvoicingActionCreateCustomer,
		CustomerData: &dto.CustomerData{Name: "Jane", Email: "jane@acme.io"},
	})
	require.NoError(t, err)
	assert.False(t, res.(dto.CustomerResponse).Created)
}

func TestHandleAction_FindCustomerFallsBackToName(t *testing.T) {
	client := newFakeInvoicing()
	client.customers = []domain.Customer{{ID: "c-1", Name: "Acme Ltd", Email: "billing@acme.io"}}
	s := CreateInvoicingService(client, testConfig())

	res, err := s.HandleAction(context.Background(), dto.InvoicingActionRequest{
		Type:         dto.InvoicingActionFindCustomer,
		CustomerData: &dto.CustomerData{Name: "Acme Ltd", Email: "jane@acme.io"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", res.(dto.CustomerResponse).ID)

	_, err = s.HandleAction(context.Background(), dto.InvoicingActionRequest{
		Type:         dto.InvoicingActionFindCustomer,
		CustomerData: &dto.CustomerData{Email: "nobody@acme.io"},
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestHandleAction_CreateInvoice(t *testing.T) {
	client := newFakeInvoicing()
	s := CreateInvoicingService(client, testConfig())

	res, err := s.HandleAction(context.Background(), dto.InvoicingActionRequest{
		Type:         dto.InvoicingActionCreateInvoice,
		CustomerData: &dto.CustomerData{Name: "Jane", Email: "jane@acme.io"},
		ServiceItems: []dto.ServiceItem{
			{ServiceName: "Email Migration", PackageType: "standard", Quantity: 3, UnitPrice: 7},
			{ServiceName: "SSL Certificate Setup", PackageType: "basic", Quantity: 1, UnitPrice: 10, TotalPrice: 10},
		},
		Notes: "rush",
	})
	require.NoError(t, err)

	invoice := res.(dto.InvoiceResponse)
	assert.Equal(t, "inv-1", invoice.ID)
	assert.Equal(t, 31.0, invoice.Total)

	require.NotNil(t, client.createdInvoice)
	assert.Equal(t, "USD", client.createdInvoice.Currency)
	assert.Equal(t, 21.0, client.createdInvoice.Items[0].TotalPrice)
	assert.Equal(t, "rush", client.createdInvoice.Notes)
}

func TestHandleAction_ValidationErrors(t *testing.T) {
	s := CreateInvoicingService(newFakeInvoicing(), testConfig())

	testCases := []struct {
		Name     string
		Request  dto.InvoicingActionRequest
		Expected error
	}{
		{Name: "unknown type", Request: dto.InvoicingActionRequest{Type: "delete_invoice"}, Expected: errs.ErrClient},
		{Name: "customer without email", Request: dto.InvoicingActionRequest{Type: dto.InvoicingActionCreateCustomer, CustomerData: &dto.CustomerData{Name: "Jane"}}, Expected: errs.ErrClient},
		{Name: "invoice without items", Request: dto.InvoicingActionRequest{Type: dto.InvoicingActionCreateInvoice, CustomerData: &dto.CustomerData{Name: "Jane", Email: "jane@acme.io"}}, Expected: errs.ErrClient},
		{Name: "invoice with zero quantity", Request: dto.InvoicingActionRequest{Type: dto.InvoicingActionCreateInvoice, CustomerData: &dto.CustomerData{Name: "Jane", Email: "jane@acme.io"}, ServiceItems: []dto.ServiceItem{{ServiceName: "Email Migration", UnitPrice: 4}}}, Expected: errs.ErrInvalidQuantity},
		{Name: "get invoice without id", Request: dto.InvoicingActionRequest{Type: dto.InvoicingActionGetInvoice}, Expected: errs.ErrClient},
		{Name: "email invoice without id", Request: dto.InvoicingActionRequest{Type: dto.InvoicingActionEmailInvoice}, Expected: errs.ErrClient},
		{Name: "list invoices without customer", Request: dto.InvoicingActionRequest{Type: dto.InvoicingActionListInvoices}, Expected: errs.ErrClient},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := s.HandleAction(context.Background(), tc.Request)
			assert.ErrorIs(t, err, tc.Expected)
		})
	}
}

func TestHandleAction_GetAndListInvoices(t *testing.T) {
	client := newFakeInvoicing()
	client.customers = []domain.Customer{{ID: "c-1", Name: "Jane", Email: "jane@acme.io"}}
	client.invoices["inv-9"] = domain.InvoiceSummary{ID: "inv-9", Number: "INV-000009", CustomerID: "c-1", Status: "sent"}
	s := CreateInvoicingService(client, testConfig())

	res, err := s.HandleAction(context.Background(), dto.InvoicingActionRequest{Type: dto.InvoicingActionGetInvoice, InvoiceID: "inv-9"})
	require.NoError(t, err)
	assert.Equal(t, "INV-000009", res.(dto.InvoiceResponse).Number)

	res, err = s.HandleAction(context.Background(), dto.InvoicingActionRequest{
		Type:         dto.InvoicingActionListInvoices,
		CustomerData: &dto.CustomerData{Email: "jane@acme.io"},
	})
	require.NoError(t, err)
	assert.Len(t, res.([]dto.InvoiceResponse), 1)
}

func TestHandleAction_EmailInvoice(t *testing.T) {
	client := newFakeInvoicing()
	client.invoices["inv-3"] = domain.InvoiceSummary{ID: "inv-3", Number: "INV-000003", Status: "draft"}
	s := CreateInvoicingService(client, testConfig())

	res, err := s.HandleAction(context.Background(), dto.InvoicingActionRequest{Type: dto.InvoicingActionEmailInvoice, InvoiceID: " inv-3 "})
	require.NoError(t, err)
	assert.Equal(t, "sent", res.(dto.InvoiceResponse).Status)
	assert.Equal(t, []string{"inv-3"}, client.emailed)

	_, err = s.HandleAction(context.Background(), dto.InvoicingActionRequest{Type: dto.InvoicingActionEmailInvoice, InvoiceID: "missing"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
