package invoicing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (domain.Customer, bool, error) {
	return c.findCustomer(ctx, url.Values{"email": []string{strings.TrimSpace(email)}}, func(ct contact) bool {
		return strings.EqualFold(ct.Email, strings.TrimSpace(email))
	})
}

func (c *Client) FindCustomerByName(ctx context.Context, name string) (domain.Customer, bool, error) {
	return c.findCustomer(ctx, url.Values{"contact_name": []string{strings.TrimSpace(name)}}, func(ct contact) bool {
		return strings.EqualFold(ct.ContactName, strings.TrimSpace(name))
	})
}

func (c *Client) findCustomer(ctx context.Context, query url.Values, match func(contact) bool) (domain.Customer, bool, error) {
	var resp contactListResponse
	if err := c.do(ctx, http.MethodGet, "/contacts", query, nil, &resp); err != nil {
		return domain.Customer{}, false, err
	}

	for _, ct := range resp.Contacts {
		if match(ct) {
			return ct.toDomain(), true, nil
		}
	}

	return domain.Customer{}, false, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	payload := contactPayload{
		ContactName: customer.Name,
		CompanyName: customer.Company,
		ContactType: "customer",
		Email:       customer.Email,
		Phone:       customer.Phone,
		ContactPersons: []contactPerson{
			{
				FirstName:        customer.Name,
				Email:            customer.Email,
				Phone:            customer.Phone,
				IsPrimaryContact: true,
			},
		},
	}

	var resp contactResponse
	if err := c.do(ctx, http.MethodPost, "/contacts", nil, payload, &resp); err != nil {
		return domain.Customer{}, err
	}

	created := resp.Contact.toDomain()
	if created.Email == "" {
		created.Email = customer.Email
	}

	return created, nil
}

// FindOrCreateCustomer returns the existing contact for the customer's email,
// creating it when absent. A creation conflict means another request won the
// race or a contact with the same name exists, so the lookup is repeated by
// email and then by name before giving up.
func (c *Client) FindOrCreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, bool, error) {
	existing, found, err := c.FindCustomerByEmail(ctx, customer.Email)
	if err != nil {
		return domain.Customer{}, false, err
	}
	if found {
		return existing, false, nil
	}

	created, err := c.CreateCustomer(ctx, customer)
	if err == nil {
		return created, true, nil
	}

	if !errors.Is(err, errs.ErrConflict) {
		return domain.Customer{}, false, err
	}

	log.Info().Str("component", "FindOrCreateCustomer").Str("email", customer.Email).Msg("contact already exists, searching again")

	existing, found, err = c.FindCustomerByEmail(ctx, customer.Email)
	if err != nil {
		return domain.Customer{}, false, err
	}
	if found {
		return existing, false, nil
	}

	existing, found, err = c.FindCustomerByName(ctx, customer.Name)
	if err != nil {
		return domain.Customer{}, false, err
	}
	if found {
		return existing, false, nil
	}

	return domain.Customer{}, false, errs.ErrConflict
}
