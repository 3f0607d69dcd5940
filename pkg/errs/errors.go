package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer   = http.StatusInternalServerError
	ErrStatusClient           = http.StatusBadRequest
	ErrStatusNotLoggedIn      = http.StatusUnauthorized
	ErrStatusNoPermission     = http.StatusForbidden
	ErrStatusUnauthorized     = http.StatusUnauthorized
	ErrStatusNotFound         = http.StatusNotFound
	ErrStatusEmailAlreadyUsed = http.StatusBadRequest
	ErrStatusConflict         = http.StatusConflict
	ErrStatusBadGateway       = http.StatusBadGateway
	ErrStatusTooManyRequests  = http.StatusTooManyRequests
	ErrStatusUnavailable      = http.StatusServiceUnavailable
)

var (
	ErrInternalServer          = errors.New("Internal server error")
	ErrClient                  = errors.New("Bad request")
	ErrNotLoggedIn             = errors.New("Unauthorized access")
	ErrInvalidCredentialsEmail = errors.New("Email or password is incorrect")
	ErrUnauthorized            = errors.New("Forbidden access")
	ErrNotFound                = errors.New("Resource not found")
	ErrAccountNotFound         = errors.New("Account not found")
	ErrEmailAlreadyUsed        = errors.New("Email has already been used")
	ErrConflict                = errors.New("Conflicting record found")
	ErrInvalidWebhookToken     = errors.New("Invalid webhook token")

	ErrServiceNotFound     = errors.New("Service not found")
	ErrPackageNotFound     = errors.New("Service package not found")
	ErrUnsupportedCurrency = errors.New("Currency is not supported")
	ErrInvalidQuantity     = errors.New("Quantity must be at least 1")

	ErrInvoicingBadRequest   = errors.New("Invoicing service rejected the request")
	ErrInvoicingUnauthorized = errors.New("Invoicing service authentication failed")
	ErrRateLimited           = errors.New("Too many requests, please try again later")
	ErrBadGateway            = errors.New("Upstream service is unavailable")
	ErrCircuitOpen           = errors.New("Upstream service is temporarily disabled")
	ErrEmailDelivery         = errors.New("Failed to deliver email")
)

var errorMap = map[error]int{
	ErrInternalServer:          ErrStatusInternalServer,
	ErrInvalidCredentialsEmail: ErrStatusUnauthorized,
	ErrUnauthorized:            ErrStatusUnauthorized,
	ErrNotLoggedIn:             ErrStatusNotLoggedIn,
	ErrClient:                  ErrStatusClient,
	ErrNotFound:                ErrStatusNotFound,
	ErrEmailAlreadyUsed:        ErrStatusEmailAlreadyUsed,
	ErrConflict:                ErrStatusConflict,
	ErrAccountNotFound:         ErrStatusNotFound,
	ErrInvalidWebhookToken:     ErrStatusUnauthorized,
	ErrServiceNotFound:         ErrStatusNotFound,
	ErrPackageNotFound:         ErrStatusNotFound,
	ErrUnsupportedCurrency:     ErrStatusClient,
	ErrInvalidQuantity:         ErrStatusClient,
	ErrInvoicingBadRequest:     ErrStatusClient,
	ErrInvoicingUnauthorized:   ErrStatusBadGateway,
	ErrRateLimited:             ErrStatusTooManyRequests,
	ErrBadGateway:              ErrStatusBadGateway,
	ErrCircuitOpen:             ErrStatusUnavailable,
	ErrEmailDelivery:           ErrStatusBadGateway,
}

func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	// wrapped errors carry vendor details; resolve them to the sentinel they wrap
	for sentinel, errStatusCode := range errorMap {
		if errors.Is(err, sentinel) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}
