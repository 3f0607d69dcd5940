package invoicing

import (
	"fmt"
	"net/http"

	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/tidwall/gjson"
)

// vendor codes reported when a contact with the same name or email exists
var duplicateCodes = map[int64]struct{}{
	1001: {},
	3062: {},
}

// APIError keeps the vendor status and message while unwrapping to one of
// the errs sentinels so handlers can map it to an HTTP status.
type APIError struct {
	StatusCode int
	Code       int64
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind.Error(), e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func classifyResponse(statusCode int, body []byte) error {
	code := gjson.GetBytes(body, "code")
	if statusCode < http.StatusBadRequest && (!code.Exists() || code.Int() == 0) {
		return nil
	}

	// a 2xx with a non-zero vendor code is still a failed call
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusBadRequest
	}

	message := gjson.GetBytes(body, "message").String()
	if message == "" {
		message = http.StatusText(statusCode)
	}

	apiErr := &APIError{
		StatusCode: statusCode,
		Code:       code.Int(),
		Message:    message,
	}

	_, duplicate := duplicateCodes[apiErr.Code]

	switch {
	case duplicate || statusCode == http.StatusConflict:
		apiErr.kind = errs.ErrConflict
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		apiErr.kind = errs.ErrInvoicingUnauthorized
	case statusCode == http.StatusNotFound:
		apiErr.kind = errs.ErrNotFound
	case statusCode == http.StatusTooManyRequests:
		apiErr.kind = errs.ErrRateLimited
	case statusCode >= http.StatusInternalServerError:
		apiErr.kind = errs.ErrBadGateway
	default:
		apiErr.kind = errs.ErrInvoicingBadRequest
	}

	return apiErr
}
