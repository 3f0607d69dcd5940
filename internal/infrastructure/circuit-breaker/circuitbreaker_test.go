package circuitbreaker

import (
	"fmt"
	"testing"

	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_TripsOnUpstreamFailures(t *testing.T) {
	cb := CreateCircuitBreaker("test")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() ([]byte, error) {
			return nil, fmt.Errorf("%w: connection refused", errs.ErrBadGateway)
		})
		assert.ErrorIs(t, err, errs.ErrBadGateway)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() ([]byte, error) { return []byte("ok"), nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	cb := CreateCircuitBreaker("test")

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() ([]byte, error) {
			return nil, errs.ErrInvoicingBadRequest
		})
		assert.ErrorIs(t, err, errs.ErrInvoicingBadRequest)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
