package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJWTToken_RoundTrip(t *testing.T) {
	signed, err := CreateJWTToken(42, "Ada", "01HZX", "secret", "kid-1", time.Hour)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "kid-1", token.Header["kid"])

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user", token)

	userID, externalID := ExtractTokenUser(c)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "01HZX", externalID)
}

func TestExtractTokenUser_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	userID, externalID := ExtractTokenUser(c)
	assert.Zero(t, userID)
	assert.Empty(t, externalID)
}

func TestInvoiceDates(t *testing.T) {
	now := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)

	issued, due := InvoiceDates(now, 7)
	assert.Equal(t, "2026-01-28", issued)
	assert.Equal(t, "2026-02-04", due)

	_, due = InvoiceDates(now, -3)
	assert.Equal(t, "2026-01-28", due)
}

func TestConvertDateTimeToHumanReadableFormat(t *testing.T) {
	ms := time.Date(2026, 2, 4, 9, 30, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "04 February 2026, 09:30 UTC", ConvertDateTimeToHumanReadableFormat(ms))
}
