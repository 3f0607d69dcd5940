package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Logger)
	return e
}

func TestRateLimitByIP(t *testing.T) {
	e := newServer()
	e.POST("/emails", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimitByIP(5, 3, echo.ExtractIPDirect()))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/emails", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("203.0.113.7:40000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7:40001"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2:40000"))
}

func TestRateLimitByIP_IgnoresForwardedHeadersFromClients(t *testing.T) {
	extractIP, err := ClientIPExtractor(nil)
	require.NoError(t, err)

	e := newServer()
	e.POST("/emails", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimitByIP(5, 3, extractIP))

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/emails", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("10.0.1.%d", i))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		}
	}

	assert.Equal(t, 3, accepted)
}

func TestClientIPExtractor_TrustedProxy(t *testing.T) {
	extractIP, err := ClientIPExtractor([]string{"198.51.100.0/24"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/emails", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.9")
	assert.Equal(t, "203.0.113.9", extractIP(req))

	req = httptest.NewRequest(http.MethodPost, "/emails", nil)
	req.RemoteAddr = "203.0.113.7:443"
	req.Header.Set(echo.HeaderXForwardedFor, "10.0.0.1")
	assert.Equal(t, "203.0.113.7", extractIP(req))

	_, err = ClientIPExtractor([]string{"not-a-cidr"})
	assert.Error(t, err)
}

func TestLogger_PropagatesRequestID(t *testing.T) {
	e := newServer()
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestIsLoggedIn(t *testing.T) {
	e := newServer()
	e.GET("/me", func(c echo.Context) error {
		userID, externalID := utils.ExtractTokenUser(c)
		assert.Equal(t, int64(9), userID)
		assert.Equal(t, "01HXUSER", externalID)
		return c.NoContent(http.StatusOK)
	}, IsLoggedIn("secret"))

	token, err := utils.CreateJWTToken(9, "Jane", "01HXUSER", "secret", "test", time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, _ := utils.CreateJWTToken(9, "Jane", "01HXUSER", "other-secret", "test", time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
