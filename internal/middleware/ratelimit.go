package middleware

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/response"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ClientIPExtractor returns the connection address unless trusted proxy
// ranges are configured, in which case X-Forwarded-For is honored only for
// hops coming from those ranges.
func ClientIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy range %q: %w", cidr, err)
		}
		options = append(options, echo.TrustIPRange(ipNet))
	}

	return echo.ExtractIPFromXFFHeader(options...), nil
}

// RateLimitByIP allows perMinute requests per client IP with the given burst.
func RateLimitByIP(perMinute int, burst int, extractIP echo.IPExtractor) echo.MiddlewareFunc {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	if extractIP == nil {
		extractIP = echo.ExtractIPDirect()
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return extractIP(c.Request()), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.WriteErrorResponse(c, errs.ErrClient, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			log.Ctx(c.Request().Context()).Warn().Str("component", "RateLimitByIP").Str("ip", identifier).Msg("rate limit exceeded")
			return response.WriteErrorResponse(c, errs.ErrRateLimited, nil)
		},
	})
}
