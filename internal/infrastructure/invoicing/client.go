package invoicing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	organizationHeader = "X-com-zoho-invoice-organizationid"
	DefaultAuthScheme  = "Zoho-oauthtoken"
)

// Client talks to the hosted invoicing API. A single instance is shared by
// every handler so the access token is refreshed once and reused until it
// expires.
type Client struct {
	baseURL        string
	organizationID string
	authScheme     string
	httpClient     *http.Client
	tokenSource    oauth2.TokenSource
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]byte]
}

func CreateInvoicingClient(conf config.InvoicingConfig, cb *gobreaker.CircuitBreaker[[]byte]) *Client {
	httpClient := httpclient.NewClient(conf.Timeout)

	oauthConf := &oauth2.Config{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  conf.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// the token source keeps this context for every later refresh
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	requestsPerMinute := conf.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = 100
	}

	authScheme := conf.AuthScheme
	if authScheme == "" {
		authScheme = DefaultAuthScheme
	}

	return &Client{
		baseURL:        strings.TrimRight(conf.BaseURL, "/"),
		organizationID: conf.OrganizationID,
		authScheme:     authScheme,
		httpClient:     httpClient,
		tokenSource:    oauthConf.TokenSource(tokenCtx, &oauth2.Token{RefreshToken: conf.RefreshToken}),
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 5),
		cb:             cb,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}, out interface{}) error {
	token, err := c.tokenSource.Token()
	if err != nil {
		log.Error().Err(err).Str("component", "InvoicingClient").Msg("failed to refresh access token")
		return fmt.Errorf("%w: %v", errs.ErrInvoicingUnauthorized, err)
	}

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshalling invoicing request: %w", err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrRateLimited, err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	headers := map[string]string{
		"Authorization": fmt.Sprintf("%s %s", c.authScheme, token.AccessToken),
		"Accept":        "application/json",
	}
	if body != nil {
		headers["Content-Type"] = "application/json"
	}
	if c.organizationID != "" {
		headers[organizationHeader] = c.organizationID
	}

	respBody, err := c.cb.Execute(func() ([]byte, error) {
		statusCode, respBody, err := httpclient.SendRequest(ctx, c.httpClient, httpclient.HttpRequest{
			URL:     reqURL,
			Method:  method,
			Body:    body,
			Headers: headers,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrBadGateway, err)
		}

		if apiErr := classifyResponse(statusCode, respBody); apiErr != nil {
			return nil, apiErr
		}

		return respBody, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return errs.ErrCircuitOpen
		}
		log.Error().Err(err).Str("component", "InvoicingClient").Str("method", method).Str("path", path).Msg("")
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: unexpected invoicing response: %v", errs.ErrBadGateway, err)
	}

	return nil
}
