package billkit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/billkit/billkit-go/config"
	ierr "github.com/billkit/billkit-go/errors"
	"github.com/billkit/billkit-go/internal/httpclient"
	"github.com/billkit/billkit-go/internal/logger"
)

// Client is the root of the BillKit SDK. It owns the configuration
// and the underlying HTTP client, and composes one service per API
// resource. A Client is immutable after construction and safe for
// concurrent use.
//
// Usage:
//
//	client, err := billkit.New("sk_...", "")        // explicit key, default base URL
//	client, err := billkit.NewFromEnv()             // BILLKIT_SECRET_KEY / BILLKIT_BASE_URL
type Client struct {
	cfg        *config.Configuration
	httpClient httpclient.Client
	logger     *logger.Logger

	Invoices  *InvoicesService
	Quotes    *QuotesService
	Templates *TemplatesService
	Users     *UsersService
	Reports   *ReportsService
}

// NewClient creates a Client from an explicit configuration. A nil
// logger falls back to a no-op logger.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, ierr.NewError("configuration is required").
			Mark(ierr.ErrValidation)
	}
	if cfg.APIKey == "" {
		return nil, ierr.NewError("API key required").
			WithHint("Pass an API key to billkit.New or set the BILLKIT_SECRET_KEY environment variable").
			Mark(ierr.ErrValidation)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	c := &Client{
		cfg:        cfg,
		httpClient: httpclient.NewDefaultClient(cfg.Timeout),
		logger:     log,
	}

	c.Invoices = newInvoicesService(c)
	c.Quotes = newQuotesService(c)
	c.Templates = &TemplatesService{client: c}
	c.Users = &UsersService{client: c}
	c.Reports = &ReportsService{client: c}

	return c, nil
}

// New creates a Client from an explicit API key and base URL. Empty
// arguments fall back to the environment-derived defaults.
func New(apiKey, baseURL string) (*Client, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load configuration from the environment").
			Mark(ierr.ErrSystem)
	}

	// Copy so explicit arguments never mutate the shared defaults
	resolved := *cfg
	if apiKey != "" {
		resolved.APIKey = apiKey
	}
	if baseURL != "" {
		resolved.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return NewClient(&resolved, logger.L)
}

// NewFromEnv creates a Client configured entirely from the process
// environment.
func NewFromEnv() (*Client, error) {
	return New("", "")
}

// BaseURL returns the configured API base path.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// endpointURL joins the configured base path with an endpoint.
func (c *Client) endpointURL(endpoint string) string {
	return fmt.Sprintf("%s/%s", c.cfg.BaseURL, strings.TrimLeft(endpoint, "/"))
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
		"Accept":        "application/json",
	}
}

// makeRequest makes a JSON request against the BillKit API and
// decodes the response into response when it is non-nil. Exactly one
// network round trip is issued; there are no retries.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, query map[string]string, body interface{}, response interface{}) error {
	resp, err := c.makeRawRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return err
	}

	if response != nil {
		if err := json.Unmarshal(resp.Body, response); err != nil {
			c.logger.Errorw("failed to unmarshal response", "error", err, "endpoint", endpoint)
			return ierr.WithError(err).
				WithHint("Invalid response from the BillKit API").
				Mark(ierr.ErrHTTPClient)
		}
	}

	return nil
}

// makeRawRequest is makeRequest without response decoding; callers
// that need the raw body (PDF downloads) or response headers use it
// directly.
func (c *Client) makeRawRequest(ctx context.Context, method, endpoint string, query map[string]string, body interface{}) (*httpclient.Response, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			c.logger.Errorw("failed to marshal request body", "error", err, "endpoint", endpoint)
			return nil, ierr.WithError(err).
				WithHint("Invalid request data").
				Mark(ierr.ErrSystem)
		}
	}

	httpReq := &httpclient.Request{
		Method:  method,
		URL:     c.endpointURL(endpoint),
		Query:   query,
		Headers: c.authHeaders(),
		Body:    jsonBody,
	}

	return c.send(ctx, httpReq, method, endpoint)
}

// makeMultipartRequest uploads files as multipart/form-data and
// decodes the response into response when it is non-nil.
func (c *Client) makeMultipartRequest(ctx context.Context, endpoint string, files []httpclient.File, fields map[string]string, response interface{}) error {
	httpReq := &httpclient.Request{
		Method:     "POST",
		URL:        c.endpointURL(endpoint),
		Headers:    c.authHeaders(),
		Files:      files,
		FormFields: fields,
	}

	resp, err := c.send(ctx, httpReq, "POST", endpoint)
	if err != nil {
		return err
	}

	if response != nil {
		if err := json.Unmarshal(resp.Body, response); err != nil {
			c.logger.Errorw("failed to unmarshal response", "error", err, "endpoint", endpoint)
			return ierr.WithError(err).
				WithHint("Invalid response from the BillKit API").
				Mark(ierr.ErrHTTPClient)
		}
	}

	return nil
}

func (c *Client) send(ctx context.Context, httpReq *httpclient.Request, method, endpoint string) (*httpclient.Response, error) {
	resp, err := c.httpClient.Send(ctx, httpReq)
	if err != nil {
		if apiErr, ok := ierr.AsAPIError(err); ok {
			c.logger.Errorw("billkit API returned error",
				"status_code", apiErr.StatusCode,
				"method", method,
				"endpoint", endpoint,
				"response_body", string(apiErr.ResponseBody))
		} else {
			c.logger.Errorw("billkit API request failed",
				"error", err,
				"method", method,
				"endpoint", endpoint)
		}
		return nil, err
	}
	return resp, nil
}
