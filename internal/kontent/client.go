package kontent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"kontent-migrator/internal/logger"
)

const (
	DefaultManagementURL = "https://manage.kontent.ai/v2"
	DefaultDeliveryURL   = "https://deliver.kontent.ai"
	DefaultPreviewURL    = "https://preview-deliver.kontent.ai"

	continuationHeader = "x-continuation"
	defaultTimeout     = 30 * time.Second
)

// Options configures a Client for one environment.
type Options struct {
	EnvironmentID string
	// ManagementAPIKey is required for every Management API call.
	ManagementAPIKey string
	// PreviewAPIKey switches item listing to the preview Delivery API.
	PreviewAPIKey string

	// Base URLs, mainly overridden in tests.
	ManagementURL string
	DeliveryURL   string
	PreviewURL    string

	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client talks to one Kontent.ai environment.
type Client struct {
	environmentID string
	managementKey string
	previewKey    string
	managementURL string
	deliveryURL   string
	http          *http.Client
	log           *logger.Logger
}

// New creates a client. Missing URLs, HTTP client and logger get defaults.
func New(opts Options) *Client {
	c := &Client{
		environmentID: opts.EnvironmentID,
		managementKey: opts.ManagementAPIKey,
		previewKey:    opts.PreviewAPIKey,
		managementURL: strings.TrimRight(firstNonEmpty(opts.ManagementURL, DefaultManagementURL), "/"),
		http:          opts.HTTPClient,
		log:           opts.Logger,
	}

	if c.previewKey != "" {
		c.deliveryURL = strings.TrimRight(firstNonEmpty(opts.PreviewURL, DefaultPreviewURL), "/")
	} else {
		c.deliveryURL = strings.TrimRight(firstNonEmpty(opts.DeliveryURL, DefaultDeliveryURL), "/")
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}

	if c.log == nil {
		c.log = logger.Discard()
	}

	return c
}

// EnvironmentID returns the environment the client is bound to.
func (c *Client) EnvironmentID() string {
	return c.environmentID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// request describes one API call.
type request struct {
	method       string
	url          string
	query        any
	body         any
	apiKey       string
	continuation string
}

// managementPath joins path segments under the environment's Management API root.
func (c *Client) managementPath(segments ...string) string {
	escaped := make([]string, 0, len(segments)+2)
	escaped = append(escaped, c.managementURL, "projects", url.PathEscape(c.environmentID))

	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}

	return strings.Join(escaped, "/")
}

func (c *Client) deliveryPath(segments ...string) string {
	escaped := make([]string, 0, len(segments)+2)
	escaped = append(escaped, c.deliveryURL, url.PathEscape(c.environmentID))

	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}

	return strings.Join(escaped, "/")
}

// do sends the request, decodes a 2xx JSON body into out (when non-nil) and
// returns the response headers. Other statuses become *APIError.
func (c *Client) do(ctx context.Context, r request, out any) (http.Header, error) {
	target := r.url

	if r.query != nil {
		values, err := query.Values(r.query)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query: %w", err)
		}

		if encoded := values.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var body io.Reader

	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	if r.continuation != "" {
		req.Header.Set(continuationHeader, r.continuation)
	}

	c.log.WithFields(logger.Fields{"method": r.method, "url": target}).Debug("kontent request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.Header, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode response of %s %s: %w", r.method, target, err)
	}

	return resp.Header, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		// Bodies that are not JSON keep the status text as message.
		if json.Unmarshal(data, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}

	return apiErr
}
