package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/observability"
)

// DefaultAPIURL is the OpenWeatherMap current-weather endpoint.
const DefaultAPIURL = "https://api.openweathermap.org/data/2.5/weather"

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 1 << 20

type WeatherClient interface {
	Fetch(ctx context.Context, city string) (models.Reading, error)
}

var (
	ErrMissingCredential = errors.New("missing API credential")
	ErrNetworkFailure    = errors.New("network failure")
	ErrCityNotFound      = errors.New("city not found")
	ErrMalformedResponse = errors.New("malformed response")
)

// OpenWeatherClient issues exactly one GET per Fetch. It keeps no per-call state,
// so a single instance is safe for concurrent use.
type OpenWeatherClient struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
	onBody  func([]byte)
}

// Option customizes an OpenWeatherClient.
type Option func(*OpenWeatherClient)

// WithHTTPClient replaces the underlying http.Client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *OpenWeatherClient) { c.client = hc }
}

// WithBodyHook registers fn to receive the raw body of every successful response
// before extraction. Used by the console's raw preview.
func WithBodyHook(fn func([]byte)) Option {
	return func(c *OpenWeatherClient) { c.onBody = fn }
}

func NewOpenWeatherClient(apiKey, apiURL string, timeout time.Duration, opts ...Option) (*OpenWeatherClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrMissingCredential)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	c := &OpenWeatherClient{
		apiKey:  apiKey,
		apiURL:  apiURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch queries the provider for city and extracts a Reading. The city is sent
// as typed (after trimming); any display casing is the caller's concern.
func (c *OpenWeatherClient) Fetch(ctx context.Context, city string) (models.Reading, error) {
	start := time.Now()

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	city = strings.TrimSpace(city)
	req, err := c.buildRequest(reqCtx, city)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return models.Reading{}, fmt.Errorf("build request: %w", err)
	}

	if corrID := observability.CorrelationIDFromContext(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)

		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return models.Reading{}, fmt.Errorf("%w: request timeout: %w", ErrNetworkFailure, scrubURLError(err))
		}
		return models.Reading{}, fmt.Errorf("%w: %w", ErrNetworkFailure, scrubURLError(err))
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err := handleErrorResponse(resp); err != nil {
		return models.Reading{}, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.Reading{}, fmt.Errorf("%w: read response body: %w", ErrNetworkFailure, err)
	}

	payload, err := decodePayload(body)
	if err != nil {
		return models.Reading{}, err
	}
	if c.onBody != nil {
		c.onBody(body)
	}

	reading, err := Extract(payload)
	if err != nil {
		return models.Reading{}, err
	}
	reading.City = city
	return reading, nil
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, city string) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := baseURL.Query()
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func handleErrorResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrCityNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrNetworkFailure, resp.StatusCode)
	}
	return nil
}

// decodePayload parses body into a generic JSON tree. The top level must be an object.
func decodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedResponse)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}
	return payload, nil
}

// scrubURLError drops the request URL from a *url.Error so the API key in the
// query string never reaches logs or users.
func scrubURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == http.StatusNotFound {
		return "not_found"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
