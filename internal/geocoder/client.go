package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"incident-report-api/internal/observability"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Google Geocoding API JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleClient calls the Google Geocoding API.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewGoogleClient creates a geocoding client. An empty baseURL selects DefaultBaseURL.
func NewGoogleClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger zerolog.Logger) *GoogleClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode looks up a free-text address, asking for Japanese results biased to Japan.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (Response, error) {
	params := url.Values{
		"address":  {address},
		"language": {"ja"},
		"region":   {"jp"},
		"key":      {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug().Str("address", address).Msg("calling geocoding api")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Response{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Response{}, fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var geoResp Response
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if geoResp.Status == "" {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Response{}, fmt.Errorf("decode response: missing status")
	}

	switch geoResp.Status {
	case StatusOK:
		c.metrics.GeocodeRequests.WithLabelValues("ok").Inc()
	case StatusZeroResults:
		c.metrics.GeocodeRequests.WithLabelValues("zero_results").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("other").Inc()
	}

	c.logger.Debug().
		Str("address", address).
		Str("status", geoResp.Status).
		Int("results", len(geoResp.Results)).
		Msg("geocoding api responded")

	return geoResp, nil
}
