package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/metrics"
	"github.com/asdscreen/asd-screening-api/pkg/config"
)

// DefaultRadius is used when the caller omits radius
const DefaultRadius = "5000"

// placeType restricts the search to hospitals
const placeType = "hospital"

// Query is one nearby-hospital search
type Query struct {
	Latitude  string
	Longitude string
	Radius    string
}

func (q Query) location() string {
	return q.Latitude + "," + q.Longitude
}

func (q Query) cacheKey() string {
	return q.location() + ":" + q.Radius
}

// Client proxies nearby-hospital searches to the places provider
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	cache      Cache
	cacheTTL   time.Duration
	monitor    *HealthMonitor
	log        logger.Logger
}

// NewClient creates a places client. cache may be nil.
func NewClient(cfg *config.Config, cache Cache, log logger.Logger) *Client {
	timeout := cfg.PlacesTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		endpoint: cfg.PlacesEndpoint,
		apiKey:   cfg.GoogleAPIKey,
		cache:    cache,
		cacheTTL: cfg.PlacesCacheTTL,
		monitor:  NewHealthMonitor(),
		log:      log,
	}
}

// Monitor returns the upstream health monitor
func (c *Client) Monitor() *HealthMonitor {
	return c.monitor
}

// upstreamError is the subset of a provider error body we surface
type upstreamError struct {
	ErrorMessage string `json:"error_message"`
}

// NearbyHospitals returns the provider's JSON body unchanged. A non-200
// upstream status becomes an UpstreamError carrying that status.
func (c *Client) NearbyHospitals(ctx context.Context, q Query) ([]byte, error) {
	if q.Radius == "" {
		q.Radius = DefaultRadius
	}

	if body, ok := c.fromCache(ctx, q); ok {
		metrics.ObservePlaces(metrics.PlacesResultCacheHit)
		return body, nil
	}

	body, status, err := c.fetch(ctx, q)
	if err != nil {
		c.monitor.RecordFailure(q.location(), 0, err.Error())
		metrics.ObservePlaces(metrics.PlacesResultFailure)
		c.log.Error("places request failed", err, "location", q.location())
		return nil, apperrors.InternalError("Internal server error", err).
			WithDetails(err.Error()).
			WithOperation("NearbyHospitals")
	}

	if status != http.StatusOK {
		var upstream upstreamError
		_ = json.Unmarshal(body, &upstream)
		c.monitor.RecordFailure(q.location(), status, upstream.ErrorMessage)
		metrics.ObservePlaces(metrics.PlacesResultUpstream)
		c.log.Warn("places provider returned error", "status", status, "error_message", upstream.ErrorMessage)
		return nil, apperrors.UpstreamError("Failed to fetch hospitals", status, nil).
			WithDetails(upstream.ErrorMessage).
			WithOperation("NearbyHospitals")
	}

	if !json.Valid(body) {
		err := fmt.Errorf("places provider returned invalid JSON")
		c.monitor.RecordFailure(q.location(), status, err.Error())
		metrics.ObservePlaces(metrics.PlacesResultFailure)
		return nil, apperrors.InternalError("Internal server error", err).
			WithDetails(err.Error()).
			WithOperation("NearbyHospitals")
	}

	c.monitor.RecordSuccess()
	metrics.ObservePlaces(metrics.PlacesResultSuccess)
	c.toCache(ctx, q, body)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, q Query) ([]byte, int, error) {
	params := url.Values{}
	params.Set("location", q.location())
	params.Set("radius", q.Radius)
	params.Set("type", placeType)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", withoutURL(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to perform request: %w", withoutURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// withoutURL drops the request URL, which carries the API key, from
// transport errors.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", strings.ToLower(urlErr.Op), urlErr.Err)
	}
	return err
}

func (c *Client) fromCache(ctx context.Context, q Query) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, q.cacheKey())
	if err != nil {
		c.log.Warn("places cache read failed", "error", err.Error())
		return nil, false
	}
	return body, ok
}

func (c *Client) toCache(ctx context.Context, q Query, body []byte) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.Set(ctx, q.cacheKey(), body, c.cacheTTL); err != nil {
		c.log.Warn("places cache write failed", "error", err.Error())
	}
}

// Close releases idle connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
