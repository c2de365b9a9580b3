package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxAttempts      = 3
	maxErrorBodySize = 512
	baseBackoff      = 500 * time.Millisecond
)

// ClientOptions tunes transport and rate limiting of the client
type ClientOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new USDA API client with the default limits
func NewClient(apiKey, baseURL string) *Client {
	return NewClientWithOptions(apiKey, baseURL, ClientOptions{})
}

// NewClientWithOptions creates a new USDA API client, falling back to defaults for zero options
func NewClientWithOptions(apiKey, baseURL string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	// USDA allows 1000 requests per hour, roughly 0.278 per second
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 0.278
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		log.WithField("client", "usda").Debugf(format, args...)
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseBackoff * time.Duration(1<<(attempt-1))
}

// readLimitedBody reads at most limit bytes of a response body
func readLimitedBody(body io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, limit))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "FoodScore/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	return resp, nil
}

// SearchFoods searches for foods in the USDA database.
// Server errors and 429 are retried with exponential backoff; other 4xx are not.
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.debugLog("SearchFoods called with query: %q", query)

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Survey (FNDDS),Foundation,Branded")
	params.Add("pageSize", "10")
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.debugLog("request error (attempt %d): %v", attempt, err)
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := readLimitedBody(resp.Body, maxErrorBodySize)
			resp.Body.Close()
			c.debugLog("API error (attempt %d) - status %d, body: %s", attempt, resp.StatusCode, string(body))

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return nil, domain.ErrProductNotFound
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
				continue
			default:
				return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
			}
		}

		var searchResp domain.USDASearchResponse
		err = json.NewDecoder(resp.Body).Decode(&searchResp)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if len(searchResp.Foods) == 0 {
			c.debugLog("no foods found for query: %q", query)
			return nil, domain.ErrProductNotFound
		}

		c.debugLog("found %d foods for query: %q", len(searchResp.Foods), query)
		return &searchResp, nil
	}

	log.WithError(lastErr).WithField("query", query).Warn("usda search failed after retries")
	return nil, lastErr
}

// GetFoodDetails retrieves detailed nutrition information for a specific food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%s?%s", c.baseURL, url.PathEscape(fdcID), params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := readLimitedBody(resp.Body, maxErrorBodySize)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrUpstreamFailure, resp.StatusCode, string(body))
	}

	var food domain.USDAFood
	if err := json.NewDecoder(resp.Body).Decode(&food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &food, nil
}

// SearchProduct implements domain.ProductSearcher: it searches by name and maps the best hit
func (c *Client) SearchProduct(ctx context.Context, name string) (*domain.RawProductRecord, error) {
	result, err := c.SearchFoods(ctx, name)
	if err != nil {
		return nil, err
	}

	food := BestMatch(result.Foods)
	c.debugLog("best match for %q: %d %q (%s)", name, food.FdcID, food.Description, food.DataType)
	return MapToRawProduct(food), nil
}

// LookupBarcode implements domain.BarcodeLookup by searching for the GTIN/UPC and
// keeping only a branded food whose code matches
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.RawProductRecord, error) {
	digits := strings.TrimLeft(barcode, "0")
	if barcode == "" || strings.Trim(barcode, "0123456789") != "" {
		return nil, domain.ErrInvalidRequest
	}

	result, err := c.SearchFoods(ctx, barcode)
	if err != nil {
		return nil, err
	}

	for i := range result.Foods {
		if strings.TrimLeft(result.Foods[i].GtinUpc, "0") == digits {
			return MapToRawProduct(&result.Foods[i]), nil
		}
	}
	c.debugLog("no food with gtin %q among %d hits", barcode, len(result.Foods))
	return nil, domain.ErrProductNotFound
}
