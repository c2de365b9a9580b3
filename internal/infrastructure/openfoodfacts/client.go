package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Open Food Facts API
const DefaultBaseURL = "https://world.openfoodfacts.org"

const maxErrorBodySize = 512

var nonDigitRegex = regexp.MustCompile(`\D`)

// ClientOptions tunes transport and rate limiting of the client
type ClientOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// Client looks products up in Open Food Facts
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Open Food Facts client, falling back to defaults for zero options
func NewClient(baseURL string, opts ClientOptions) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	// Open Food Facts asks for at most 100 product reads per minute
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 100.0 / 60.0
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "FoodScore/1.0"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     baseURL,
		userAgent:   opts.UserAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
	}
}

// productResponse is the envelope of /api/v0/product/{code}.json
type productResponse struct {
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Product       *Product `json:"product"`
}

// searchResponse is the envelope of /cgi/search.pl
type searchResponse struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

// Product is the subset of an Open Food Facts product the analyzer consumes
type Product struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	Brands          string         `json:"brands"`
	Categories      string         `json:"categories"`
	IngredientsText string         `json:"ingredients_text"`
	ServingSize     string         `json:"serving_size"`
	Nutriments      map[string]any `json:"nutriments"`
}

// LookupBarcode implements domain.BarcodeLookup
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.RawProductRecord, error) {
	digits := nonDigitRegex.ReplaceAllString(barcode, "")
	if digits == "" {
		return nil, fmt.Errorf("%w: invalid barcode format", domain.ErrInvalidRequest)
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, digits)

	var resp productResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if resp.Status != 1 || resp.Product == nil {
		return nil, fmt.Errorf("%w: barcode %s", domain.ErrProductNotFound, digits)
	}

	log.WithFields(log.Fields{"barcode": digits, "product": resp.Product.ProductName}).Debug("openfoodfacts product found")
	if resp.Product.Code == "" {
		resp.Product.Code = digits
	}
	return MapToRawProduct(resp.Product), nil
}

// SearchProduct implements domain.ProductSearcher using the first search hit
func (c *Client) SearchProduct(ctx context.Context, name string) (*domain.RawProductRecord, error) {
	params := url.Values{}
	params.Set("search_terms", name)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", "5")
	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	var resp searchResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Products) == 0 {
		return nil, fmt.Errorf("%w: no products for %q", domain.ErrProductNotFound, name)
	}

	return MapToRawProduct(&resp.Products[0]), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrUpstreamFailure, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}
	return nil
}
