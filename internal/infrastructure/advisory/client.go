package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/time/rate"
)

const maxResponseSize = 64 << 10

// hintSchema is the contract of the advisory response body
const hintSchema = `{
	"type": "object",
	"required": ["health_score"],
	"properties": {
		"health_score": {"type": "number", "minimum": 0, "maximum": 100},
		"narrative": {"type": "string", "maxLength": 2000},
		"model": {"type": "string"}
	}
}`

var compiledHintSchema = jsonschema.MustCompileString("health-hint.json", hintSchema)

// Config holds advisory client settings
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client asks an external advisory service for a health-score hint
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
}

// NewClient creates a new advisory client, falling back to defaults for zero values
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// hintRequest is the product summary sent to the advisory service
type hintRequest struct {
	ProductName          string             `json:"product_name"`
	Brand                string             `json:"brand,omitempty"`
	Nutrition            map[string]float64 `json:"nutrition"`
	Ingredients          []string           `json:"ingredients"`
	Additives            []string           `json:"additives"`
	ArtificialSweeteners []string           `json:"artificial_sweeteners"`
	NaturalRatio         float64            `json:"natural_ratio"`
}

type hintResponse struct {
	HealthScore float64 `json:"health_score"`
	Narrative   string  `json:"narrative"`
	Model       string  `json:"model"`
}

// HealthScoreHint implements domain.AdvisoryProvider.
// Every failure is reported as domain.ErrAdvisoryUnavailable.
func (c *Client) HealthScoreHint(ctx context.Context, product *domain.NormalizedProductRecord) (*domain.AdvisoryHint, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: nil product", domain.ErrAdvisoryUnavailable)
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrAdvisoryUnavailable, err)
	}

	body, err := json.Marshal(hintRequest{
		ProductName:          product.ProductName,
		Brand:                product.Brand,
		Nutrition:            product.Nutrition,
		Ingredients:          product.Ingredients,
		Additives:            product.Additives,
		ArtificialSweeteners: product.ArtificialSweeteners,
		NaturalRatio:         product.NaturalRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrAdvisoryUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/health-hint", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrAdvisoryUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAdvisoryUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrAdvisoryUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrAdvisoryUnavailable, resp.StatusCode)
	}

	hint, err := decodeHint(data)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"product":      product.ProductName,
		"health_score": hint.HealthScore,
		"elapsed_ms":   time.Since(start).Milliseconds(),
	}).Debug("advisory hint received")
	return hint, nil
}

// decodeHint validates a response body against the hint schema and converts it
func decodeHint(data []byte) (*domain.AdvisoryHint, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", domain.ErrAdvisoryUnavailable, err)
	}
	if err := compiledHintSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: response does not match schema: %v", domain.ErrAdvisoryUnavailable, err)
	}

	var resp hintResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrAdvisoryUnavailable, err)
	}

	source := "Advisory service"
	if resp.Model != "" {
		source = "Advisory service (" + resp.Model + ")"
	}
	return &domain.AdvisoryHint{
		HealthScore: resp.HealthScore,
		Narrative:   strings.TrimSpace(resp.Narrative),
		Source:      source,
	}, nil
}
