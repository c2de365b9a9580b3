package usda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foodscore/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 10, client.rateLimiter.Burst())
	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, baseBackoff},
		{1, baseBackoff},
		{2, 2 * baseBackoff},
		{3, 4 * baseBackoff},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exponentialBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

// sequenceServer answers each request with the next status; 200 answers carry one food
func sequenceServer(t *testing.T, statuses ...int) (*httptest.Server, *int) {
	t.Helper()
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[min(attempts, len(statuses)-1)]
		attempts++
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods": [{"fdcId": 2041155, "description": "RAISIN BRAN", "dataType": "Branded"}]}`))
	}))
	t.Cleanup(server.Close)
	return server, &attempts
}

func TestSearchFoods_Request(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/foods/search", r.URL.Path)
		assert.Equal(t, "raisin bran", r.URL.Query().Get("query"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "Survey (FNDDS),Foundation,Branded", r.URL.Query().Get("dataType"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "FoodScore/1.0", r.Header.Get("User-Agent"))

		json.NewEncoder(w).Encode(domain.USDASearchResponse{
			Foods:     []domain.USDAFood{{FdcID: 2041155, Description: "RAISIN BRAN"}},
			TotalHits: 1,
		})
	}))
	defer server.Close()

	result, err := NewClient("test-api-key", server.URL).SearchFoods(context.Background(), "raisin bran")

	require.NoError(t, err)
	require.Len(t, result.Foods, 1)
	assert.Equal(t, 2041155, result.Foods[0].FdcID)
	assert.Equal(t, 1, result.TotalHits)
}

func TestSearchFoods_StatusHandling(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantErr      error
		wantAttempts int
	}{
		{"success", []int{200}, nil, 1},
		{"not found is final", []int{404}, domain.ErrProductNotFound, 1},
		{"client error is not retried", []int{400}, domain.ErrUpstreamFailure, 1},
		{"forbidden is not retried", []int{403}, domain.ErrUpstreamFailure, 1},
		{"server error recovers", []int{500, 502, 200}, nil, 3},
		{"too many requests recovers", []int{429, 200}, nil, 2},
		{"server errors exhaust retries", []int{503}, domain.ErrUpstreamFailure, maxAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, attempts := sequenceServer(t, tt.statuses...)

			result, err := NewClient("test-api-key", server.URL).SearchFoods(context.Background(), "raisin bran")

			if tt.wantErr != nil {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "RAISIN BRAN", result.Foods[0].Description)
			}
			assert.Equal(t, tt.wantAttempts, *attempts)
		})
	}
}

func TestSearchFoods_BadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantMsg string
	}{
		{"invalid json", "invalid json", nil, "failed to decode response"},
		{"no foods", `{"foods": []}`, domain.ErrProductNotFound, ""},
		{"null foods", `{"foods": null}`, domain.ErrProductNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := NewClient("test-api-key", server.URL).SearchFoods(context.Background(), "q")

			assert.Nil(t, result)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSearchFoods_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := NewClient("test-api-key", server.URL).SearchFoods(ctx, "slow")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), baseBackoff, "cancelled searches are not retried")
}

func TestGetFoodDetails(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"success", http.StatusOK, `{"fdcId": 173944, "description": "Bananas, raw", "foodNutrients": [{"nutrientId": 2000, "value": 12.2}]}`, nil},
		{"not found", http.StatusNotFound, "", domain.ErrProductNotFound},
		{"server error", http.StatusInternalServerError, "Internal Server Error", domain.ErrUpstreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/food/173944", r.URL.Path)
				assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			food, err := NewClient("test-api-key", server.URL).GetFoodDetails(context.Background(), "173944")

			if tt.wantErr != nil {
				assert.Nil(t, food)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Bananas, raw", food.Description)
			assert.Equal(t, 12.2, MapToRawProduct(food).Nutrition[domain.NutrientTotalSugars])
		})
	}
}

func TestReadLimitedBody(t *testing.T) {
	body, err := readLimitedBody(strings.NewReader(strings.Repeat("0123456789", 100)), 100)

	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestSearchFoods_ServerErrorThenNotFound(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	result, err := client.SearchFoods(context.Background(), "flaky")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 2, attempts)
}

func TestSearchProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cheerios", r.URL.Query().Get("query"))

		response := domain.USDASearchResponse{
			Foods: []domain.USDAFood{
				{FdcID: 1, Description: "CEREAL, GENERIC", DataType: "Survey (FNDDS)"},
				{
					FdcID:           2,
					Description:     "CHEERIOS",
					DataType:        "Branded",
					BrandOwner:      "General Mills",
					GtinUpc:         "016000275270",
					Ingredients:     "WHOLE GRAIN OATS, CORN STARCH, SUGAR, SALT",
					ServingSize:     28,
					ServingSizeUnit: "g",
					Nutrients: []domain.USDANutrient{
						{NutrientID: NutrientIDSugars, Value: 3.6},
						{NutrientID: NutrientIDFiber, Value: 10.7},
						{NutrientID: NutrientIDSodium, Value: 500},
						{NutrientID: 9999, Value: 1},
					},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.SearchProduct(context.Background(), "cheerios")

	require.NoError(t, err)
	assert.Equal(t, "CHEERIOS", raw.ProductName)
	assert.Equal(t, "General Mills", raw.Brand)
	assert.Equal(t, "016000275270", raw.Barcode)
	assert.Equal(t, SourceName, raw.Source)
	assert.Equal(t, "28 g", raw.ServingSize)
	assert.Equal(t, []string{"WHOLE GRAIN OATS", "CORN STARCH", "SUGAR", "SALT"}, []string(raw.Ingredients))
	assert.Equal(t, map[string]any{
		domain.NutrientTotalSugars:  3.6,
		domain.NutrientDietaryFiber: 10.7,
		domain.NutrientSodium:       500.0,
	}, raw.Nutrition)
}

func TestSearchProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods": []}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	raw, err := client.SearchProduct(context.Background(), "nothing")

	assert.Nil(t, raw)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestNewClientWithOptions(t *testing.T) {
	client := NewClientWithOptions("k", "https://api.example.com", ClientOptions{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
	})

	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 4, client.rateLimiter.Burst())
}

func TestLookupBarcode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods": [
			{"fdcId": 1, "description": "OTHER CEREAL", "gtinUpc": "016000111111"},
			{"fdcId": 2, "description": "CHEERIOS", "gtinUpc": "0016000275270", "brandOwner": "General Mills"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)

	t.Run("matches ignoring leading zeros", func(t *testing.T) {
		raw, err := client.LookupBarcode(context.Background(), "16000275270")

		require.NoError(t, err)
		assert.Equal(t, "CHEERIOS", raw.ProductName)
		assert.Equal(t, "General Mills", raw.Brand)
	})

	t.Run("no matching gtin", func(t *testing.T) {
		raw, err := client.LookupBarcode(context.Background(), "5000000000000")

		assert.Nil(t, raw)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("non-numeric barcode", func(t *testing.T) {
		_, err := client.LookupBarcode(context.Background(), "abc123")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}
