package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"github.com/foodscore/backend/internal/guidelines"
	"github.com/foodscore/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "foodscore-backend"
	serviceVersion = "1.0.0"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultMaxBatchSize = 50
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysisService *usecase.AnalysisService
	guidelines      *guidelines.Set
	maxBatchSize    int
}

// NewHandler creates a new HTTP handler. A nil service makes analysis endpoints answer 503.
func NewHandler(analysisService *usecase.AnalysisService, refs *guidelines.Set, maxBatchSize int) *Handler {
	if refs == nil {
		refs = guidelines.Default()
	}
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	return &Handler{
		analysisService: analysisService,
		guidelines:      refs,
		maxBatchSize:    maxBatchSize,
	}
}

// SearchRequest is the body of a product name search
type SearchRequest struct {
	Name  string `json:"name" binding:"required"`
	Brand string `json:"brand"`
}

// BatchRequest is the body of a batch analysis
type BatchRequest struct {
	Products []*domain.RawProductRecord `json:"products" binding:"required"`
}

// HealthScoreRequest is the body of a nutrition-only scoring request
type HealthScoreRequest struct {
	Nutrition map[string]any `json:"nutrition" binding:"required"`
}

// SummaryResponse is the flattened analysis view plus the guidelines the product falls outside of
type SummaryResponse struct {
	ID          string                 `json:"id"`
	ProductName string                 `json:"product_name"`
	Summary     domain.Summary         `json:"summary"`
	Guidelines  []guidelines.Guideline `json:"guidelines_not_met"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Analyze scores a raw product record supplied by the client.
// ?view=summary returns the flattened summary instead of the full analysis.
func (h *Handler) Analyze(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var raw domain.RawProductRecord
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	analysis := h.analysisService.Analyze(c.Request.Context(), &raw)
	h.respondAnalysis(c, analysis)
}

// AnalyzeBatch scores several raw product records at once, keeping input order
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "products must not be empty"})
		return
	}
	if len(req.Products) > h.maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "too many products in batch, max " + strconv.Itoa(h.maxBatchSize),
		})
		return
	}

	results, err := h.analysisService.AnalyzeBatch(c.Request.Context(), req.Products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// AnalyzeBarcode looks a product up by barcode and scores it
func (h *Handler) AnalyzeBarcode(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	analysis, err := h.analysisService.AnalyzeBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondAnalysis(c, analysis)
}

// SearchProduct looks a product up by name and scores it
func (h *Handler) SearchProduct(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: name is required"})
		return
	}

	analysis, err := h.analysisService.AnalyzeByName(c.Request.Context(), req.Name, req.Brand)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondAnalysis(c, analysis)
}

// HealthScore scores bare nutrition facts
func (h *Handler) HealthScore(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req HealthScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: nutrition is required"})
		return
	}

	analysis, err := h.analysisService.ScoreNutrition(c.Request.Context(), req.Nutrition)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondAnalysis(c, analysis)
}

// History lists recent analyses, newest first
func (h *Handler) History(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	entries, err := h.analysisService.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// ExportHistory returns recent analyses as an XLSX workbook
func (h *Handler) ExportHistory(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	data, err := h.analysisService.ExportHistory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="analysis-history.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Guidelines returns the nutrient reference table
func (h *Handler) Guidelines(c *gin.Context) {
	c.JSON(http.StatusOK, h.guidelines)
}

// Guideline returns the reference value for one nutrient
func (h *Handler) Guideline(c *gin.Context) {
	g, ok := h.guidelines.Lookup(c.Param("nutrient"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no guideline for nutrient " + strconv.Quote(c.Param("nutrient"))})
		return
	}
	c.JSON(http.StatusOK, g)
}

// Rules returns the scoring rule table with the baseline and band cut-offs
func (h *Handler) Rules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"baseline":  usecase.Baseline,
		"min_score": usecase.MinScore,
		"max_score": usecase.MaxScore,
		"bands": []gin.H{
			{"band": domain.BandExcellent, "min_score": 80},
			{"band": domain.BandGood, "min_score": 60},
			{"band": domain.BandModerate, "min_score": 40},
			{"band": domain.BandPoor, "min_score": 0},
		},
		"rules": usecase.Rules(),
	})
}

func (h *Handler) requireService(c *gin.Context) bool {
	if h.analysisService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service not configured"})
		return false
	}
	return true
}

func (h *Handler) respondAnalysis(c *gin.Context, analysis *domain.Analysis) {
	if c.Query("view") == "summary" {
		c.JSON(http.StatusOK, h.summarize(analysis))
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) summarize(analysis *domain.Analysis) SummaryResponse {
	resp := SummaryResponse{
		ID:         analysis.ID,
		Summary:    analysis.Summary,
		Guidelines: []guidelines.Guideline{},
	}
	if analysis.Product == nil {
		return resp
	}

	resp.ProductName = analysis.Product.ProductName
	for _, g := range h.guidelines.Guidelines {
		value, present := analysis.Product.Nutrition[g.Nutrient]
		if present && g.Exceeds(value) {
			resp.Guidelines = append(resp.Guidelines, g)
		}
	}
	return resp
}

// parseLimit reads the optional ?limit= query parameter; 0 means the service default
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return limit, true
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status, message = http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrUpstreamFailure):
		status, message = http.StatusBadGateway, "product source unavailable"
	case errors.Is(err, domain.ErrHistoryDisabled):
		status, message = http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		status, message = 499, "request cancelled"
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}
