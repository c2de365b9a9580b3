package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"github.com/foodscore/backend/internal/infrastructure/export"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	nonDigitRegex        = regexp.MustCompile(`\D`)
)

// History listing bounds
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL           time.Duration
	AdvisoryTimeout    time.Duration
	BatchWorkers       int
	EnableDebugLogging bool
}

// AnalysisDeps are the collaborators of the analysis service.
// Advisor and History are optional and may be left nil.
type AnalysisDeps struct {
	Cache    domain.CacheRepository
	Barcodes domain.BarcodeLookup
	Searcher domain.ProductSearcher
	Advisor  domain.AdvisoryProvider
	History  domain.HistoryRepository
}

// AnalysisService runs products through normalize -> score -> explain and handles
// the glue around it: product lookup, caching, advisory hints and history.
type AnalysisService struct {
	normalizer   *Normalizer
	scorer       *ScoringEngine
	explainer    *ExplanationEngine
	preprocessor *QueryPreprocessor

	cache    domain.CacheRepository
	barcodes domain.BarcodeLookup
	searcher domain.ProductSearcher
	advisor  domain.AdvisoryProvider
	history  domain.HistoryRepository

	cacheTTL        time.Duration
	advisoryTimeout time.Duration
	batchWorkers    int

	now   func() time.Time
	newID func() string
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(deps AnalysisDeps, config AnalysisServiceConfig) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour
	}
	advisoryTimeout := config.AdvisoryTimeout
	if advisoryTimeout == 0 {
		advisoryTimeout = 5 * time.Second
	}
	batchWorkers := config.BatchWorkers
	if batchWorkers <= 0 {
		batchWorkers = 4
	}

	return &AnalysisService{
		normalizer:      NewNormalizer(NormalizerConfig{}),
		scorer:          NewScoringEngine(),
		explainer:       NewExplanationEngine(),
		preprocessor:    NewQueryPreprocessor(config.EnableDebugLogging),
		cache:           deps.Cache,
		barcodes:        deps.Barcodes,
		searcher:        deps.Searcher,
		advisor:         deps.Advisor,
		history:         deps.History,
		cacheTTL:        cacheTTL,
		advisoryTimeout: advisoryTimeout,
		batchWorkers:    batchWorkers,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Analyze runs a raw product record through the pipeline and records it in history.
// It always returns an analysis; failures are embedded in the result.
func (s *AnalysisService) Analyze(ctx context.Context, raw *domain.RawProductRecord) *domain.Analysis {
	analysis := s.analyze(ctx, raw)
	s.recordHistory(ctx, analysis)
	return analysis
}

// ScoreNutrition scores bare nutrition facts without ingredients. Nothing is persisted.
func (s *AnalysisService) ScoreNutrition(ctx context.Context, nutrition map[string]any) (*domain.Analysis, error) {
	if len(nutrition) == 0 {
		return nil, fmt.Errorf("%w: nutrition is required", domain.ErrInvalidRequest)
	}
	return s.analyze(ctx, &domain.RawProductRecord{Nutrition: nutrition, Source: "nutrition-only"}), nil
}

// AnalyzeBatch analyzes independent products concurrently, keeping input order
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, raws []*domain.RawProductRecord) ([]*domain.Analysis, error) {
	results := make([]*domain.Analysis, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)
	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Analyze(gctx, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// AnalyzeBarcode looks a barcode up and analyzes the product.
// Flow: check cache -> lookup -> analyze -> cache -> return
func (s *AnalysisService) AnalyzeBarcode(ctx context.Context, barcode string) (*domain.Analysis, error) {
	digits := nonDigitRegex.ReplaceAllString(barcode, "")
	if digits == "" {
		return nil, fmt.Errorf("%w: barcode must contain digits", domain.ErrInvalidRequest)
	}
	if s.barcodes == nil {
		return nil, fmt.Errorf("%w: barcode lookup is not configured", domain.ErrUpstreamFailure)
	}

	cacheKey := "analysis:barcode:" + digits
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	raw, err := s.barcodes.LookupBarcode(ctx, digits)
	if err != nil {
		return nil, err
	}

	analysis := s.Analyze(ctx, raw)
	s.setInCache(ctx, cacheKey, analysis)
	return analysis, nil
}

// AnalyzeByName searches a product by name and analyzes the best hit
func (s *AnalysisService) AnalyzeByName(ctx context.Context, name, brand string) (*domain.Analysis, error) {
	query := s.preprocessor.PreprocessQuery(name, brand)
	if query == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidRequest)
	}
	if s.searcher == nil {
		return nil, fmt.Errorf("%w: product search is not configured", domain.ErrUpstreamFailure)
	}

	cacheKey := "analysis:name:" + normalizeForCacheKey(query)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	raw, err := s.searcher.SearchProduct(ctx, query)
	if err != nil {
		return nil, err
	}

	analysis := s.Analyze(ctx, raw)
	s.setInCache(ctx, cacheKey, analysis)
	return analysis, nil
}

// History lists stored analyses, newest first
func (s *AnalysisService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.history.List(ctx, clampHistoryLimit(limit))
}

// ExportHistory renders stored analyses as an XLSX workbook
func (s *AnalysisService) ExportHistory(ctx context.Context, limit int) ([]byte, error) {
	entries, err := s.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	return export.HistoryXLSX(entries)
}

func (s *AnalysisService) analyze(ctx context.Context, raw *domain.RawProductRecord) *domain.Analysis {
	normalized := s.normalizer.Normalize(raw)
	if normalized.Degraded() {
		log.WithError(normalized.Err).Warn("analyzing degraded product record")
	}
	product := normalized.Record

	score := s.scorer.ScoreWithHint(product, s.advisoryHint(ctx, normalized))
	explanations := s.explainer.Explain(score, product)

	analysis := &domain.Analysis{
		ID:           s.newID(),
		Product:      product,
		Score:        score,
		Explanations: explanations,
		Summary:      Summarize(score, explanations),
		AnalyzedAt:   s.now().UTC(),
	}

	log.WithFields(log.Fields{
		"id":         analysis.ID,
		"product":    product.ProductName,
		"source":     product.Source,
		"score":      score.TotalScore,
		"band":       score.Band,
		"components": len(score.Components),
	}).Info("product analyzed")

	return analysis
}

// advisoryHint asks the optional advisor for a hint. Any failure is logged and
// the hint skipped so the score stays deterministic.
func (s *AnalysisService) advisoryHint(ctx context.Context, normalized domain.NormalizationResult) *domain.AdvisoryHint {
	if s.advisor == nil || normalized.Degraded() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.advisoryTimeout)
	defer cancel()

	hint, err := s.advisor.HealthScoreHint(ctx, normalized.Record)
	if err != nil {
		log.WithError(err).Warn("advisory hint unavailable, scoring without it")
		return nil
	}
	return hint
}

func (s *AnalysisService) recordHistory(ctx context.Context, analysis *domain.Analysis) {
	if s.history == nil {
		return
	}
	if err := s.history.Save(ctx, analysis); err != nil {
		log.WithError(err).WithField("id", analysis.ID).Error("failed to save analysis history")
	}
}

func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.Analysis, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		log.WithError(err).WithField("key", key).Warn("discarding unreadable cache entry")
		return nil, domain.ErrCacheMiss
	}
	analysis.Cached = true
	return &analysis, nil
}

func (s *AnalysisService) setInCache(ctx context.Context, key string, analysis *domain.Analysis) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("failed to encode analysis for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		log.WithError(err).WithField("key", key).Warn("failed to cache analysis")
	}
}

// normalizeForCacheKey lower-cases, strips special characters and collapses whitespace
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
