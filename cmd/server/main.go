package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	texthandler "github.com/apex/log/handlers/text"
	"github.com/foodscore/backend/config"
	httpDelivery "github.com/foodscore/backend/internal/delivery/http"
	"github.com/foodscore/backend/internal/domain"
	"github.com/foodscore/backend/internal/guidelines"
	"github.com/foodscore/backend/internal/infrastructure/advisory"
	"github.com/foodscore/backend/internal/infrastructure/cache"
	"github.com/foodscore/backend/internal/infrastructure/history"
	"github.com/foodscore/backend/internal/infrastructure/openfoodfacts"
	"github.com/foodscore/backend/internal/infrastructure/usda"
	"github.com/foodscore/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	configureLogging(cfg.Log)

	log.WithFields(log.Fields{
		"version":     version,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cache":       cfg.Cache.Type,
	}).Info("starting FoodScore backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := usecase.AnalysisDeps{}

	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCacheWithInterval(cfg.Cache.CleanupInterval)
		defer memoryCache.Close()
		deps.Cache = memoryCache
		log.WithField("ttl", cfg.Cache.TTL).Info("memory cache enabled")
	}

	deps.Barcodes, deps.Searcher = productSources(cfg)

	if cfg.Advisory.Enabled {
		deps.Advisor = advisory.NewClient(advisory.Config{
			BaseURL: cfg.Advisory.BaseURL,
			APIKey:  cfg.Advisory.APIKey,
			Timeout: cfg.Advisory.Timeout,
		})
		log.WithField("base_url", cfg.Advisory.BaseURL).Info("advisory hints enabled")
	}

	if cfg.History.Enabled {
		store, err := history.Open(ctx, cfg.History.Path)
		if err != nil {
			log.WithError(err).WithField("path", cfg.History.Path).Fatal("failed to open history store")
		}
		defer store.Close()
		deps.History = store
		log.WithField("path", cfg.History.Path).Info("analysis history enabled")
	}

	analysisService := usecase.NewAnalysisService(deps, usecase.AnalysisServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		AdvisoryTimeout:    cfg.Advisory.Timeout,
		BatchWorkers:       cfg.Analysis.BatchWorkers,
		EnableDebugLogging: !cfg.IsProduction(),
	})

	handler := httpDelivery.NewHandler(analysisService, guidelines.Default(), cfg.Analysis.MaxBatchSize)

	var limiter *httpDelivery.IPRateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
		go limiter.Run(ctx, time.Minute)
	}

	router := httpDelivery.SetupRouter(cfg, handler, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("server stopped")
}

// configureLogging installs the apex/log handler and level
func configureLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetHandler(jsonhandler.New(os.Stdout))
	} else {
		log.SetHandler(texthandler.New(os.Stdout))
	}
	log.SetLevelFromString(cfg.Level)
}

// productSources builds the barcode and name lookups: USDA first when an API key
// is configured, Open Food Facts as fallback
func productSources(cfg *config.Config) (domain.BarcodeLookup, domain.ProductSearcher) {
	var (
		barcodes usecase.FallbackBarcodeLookup
		searcher usecase.FallbackSearcher
	)

	if cfg.USDA.APIKey != "" {
		usdaClient := usda.NewClientWithOptions(cfg.USDA.APIKey, cfg.USDA.BaseURL, usda.ClientOptions{
			Timeout: cfg.USDA.Timeout,
		})
		usdaClient.SetDebug(cfg.Server.Environment == "development")

		barcodes = append(barcodes, usecase.NamedSource[domain.BarcodeLookup]{Name: usda.SourceName, Source: usdaClient})
		searcher = append(searcher, usecase.NamedSource[domain.ProductSearcher]{Name: usda.SourceName, Source: usdaClient})
		log.WithField("base_url", cfg.USDA.BaseURL).Info("USDA source enabled")
	} else {
		log.Warn("USDA API key not configured, USDA source disabled")
	}

	if cfg.OpenFoodFacts.Enabled {
		offClient := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, openfoodfacts.ClientOptions{
			Timeout:           cfg.OpenFoodFacts.Timeout,
			RequestsPerSecond: float64(cfg.RateLimit.Upstream) / 60,
			UserAgent:         cfg.OpenFoodFacts.UserAgent,
		})

		barcodes = append(barcodes, usecase.NamedSource[domain.BarcodeLookup]{Name: openfoodfacts.SourceName, Source: offClient})
		searcher = append(searcher, usecase.NamedSource[domain.ProductSearcher]{Name: openfoodfacts.SourceName, Source: offClient})
		log.WithField("base_url", cfg.OpenFoodFacts.BaseURL).Info("Open Food Facts source enabled")
	}

	return barcodes, searcher
}
