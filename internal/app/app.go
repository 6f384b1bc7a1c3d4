package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/riskibarqy/matchlens/external/analytics"
	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/matchlens/internal/platform/id"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/resilience"
	"github.com/riskibarqy/matchlens/internal/usecase"
	"github.com/riskibarqy/matchlens/internal/view"
)

const shellTitle = "Match Analytics"

func NewAnalyticsClient(cfg config.Config, logger *logging.Logger) *analytics.Client {
	return analytics.NewClient(analytics.ClientConfig{
		BaseURL:      cfg.AnalyticsBaseURL,
		Timeout:      cfg.AnalyticsTimeout,
		RateLimitRPS: cfg.AnalyticsRateLimitRPS,
		MaxBodyBytes: cfg.AnalyticsMaxBodyBytes,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnalyticsCircuitEnabled,
			FailureThreshold: cfg.AnalyticsCircuitFailures,
			OpenTimeout:      cfg.AnalyticsCircuitOpenAfter,
			HalfOpenMaxReq:   cfg.AnalyticsCircuitHalfOpen,
		},
	})
}

// NewPageFactory opens pages that share one analytics client. Caches live
// per page.
func NewPageFactory(cfg config.Config, client usecase.AnalyticsClient, logger *logging.Logger) httpapi.PageFactory {
	ids := idgen.NewRandomGenerator()
	return func(ctx context.Context) (*usecase.Page, error) {
		return usecase.NewPage(ctx, client, usecase.PageConfig{
			SquadSource:     cfg.SquadSource,
			GraphMode:       cfg.GraphMode,
			PrefetchWorkers: cfg.PrefetchWorkers,
			CacheTTL:        cfg.CacheTTL,
			Logger:          logger,
			IDGenerator:     ids,
		})
	}
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	client := NewAnalyticsClient(cfg, logger)
	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		NewPage:        NewPageFactory(cfg, client, logger),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})
	shell := templ.Handler(view.Shell(shellTitle, overview.Fields))
	router := httpapi.NewRouter(handler, shell, logger, cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
