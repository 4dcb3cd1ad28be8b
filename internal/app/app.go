package app

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pakbuypro/title-gateway/internal/cache"
	"github.com/pakbuypro/title-gateway/internal/cleaner"
	"github.com/pakbuypro/title-gateway/internal/config"
	"github.com/pakbuypro/title-gateway/internal/gateway"
	"github.com/pakbuypro/title-gateway/internal/llm"
	"github.com/pakbuypro/title-gateway/internal/logx"
	"github.com/pakbuypro/title-gateway/internal/runtime"
)

type App struct {
	cfg  *config.EnvVars
	svc  *cleaner.Service
	rt   *runtime.Runtime
	http *HTTPServer
}

func New() (*App, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	applyEnvPort(cfg.Port)

	patterns, err := config.LoadPatterns(cfg.PatternsDir)
	if err != nil {
		return nil, err
	}
	fallback, err := cleaner.NewRegexCleaner(patterns)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewFromProvider(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMApiKey, cfg.LLMModel, cfg.LLMTimeout)
	if err != nil {
		return nil, err
	}

	store := cache.New(cfg.CacheSize)
	svc := cleaner.NewService(llmClient, store, fallback, cfg.FallbackEnabled)

	rt := &runtime.Runtime{
		Started:        time.Now(),
		PatternsLoaded: true,
		LLM:            llmClient,
		Cache:          store,
	}

	// Startup ping mirrors the old server's banner: the gateway still serves
	// when the upstream is down, /health just reports ai_available=false.
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := llmClient.Ping(pingCtx); err != nil {
		logx.Warn("App", "upstream %s unreachable at startup: %v", cfg.LLMProvider, err)
	} else {
		rt.AIAvailable = true
		logx.Info("App", "upstream %s connected", cfg.LLMProvider)
	}

	gw := gateway.New(svc, gateway.Options{
		APIKey:       cfg.APIKey,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
		BatchLimit:   cfg.BatchLimit,
		BatchWorkers: cfg.BatchWorkers,
	})

	httpServer := NewHTTPServer(gw, rt, cfg.ReadTimeout, cfg.WriteTimeout)

	return &App{
		cfg:  cfg,
		svc:  svc,
		rt:   rt,
		http: httpServer,
	}, nil
}

// Handler exposes the fully wired HTTP handler, mainly for end-to-end tests.
func (a *App) Handler() http.Handler {
	return a.http.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.http.Start(gctx)
	})

	logx.Info("App", "title-gateway v1.0.0 started (provider=%s, fallback=%v, cache=%d)",
		a.cfg.LLMProvider, a.cfg.FallbackEnabled, a.cfg.CacheSize)

	return g.Wait()
}
