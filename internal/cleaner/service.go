package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pakbuypro/title-gateway/internal/cache"
	"github.com/pakbuypro/title-gateway/internal/llm"
	"github.com/pakbuypro/title-gateway/internal/logx"
	"github.com/pakbuypro/title-gateway/internal/metrics"
)

var (
	// ErrEmptyTitle marks invalid input; handlers map it to a client error.
	ErrEmptyTitle = errors.New("cleaner: empty title")
	// ErrUpstream marks a failed or unusable model response; handlers map it
	// to a server error when no fallback is available.
	ErrUpstream = errors.New("cleaner: upstream failure")
)

// Confidence values carried over from the hybrid server this replaces.
const (
	ConfidenceAI    = 0.95
	ConfidenceRegex = 0.75
)

// Result is the outcome of one clean operation.
type Result struct {
	Original   string
	Cleaned    string
	Method     string // ai | cache | regex
	Confidence float64
	Elapsed    time.Duration
}

// Service runs the clean pipeline: cache lookup, model call, sanitize,
// regex fallback when enabled.
type Service struct {
	llm      llm.Client
	cache    *cache.LRU
	fallback *RegexCleaner

	// FallbackEnabled switches upstream failures from errors to regex results.
	FallbackEnabled bool
}

func NewService(client llm.Client, store *cache.LRU, fallback *RegexCleaner, fallbackEnabled bool) *Service {
	return &Service{
		llm:             client,
		cache:           store,
		fallback:        fallback,
		FallbackEnabled: fallbackEnabled,
	}
}

// CleanTitle cleans one raw title. id is the request id used for tracing.
func (s *Service) CleanTitle(ctx context.Context, id, rawTitle string) (Result, error) {
	start := time.Now()

	raw := strings.TrimSpace(rawTitle)
	if raw == "" {
		return Result{}, ErrEmptyTitle
	}

	if cleaned, ok := s.cache.Get(raw); ok {
		logx.L(id, "Cleaner", "cache hit for %q", truncate(raw, 50))
		metrics.CleanRequests.Inc(map[string]string{"method": "cache", "outcome": "ok"})
		return Result{
			Original:   raw,
			Cleaned:    cleaned,
			Method:     "cache",
			Confidence: ConfidenceAI,
			Elapsed:    time.Since(start),
		}, nil
	}

	cleaned, err := s.cleanWithAI(ctx, raw)
	if err == nil {
		s.cache.Put(raw, cleaned)
		logx.L(id, "Cleaner", "ai cleaned %q -> %q", truncate(raw, 50), cleaned)
		metrics.CleanRequests.Inc(map[string]string{"method": "ai", "outcome": "ok"})
		return Result{
			Original:   raw,
			Cleaned:    cleaned,
			Method:     "ai",
			Confidence: ConfidenceAI,
			Elapsed:    time.Since(start),
		}, nil
	}

	if !s.FallbackEnabled {
		logx.L(id, "Cleaner", "ai failed: %v", err)
		metrics.CleanRequests.Inc(map[string]string{"method": "ai", "outcome": "error"})
		return Result{}, err
	}

	logx.L(id, "Cleaner", "ai failed (%v), using regex fallback", err)
	fallback := s.fallback.Clean(raw)
	metrics.CleanRequests.Inc(map[string]string{"method": "regex", "outcome": "ok"})
	return Result{
		Original:   raw,
		Cleaned:    fallback,
		Method:     "regex",
		Confidence: ConfidenceRegex,
		Elapsed:    time.Since(start),
	}, nil
}

// CleanOffline runs only the regex cleaner. Used by the sample endpoint.
func (s *Service) CleanOffline(rawTitle string) string {
	return s.fallback.Clean(strings.TrimSpace(rawTitle))
}

func (s *Service) cleanWithAI(ctx context.Context, raw string) (string, error) {
	reply, err := s.llm.Chat(ctx, llm.BuildCleanPrompt(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	cleaned := llm.SanitizeReply(reply)
	if cleaned == "" {
		return "", fmt.Errorf("%w: model returned empty output", ErrUpstream)
	}
	return cleaned, nil
}

// Ping reports whether the upstream model is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.llm.Ping(ctx)
}

// CacheStats exposes cache counters for the health endpoint.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
