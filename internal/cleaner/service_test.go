package cleaner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pakbuypro/title-gateway/internal/cache"
	"github.com/pakbuypro/title-gateway/internal/config"
)

// fakeLLM counts calls and returns a canned reply or error.
type fakeLLM struct {
	reply   string
	chatErr error
	pingErr error
	calls   atomic.Int64
}

func (f *fakeLLM) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeLLM) Chat(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.reply, nil
}

func newTestService(t *testing.T, f *fakeLLM, fallbackEnabled bool) *Service {
	t.Helper()
	rc, err := NewRegexCleaner(config.DefaultPatterns())
	require.NoError(t, err)
	return NewService(f, cache.New(16), rc, fallbackEnabled)
}

func TestService_CleanTitle_AI(t *testing.T) {
	f := &fakeLLM{reply: `"Samsung Galaxy A15 8GB 256GB"`}
	s := newTestService(t, f, false)

	res, err := s.CleanTitle(context.Background(), "t1", "Samsung Galaxy A15 8GB/256GB PTA Approved")
	require.NoError(t, err)
	require.Equal(t, "ai", res.Method)
	require.Equal(t, "Samsung Galaxy A15 8GB 256GB", res.Cleaned)
	require.Equal(t, ConfidenceAI, res.Confidence)
	require.NotEmpty(t, res.Original)
}

func TestService_CleanTitle_EmptyInput(t *testing.T) {
	f := &fakeLLM{reply: "anything"}
	s := newTestService(t, f, false)

	_, err := s.CleanTitle(context.Background(), "t1", "   ")
	require.ErrorIs(t, err, ErrEmptyTitle)
	require.Equal(t, int64(0), f.calls.Load(), "no upstream call for empty input")
}

func TestService_CleanTitle_CacheHitSkipsUpstream(t *testing.T) {
	f := &fakeLLM{reply: "iPhone 13 Pro Max 256GB"}
	s := newTestService(t, f, false)

	_, err := s.CleanTitle(context.Background(), "t1", "iPhone 13 Pro Max 256GB Original Warranty")
	require.NoError(t, err)

	res, err := s.CleanTitle(context.Background(), "t2", "iPhone 13 Pro Max 256GB Original Warranty")
	require.NoError(t, err)
	require.Equal(t, "cache", res.Method)
	require.Equal(t, "iPhone 13 Pro Max 256GB", res.Cleaned)
	require.Equal(t, int64(1), f.calls.Load(), "second request must be served from cache")
}

func TestService_CleanTitle_UpstreamErrorNoFallback(t *testing.T) {
	f := &fakeLLM{chatErr: errors.New("connection refused")}
	s := newTestService(t, f, false)

	_, err := s.CleanTitle(context.Background(), "t1", "Samsung Galaxy A15")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestService_CleanTitle_EmptyModelOutputIsUpstreamError(t *testing.T) {
	f := &fakeLLM{reply: "   \n"}
	s := newTestService(t, f, false)

	_, err := s.CleanTitle(context.Background(), "t1", "Samsung Galaxy A15")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestService_CleanTitle_FallbackOnUpstreamError(t *testing.T) {
	f := &fakeLLM{chatErr: errors.New("rate limited")}
	s := newTestService(t, f, true)

	res, err := s.CleanTitle(context.Background(), "t1", "Samsung Galaxy A15 8GB 256GB PTA Approved Fast Shipping")
	require.NoError(t, err)
	require.Equal(t, "regex", res.Method)
	require.Equal(t, ConfidenceRegex, res.Confidence)
	require.Equal(t, "Samsung Galaxy A15 8GB 256GB", res.Cleaned)
}

func TestService_CleanTitle_FailedAIResultNotCached(t *testing.T) {
	f := &fakeLLM{chatErr: errors.New("boom")}
	s := newTestService(t, f, true)

	_, err := s.CleanTitle(context.Background(), "t1", "Vivo Y27 6GB 128GB")
	require.NoError(t, err)

	// still calls upstream again: regex results must not poison the cache
	_, err = s.CleanTitle(context.Background(), "t2", "Vivo Y27 6GB 128GB")
	require.NoError(t, err)
	require.Equal(t, int64(2), f.calls.Load())
}

func TestService_Ping(t *testing.T) {
	okSvc := newTestService(t, &fakeLLM{}, false)
	require.NoError(t, okSvc.Ping(context.Background()))

	downSvc := newTestService(t, &fakeLLM{pingErr: errors.New("down")}, false)
	require.Error(t, downSvc.Ping(context.Background()))
}

func TestService_CacheStats(t *testing.T) {
	f := &fakeLLM{reply: "Oppo A78 8GB 256GB"}
	s := newTestService(t, f, false)

	_, err := s.CleanTitle(context.Background(), "t1", "Oppo A78 8GB 256GB New Sealed")
	require.NoError(t, err)

	st := s.CacheStats()
	require.Equal(t, 1, st.Size)
	require.Equal(t, uint64(1), st.Misses)
}
