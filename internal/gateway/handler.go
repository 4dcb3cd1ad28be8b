package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pakbuypro/title-gateway/internal/cleaner"
	"github.com/pakbuypro/title-gateway/internal/logx"
)

// Max request size for POST bodies to protect the server (1MB)
const maxBodyBytes int64 = 1 << 20

// Options tunes the optional protections and the batch endpoint.
type Options struct {
	// APIKey enables auth when non-empty (X-API-Key or Bearer).
	APIKey string
	// RateLimit is the number of requests per RateWindow per client.
	// Zero disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
	// BatchLimit caps the number of titles accepted by /clean/batch.
	BatchLimit int
	// BatchWorkers bounds the concurrent upstream calls of one batch.
	BatchWorkers int
}

type Handler struct {
	svc  *cleaner.Service
	opts Options

	// naive fixed-window rate limiter per client key
	rl struct {
		window    time.Duration
		limit     int
		mu        chan struct{} // lightweight mutex using channel
		buckets   map[string]*rateBucket
		lastSweep time.Time
	}
}

func New(svc *cleaner.Service, opts Options) *Handler {
	if opts.BatchLimit < 1 {
		opts.BatchLimit = 100
	}
	if opts.BatchWorkers < 1 {
		opts.BatchWorkers = 4
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}

	h := &Handler{
		svc:  svc,
		opts: opts,
	}
	h.rl.window = opts.RateWindow
	h.rl.limit = opts.RateLimit
	h.rl.mu = make(chan struct{}, 1)
	h.rl.buckets = make(map[string]*rateBucket)
	return h
}

// rateBucket tracks hits in a fixed window
type rateBucket struct {
	start time.Time
	hits  int
}

// acquireRL returns error if rate limit exceeded
func (h *Handler) acquireRL(key string) error {
	if h.rl.limit <= 0 {
		return nil
	}
	if key == "" {
		key = "anon"
	}
	// lock
	h.rl.mu <- struct{}{}
	defer func() { <-h.rl.mu }()

	now := time.Now()

	// sweep expired buckets at most once per window so the map does not
	// grow with every distinct client ever seen
	if now.Sub(h.rl.lastSweep) >= h.rl.window {
		for k, b := range h.rl.buckets {
			if now.Sub(b.start) >= h.rl.window {
				delete(h.rl.buckets, k)
			}
		}
		h.rl.lastSweep = now
	}

	b, ok := h.rl.buckets[key]
	if !ok || now.Sub(b.start) >= h.rl.window {
		h.rl.buckets[key] = &rateBucket{start: now, hits: 1}
		return nil
	}
	if b.hits >= h.rl.limit {
		return errors.New("rate limit exceeded")
	}
	b.hits++
	return nil
}

// getClientKey picks an identifier for auth/rate limit: API key if present, else IP
func getClientKey(r *http.Request) string {
	// prefer provided API key to segregate limits per token
	if k := r.Header.Get("X-API-Key"); k != "" {
		return "key:" + k
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return "key:" + strings.TrimSpace(auth[7:])
	}
	// fallback to remote addr (strip port)
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return "ip:" + host
}

// checkAuth enforces the API key when one is configured
func (h *Handler) checkAuth(r *http.Request) bool {
	if h.opts.APIKey == "" {
		return true // auth disabled
	}
	if k := r.Header.Get("X-API-Key"); k != "" && k == h.opts.APIKey {
		return true
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		token := strings.TrimSpace(auth[7:])
		return token == h.opts.APIKey
	}
	return false
}

// RegisterHTTP wires the gateway endpoints onto mux.
func (h *Handler) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/clean", h.handleClean)
	mux.HandleFunc("/clean/batch", h.handleBatch)
	mux.HandleFunc("/test", h.handleSamples)
}

type cleanRequest struct {
	RawTitle string `json:"raw_title"`
}

type cleanResponse struct {
	Success      bool    `json:"success"`
	Original     string  `json:"original"`
	CleanedTitle string  `json:"cleaned_title"`
	Method       string  `json:"method"`
	Confidence   float64 `json:"confidence"`
	TimeMs       int64   `json:"time_ms"`
}

type batchRequest struct {
	RawTitles []string `json:"raw_titles"`
}

type batchEntry struct {
	Original     string `json:"original"`
	CleanedTitle string `json:"cleaned_title,omitempty"`
	Method       string `json:"method,omitempty"`
	Error        string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// guard runs the method/auth/rate-limit checks shared by the POST endpoints.
// It reports whether the request may proceed.
func (h *Handler) guard(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if !h.checkAuth(r) {
		w.Header().Set("WWW-Authenticate", "Bearer, X-API-Key")
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if err := h.acquireRL(getClientKey(r)); err != nil {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return false
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported media type")
		return false
	}
	return true
}

// decodeBody parses the JSON body into dst, enforcing the size limit.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) handleClean(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}

	var req cleanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.RawTitle) == "" {
		writeError(w, http.StatusBadRequest, "raw_title is required")
		return
	}

	id := uuid.NewString()
	logx.L(id, "Gateway", "clean request: %.60q", req.RawTitle)

	res, err := h.svc.CleanTitle(r.Context(), id, req.RawTitle)
	if err != nil {
		h.writeCleanError(w, id, err)
		return
	}

	writeJSON(w, http.StatusOK, cleanResponse{
		Success:      true,
		Original:     res.Original,
		CleanedTitle: res.Cleaned,
		Method:       res.Method,
		Confidence:   res.Confidence,
		TimeMs:       res.Elapsed.Milliseconds(),
	})
}

func (h *Handler) writeCleanError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, cleaner.ErrEmptyTitle):
		writeError(w, http.StatusBadRequest, "raw_title is required")
	case errors.Is(err, cleaner.ErrUpstream):
		// do not leak upstream details to clients
		logx.Error("Gateway", "[%s] upstream failure: %v", id, err)
		writeError(w, http.StatusBadGateway, "upstream model unavailable")
	default:
		logx.Error("Gateway", "[%s] clean failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}

	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.RawTitles) == 0 {
		writeError(w, http.StatusBadRequest, "raw_titles is required")
		return
	}
	if len(req.RawTitles) > h.opts.BatchLimit {
		writeError(w, http.StatusBadRequest, "too many titles in one batch")
		return
	}

	id := uuid.NewString()
	logx.L(id, "Gateway", "batch request: %d titles", len(req.RawTitles))

	results := make([]batchEntry, len(req.RawTitles))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.opts.BatchWorkers)
	for i, raw := range req.RawTitles {
		i, raw := i, raw
		g.Go(func() error {
			res, err := h.svc.CleanTitle(ctx, id, raw)
			if err != nil {
				results[i] = batchEntry{Original: raw, Error: batchErrorMessage(err)}
				return nil // per-title failures do not abort the batch
			}
			results[i] = batchEntry{
				Original:     res.Original,
				CleanedTitle: res.Cleaned,
				Method:       res.Method,
			}
			return nil
		})
	}
	_ = g.Wait()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
	})
}

func batchErrorMessage(err error) string {
	switch {
	case errors.Is(err, cleaner.ErrEmptyTitle):
		return "empty title"
	case errors.Is(err, cleaner.ErrUpstream):
		return "upstream model unavailable"
	default:
		return "internal error"
	}
}

// sampleTitles exercises the cleaner against typical noisy listings.
var sampleTitles = []string{
	"Samsung Galaxy A15 8GB/256GB PTA Approved Official Warranty Fast Shipping",
	"iPhone 13 Pro Max 256GB Factory Unlocked Original Apple Warranty Cash on Delivery",
	"HP Pavilion Gaming Laptop i5 11th Gen 8GB RAM 512GB SSD Official Warranty",
	"Xiaomi Redmi Note 12 Pro 5G 8GB+256GB Global Version PTA Approved",
}

func (h *Handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := uuid.NewString()

	type sampleResult struct {
		Original     string `json:"original"`
		AICleaned    string `json:"ai_cleaned"`
		RegexCleaned string `json:"regex_cleaned"`
	}

	results := make([]sampleResult, 0, len(sampleTitles))
	aiOK := true
	for _, title := range sampleTitles {
		sr := sampleResult{Original: title}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		res, err := h.svc.CleanTitle(ctx, id, title)
		cancel()
		if err != nil {
			sr.AICleaned = "AI failed"
			aiOK = false
		} else {
			sr.AICleaned = res.Cleaned
		}

		sr.RegexCleaned = h.svc.CleanOffline(title)
		results = append(results, sr)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"test_results": results,
		"ai_enabled":   aiOK,
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": "title-gateway",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"/health":       "Liveness and cache stats",
			"/health/ready": "Readiness incl. upstream ping",
			"/clean":        "Clean single title (POST)",
			"/clean/batch":  "Clean multiple titles (POST)",
			"/test":         "Run sample titles through both cleaners",
			"/metrics":      "Prometheus text metrics",
		},
	})
}
