package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pakbuypro/title-gateway/internal/runtime"
)

// StatusHandler reports liveness plus cache and upstream availability.
// It always answers 200 while the process is up.
func StatusHandler(rt *runtime.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := rt.Cache.Stats()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"service":      "title-gateway",
			"ai_available": rt.AIAvailable,
			"cache_size":   stats.Size,
			"cache_hits":   stats.Hits,
			"cache_misses": stats.Misses,
			"uptime":       time.Since(rt.Started).Round(time.Second).String(),
		})
	}
}
