package health

import (
	"net/http"

	"github.com/pakbuypro/title-gateway/internal/runtime"
)

// ReadyHandler answers 503 until the fallback patterns are loaded and the
// upstream model responds to a ping.
func ReadyHandler(rt *runtime.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rt.PatternsLoaded {
			http.Error(w, "patterns not loaded", http.StatusServiceUnavailable)
			return
		}

		if err := rt.LLM.Ping(r.Context()); err != nil {
			http.Error(w, "llm unreachable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
