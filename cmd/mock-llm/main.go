// mock-llm is a local OpenAI-compatible upstream for developing the gateway
// without credentials. It extracts the title embedded in the cleaning prompt
// and echoes it back, which is enough to exercise the full request path.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"strings"

	"github.com/pakbuypro/title-gateway/internal/logx"
)

func main() {
	port := flag.String("port", "11435", "port to listen on")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/models", handleModels)
	mux.HandleFunc("/chat/completions", handleChat)

	logx.Info("Mock", "mock-llm listening on :%s", *port)
	if err := http.ListenAndServe(":"+*port, mux); err != nil {
		logx.Error("Mock", "server stopped: %v", err)
	}
}

func handleModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": []map[string]any{{"id": "mock-cleaner"}},
	})
}

func handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &req); err != nil || len(req.Messages) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	cleaned := extractTitle(req.Messages[len(req.Messages)-1].Content)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": cleaned}},
		},
	})
}

// extractTitle pulls the raw title out of the cleaning prompt and applies a
// crude normalization so responses look plausible.
func extractTitle(prompt string) string {
	title := prompt
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "Title: ") {
			title = strings.TrimPrefix(line, "Title: ")
			break
		}
	}

	for _, noise := range []string{
		"PTA Approved", "Official Warranty", "Fast Shipping", "Cash on Delivery",
		"Original", "Sealed", "New",
	} {
		title = strings.ReplaceAll(title, noise, "")
	}
	return strings.Join(strings.Fields(title), " ")
}
