package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pakbuypro/title-gateway/internal/llm"
)

func TestExtractTitle(t *testing.T) {
	prompt := llm.BuildCleanPrompt("Samsung Galaxy A15 8GB 256GB PTA Approved Fast Shipping")
	got := extractTitle(prompt)
	if got != "Samsung Galaxy A15 8GB 256GB" {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestMockLLM_ServesOpenAIClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models", handleModels)
	mux.HandleFunc("/chat/completions", handleChat)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := llm.NewOpenAIClient(ts.URL, "any-key", "mock-cleaner")

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping against mock failed: %v", err)
	}

	out, err := c.Chat(context.Background(), llm.BuildCleanPrompt("iPhone 13 Pro Max 256GB Original Warranty"))
	if err != nil {
		t.Fatalf("Chat against mock failed: %v", err)
	}
	if out == "" {
		t.Fatalf("expected non-empty cleaned title")
	}
}
