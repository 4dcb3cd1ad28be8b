package llm

import (
	"strings"
	"testing"
)

func TestBuildCleanPrompt_EmbedsTitle(t *testing.T) {
	p := BuildCleanPrompt("Samsung Galaxy A15 8GB/256GB PTA Approved")
	if !strings.Contains(p, "Samsung Galaxy A15 8GB/256GB PTA Approved") {
		t.Fatalf("prompt should embed the raw title")
	}
	if !strings.Contains(p, "Brand Model RAM Storage") {
		t.Fatalf("prompt should describe the output format")
	}
}

func TestSanitizeReply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Samsung Galaxy A15 8GB 256GB", "Samsung Galaxy A15 8GB 256GB"},
		{"quoted", `"iPhone 13 Pro Max 256GB"`, "iPhone 13 Pro Max 256GB"},
		{"whitespace", "  HP Pavilion i5 8GB 512GB \n", "HP Pavilion i5 8GB 512GB"},
		{"fenced", "```\nXiaomi Redmi Note 12 8GB 256GB\n```", "Xiaomi Redmi Note 12 8GB 256GB"},
		{"label", "Output: Vivo Y27 6GB 128GB", "Vivo Y27 6GB 128GB"},
		{"multiline", "Oppo A78 8GB 256GB\nThis title was cleaned by removing noise.", "Oppo A78 8GB 256GB"},
		{"collapses spaces", "Infinix  Note 30   8GB 256GB", "Infinix Note 30 8GB 256GB"},
		{"empty", "   \n ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeReply(tc.in); got != tc.want {
				t.Fatalf("SanitizeReply(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewFromProvider(t *testing.T) {
	for _, provider := range []string{"gemini", "openai", "ollama"} {
		c, err := NewFromProvider(provider, "", "key", "", 0)
		if err != nil {
			t.Fatalf("NewFromProvider(%q) error: %v", provider, err)
		}
		if c == nil {
			t.Fatalf("NewFromProvider(%q) returned nil client", provider)
		}
	}
	if _, err := NewFromProvider("skynet", "", "", "", 0); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
