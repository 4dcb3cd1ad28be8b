package cleaner

import (
	"strings"
	"testing"

	"github.com/pakbuypro/title-gateway/internal/config"
)

func newTestCleaner(t *testing.T) *RegexCleaner {
	t.Helper()
	rc, err := NewRegexCleaner(config.DefaultPatterns())
	if err != nil {
		t.Fatalf("NewRegexCleaner: %v", err)
	}
	return rc
}

func TestRegexCleaner_SampleTitles(t *testing.T) {
	rc := newTestCleaner(t)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "samsung with garbage",
			in:   "Samsung Galaxy A15 8GB/256GB PTA Approved Official Warranty Fast Shipping",
			want: "Samsung Galaxy A15 8GB 256GB",
		},
		{
			name: "iphone cod",
			in:   "iPhone 13 Pro Max 256GB Factory Unlocked Original Apple Warranty Cash on Delivery",
			want: "iPhone 13 Pro Max 256GB",
		},
		{
			name: "hp laptop",
			in:   "HP Pavilion Gaming Laptop i5 11th Gen 8GB RAM 512GB SSD Official Warranty",
			want: "HP Pavilion Gaming i5 11th Gen 8GB 512GB",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rc.Clean(tc.in)
			if got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRegexCleaner_StripsGarbage(t *testing.T) {
	rc := newTestCleaner(t)

	got := rc.Clean("Tecno Spark 20 Hot Deal ⭐⭐ Limited Stock | Free Delivery")
	for _, bad := range []string{"Hot Deal", "Limited Stock", "Free Delivery", "⭐", "|"} {
		if strings.Contains(got, bad) {
			t.Fatalf("garbage %q survived: %q", bad, got)
		}
	}
	if !strings.Contains(got, "Tecno Spark 20") {
		t.Fatalf("product name lost: %q", got)
	}
}

func TestRegexCleaner_RemovesParentheses(t *testing.T) {
	rc := newTestCleaner(t)
	got := rc.Clean("Oppo A78 8GB 256GB (2024 Model, Dual SIM)")
	if strings.Contains(got, "(") || strings.Contains(got, "Dual SIM") {
		t.Fatalf("parenthesized content survived: %q", got)
	}
}

func TestRegexCleaner_CollapsesWhitespace(t *testing.T) {
	rc := newTestCleaner(t)
	got := rc.Clean("Nokia   105    2024")
	if strings.Contains(got, "  ") {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
}

func TestRegexCleaner_NoBrandPassesThroughStripped(t *testing.T) {
	rc := newTestCleaner(t)
	got := rc.Clean("Generic Power Bank 20000mAh Original Sealed")
	if strings.Contains(got, "Original") || strings.Contains(got, "Sealed") {
		t.Fatalf("garbage survived: %q", got)
	}
	if !strings.Contains(got, "Power Bank 20000mAh") {
		t.Fatalf("product description lost: %q", got)
	}
}

func TestNewRegexCleaner_BadPattern(t *testing.T) {
	p := &config.Patterns{Garbage: []string{`([unclosed`}}
	if _, err := NewRegexCleaner(p); err == nil {
		t.Fatalf("expected error for invalid garbage pattern")
	}
}

func TestNewRegexCleaner_NilUsesDefaults(t *testing.T) {
	rc, err := NewRegexCleaner(nil)
	if err != nil {
		t.Fatalf("NewRegexCleaner(nil): %v", err)
	}
	if got := rc.Clean("Samsung Galaxy S24 12GB 256GB PTA Approved"); got != "Samsung Galaxy S24 12GB 256GB" {
		t.Fatalf("unexpected output: %q", got)
	}
}
