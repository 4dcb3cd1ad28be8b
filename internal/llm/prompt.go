package llm

import (
	"fmt"
	"strings"
)

// BuildCleanPrompt embeds a raw listing title in the cleaning instruction.
// The instruction targets the noise typical of Pakistani e-commerce listings.
func BuildCleanPrompt(rawTitle string) string {
	return fmt.Sprintf(`Extract only the essential product information from this title.

Remove: promotional text, warranty info, shipping info, seller info, PTA approved, official warranty, cash on delivery, installment, sealed, original, authentic, new, limited stock, sale, discount, special offer, hot deal.

Keep: brand, model, RAM, storage, screen size, processor, color (only if important).

Title: %s

Return ONLY the cleaned product name with key specs in this exact format:
Brand Model RAM Storage

Examples:
- Input: "Samsung Galaxy A15 8GB/256GB PTA Approved Official Warranty Fast Shipping"
  Output: "Samsung Galaxy A15 8GB 256GB"

- Input: "iPhone 13 Pro Max 256GB Factory Unlocked Original Apple Warranty"
  Output: "iPhone 13 Pro Max 256GB"

- Input: "HP Pavilion Gaming Laptop i5 11th Gen 8GB RAM 512GB SSD"
  Output: "HP Pavilion Gaming i5 11th Gen 8GB 512GB"

Now clean this title (reply with ONLY the cleaned version, no explanation):`, rawTitle)
}

// SanitizeReply strips the decoration models wrap around their answer:
// code fences, surrounding quotes, leading labels and extra lines.
func SanitizeReply(raw string) string {
	s := strings.TrimSpace(raw)

	// drop markdown fences
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "\n"); i >= 0 && !strings.Contains(s[:i], " ") {
			// language tag on the fence line
			s = s[i+1:]
		}
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	// keep the first non-empty line; models sometimes add an explanation after
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			s = line
			break
		}
	}

	// strip labels like "Output:" that slip through
	for _, label := range []string{"Output:", "Cleaned:", "Answer:"} {
		if strings.HasPrefix(s, label) {
			s = strings.TrimSpace(strings.TrimPrefix(s, label))
		}
	}

	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
