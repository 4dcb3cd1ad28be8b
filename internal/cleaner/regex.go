package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pakbuypro/title-gateway/internal/config"
)

// RegexCleaner is the offline fallback. It strips known garbage phrases and
// then tries to reduce the title to brand + model + key specs.
type RegexCleaner struct {
	garbage    []*regexp.Regexp
	mobilePats []*regexp.Regexp
	laptopPats []*regexp.Regexp

	symbols   *regexp.Regexp
	parens    *regexp.Regexp
	spaces    *regexp.Regexp
	modelTail *regexp.Regexp
	ram       *regexp.Regexp
	storage   *regexp.Regexp
}

func NewRegexCleaner(p *config.Patterns) (*RegexCleaner, error) {
	if p == nil {
		p = config.DefaultPatterns()
	}

	rc := &RegexCleaner{
		symbols:   regexp.MustCompile(`[|•\-_/+]+`),
		parens:    regexp.MustCompile(`\([^)]*\)`),
		spaces:    regexp.MustCompile(`\s+`),
		modelTail: regexp.MustCompile(`(?i)\s+(with|and|for|official|factory|laptop).*$`),
		ram:       regexp.MustCompile(`(?i)(\d+GB)\s*RAM`),
		storage:   regexp.MustCompile(`(?i)(\d+GB|\d+TB)\s*(?:SSD|HDD|Storage)`),
	}

	for _, g := range p.Garbage {
		re, err := regexp.Compile(`(?i)` + g)
		if err != nil {
			return nil, fmt.Errorf("cleaner: bad garbage pattern %q: %w", g, err)
		}
		rc.garbage = append(rc.garbage, re)
	}

	// Model runs to the end of the title or up to trailing RAM/storage tokens.
	for _, brand := range p.MobileBrands {
		re, err := regexp.Compile(fmt.Sprintf(
			`(?i)\b(%s)\s+([A-Z0-9][A-Za-z0-9\s]+?)(?:\s+(\d+GB))?(?:\s+(\d+GB))?$`,
			regexp.QuoteMeta(brand)))
		if err != nil {
			return nil, fmt.Errorf("cleaner: brand %q: %w", brand, err)
		}
		rc.mobilePats = append(rc.mobilePats, re)
	}

	// Laptops are only rewritten when a processor token is present; otherwise
	// the garbage-stripped title is kept as-is.
	for _, brand := range p.LaptopBrands {
		re, err := regexp.Compile(fmt.Sprintf(
			`(?i)\b(%s)\s+([A-Za-z0-9\s]+?)\s+(i[3579]\b(?:\s+\d{1,2}th\s+Gen)?|Ryzen\s*[3579]|M[12]\b)`,
			regexp.QuoteMeta(brand)))
		if err != nil {
			return nil, fmt.Errorf("cleaner: brand %q: %w", brand, err)
		}
		rc.laptopPats = append(rc.laptopPats, re)
	}

	return rc, nil
}

// Clean normalizes a raw listing title without any network call.
func (rc *RegexCleaner) Clean(title string) string {
	cleaned := title
	for _, re := range rc.garbage {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	cleaned = rc.parens.ReplaceAllString(cleaned, "")
	cleaned = rc.symbols.ReplaceAllString(cleaned, " ")
	cleaned = rc.spaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if out, ok := rc.extractLaptop(cleaned); ok {
		cleaned = out
	} else if out, ok := rc.extractMobile(cleaned); ok {
		cleaned = out
	}

	cleaned = rc.spaces.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func (rc *RegexCleaner) extractMobile(cleaned string) (string, bool) {
	for _, re := range rc.mobilePats {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		brand, model, ram, storage := m[1], strings.TrimSpace(m[2]), m[3], m[4]
		model = rc.modelTail.ReplaceAllString(model, "")
		return strings.TrimSpace(strings.Join([]string{brand, model, ram, storage}, " ")), true
	}
	return "", false
}

func (rc *RegexCleaner) extractLaptop(cleaned string) (string, bool) {
	for _, re := range rc.laptopPats {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		brand, model, cpu := m[1], strings.TrimSpace(m[2]), m[3]
		model = rc.modelTail.ReplaceAllString(model, "")

		ram := ""
		if rm := rc.ram.FindStringSubmatch(cleaned); rm != nil {
			ram = rm[1]
		}
		storage := ""
		if sm := rc.storage.FindStringSubmatch(cleaned); sm != nil {
			storage = sm[1]
		}

		return strings.TrimSpace(strings.Join([]string{brand, model, cpu, ram, storage}, " ")), true
	}
	return "", false
}
