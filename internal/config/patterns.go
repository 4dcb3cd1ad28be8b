package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Patterns drives the regex fallback cleaner. Garbage entries are regular
// expressions stripped from titles; brand lists seed the product extractors.
type Patterns struct {
	Garbage      []string `yaml:"garbage"`
	MobileBrands []string `yaml:"mobile_brands"`
	LaptopBrands []string `yaml:"laptop_brands"`
}

// DefaultPatterns returns the compiled-in pattern set used when no
// definitions directory is present. Tuned for Pakistani e-commerce listings.
func DefaultPatterns() *Patterns {
	return &Patterns{
		Garbage: []string{
			`PTA\s*Approved?`,
			`Official\s*Warranty`,
			`Fast\s*Shipping`,
			`Cash\s*on\s*Delivery`,
			`Free\s*Delivery`,
			`Installments?`,
			`Easy\s*Payment`,
			`Original`,
			`Authentic`,
			`\bNew\b`,
			`\bSealed\b`,
			`In\s*Stock`,
			`Available`,
			`Limited\s*Stock`,
			`Hot\s*Deal`,
			`Sale`,
			`Discount`,
			`\d+%\s*Off`,
			`Special\s*Offer`,
			`₹|Rs\.?|PKR`,
			`[⭐★✓✔]+`,
			`\|`,
			`•`,
		},
		MobileBrands: []string{
			"Samsung", "iPhone", "Xiaomi", "Oppo", "Vivo", "Realme",
			"Infinix", "Tecno", "OnePlus", "Google", "Nokia", "Huawei", "Motorola",
		},
		LaptopBrands: []string{
			"HP", "Dell", "Lenovo", "Asus", "Acer", "MSI", "Apple", "MacBook",
		},
	}
}

// LoadPatterns reads every YAML file in dir and merges the pattern lists.
// A missing directory is not an error: the defaults apply.
func LoadPatterns(dir string) (*Patterns, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPatterns(), nil
		}
		return nil, fmt.Errorf("reading patterns dir: %w", err)
	}

	merged := &Patterns{}
	found := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var p Patterns
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		merged.Garbage = append(merged.Garbage, p.Garbage...)
		merged.MobileBrands = append(merged.MobileBrands, p.MobileBrands...)
		merged.LaptopBrands = append(merged.LaptopBrands, p.LaptopBrands...)
		found = true
	}

	if !found {
		return DefaultPatterns(), nil
	}
	return merged, nil
}
