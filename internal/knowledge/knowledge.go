// Package knowledge holds the static text-pattern configuration used by
// specification tailoring detection: brand names, restrictive-language
// patterns and per-category exemptions. The base is compiled once at
// pipeline construction and never mutated; reloading it means building a
// new pipeline instance.
package knowledge

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// Match is one occurrence of a brand name or restrictive phrase inside a
// specification text, with its character offset.
type Match struct {
	Phrase string `json:"phrase"`
	Offset int    `json:"offset"`
}

// Base is a compiled knowledge base.
type Base struct {
	brands      []brandEntry
	restrictive []patternEntry
	exempted    map[string]bool
}

type brandEntry struct {
	name string
	re   *regexp.Regexp
}

type patternEntry struct {
	pattern string
	re      *regexp.Regexp
}

// knowledgeFile mirrors the YAML knowledge document.
type knowledgeFile struct {
	BrandNames          []string `yaml:"brand_names"`
	RestrictivePatterns []string `yaml:"restrictive_patterns"`
	ExemptedCategories  []string `yaml:"exempted_categories"`
}

// Built-in lists used when no knowledge file is configured. Brand names are
// matched as whole words, case-insensitive; restrictive patterns are regular
// expressions compiled with a case-insensitive flag.
var (
	defaultBrandNames = []string{
		"Cisco", "Dell", "HP", "Lenovo", "Microsoft", "Oracle",
		"SAP", "Siemens", "Bosch", "Honeywell", "Samsung", "Xerox",
	}
	defaultRestrictivePatterns = []string{
		`\bonly\b`,
		`\bmust be\b`,
		`\bexclusively\b`,
		`\bproprietary\b`,
		`\bno equivalent\b`,
		`\bsole supplier\b`,
	}
)

// New compiles a knowledge base from raw lists. An invalid regular
// expression fails construction with a ConfigurationError.
func New(brandNames, restrictivePatterns, exemptedCategories []string) (*Base, error) {
	base := &Base{
		exempted: make(map[string]bool, len(exemptedCategories)),
	}

	for _, name := range brandNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			return nil, &models.ConfigurationError{
				Field:  "brand_names",
				Reason: fmt.Sprintf("cannot compile matcher for %q: %v", name, err),
			}
		}
		base.brands = append(base.brands, brandEntry{name: name, re: re})
	}

	for _, pattern := range restrictivePatterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, &models.ConfigurationError{
				Field:  "restrictive_patterns",
				Reason: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
			}
		}
		base.restrictive = append(base.restrictive, patternEntry{pattern: pattern, re: re})
	}

	for _, category := range exemptedCategories {
		category = strings.ToLower(strings.TrimSpace(category))
		if category != "" {
			base.exempted[category] = true
		}
	}

	return base, nil
}

// Load reads and compiles a YAML knowledge file.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base %q: %w", path, err)
	}

	var file knowledgeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &models.ConfigurationError{
			Field:  "knowledge",
			Reason: fmt.Sprintf("cannot parse %s: %v", path, err),
		}
	}

	return New(file.BrandNames, file.RestrictivePatterns, file.ExemptedCategories)
}

// Default returns the built-in knowledge base. It panics only if the
// built-in pattern tables are invalid, which a unit test guards against.
func Default() *Base {
	base, err := New(defaultBrandNames, defaultRestrictivePatterns, nil)
	if err != nil {
		panic(fmt.Sprintf("knowledge: built-in tables failed to compile: %v", err))
	}
	return base
}

// IsExemptCategory reports whether a category is excluded from tailoring
// checks. Comparison is case-insensitive.
func (b *Base) IsExemptCategory(category string) bool {
	return b.exempted[strings.ToLower(strings.TrimSpace(category))]
}

// FindBrandMatches returns every brand-name occurrence in text, sorted by
// character offset.
func (b *Base) FindBrandMatches(text string) []Match {
	var matches []Match
	for _, entry := range b.brands {
		for _, loc := range entry.re.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{Phrase: text[loc[0]:loc[1]], Offset: loc[0]})
		}
	}
	sortMatches(matches)
	return matches
}

// FindRestrictiveMatches returns every restrictive-phrase occurrence in
// text, sorted by character offset.
func (b *Base) FindRestrictiveMatches(text string) []Match {
	var matches []Match
	for _, entry := range b.restrictive {
		for _, loc := range entry.re.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{Phrase: text[loc[0]:loc[1]], Offset: loc[0]})
		}
	}
	sortMatches(matches)
	return matches
}

func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Offset != matches[j].Offset {
			return matches[i].Offset < matches[j].Offset
		}
		return matches[i].Phrase < matches[j].Phrase
	})
}
