package scrape

import (
	"fmt"
	"regexp"
	"strings"

	apperr "ntdung/trendworker/pkg/errors"
)

// FieldSelectors holds the ordered CSS selector candidates for each
// product field. Marketplace front-ends shuffle their markup across A/B
// tests and redesigns; a ranked candidate list survives that better
// than a single selector. First candidate with non-empty text wins.
type FieldSelectors struct {
	Name    []string
	Price   []string
	Sales   []string
	Rating  []string
	Reviews []string
}

// StructuredParser maps a platform's structured response body to a
// product record. scale is the divisor that converts the platform's
// price subunit into whole VND.
type StructuredParser func(data []byte, scale int64) (Product, error)

// StructuredConfig describes a platform's structured data endpoint.
// Platforms without one fail the structured strategy as unsupported.
type StructuredConfig struct {
	// Endpoint is a URL template; the product identifier replaces %s
	Endpoint string
	Referer  string
	Scale    int64
	Parse    StructuredParser
}

// PlatformConfig is the static onboarding record for one marketplace.
// The table is an immutable value injected at construction time; it is
// never mutated at runtime.
type PlatformConfig struct {
	Tag        Platform
	BaseURL    string
	Locale     string
	IDPatterns []string
	Selectors  FieldSelectors
	Structured *StructuredConfig

	idRegexps []*regexp.Regexp
}

// validate compiles the ID patterns and checks the entry for mistakes
// that would only surface mid-crawl otherwise
func (c *PlatformConfig) validate() error {
	if c.Tag == "" {
		return apperr.NewConfiguration("platform entry without a tag", nil)
	}
	if c.Locale == "" {
		return apperr.NewConfiguration(fmt.Sprintf("platform %s: locale is required", c.Tag), nil)
	}
	if len(c.IDPatterns) == 0 {
		return apperr.NewConfiguration(fmt.Sprintf("platform %s: at least one id pattern is required", c.Tag), nil)
	}
	if len(c.Selectors.Name) == 0 || len(c.Selectors.Price) == 0 {
		return apperr.NewConfiguration(fmt.Sprintf("platform %s: name and price selector candidates are required", c.Tag), nil)
	}

	c.idRegexps = make([]*regexp.Regexp, 0, len(c.IDPatterns))
	for _, pattern := range c.IDPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return apperr.NewConfiguration(fmt.Sprintf("platform %s: bad id pattern %q", c.Tag, pattern), err)
		}
		if re.NumSubexp() < 1 {
			return apperr.NewConfiguration(fmt.Sprintf("platform %s: id pattern %q must capture the identifier", c.Tag, pattern), nil)
		}
		c.idRegexps = append(c.idRegexps, re)
	}

	if c.Structured != nil {
		if !strings.Contains(c.Structured.Endpoint, "%s") {
			return apperr.NewConfiguration(fmt.Sprintf("platform %s: structured endpoint must template the identifier", c.Tag), nil)
		}
		if c.Structured.Parse == nil {
			return apperr.NewConfiguration(fmt.Sprintf("platform %s: structured endpoint without a parser", c.Tag), nil)
		}
		if c.Structured.Scale <= 0 {
			return apperr.NewConfiguration(fmt.Sprintf("platform %s: structured price scale must be positive", c.Tag), nil)
		}
	}

	return nil
}

// buildTable validates every entry and indexes the table by tag
func buildTable(table []PlatformConfig) (map[Platform]*PlatformConfig, error) {
	if len(table) == 0 {
		return nil, apperr.NewConfiguration("empty platform table", nil)
	}

	platforms := make(map[Platform]*PlatformConfig, len(table))
	for i := range table {
		cfg := table[i]
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		if _, dup := platforms[cfg.Tag]; dup {
			return nil, apperr.NewConfiguration(fmt.Sprintf("duplicate platform entry %s", cfg.Tag), nil)
		}
		platforms[cfg.Tag] = &cfg
	}

	return platforms, nil
}
