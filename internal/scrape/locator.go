package scrape

import (
	"net/url"
)

// ExtractID derives the platform-specific product identifier from a raw
// marketplace URL. Patterns are tried in declared order; the last
// capture group of the first matching pattern is the identifier (shopee
// links embed shop id and item id, the item id comes last). A URL that
// does not parse or matches no pattern yields ok=false; that is an
// expected outcome callers branch on, not an error.
func (c *PlatformConfig) ExtractID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	target := u.Path
	if u.RawQuery != "" {
		// Some platforms carry the id in the query string (itemId=...)
		target = u.Path + "?" + u.RawQuery
	}

	for _, re := range c.idRegexps {
		match := re.FindStringSubmatch(target)
		if match == nil {
			continue
		}
		id := match[len(match)-1]
		if id != "" {
			return id, true
		}
	}

	return "", false
}
