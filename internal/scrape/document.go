package scrape

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ntdung/trendworker/helpers"
	apperr "ntdung/trendworker/pkg/errors"
)

// DocumentExtractor fetches the product page and pulls fields out of
// the rendered HTML. It is the fallback when the structured endpoint
// fails or does not exist.
type DocumentExtractor struct {
	cfg   *PlatformConfig
	fetch func(ctx context.Context, url string, acceptLanguage string) (io.Reader, error)
}

func newDocumentExtractor(cfg *PlatformConfig) *DocumentExtractor {
	return &DocumentExtractor{
		cfg:   cfg,
		fetch: helpers.FetchDocument,
	}
}

// Extract fetches the document and applies the platform's selector
// candidate lists, then normalizes the collected text. A fetched page
// that yields no usable name or price is an unparseable failure, not a
// partial success.
func (e *DocumentExtractor) Extract(ctx context.Context, url string) (Product, error) {
	platform := string(e.cfg.Tag)
	strategy := string(StrategyDocument)

	body, err := e.fetch(ctx, url, e.cfg.Locale)
	if err != nil {
		return Product{}, apperr.NewTransport(platform, strategy, "document fetch failed", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return Product{}, apperr.NewExtract(apperr.ReasonUnparseable, platform, strategy, "document did not parse as HTML", err)
	}

	raw := RawProduct{
		Name:        firstMatch(doc, e.cfg.Selectors.Name),
		PriceText:   firstMatch(doc, e.cfg.Selectors.Price),
		SalesText:   firstMatch(doc, e.cfg.Selectors.Sales),
		RatingText:  firstMatch(doc, e.cfg.Selectors.Rating),
		ReviewsText: firstMatch(doc, e.cfg.Selectors.Reviews),
	}

	product := raw.Normalize(e.cfg.Tag)
	product.Source = StrategyDocument
	if !product.Valid() {
		return Product{}, apperr.NewUnparseable(platform, strategy, "no usable name or price in document")
	}

	return product, nil
}

// firstMatch tries each selector candidate in order and returns the
// first non-empty trimmed text. Later candidates are only consulted
// when every earlier one came up empty.
func firstMatch(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}
