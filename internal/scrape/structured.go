package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"ntdung/trendworker/helpers"
	apperr "ntdung/trendworker/pkg/errors"
)

// StructuredExtractor queries a platform's structured data endpoint.
// It is the first and most reliable strategy when the platform has one.
type StructuredExtractor struct {
	cfg   *PlatformConfig
	fetch func(ctx context.Context, url string, referer string) ([]byte, error)
}

func newStructuredExtractor(cfg *PlatformConfig) *StructuredExtractor {
	return &StructuredExtractor{
		cfg:   cfg,
		fetch: helpers.FetchJSON,
	}
}

// Extract resolves the identifier against the platform's structured
// endpoint. All expected failure modes come back as ExtractError
// values, never as panics or naked transport errors.
func (e *StructuredExtractor) Extract(ctx context.Context, id string) (Product, error) {
	platform := string(e.cfg.Tag)
	strategy := string(StrategyStructured)

	sc := e.cfg.Structured
	if sc == nil {
		return Product{}, apperr.NewUnsupported(platform, strategy, "no structured endpoint for platform")
	}

	endpoint := fmt.Sprintf(sc.Endpoint, id)
	data, err := e.fetch(ctx, endpoint, sc.Referer)
	if err != nil {
		return Product{}, apperr.NewTransport(platform, strategy, "structured fetch failed", err)
	}

	product, err := sc.Parse(data, sc.Scale)
	if err != nil {
		return Product{}, apperr.NewExtract(apperr.ReasonUnparseable, platform, strategy, "structured response did not parse", err)
	}

	product.Platform = e.cfg.Tag
	product.Source = StrategyStructured
	if !product.Valid() {
		return Product{}, apperr.NewUnparseable(platform, strategy, "structured response missing name or price")
	}

	return product, nil
}

// parseShopeeResponse maps the shopee item payload. Prices arrive in
// hundred-thousandths of a dong; sold falls back to historical_sold.
func parseShopeeResponse(data []byte, scale int64) (Product, error) {
	var resp struct {
		Item *struct {
			Name           string  `json:"name"`
			Price          float64 `json:"price"`
			Sold           int64   `json:"sold"`
			HistoricalSold int64   `json:"historical_sold"`
			ItemRating     *struct {
				RatingStar  float64 `json:"rating_star"`
				RatingCount []int64 `json:"rating_count"`
			} `json:"item_rating"`
		} `json:"item"`
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		return Product{}, err
	}
	if resp.Item == nil {
		return Product{}, errors.New("missing item payload")
	}

	sales := resp.Item.Sold
	if sales == 0 {
		sales = resp.Item.HistoricalSold
	}

	product := Product{
		Name:  resp.Item.Name,
		Price: int64(math.Round(resp.Item.Price / float64(scale))),
		Sales: sales,
	}
	if resp.Item.ItemRating != nil {
		product.Rating = resp.Item.ItemRating.RatingStar
		if len(resp.Item.ItemRating.RatingCount) > 0 {
			product.Reviews = resp.Item.ItemRating.RatingCount[0]
		}
	}

	return product, nil
}

// parseTikiResponse maps the tiki product payload, which already quotes
// whole VND
func parseTikiResponse(data []byte, scale int64) (Product, error) {
	var resp struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		QuantitySold *struct {
			Value int64 `json:"value"`
		} `json:"quantity_sold"`
		RatingAverage float64 `json:"rating_average"`
		ReviewCount   int64   `json:"review_count"`
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		return Product{}, err
	}

	product := Product{
		Name:    resp.Name,
		Price:   int64(math.Round(resp.Price / float64(scale))),
		Rating:  resp.RatingAverage,
		Reviews: resp.ReviewCount,
	}
	if resp.QuantitySold != nil {
		product.Sales = resp.QuantitySold.Value
	}

	return product, nil
}

// parseTikTokResponse maps the tiktok shop item payload. Prices arrive
// in cents; several fields have two spellings across API versions.
func parseTikTokResponse(data []byte, scale int64) (Product, error) {
	var resp struct {
		Item *struct {
			Name        string  `json:"name"`
			Title       string  `json:"title"`
			Price       float64 `json:"price"`
			Sales       int64   `json:"sales"`
			SoldCount   int64   `json:"sold_count"`
			Rating      float64 `json:"rating"`
			AvgRating   float64 `json:"avg_rating"`
			ReviewCount int64   `json:"review_count"`
			RatingCount int64   `json:"rating_count"`
		} `json:"item"`
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		return Product{}, err
	}
	if resp.Item == nil {
		return Product{}, errors.New("missing item payload")
	}

	name := resp.Item.Name
	if name == "" {
		name = resp.Item.Title
	}
	sales := resp.Item.Sales
	if sales == 0 {
		sales = resp.Item.SoldCount
	}
	rating := resp.Item.Rating
	if rating == 0 {
		rating = resp.Item.AvgRating
	}
	reviews := resp.Item.ReviewCount
	if reviews == 0 {
		reviews = resp.Item.RatingCount
	}

	return Product{
		Name:    name,
		Price:   int64(math.Round(resp.Item.Price / float64(scale))),
		Sales:   sales,
		Rating:  rating,
		Reviews: reviews,
	}, nil
}
