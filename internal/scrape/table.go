package scrape

// DefaultPlatforms returns the onboarded marketplace configurations.
// This table is the single place a new platform is added: URL id
// patterns, the structured endpoint mapping, and the ranked selector
// candidates per field.
func DefaultPlatforms() []PlatformConfig {
	return []PlatformConfig{
		{
			Tag:     PlatformShopee,
			BaseURL: "https://shopee.vn",
			Locale:  "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7",
			IDPatterns: []string{
				// product-name-i.<shopid>.<itemid>; the item id is the last capture
				`[.-]i\.(\d+)\.(\d+)`,
				`/product/(\d+)`,
				`/item/(\d+)`,
				`/(\d+)$`,
			},
			Structured: &StructuredConfig{
				Endpoint: "https://shopee.vn/api/v4/item/get?itemid=%s",
				Referer:  "https://shopee.vn/",
				Scale:    100000,
				Parse:    parseShopeeResponse,
			},
			Selectors: FieldSelectors{
				Name:    []string{"div[itemprop='name']", "h1[data-cy='product-title']", "h1.title"},
				Price:   []string{"div[data-cy='product-price']", "span[itemprop='price']", "div.item-price span", "div.price"},
				Sales:   []string{"div[data-cy='product-sold-count']", "span.sold-count", "div.item-sold span", "div.sold"},
				Rating:  []string{"div[data-cy='product-rating']", "span.rating-score", "div.rating-stars span", "div.rating"},
				Reviews: []string{"div[data-cy='product-reviews-count']", "span.review-count", "div.rating-count"},
			},
		},
		{
			Tag:     PlatformLazada,
			BaseURL: "https://www.lazada.vn",
			Locale:  "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7",
			IDPatterns: []string{
				// product-name-i1912345678-s123.html
				`-i(\d+)`,
				`itemId=(\d+)`,
			},
			// No working structured parser is known for lazada; the
			// structured strategy reports unsupported and the chain
			// falls through to document scraping.
			Selectors: FieldSelectors{
				Name:    []string{"h1.pdp-mod-product-badge-title", ".pdp-product-title h1", "h1"},
				Price:   []string{"span.pdp-price_color_orange", "span.pdp-v2-product-price-content-salePrice-amount", "span.pdp-price", "[data-qa-locator='product-price']"},
				Sales:   []string{"span.pdp-sold-count", "[data-qa-locator='product-sold-count']", "span.sold-count"},
				Rating:  []string{"span.score-average", "[data-qa-locator='product-rating']", "span.rating-score"},
				Reviews: []string{"span.count", "[data-qa-locator='product-reviews-count']", "span.review-count", "a[href*='reviews'] span"},
			},
		},
		{
			Tag:     PlatformTiki,
			BaseURL: "https://tiki.vn",
			Locale:  "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7",
			IDPatterns: []string{
				// product-name-p12345678.html
				`[.-]p(\d+)`,
			},
			Structured: &StructuredConfig{
				Endpoint: "https://tiki.vn/api/v2/products/%s",
				Referer:  "https://tiki.vn/",
				Scale:    1,
				Parse:    parseTikiResponse,
			},
			Selectors: FieldSelectors{
				Name:    []string{"h1.title", "h1[data-view-id='pdp_details_view_title']"},
				Price:   []string{".product-price__current-price", "div.product-price"},
				Sales:   []string{".sold-count", "div[data-view-id='pdp_quantity_sold']"},
				Rating:  []string{".review-rating__point", "div.rating-point"},
				Reviews: []string{".review-rating__total", "a.number"},
			},
		},
		{
			Tag:     PlatformTikTok,
			BaseURL: "https://shop.tiktok.com",
			Locale:  "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7",
			IDPatterns: []string{
				`/product/(\d+)`,
				`itemId=(\d+)`,
			},
			Structured: &StructuredConfig{
				Endpoint: "https://t.tiktok.com/api/item/detail/?itemId=%s",
				Referer:  "https://shop.tiktok.com/",
				Scale:    100,
				Parse:    parseTikTokResponse,
			},
			Selectors: FieldSelectors{
				Name:    []string{"h1[data-e2e='product-title']", "h1.product-title", "h1.title"},
				Price:   []string{"[data-e2e='product-price']", "span.price", "div.price"},
				Sales:   []string{"[data-e2e='sales-count']", "span.sales", "div.sold-count"},
				Rating:  []string{"[data-e2e='rating-value']", "span.rating", "div.rating-score"},
				Reviews: []string{"[data-e2e='review-count']", "span.reviews", "div.review-count"},
			},
		},
	}
}
