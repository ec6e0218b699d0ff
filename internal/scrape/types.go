package scrape

// Platform identifies one supported marketplace
type Platform string

const (
	PlatformShopee Platform = "shopee"
	PlatformLazada Platform = "lazada"
	PlatformTiki   Platform = "tiki"
	PlatformTikTok Platform = "tiktok"
)

// Strategy identifies which extraction path produced a product record
type Strategy string

const (
	// StrategyStructured means the platform's structured data endpoint answered
	StrategyStructured Strategy = "structured"
	// StrategyDocument means the product page HTML was parsed
	StrategyDocument Strategy = "document"
	// StrategySynthetic means the record was generated, never fetched
	StrategySynthetic Strategy = "synthetic"
)

// Product is the canonical record produced by the acquisition pipeline.
// Price is in the smallest whole currency unit (VND has no decimals).
type Product struct {
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Sales    int64    `json:"sales"`
	Rating   float64  `json:"rating"`
	Reviews  int64    `json:"reviews"`
	Platform Platform `json:"platform"`
	Source   Strategy `json:"source"`
}

// Valid reports whether the record clears the minimum bar for a
// successful extraction. Anything below it is treated as a strategy
// failure and the next strategy is tried.
func (p Product) Valid() bool {
	return p.Name != "" && p.Price > 0
}

// RawProduct is the loosely-typed field bag one extraction produces
// before normalization
type RawProduct struct {
	Name        string
	PriceText   string
	SalesText   string
	RatingText  string
	ReviewsText string
}
