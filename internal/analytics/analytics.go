package analytics

import (
	"math"
	"time"
)

// Trend classifies the sales movement over a snapshot window
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Snapshot is one time-stamped observation of a tracked product.
// Snapshots are immutable once written; the store keeps at most one per
// (product, calendar day).
type Snapshot struct {
	ProductID  string    `json:"product_id"`
	Price      int64     `json:"price"`
	SalesCount int64     `json:"sales_count"`
	Rating     float64   `json:"rating"`
	CapturedAt time.Time `json:"captured_at"`
}

// Summary holds the derived analytics for a snapshot window. It is a
// value object recomputed on demand, never persisted.
type Summary struct {
	PriceChangePct     float64 `json:"price_change_pct"`
	SalesChangePct     float64 `json:"sales_change_pct"`
	RatingChangeAbs    float64 `json:"rating_change_abs"`
	AveragePrice       float64 `json:"average_price"`
	TotalSales         int64   `json:"total_sales"`
	Trend              Trend   `json:"trend"`
	SalesVelocity      float64 `json:"sales_velocity"`
	PriceVolatilityPct float64 `json:"price_volatility_pct"`
	MinPrice           int64   `json:"min_price"`
	MaxPrice           int64   `json:"max_price"`
	DataPoints         int     `json:"data_points"`
}

// Compute derives the analytics summary from a snapshot series sorted
// ascending by CapturedAt. Sorting is the caller's responsibility so
// this stays a pure function. An empty window yields the all-zero
// stable summary; every percentage against a zero baseline yields 0
// rather than NaN or Inf.
func Compute(snapshots []Snapshot) Summary {
	if len(snapshots) == 0 {
		return Summary{Trend: TrendStable}
	}

	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	var priceChange float64
	if first.Price > 0 {
		priceChange = float64(last.Price-first.Price) / float64(first.Price) * 100
	}

	var salesChange float64
	if first.SalesCount > 0 {
		salesChange = float64(last.SalesCount-first.SalesCount) / float64(first.SalesCount) * 100
	}

	ratingChange := last.Rating - first.Rating

	var priceSum int64
	minPrice := first.Price
	maxPrice := first.Price
	for _, s := range snapshots {
		priceSum += s.Price
		if s.Price < minPrice {
			minPrice = s.Price
		}
		if s.Price > maxPrice {
			maxPrice = s.Price
		}
	}
	averagePrice := float64(priceSum) / float64(len(snapshots))
	totalSales := last.SalesCount

	trend := TrendStable
	if salesChange > 10 {
		trend = TrendUp
	} else if salesChange < -10 {
		trend = TrendDown
	}

	salesVelocity := float64(totalSales) / float64(len(snapshots))

	var priceVolatility float64
	if averagePrice > 0 {
		priceVolatility = float64(maxPrice-minPrice) / averagePrice * 100
	}

	return Summary{
		PriceChangePct:     round2(priceChange),
		SalesChangePct:     round2(salesChange),
		RatingChangeAbs:    round2(ratingChange),
		AveragePrice:       averagePrice,
		TotalSales:         totalSales,
		Trend:              trend,
		SalesVelocity:      round1(salesVelocity),
		PriceVolatilityPct: round2(priceVolatility),
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		DataPoints:         len(snapshots),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
