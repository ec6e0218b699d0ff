package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestComputeEmptyWindow(t *testing.T) {
	summary := Compute(nil)

	assert.Equal(t, Summary{Trend: TrendStable}, summary)
}

func TestComputeSingleSnapshot(t *testing.T) {
	summary := Compute([]Snapshot{
		{ProductID: "p1", Price: 150000, SalesCount: 42, Rating: 4.5, CapturedAt: day(0)},
	})

	assert.Equal(t, 0.0, summary.PriceChangePct)
	assert.Equal(t, 0.0, summary.SalesChangePct)
	assert.Equal(t, 0.0, summary.RatingChangeAbs)
	assert.Equal(t, 150000.0, summary.AveragePrice)
	assert.Equal(t, int64(42), summary.TotalSales)
	assert.Equal(t, TrendStable, summary.Trend)
	assert.Equal(t, int64(150000), summary.MinPrice)
	assert.Equal(t, int64(150000), summary.MaxPrice)
	assert.Equal(t, 1, summary.DataPoints)
}

func TestComputeWindow(t *testing.T) {
	snapshots := []Snapshot{
		{ProductID: "p1", Price: 100000, SalesCount: 100, Rating: 4.5, CapturedAt: day(0)},
		{ProductID: "p1", Price: 120000, SalesCount: 150, Rating: 4.6, CapturedAt: day(9)},
	}

	summary := Compute(snapshots)

	assert.Equal(t, 20.0, summary.PriceChangePct)
	assert.Equal(t, 50.0, summary.SalesChangePct)
	assert.Equal(t, 0.1, summary.RatingChangeAbs)
	assert.Equal(t, 110000.0, summary.AveragePrice)
	assert.Equal(t, int64(150), summary.TotalSales)
	assert.Equal(t, TrendUp, summary.Trend)
	assert.Equal(t, 75.0, summary.SalesVelocity)
	assert.Equal(t, 18.18, summary.PriceVolatilityPct)
	assert.Equal(t, int64(100000), summary.MinPrice)
	assert.Equal(t, int64(120000), summary.MaxPrice)
	assert.Equal(t, 2, summary.DataPoints)
}

func TestComputeTrendBoundaries(t *testing.T) {
	window := func(firstSales, lastSales int64) []Snapshot {
		return []Snapshot{
			{Price: 100000, SalesCount: firstSales, CapturedAt: day(0)},
			{Price: 100000, SalesCount: lastSales, CapturedAt: day(1)},
		}
	}

	testCases := []struct {
		name       string
		firstSales int64
		lastSales  int64
		trend      Trend
	}{
		{"exactly +10pct is stable", 1000, 1100, TrendStable},
		{"just above +10pct is up", 10000, 11001, TrendUp},
		{"exactly -10pct is stable", 1000, 900, TrendStable},
		{"just below -10pct is down", 10000, 8999, TrendDown},
		{"flat", 1000, 1000, TrendStable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			summary := Compute(window(tc.firstSales, tc.lastSales))
			assert.Equal(t, tc.trend, summary.Trend)
		})
	}
}

func TestComputeZeroBaselines(t *testing.T) {
	// Zero first-price and zero first-sales never produce NaN or Inf
	snapshots := []Snapshot{
		{Price: 0, SalesCount: 0, Rating: 0, CapturedAt: day(0)},
		{Price: 50000, SalesCount: 25, Rating: 4.0, CapturedAt: day(1)},
	}

	summary := Compute(snapshots)

	assert.Equal(t, 0.0, summary.PriceChangePct)
	assert.Equal(t, 0.0, summary.SalesChangePct)
	assert.Equal(t, 4.0, summary.RatingChangeAbs)
	assert.Equal(t, int64(0), summary.MinPrice)
	assert.Equal(t, int64(50000), summary.MaxPrice)
	assert.Equal(t, TrendStable, summary.Trend)
}

func TestComputePriceDrop(t *testing.T) {
	snapshots := []Snapshot{
		{Price: 200000, SalesCount: 500, Rating: 4.8, CapturedAt: day(0)},
		{Price: 180000, SalesCount: 510, Rating: 4.8, CapturedAt: day(1)},
		{Price: 150000, SalesCount: 400, Rating: 4.7, CapturedAt: day(2)},
	}

	summary := Compute(snapshots)

	assert.Equal(t, -25.0, summary.PriceChangePct)
	assert.Equal(t, -20.0, summary.SalesChangePct)
	assert.Equal(t, -0.1, summary.RatingChangeAbs)
	assert.Equal(t, TrendDown, summary.Trend)
	assert.Equal(t, int64(150000), summary.MinPrice)
	assert.Equal(t, int64(200000), summary.MaxPrice)
	assert.Equal(t, 3, summary.DataPoints)
}
