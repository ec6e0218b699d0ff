package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
	}{
		{"plain digits", "199000", 199000},
		{"currency sign in thousands", "199₫", 199000},
		{"dotted thousand separators", "1.199.000₫", 1199000},
		{"single dot separator", "199.000", 199000},
		{"comma separators", "199,000 VND", 199000},
		{"decimal quoted in thousands", "45.5", 45500},
		{"empty", "", 0},
		{"no digits", "Liên hệ", 0},
		{"zero", "0₫", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePrice(tc.input))
		})
	}
}

func TestNormalizePriceDeterministic(t *testing.T) {
	// Same input always yields the same output
	for i := 0; i < 10; i++ {
		assert.Equal(t, int64(1199000), NormalizePrice("1.199.000₫"))
	}
}

func TestNormalizeCount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
	}{
		{"sold suffix", "1,234 đã bán", 1234},
		{"plain", "567", 567},
		{"with noise", "Đã bán 2.5k1", 251}, // digits only, no unit expansion
		{"empty", "", 0},
		{"no digits", "đã bán", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeCount(tc.input))
		})
	}
}

func TestNormalizeRating(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
	}{
		{"decimal with suffix", "4.8 sao", 4.8},
		{"integer", "5", 5},
		{"embedded", "Điểm: 3.2/5", 3.2},
		{"empty", "", 0},
		{"no number", "chưa có đánh giá", 0},
		{"not clamped", "9.9", 9.9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeRating(tc.input))
		})
	}
}

func TestRawProductNormalize(t *testing.T) {
	raw := RawProduct{
		Name:        "  Áo thun nam  ",
		PriceText:   "1.199.000₫",
		SalesText:   "1,234 đã bán",
		RatingText:  "4.8 sao",
		ReviewsText: "321 đánh giá",
	}

	product := raw.Normalize(PlatformShopee)

	assert.Equal(t, "Áo thun nam", product.Name)
	assert.Equal(t, int64(1199000), product.Price)
	assert.Equal(t, int64(1234), product.Sales)
	assert.Equal(t, 4.8, product.Rating)
	assert.Equal(t, int64(321), product.Reviews)
	assert.Equal(t, PlatformShopee, product.Platform)
	assert.True(t, product.Valid())
}

func TestProductValid(t *testing.T) {
	assert.True(t, Product{Name: "x", Price: 1}.Valid())
	assert.False(t, Product{Name: "", Price: 1}.Valid())
	assert.False(t, Product{Name: "x", Price: 0}.Valid())
}
