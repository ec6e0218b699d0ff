package scrape

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	priceCharsRe = regexp.MustCompile(`[^\d.]`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	ratingRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// NormalizePrice converts localized price text ("1.199.000₫", "199₫",
// "199,000 VND") into whole VND. Prices below 1000 are assumed to be
// quoted in thousands of dong and are scaled up; that assumption holds
// for the VND listings tracked here and must be revisited before
// onboarding a platform with a decimal currency. Unparseable input
// yields 0, never an error.
func NormalizePrice(text string) int64 {
	cleaned := priceCharsRe.ReplaceAllString(text, "")

	// More than one dot means thousand separators, not a decimal point
	if strings.Count(cleaned, ".") > 1 {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value <= 0 {
		return 0
	}

	if value < 1000 {
		value *= 1000
	}

	return int64(math.Round(value))
}

// NormalizeCount converts count text ("1,234 đã bán") into an integer.
// Unparseable input yields 0.
func NormalizeCount(text string) int64 {
	digits := nonDigitRe.ReplaceAllString(text, "")
	if digits == "" {
		return 0
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// NormalizeRating extracts the first numeric substring ("4.8 sao") as a
// float. Unparseable input yields 0. The value is deliberately not
// clamped to [0,5] so an out-of-range raw signal stays observable;
// strict callers validate after the fact.
func NormalizeRating(text string) float64 {
	match := ratingRe.FindString(text)
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}

// Normalize converts the raw field bag into a canonical product record.
// The provenance tag is set by the strategy that produced the bag.
func (r RawProduct) Normalize(platform Platform) Product {
	return Product{
		Name:     strings.TrimSpace(r.Name),
		Price:    NormalizePrice(r.PriceText),
		Sales:    NormalizeCount(r.SalesText),
		Rating:   NormalizeRating(r.RatingText),
		Reviews:  NormalizeCount(r.ReviewsText),
		Platform: platform,
	}
}
