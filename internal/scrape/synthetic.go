package scrape

import (
	"math/rand"
)

// Candidate names for generated records, kept recognizably fake-ish by
// being generic catalog staples
var syntheticNames = []string{
	"Áo thun cotton basic unisex form rộng",
	"Tai nghe bluetooth TWS 5.0 chống ồn",
	"Serum Vitamin C 20% trắng da mờ thâm",
	"Nồi chiên không dầu 5.5L cao cấp",
	"Giày thể thao nam nữ running",
	"Balo laptop chống nước",
	"Đồng hồ thông minh fitness",
}

type syntheticRange struct {
	priceMin, priceSpan     int64
	salesMin, salesSpan     int64
	reviewsMin, reviewsSpan int64
}

// Platform-appropriate value ranges; unlisted platforms use the shopee
// profile
var syntheticRanges = map[Platform]syntheticRange{
	PlatformShopee: {priceMin: 100_000, priceSpan: 500_000, salesMin: 100, salesSpan: 2000, reviewsMin: 50, reviewsSpan: 500},
	PlatformTikTok: {priceMin: 50_000, priceSpan: 300_000, salesMin: 50, salesSpan: 1000, reviewsMin: 20, reviewsSpan: 200},
}

// GenerateSynthetic produces a plausible random record for development
// and testing. The orchestrator only reaches it when the caller opted
// in with AllowSynthetic; it never runs in the default path.
func GenerateSynthetic(platform Platform) Product {
	r, ok := syntheticRanges[platform]
	if !ok {
		r = syntheticRanges[PlatformShopee]
	}

	return Product{
		Name:     syntheticNames[rand.Intn(len(syntheticNames))],
		Price:    r.priceMin + rand.Int63n(r.priceSpan),
		Sales:    r.salesMin + rand.Int63n(r.salesSpan),
		Rating:   float64(40+rand.Intn(11)) / 10, // 4.0 - 5.0
		Reviews:  r.reviewsMin + rand.Int63n(r.reviewsSpan),
		Platform: platform,
		Source:   StrategySynthetic,
	}
}
