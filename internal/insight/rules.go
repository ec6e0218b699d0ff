package insight

import (
	"context"
	"fmt"

	"ntdung/trendworker/internal/analytics"
)

// RuleAnalyzer is the built-in fallback generator. It derives insights
// from the analytics summary with fixed thresholds and serves when no
// external generator is configured.
type RuleAnalyzer struct{}

var _ Analyzer = (*RuleAnalyzer)(nil)

// Analyze scores the product and emits threshold-based observations.
// It never fails; the error is part of the Analyzer contract.
func (RuleAnalyzer) Analyze(ctx context.Context, input Input) (Result, error) {
	summary := input.Summary

	score := 50
	var insights []Insight
	var actions []string

	switch summary.Trend {
	case analytics.TrendUp:
		score += 20
		insights = append(insights, Insight{
			Type:        TypeTrend,
			Title:       "Sales are climbing",
			Description: fmt.Sprintf("Sales grew %.2f%% over the window.", summary.SalesChangePct),
			Priority:    1,
		})
	case analytics.TrendDown:
		score -= 20
		insights = append(insights, Insight{
			Type:        TypeWarning,
			Title:       "Sales are falling",
			Description: fmt.Sprintf("Sales dropped %.2f%% over the window.", summary.SalesChangePct),
			Priority:    1,
		})
		actions = append(actions, "Review pricing against competing listings")
	}

	if summary.PriceChangePct < -5 {
		score += 10
		insights = append(insights, Insight{
			Type:        TypeOpportunity,
			Title:       "Price cut in effect",
			Description: fmt.Sprintf("Price is down %.2f%%; a good moment to push traffic.", -summary.PriceChangePct),
			Priority:    2,
		})
	}

	if summary.PriceVolatilityPct > 25 {
		insights = append(insights, Insight{
			Type:        TypeWarning,
			Title:       "Volatile pricing",
			Description: fmt.Sprintf("Price swung %.2f%% of its average over the window.", summary.PriceVolatilityPct),
			Priority:    2,
		})
		actions = append(actions, "Stabilize the listed price to protect conversion")
	}

	if summary.RatingChangeAbs < -0.2 {
		score -= 10
		insights = append(insights, Insight{
			Type:        TypeWarning,
			Title:       "Rating is slipping",
			Description: fmt.Sprintf("Rating moved %.2f over the window.", summary.RatingChangeAbs),
			Priority:    1,
		})
		actions = append(actions, "Read recent reviews for recurring complaints")
	}

	if summary.DataPoints < 3 {
		insights = append(insights, Insight{
			Type:        TypeAction,
			Title:       "Window too thin",
			Description: "Fewer than three observations; keep tracking before acting on these numbers.",
			Priority:    3,
		})
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return Result{
		Score:       score,
		Insights:    insights,
		ActionItems: actions,
	}, nil
}
