package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntdung/trendworker/internal/analytics"
)

func analyze(t *testing.T, summary analytics.Summary) Result {
	t.Helper()
	result, err := RuleAnalyzer{}.Analyze(context.Background(), Input{Summary: summary})
	require.NoError(t, err)
	return result
}

func insightTypes(result Result) []InsightType {
	types := make([]InsightType, 0, len(result.Insights))
	for _, ins := range result.Insights {
		types = append(types, ins.Type)
	}
	return types
}

func TestRuleAnalyzerUpTrend(t *testing.T) {
	result := analyze(t, analytics.Summary{
		Trend:          analytics.TrendUp,
		SalesChangePct: 42.5,
		DataPoints:     10,
	})

	assert.Equal(t, 70, result.Score)
	assert.Contains(t, insightTypes(result), TypeTrend)
	assert.Empty(t, result.ActionItems)
}

func TestRuleAnalyzerDownTrendWithRatingSlip(t *testing.T) {
	result := analyze(t, analytics.Summary{
		Trend:           analytics.TrendDown,
		SalesChangePct:  -30,
		RatingChangeAbs: -0.4,
		DataPoints:      14,
	})

	assert.Equal(t, 20, result.Score)
	types := insightTypes(result)
	assert.Contains(t, types, TypeWarning)
	assert.NotEmpty(t, result.ActionItems)
}

func TestRuleAnalyzerPriceCutOpportunity(t *testing.T) {
	result := analyze(t, analytics.Summary{
		Trend:          analytics.TrendStable,
		PriceChangePct: -12,
		DataPoints:     7,
	})

	assert.Equal(t, 60, result.Score)
	assert.Contains(t, insightTypes(result), TypeOpportunity)
}

func TestRuleAnalyzerThinWindow(t *testing.T) {
	result := analyze(t, analytics.Summary{
		Trend:      analytics.TrendStable,
		DataPoints: 1,
	})

	assert.Equal(t, 50, result.Score)
	require.Len(t, result.Insights, 1)
	assert.Equal(t, TypeAction, result.Insights[0].Type)
}

func TestRuleAnalyzerScoreBounds(t *testing.T) {
	// Stack every negative signal; the score floors at zero territory
	result := analyze(t, analytics.Summary{
		Trend:              analytics.TrendDown,
		SalesChangePct:     -90,
		RatingChangeAbs:    -1.5,
		PriceVolatilityPct: 80,
		DataPoints:         30,
	})

	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}
