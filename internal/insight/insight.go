// Package insight defines the boundary to the AI insight generator.
// The generator itself is an external collaborator; this module only
// promises it a well-formed product record plus historical context.
package insight

import (
	"context"

	"ntdung/trendworker/internal/analytics"
	"ntdung/trendworker/internal/scrape"
)

// InsightType mirrors the categories the generator emits
type InsightType string

const (
	TypeOpportunity InsightType = "opportunity"
	TypeWarning     InsightType = "warning"
	TypeTrend       InsightType = "trend"
	TypeAction      InsightType = "action"
)

// Input is the structured context handed to the generator
type Input struct {
	Product     scrape.Product       `json:"product"`
	Summary     analytics.Summary    `json:"summary"`
	History     []analytics.Snapshot `json:"history"`
	Competitors []scrape.Product     `json:"competitors,omitempty"`
}

// Insight is one generated observation
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    int         `json:"priority"`
}

// Result is the generator's structured answer
type Result struct {
	Score       int       `json:"score"`
	Insights    []Insight `json:"insights"`
	ActionItems []string  `json:"action_items"`
}

// Analyzer is the opaque analysis call. External generators implement
// it behind the API layer; RuleAnalyzer is the built-in fallback when
// none is configured.
type Analyzer interface {
	Analyze(ctx context.Context, input Input) (Result, error)
}
