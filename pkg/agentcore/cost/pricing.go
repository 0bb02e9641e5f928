// Package cost tracks per-agent token spend: a pricing catalogue, a
// thread-safe cost tracker, per-agent budgets, a bus subscriber that folds
// cost_incurred events into the tracker, and optional persistence of usage
// records.
package cost

import (
	"sort"
	"strings"
)

// Pricing is the USD price of a single model per 1000 tokens.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

// modelPricing is best-effort public pricing as of February 2026,
// USD per 1000 tokens. Negotiated or volume pricing is not reflected.
var modelPricing = map[string]Pricing{
	"claude-opus-4":     {InputPer1K: 0.015, OutputPer1K: 0.075},
	"claude-sonnet-4-5": {InputPer1K: 0.003, OutputPer1K: 0.015},
	"claude-haiku-4-5":  {InputPer1K: 0.00025, OutputPer1K: 0.00125},
	"gpt-4o":            {InputPer1K: 0.005, OutputPer1K: 0.015},
	"gpt-4o-mini":       {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	"gpt-3.5-turbo":     {InputPer1K: 0.0005, OutputPer1K: 0.0015},
	"gemini-1.5-pro":    {InputPer1K: 0.00125, OutputPer1K: 0.005},
	"gemini-1.5-flash":  {InputPer1K: 0.000075, OutputPer1K: 0.0003},
	"llama-3.1-70b":     {InputPer1K: 0.00059, OutputPer1K: 0.00079},
	"mistral-large":     {InputPer1K: 0.004, OutputPer1K: 0.012},
}

// GetPricing resolves a model identifier to its pricing. Lookup is
// case-insensitive; when no exact match exists, prefix matching applies in
// both directions ("claude-sonnet" resolves to "claude-sonnet-4-5") and the
// first alphabetical candidate wins on ambiguity. The second return value is
// false when no entry matches.
func GetPricing(model string) (Pricing, bool) {
	normalized := strings.ToLower(model)

	if p, ok := modelPricing[normalized]; ok {
		return p, true
	}

	var candidates []string
	for canonical := range modelPricing {
		if strings.HasPrefix(canonical, normalized) || strings.HasPrefix(normalized, canonical) {
			candidates = append(candidates, canonical)
		}
	}
	if len(candidates) == 0 {
		return Pricing{}, false
	}
	sort.Strings(candidates)
	return modelPricing[candidates[0]], true
}

// Models returns the canonical model identifiers in the catalogue, sorted.
func Models() []string {
	out := make([]string, 0, len(modelPricing))
	for m := range modelPricing {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
