// Package agents implements the model-backed pipeline stages: strategy
// planning, research enrichment, and asset drafting.
package agents

import (
	"context"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/extract"
	"github.com/nikogura/campaign-planner/pkg/llm"
	"github.com/nikogura/campaign-planner/pkg/search"
	"github.com/pkg/errors"
)

// Planner produces the initial strategy for a brief.
type Planner struct {
	caller llm.Caller
}

// NewPlanner creates a planner backed by caller.
func NewPlanner(caller llm.Caller) (p *Planner) {
	p = &Planner{caller: caller}
	return p
}

// Plan asks the model for a full strategy and extracts it from the reply.
func (p *Planner) Plan(ctx context.Context, brief campaign.Brief) (strategy campaign.Strategy, err error) {
	obj, err := callForObject(ctx, p.caller, buildStrategyPrompt(brief))
	if err != nil {
		return strategy, err
	}

	strategy = campaign.Strategy(obj)

	return strategy, err
}

// Researcher validates and deepens the market and trend sections of a
// strategy using web search results.
type Researcher struct {
	caller   llm.Caller
	searcher search.Searcher
}

// NewResearcher creates a researcher backed by caller and searcher.
func NewResearcher(caller llm.Caller, searcher search.Searcher) (r *Researcher) {
	r = &Researcher{caller: caller, searcher: searcher}
	return r
}

// Enrich returns a copy of strategy with market_analysis and trend_adaptation
// replaced when the model supplied them, and validation_notes set. All other
// keys are carried over unchanged. The input strategy is not modified.
func (r *Researcher) Enrich(ctx context.Context, brief campaign.Brief, strategy campaign.Strategy) (enriched campaign.Strategy, err error) {
	snippets, err := r.searcher.Search(ctx, researchQuery(brief))
	if err != nil {
		err = errors.Wrap(err, "web search failed")
		return enriched, err
	}

	updated, err := callForObject(ctx, r.caller, buildResearchPrompt(brief, strategy, snippets))
	if err != nil {
		return enriched, err
	}

	enriched = mergeResearch(strategy, updated)

	return enriched, err
}

// mergeResearch applies the research response on top of a clone of strategy.
func mergeResearch(strategy campaign.Strategy, updated map[string]interface{}) (merged campaign.Strategy) {
	merged = strategy.Clone()
	if merged == nil {
		merged = campaign.Strategy{}
	}

	for _, key := range []string{campaign.KeyMarketAnalysis, campaign.KeyTrendAdaptation} {
		if value, ok := updated[key]; ok {
			merged[key] = value
		}
	}

	notes, ok := updated[campaign.KeyValidationNotes]
	if !ok || notes == nil {
		notes = []interface{}{}
	}
	merged[campaign.KeyValidationNotes] = notes

	return merged
}

// Writer turns a strategy into campaigns and example posts.
type Writer struct {
	caller llm.Caller
}

// NewWriter creates a writer backed by caller.
func NewWriter(caller llm.Caller) (w *Writer) {
	w = &Writer{caller: caller}
	return w
}

// Draft returns the model's campaigns and posts verbatim.
func (w *Writer) Draft(ctx context.Context, brief campaign.Brief, strategy campaign.Strategy) (assets campaign.Assets, err error) {
	obj, err := callForObject(ctx, w.caller, buildWriterPrompt(brief, strategy))
	if err != nil {
		return assets, err
	}

	assets = campaign.Assets(obj)

	return assets, err
}

func callForObject(ctx context.Context, caller llm.Caller, prompt string) (obj map[string]interface{}, err error) {
	text, err := caller.Call(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "model call failed")
		return obj, err
	}

	obj, err = extract.Object(text)
	if err != nil {
		err = errors.Wrap(err, "failed to extract JSON from model output")
		return obj, err
	}

	return obj, err
}
