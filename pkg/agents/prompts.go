package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nikogura/campaign-planner/pkg/campaign"
)

// ResearchQuerySuffix is appended to the brief topic to form the search query.
const ResearchQuerySuffix = " latest industry trends, competitors, positioning, audience"

// researchQuery builds the single search query for a brief.
func researchQuery(brief campaign.Brief) (query string) {
	query = strings.TrimSpace(brief.Topic) + ResearchQuerySuffix
	return query
}

// buildStrategyPrompt creates the planning prompt.
func buildStrategyPrompt(brief campaign.Brief) (prompt string) {
	briefJSON, _ := json.MarshalIndent(promptBrief(brief), "", "  ")
	weeks := brief.Weeks()

	keys := make([]string, 0, len(campaign.StrategyKeys()))
	for _, key := range campaign.StrategyKeys() {
		keys = append(keys, fmt.Sprintf("- %q", key))
	}

	prompt = fmt.Sprintf(`You are CMP, the world's best content marketing planner.

BRIEF (JSON):
%s

TASK:
Create a FULL strategy object with EXACTLY these top-level keys:
%s

Requirements:
- "strategy_overview": summary, key_messages, channels.
- "execution_plan": a LIST of exactly %d weeks (one entry per week of the %d-week timeline). Each week is an OBJECT with:
  - week_number
  - theme
  - main_objective
  - key_message
  - channels (list of strings)
  - campaign_ideas (list of strings)

Return ONLY a single VALID JSON object with those keys.
No explanations, no extra fields.`, string(briefJSON), strings.Join(keys, "\n"), weeks, weeks)

	return prompt
}

// buildResearchPrompt creates the research validation prompt.
func buildResearchPrompt(brief campaign.Brief, strategy campaign.Strategy, snippets string) (prompt string) {
	briefJSON, _ := json.MarshalIndent(promptBrief(brief), "", "  ")

	prompt = fmt.Sprintf(`You are a marketing research validator.

BRIEF:
%s

CURRENT_STRATEGY:
market_analysis: %s
trend_adaptation: %s

WEB_SNIPPETS:
%s

TASK:
1) Refine and deepen ONLY "market_analysis" and "trend_adaptation" using the snippets.
2) Add "validation_notes" as a list of short bullet-point strings describing
   risks, contradictions, or uncertainties (focus on market & trends).

Return ONLY a single VALID JSON object with EXACT keys:
["market_analysis","trend_adaptation","validation_notes"].
Do not include any other keys, text, or comments.`,
		string(briefJSON),
		promptValue(strategy[campaign.KeyMarketAnalysis]),
		promptValue(strategy[campaign.KeyTrendAdaptation]),
		snippets)

	return prompt
}

// buildWriterPrompt creates the campaign and copy drafting prompt.
func buildWriterPrompt(brief campaign.Brief, strategy campaign.Strategy) (prompt string) {
	briefJSON, _ := json.MarshalIndent(promptBrief(brief), "", "  ")

	prompt = fmt.Sprintf(`You are a senior campaign designer and copywriter.

BRIEF:
%s

MESSAGING_POSITIONING:
%s

EXECUTION_PLAN:
%s

CONTEXT:
- Target audience: %s
- Goals & KPIs: %s
- Preferred channels: %s

TASK:
1) For this strategy, create 5-7 high-level campaigns. For each campaign, provide:
   - campaign_name
   - goal
   - key_message
   - main_channel
   - suggested_creative_idea

2) For each campaign, write exactly 2 example posts with:
   - campaign_name
   - channel
   - copy (<= 120 words)
   - cta

All copy must:
- Align with the brief goals and audience.
- Use clear, non-clickbait language.

Return ONLY a single VALID JSON object with keys:
- "campaigns": list of campaign objects
- "posts": list of post objects
Do not include any other keys, comments, or text.`,
		string(briefJSON),
		promptValue(strategy[campaign.KeyMessagingPositioning]),
		promptValue(strategy[campaign.KeyExecutionPlan]),
		brief.TargetAudience,
		brief.GoalsKPIs,
		brief.PreferredChannels)

	return prompt
}

// promptBrief returns the brief with the effective timeline filled in.
func promptBrief(brief campaign.Brief) (b campaign.Brief) {
	b = brief
	b.TimelineWeeks = brief.Weeks()
	return b
}

// promptValue renders a strategy value for embedding in a prompt.
func promptValue(value interface{}) (text string) {
	switch v := value.(type) {
	case nil:
		text = "null"
	case string:
		text = v
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			text = fmt.Sprintf("%v", v)
			return text
		}
		text = string(data)
	}
	return text
}
