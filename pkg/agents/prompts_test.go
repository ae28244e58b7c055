package agents

import (
	"strings"
	"testing"

	"github.com/nikogura/campaign-planner/pkg/campaign"
)

func TestBuildStrategyPrompt(t *testing.T) {
	brief := campaign.SampleBrief()

	prompt := buildStrategyPrompt(brief)

	if !strings.Contains(prompt, brief.Topic) {
		t.Error("Prompt should contain the brief topic")
	}

	for _, key := range campaign.StrategyKeys() {
		if !strings.Contains(prompt, `"`+key+`"`) {
			t.Errorf("Prompt should require key %s", key)
		}
	}

	if !strings.Contains(prompt, "exactly 6 weeks") {
		t.Error("Prompt should request the default 6-week execution plan")
	}

	if !strings.Contains(prompt, "campaign_ideas") {
		t.Error("Prompt should describe the week object fields")
	}
}

func TestBuildStrategyPromptDefaultsTimeline(t *testing.T) {
	brief := campaign.Brief{Topic: "Coffee subscriptions"}

	prompt := buildStrategyPrompt(brief)

	if !strings.Contains(prompt, `"timeline_weeks": 6`) {
		t.Error("Prompt brief should carry the effective timeline")
	}
}

func TestBuildResearchPrompt(t *testing.T) {
	brief := campaign.SampleBrief()
	strategy := campaign.Strategy{
		campaign.KeyMarketAnalysis:  "Crowded market",
		campaign.KeyTrendAdaptation: map[string]interface{}{"trends": []interface{}{"agents"}},
	}

	prompt := buildResearchPrompt(brief, strategy, "1. Trend report")

	if !strings.Contains(prompt, "market_analysis: Crowded market") {
		t.Error("Prompt should contain the current market analysis")
	}

	if !strings.Contains(prompt, `"agents"`) {
		t.Error("Prompt should render structured trend adaptation as JSON")
	}

	if !strings.Contains(prompt, "1. Trend report") {
		t.Error("Prompt should contain the search snippets")
	}

	if !strings.Contains(prompt, `["market_analysis","trend_adaptation","validation_notes"]`) {
		t.Error("Prompt should restrict the response keys")
	}
}

func TestBuildResearchPromptMissingSections(t *testing.T) {
	prompt := buildResearchPrompt(campaign.Brief{Topic: "x"}, campaign.Strategy{}, "")

	if !strings.Contains(prompt, "market_analysis: null") {
		t.Error("Missing sections should render as null")
	}
}

func TestBuildWriterPrompt(t *testing.T) {
	brief := campaign.SampleBrief()
	strategy := campaign.Strategy{
		campaign.KeyMessagingPositioning: "Save hours every week",
		campaign.KeyExecutionPlan: []interface{}{
			map[string]interface{}{"week_number": 1, "theme": "Awareness"},
		},
	}

	prompt := buildWriterPrompt(brief, strategy)

	if !strings.Contains(prompt, "Save hours every week") {
		t.Error("Prompt should contain the messaging positioning")
	}

	if !strings.Contains(prompt, "Awareness") {
		t.Error("Prompt should contain the execution plan")
	}

	if !strings.Contains(prompt, "- Preferred channels: "+brief.PreferredChannels) {
		t.Error("Prompt should contain the preferred channels")
	}

	if !strings.Contains(prompt, "5-7 high-level campaigns") || !strings.Contains(prompt, "exactly 2 example posts") {
		t.Error("Prompt should fix campaign and post counts")
	}
}

func TestResearchQuery(t *testing.T) {
	query := researchQuery(campaign.Brief{Topic: " AI tools "})

	expected := "AI tools latest industry trends, competitors, positioning, audience"
	if query != expected {
		t.Errorf("Expected '%s', got '%s'", expected, query)
	}
}
