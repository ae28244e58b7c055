package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() (result campaign.Result) {
	post := campaign.Post{
		campaign.FieldCampaignName: "Hours Back",
		campaign.FieldChannel:      "LinkedIn",
		campaign.FieldCopy:         "Reclaim <b>10 hours</b> | every week",
		campaign.FieldCTA:          "Start a trial",
		campaign.FieldClicks:       120,
		campaign.FieldImpressions:  1000,
		campaign.FieldCTR:          12.0,
	}

	result = campaign.Result{
		RunID: "run-1",
		Brief: campaign.SampleBrief(),
		Strategy: campaign.Strategy{
			campaign.KeyStrategyOverview: map[string]interface{}{
				"summary":      "Own the SMB automation niche",
				"key_messages": []interface{}{"Save time", "No jargon"},
			},
			campaign.KeyMarketAnalysis: "Fragmented market",
			campaign.KeyExecutionPlan: []interface{}{
				map[string]interface{}{
					"week_number":    float64(1),
					"theme":          "Launch",
					"channels":       []interface{}{"LinkedIn", "email"},
					"campaign_ideas": []interface{}{"Founder story"},
				},
			},
			campaign.KeyValidationNotes: []interface{}{"Competitor pricing unclear"},
			"risks":                     "Low awareness",
		},
		Campaigns: []campaign.Campaign{
			{"campaign_name": "Hours Back", "goal": "trials", "tone": "warm"},
		},
		Posts:    []campaign.Post{post},
		Calendar: []campaign.Post{post.With(campaign.FieldDate, "2024-01-01")},
		Experiments: []campaign.Experiment{
			{Name: "Short vs long", Hypothesis: "Short wins", PrimaryKPI: "CTR", Duration: "2 weeks", Notes: "LinkedIn"},
		},
	}
	return result
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleResult())

	assert.True(t, strings.HasPrefix(md, "# Campaign plan: AI tools for small businesses\n"))
	assert.Contains(t, md, "_Run run-1_")
	assert.Contains(t, md, "- **Timeline:** 6 weeks")

	// Strategy sections tolerate strings, objects and lists.
	assert.Contains(t, md, "### Validation notes\n\n- Competitor pricing unclear")
	assert.Contains(t, md, "- **Summary:** Own the SMB automation niche")
	assert.Contains(t, md, "- **Key messages:** Save time, No jargon")
	assert.Contains(t, md, "### Market analysis\n\nFragmented market")
	assert.Contains(t, md, "- **Week 1**: Launch")
	assert.Contains(t, md, "  - **Channels:** LinkedIn, email")
	assert.Contains(t, md, "_No budget plan details provided in the strategy._")
	assert.Contains(t, md, "### Risks\n\nLow awareness")

	// Tables.
	assert.Contains(t, md, "| # | Date | Campaign name | Channel | Copy | CTA | Clicks | Impressions | CTR |")
	assert.Contains(t, md, "| 1 | 2024-01-01 | Hours Back | LinkedIn |")
	assert.Contains(t, md, "| # | Campaign name | Goal | Tone |")
	assert.Contains(t, md, "| 1 | Short vs long | Short wins | CTR | 2 weeks | LinkedIn |")

	// Model markup is stripped and pipes cannot break the table.
	assert.NotContains(t, md, "<b>")
	assert.Contains(t, md, `Reclaim 10 hours \| every week`)
}

func TestRenderMarkdownEmpty(t *testing.T) {
	md := RenderMarkdown(campaign.Result{Brief: campaign.Brief{Topic: "Bikes"}})

	assert.Contains(t, md, "_No calendar entries generated._")
	assert.Contains(t, md, "_No campaigns generated yet._")
	assert.Contains(t, md, "_No posts generated yet._")
	assert.Contains(t, md, "_No experiments defined yet._")
	assert.NotContains(t, md, "Validation notes")
}

func TestRenderMarkdownReview(t *testing.T) {
	result := sampleResult()
	result.Review = &campaign.Review{
		Score:          64,
		CategoryScores: map[string]int{"copy": 40, "structure": 80},
		Violations: []campaign.Violation{
			{Rule: "MISSING_CTA", Severity: "major", Subject: "post 1 (Hours Back / LinkedIn)", Detail: "cta is empty"},
		},
		Lessons: []string{"Post has no call to action"},
	}

	md := RenderMarkdown(result)

	assert.Contains(t, md, "## Draft review\n\n**Score:** 64/100")
	assert.Contains(t, md, "- **Copy:** 40\n- **Structure:** 80")
	assert.Contains(t, md, "| 1 | MISSING_CTA | major | post 1 (Hours Back / LinkedIn) | cta is empty |")
	assert.Contains(t, md, "- Post has no call to action")

	result.Review = &campaign.Review{Score: 100, CategoryScores: map[string]int{}}
	assert.Contains(t, RenderMarkdown(result), "_No issues found._")
	assert.NotContains(t, RenderMarkdown(sampleResult()), "Draft review")
}

func TestWriteFormats(t *testing.T) {
	result := sampleResult()
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "plan"+Extension(FormatJSON))
		require.NoError(t, Write(result, "JSON", path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "run-1", decoded["run_id"])
		assert.Len(t, decoded["calendar"], 1)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "plan"+Extension(FormatYAML))
		require.NoError(t, Write(result, "yml", path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.Equal(t, "run-1", decoded["run_id"])
	})

	t.Run("markdown", func(t *testing.T) {
		path := filepath.Join(dir, "plan"+Extension(FormatMarkdown))
		require.NoError(t, Write(result, "", path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, RenderMarkdown(result), string(data))
	})

	t.Run("unsupported", func(t *testing.T) {
		err := Write(result, "docx", filepath.Join(dir, "plan.docx"))
		assert.Error(t, err)
	})
}

func TestWriteMarkdownCreatesDir(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "test.md")

	err := WriteMarkdown("test", nestedPath)
	if err != nil {
		t.Fatalf("Failed to write markdown: %v", err)
	}

	// Verify file exists.
	_, err = os.Stat(nestedPath)
	if os.IsNotExist(err) {
		t.Error("Markdown file was not created in nested directory")
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"campaign_name": "Campaign name",
		"ctr":           "CTR",
		"kpis":          "KPIs",
		"date":          "Date",
		"":              "",
	}

	for in, want := range tests {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q): expected %q, got %q", in, want, got)
		}
	}
}
