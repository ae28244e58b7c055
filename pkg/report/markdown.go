// Package report renders a campaign result for people: markdown (optionally
// converted to PDF with pandoc), plus JSON and YAML dumps for tooling.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nikogura/campaign-planner/pkg/campaign"
)

//nolint:gochecknoglobals // Section titles are constants
var sectionTitles = map[string]string{
	campaign.KeyStrategyOverview:     "Strategy overview",
	campaign.KeyTargetAudience:       "Target audience",
	campaign.KeyMarketAnalysis:       "Market analysis",
	campaign.KeyCustomerJourney:      "Customer journey",
	campaign.KeyObjectivesKPIs:       "Objectives & KPIs",
	campaign.KeyMessagingPositioning: "Messaging & positioning",
	campaign.KeyChannelStrategy:      "Channel strategy",
	campaign.KeyBudgetPlan:           "Budget plan",
	campaign.KeyTrendAdaptation:      "Trends & adaptation",
	campaign.KeyAnalyticsFeedback:    "Analytics & feedback",
	campaign.KeyExecutionPlan:        "Execution plan",
}

// Column sets for the result tables.
//
//nolint:gochecknoglobals // Column orders are constants
var (
	CalendarColumns = []string{
		campaign.FieldDate, campaign.FieldCampaignName, campaign.FieldChannel, campaign.FieldCopy,
		campaign.FieldCTA, campaign.FieldClicks, campaign.FieldImpressions, campaign.FieldCTR,
	}
	PostColumns = []string{
		campaign.FieldCampaignName, campaign.FieldChannel, campaign.FieldCopy,
		campaign.FieldCTA, campaign.FieldClicks, campaign.FieldImpressions, campaign.FieldCTR,
	}
	CampaignColumns = []string{
		"campaign_name", "goal", "key_message", "main_channel", "suggested_creative_idea",
	}
)

// leadingKeys are rendered first inside nested objects.
//
//nolint:gochecknoglobals // Ordering hint
var leadingKeys = []string{"week_number", "stage", "name", "title", "theme", "summary", "description"}

// Renderer builds markdown documents. Model-generated text is passed through
// a strict HTML policy so the document carries no markup from the model.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer creates a markdown renderer.
func NewRenderer() (r *Renderer) {
	r = &Renderer{policy: bluemonday.StrictPolicy()}
	return r
}

// RenderMarkdown renders result with a default renderer.
func RenderMarkdown(result campaign.Result) (markdown string) {
	markdown = NewRenderer().Render(result)
	return markdown
}

// Render builds the full markdown document for result.
func (r *Renderer) Render(result campaign.Result) (markdown string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Campaign plan: %s\n\n", r.clean(result.Brief.Topic)))
	if result.RunID != "" {
		sb.WriteString(fmt.Sprintf("_Run %s_\n\n", result.RunID))
	}

	r.writeBrief(&sb, result.Brief)
	r.writeStrategy(&sb, result.Strategy)

	sb.WriteString("## Calendar\n\n")
	r.writeTable(&sb, presentColumns(CalendarColumns, result.Calendar), result.Calendar, "No calendar entries generated.")

	sb.WriteString("## Campaigns\n\n")
	rows := make([]campaign.Post, 0, len(result.Campaigns))
	for _, c := range result.Campaigns {
		rows = append(rows, campaign.Post(c))
	}
	r.writeTable(&sb, campaignColumns(rows), rows, "No campaigns generated yet.")

	sb.WriteString("## Posts (top-ranked)\n\n")
	r.writeTable(&sb, presentColumns(PostColumns, result.Posts), result.Posts, "No posts generated yet.")

	sb.WriteString("## Experiments & testing plan\n\n")
	r.writeExperiments(&sb, result.Experiments)

	if result.Review != nil {
		r.writeReview(&sb, *result.Review)
	}

	markdown = strings.TrimRight(sb.String(), "\n") + "\n"
	return markdown
}

func (r *Renderer) writeBrief(sb *strings.Builder, brief campaign.Brief) {
	sb.WriteString("## Brief\n\n")

	lines := []struct {
		label string
		value string
	}{
		{"Topic", brief.Topic},
		{"Product", brief.Product},
		{"Audience", brief.TargetAudience},
		{"Goals & KPIs", brief.GoalsKPIs},
		{"Budget", brief.Budget},
		{"Channels", brief.PreferredChannels},
		{"Timeline", fmt.Sprintf("%d weeks", brief.Weeks())},
		{"Constraints", brief.Constraints},
		{"Notes", brief.AdditionalNotes},
	}

	for _, line := range lines {
		value := r.clean(line.value)
		if value == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("- **%s:** %s\n", line.label, value))
	}
	sb.WriteString("\n")
}

func (r *Renderer) writeStrategy(sb *strings.Builder, strategy campaign.Strategy) {
	sb.WriteString("## Strategy\n\n")

	if notes := strategy.ValidationNotes(); len(notes) > 0 {
		sb.WriteString("### Validation notes\n\n")
		for _, note := range notes {
			sb.WriteString(fmt.Sprintf("- %s\n", r.clean(note)))
		}
		sb.WriteString("\n")
	}

	for _, key := range campaign.StrategyKeys() {
		sb.WriteString(fmt.Sprintf("### %s\n\n", sectionTitles[key]))

		value, ok := strategy[key]
		if !ok || isEmpty(value) {
			sb.WriteString(fmt.Sprintf("_No %s details provided in the strategy._\n\n", strings.ToLower(sectionTitles[key])))
			continue
		}

		r.writeValue(sb, value, 0)
		sb.WriteString("\n")
	}

	// Extra keys the model added beyond the required set.
	var extra []string
	for key := range strategy {
		if _, known := sectionTitles[key]; !known && key != campaign.KeyValidationNotes {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		sb.WriteString(fmt.Sprintf("### %s\n\n", humanize(key)))
		r.writeValue(sb, strategy[key], 0)
		sb.WriteString("\n")
	}
}

// writeValue renders a semi-structured value. Strings become paragraphs,
// lists become bullets and objects become labelled entries.
func (r *Renderer) writeValue(sb *strings.Builder, value interface{}, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v := value.(type) {
	case map[string]interface{}:
		for _, key := range orderedKeys(v) {
			item := v[key]
			if isEmpty(item) {
				continue
			}
			if isScalar(item) || isScalarList(item) {
				sb.WriteString(fmt.Sprintf("%s- **%s:** %s\n", indent, humanize(key), r.inline(item)))
				continue
			}
			sb.WriteString(fmt.Sprintf("%s- **%s**\n", indent, humanize(key)))
			r.writeValue(sb, item, depth+1)
		}

	case []interface{}:
		for _, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				sb.WriteString(fmt.Sprintf("%s- %s\n", indent, r.inline(item)))
				continue
			}
			sb.WriteString(fmt.Sprintf("%s- %s\n", indent, r.heading(obj)))
			r.writeValue(sb, withoutHeading(obj), depth+1)
		}

	default:
		list := campaign.AsList(v)
		if len(list) > 1 {
			r.writeValue(sb, list, depth)
			return
		}
		text := r.clean(campaign.Text(v))
		if depth == 0 {
			sb.WriteString(text + "\n")
			return
		}
		sb.WriteString(fmt.Sprintf("%s- %s\n", indent, text))
	}
}

// heading picks a title for an object rendered as a list item.
func (r *Renderer) heading(obj map[string]interface{}) (title string) {
	if week, ok := campaign.Number(obj["week_number"]); ok {
		title = fmt.Sprintf("**Week %d**", int(week))
		if theme := r.clean(campaign.Text(obj["theme"])); theme != "" {
			title += ": " + theme
		}
		return title
	}

	for _, key := range []string{"stage", "name", "title", "campaign_name", "category", "channel"} {
		if text := r.clean(campaign.Text(obj[key])); text != "" && isScalar(obj[key]) {
			title = "**" + text + "**"
			return title
		}
	}

	title = "**Item**"
	return title
}

func withoutHeading(obj map[string]interface{}) (rest map[string]interface{}) {
	rest = make(map[string]interface{}, len(obj))
	for k, v := range obj {
		rest[k] = v
	}

	if _, ok := campaign.Number(obj["week_number"]); ok {
		delete(rest, "week_number")
		delete(rest, "theme")
		return rest
	}

	for _, key := range []string{"stage", "name", "title", "campaign_name", "category", "channel"} {
		if campaign.Text(obj[key]) != "" && isScalar(obj[key]) {
			delete(rest, key)
			return rest
		}
	}

	return rest
}

func (r *Renderer) inline(value interface{}) (text string) {
	if isScalarList(value) {
		parts := make([]string, 0)
		for _, item := range campaign.AsList(value) {
			parts = append(parts, r.clean(campaign.Text(item)))
		}
		text = strings.Join(parts, ", ")
		return text
	}
	text = r.clean(campaign.Text(value))
	return text
}

func (r *Renderer) writeTable(sb *strings.Builder, columns []string, rows []campaign.Post, empty string) {
	if len(rows) == 0 || len(columns) == 0 {
		sb.WriteString(fmt.Sprintf("_%s_\n\n", empty))
		return
	}

	header := make([]string, 0, len(columns)+1)
	header = append(header, "#")
	for _, col := range columns {
		header = append(header, humanize(col))
	}
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sb.WriteString(strings.Repeat("|---", len(header)) + "|\n")

	for i, row := range rows {
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, fmt.Sprintf("%d", i+1))
		for _, col := range columns {
			cells = append(cells, r.cell(row[col]))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString("\n")
}

func (r *Renderer) writeExperiments(sb *strings.Builder, experiments []campaign.Experiment) {
	if len(experiments) == 0 {
		sb.WriteString("_No experiments defined yet._\n\n")
		return
	}

	sb.WriteString("| # | Name | Hypothesis | Primary KPI | Duration | Notes |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for i, e := range experiments {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			i+1, r.cell(e.Name), r.cell(e.Hypothesis), r.cell(e.PrimaryKPI), r.cell(e.Duration), r.cell(e.Notes)))
	}
	sb.WriteString("\n")
}

func (r *Renderer) writeReview(sb *strings.Builder, review campaign.Review) {
	sb.WriteString("## Draft review\n\n")
	sb.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", review.Score))

	categories := make([]string, 0, len(review.CategoryScores))
	for category := range review.CategoryScores {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("- **%s:** %d\n", humanize(category), review.CategoryScores[category]))
	}
	sb.WriteString("\n")

	if len(review.Violations) == 0 {
		sb.WriteString("_No issues found._\n\n")
		return
	}

	sb.WriteString("| # | Rule | Severity | Subject | Detail |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for i, v := range review.Violations {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, r.cell(v.Rule), r.cell(v.Severity), r.cell(v.Subject), r.cell(v.Detail)))
	}
	sb.WriteString("\n")

	for _, lesson := range review.Lessons {
		sb.WriteString(fmt.Sprintf("- %s\n", r.clean(lesson)))
	}
	if len(review.Lessons) > 0 {
		sb.WriteString("\n")
	}
}

// cell renders a value on one line with pipes escaped.
func (r *Renderer) cell(value interface{}) (text string) {
	text = r.inline(value)
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "|", `\|`)
	return text
}

func (r *Renderer) clean(s string) (cleaned string) {
	cleaned = strings.TrimSpace(r.policy.Sanitize(s))
	return cleaned
}

// presentColumns keeps the columns that at least one row carries.
func presentColumns(columns []string, rows []campaign.Post) (present []string) {
	for _, col := range columns {
		for _, row := range rows {
			if _, ok := row[col]; ok {
				present = append(present, col)
				break
			}
		}
	}
	return present
}

// campaignColumns returns the known campaign columns present in rows followed
// by any extra keys in sorted order.
func campaignColumns(rows []campaign.Post) (columns []string) {
	columns = presentColumns(CampaignColumns, rows)

	known := make(map[string]bool, len(CampaignColumns))
	for _, col := range CampaignColumns {
		known[col] = true
	}

	extraSet := map[string]bool{}
	for _, row := range rows {
		for key := range row {
			if !known[key] {
				extraSet[key] = true
			}
		}
	}

	extra := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extra = append(extra, key)
	}
	sort.Strings(extra)

	columns = append(columns, extra...)
	return columns
}

func orderedKeys(m map[string]interface{}) (keys []string) {
	seen := map[string]bool{}
	for _, key := range leadingKeys {
		if _, ok := m[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(m))
	for key := range m {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	keys = append(keys, rest...)
	return keys
}

// humanize turns snake_case keys into labels.
func humanize(key string) (label string) {
	switch key {
	case "ctr":
		label = "CTR"
		return label
	case "cta":
		label = "CTA"
		return label
	case "kpis", "kpi":
		label = "KPIs"
		return label
	}

	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	if len(words) == 0 {
		return label
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	label = strings.Join(words, " ")
	return label
}

func isScalar(value interface{}) (ok bool) {
	switch value.(type) {
	case map[string]interface{}, []interface{}, []string:
		ok = false
	default:
		ok = true
	}
	return ok
}

func isScalarList(value interface{}) (ok bool) {
	switch v := value.(type) {
	case []string:
		ok = true
	case []interface{}:
		for _, item := range v {
			if !isScalar(item) {
				return false
			}
		}
		ok = true
	}
	return ok
}

func isEmpty(value interface{}) (empty bool) {
	switch v := value.(type) {
	case nil:
		empty = true
	case string:
		empty = strings.TrimSpace(v) == ""
	case []interface{}:
		empty = len(v) == 0
	case []string:
		empty = len(v) == 0
	case map[string]interface{}:
		empty = len(v) == 0
	}
	return empty
}
