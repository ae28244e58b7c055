package campaign

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Required strategy keys, in the order the planner asks for them.
const (
	KeyStrategyOverview     = "strategy_overview"
	KeyTargetAudience       = "target_audience"
	KeyMarketAnalysis       = "market_analysis"
	KeyCustomerJourney      = "customer_journey"
	KeyObjectivesKPIs       = "objectives_kpis"
	KeyMessagingPositioning = "messaging_positioning"
	KeyChannelStrategy      = "channel_strategy"
	KeyBudgetPlan           = "budget_plan"
	KeyTrendAdaptation      = "trend_adaptation"
	KeyAnalyticsFeedback    = "analytics_feedback"
	KeyExecutionPlan        = "execution_plan"

	// KeyValidationNotes is added by the research stage.
	KeyValidationNotes = "validation_notes"
)

// StrategyKeys returns the eleven top-level keys every strategy must carry.
func StrategyKeys() (keys []string) {
	keys = []string{
		KeyStrategyOverview,
		KeyTargetAudience,
		KeyMarketAnalysis,
		KeyCustomerJourney,
		KeyObjectivesKPIs,
		KeyMessagingPositioning,
		KeyChannelStrategy,
		KeyBudgetPlan,
		KeyTrendAdaptation,
		KeyAnalyticsFeedback,
		KeyExecutionPlan,
	}
	return keys
}

// Strategy is the semi-structured marketing plan produced by the planner and
// refined by the researcher. Values are whatever shape the model returned.
type Strategy map[string]interface{}

// Clone returns a deep copy so stages can return a new strategy without
// aliasing the caller's nested maps and slices.
func (s Strategy) Clone() (clone Strategy) {
	if s == nil {
		return clone
	}
	clone = make(Strategy, len(s))
	for k, v := range s {
		clone[k] = deepCopy(v)
	}
	return clone
}

// Missing lists required keys absent from the strategy.
func (s Strategy) Missing() (missing []string) {
	for _, key := range StrategyKeys() {
		if _, ok := s[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// ValidationNotes returns the research stage notes as strings.
func (s Strategy) ValidationNotes() (notes []string) {
	notes = AsStrings(s[KeyValidationNotes])
	return notes
}

// Campaign is one high-level campaign drafted by the writer.
type Campaign map[string]interface{}

// Name returns campaign_name.
func (c Campaign) Name() (name string) {
	name = Text(c["campaign_name"])
	return name
}

// Post is one example post. The writer supplies campaign_name, channel, copy
// and cta; the simulator adds clicks, impressions and ctr; the calendar adds
// date.
type Post map[string]interface{}

// Post field names.
const (
	FieldCampaignName = "campaign_name"
	FieldChannel      = "channel"
	FieldCopy         = "copy"
	FieldCTA          = "cta"
	FieldClicks       = "clicks"
	FieldImpressions  = "impressions"
	FieldCTR          = "ctr"
	FieldDate         = "date"
)

// With returns a copy of the post with key set to value. The receiver is not
// modified.
func (p Post) With(key string, value interface{}) (out Post) {
	out = make(Post, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// Merge returns a copy of the post with every field of fields applied on top.
func (p Post) Merge(fields map[string]interface{}) (out Post) {
	out = make(Post, len(p)+len(fields))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// CTR returns the click-through rate, or zero when unset or not numeric.
func (p Post) CTR() (ctr float64) {
	ctr, _ = Number(p[FieldCTR])
	return ctr
}

// Clicks returns the simulated clicks.
func (p Post) Clicks() (clicks int) {
	n, _ := Number(p[FieldClicks])
	clicks = int(n)
	return clicks
}

// Impressions returns the simulated impressions.
func (p Post) Impressions() (impressions int) {
	n, _ := Number(p[FieldImpressions])
	impressions = int(n)
	return impressions
}

// Date returns the scheduled ISO-8601 date, empty before scheduling.
func (p Post) Date() (date string) {
	date = Text(p[FieldDate])
	return date
}

// Experiment is a test definition emitted by the optimizer.
type Experiment struct {
	Name       string `json:"name" yaml:"name"`
	Hypothesis string `json:"hypothesis" yaml:"hypothesis"`
	PrimaryKPI string `json:"primary_kpi" yaml:"primary_kpi"`
	Duration   string `json:"duration" yaml:"duration"`
	Notes      string `json:"notes" yaml:"notes"`
}

// Assets is the writer's parsed response.
type Assets map[string]interface{}

// Campaigns returns the "campaigns" list, empty when absent or malformed.
func (a Assets) Campaigns() (campaigns []Campaign) {
	campaigns = []Campaign{}
	for _, item := range AsList(a["campaigns"]) {
		if m, ok := item.(map[string]interface{}); ok {
			campaigns = append(campaigns, Campaign(m))
		}
	}
	return campaigns
}

// Posts returns the "posts" list, empty when absent or malformed.
func (a Assets) Posts() (posts []Post) {
	posts = []Post{}
	for _, item := range AsList(a["posts"]) {
		if m, ok := item.(map[string]interface{}); ok {
			posts = append(posts, Post(m))
		}
	}
	return posts
}

// Violation is one rule broken by the drafted assets.
type Violation struct {
	Rule     string `json:"rule" yaml:"rule"`
	Category string `json:"category" yaml:"category"`
	Severity string `json:"severity" yaml:"severity"`
	Subject  string `json:"subject" yaml:"subject"`
	Detail   string `json:"detail" yaml:"detail"`
}

// Review scores the drafted assets against the writing constraints the
// writer was given. It is advisory and never fails a run.
type Review struct {
	Score          int            `json:"score" yaml:"score"`
	CategoryScores map[string]int `json:"category_scores" yaml:"category_scores"`
	Violations     []Violation    `json:"violations" yaml:"violations"`
	Lessons        []string       `json:"lessons" yaml:"lessons"`
}

// Result is the bundle produced by one pipeline run. Posts are the ranked
// posts with simulated metrics but no dates; Calendar holds the same posts in
// the same order with a date added, so read dates from Calendar.
type Result struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	Brief       Brief        `json:"brief" yaml:"brief"`
	Strategy    Strategy     `json:"strategy" yaml:"strategy"`
	Campaigns   []Campaign   `json:"campaigns" yaml:"campaigns"`
	Posts       []Post       `json:"posts" yaml:"posts"`
	Experiments []Experiment `json:"experiments" yaml:"experiments"`
	Calendar    []Post       `json:"calendar" yaml:"calendar"`
	Review      *Review      `json:"review,omitempty" yaml:"review,omitempty"`
}

// AsList normalizes a value into a list: nil becomes empty, a list is kept,
// a string that looks like a JSON array is decoded, anything else is wrapped.
func AsList(value interface{}) (list []interface{}) {
	switch v := value.(type) {
	case nil:
		list = []interface{}{}
	case []interface{}:
		list = v
	case []string:
		list = make([]interface{}, len(v))
		for i, s := range v {
			list[i] = s
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			var decoded []interface{}
			if json.Unmarshal([]byte(trimmed), &decoded) == nil {
				list = decoded
				return list
			}
		}
		list = []interface{}{v}
	default:
		list = []interface{}{v}
	}
	return list
}

// AsStrings is AsList with every element rendered as text.
func AsStrings(value interface{}) (out []string) {
	out = []string{}
	for _, item := range AsList(value) {
		out = append(out, Text(item))
	}
	return out
}

// Text renders a value for display: strings are trimmed, nil is empty, other
// values use their JSON form.
func Text(value interface{}) (text string) {
	switch v := value.(type) {
	case nil:
		text = ""
	case string:
		text = strings.TrimSpace(v)
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		text = strconv.Itoa(v)
	case fmt.Stringer:
		text = v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			text = fmt.Sprintf("%v", v)
			return text
		}
		text = string(data)
	}
	return text
}

// Number reads a numeric field that may have come from Go code (int, float64)
// or from decoded JSON (float64, json.Number).
func Number(value interface{}) (n float64, ok bool) {
	switch v := value.(type) {
	case float64:
		n, ok = v, true
	case float32:
		n, ok = float64(v), true
	case int:
		n, ok = float64(v), true
	case int64:
		n, ok = float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		n, ok = parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		n, ok = parsed, err == nil
	}
	if ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
		n, ok = 0, false
	}
	return n, ok
}

func deepCopy(value interface{}) (out interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, item := range v {
			m[k] = deepCopy(item)
		}
		out = m
	case []interface{}:
		l := make([]interface{}, len(v))
		for i, item := range v {
			l[i] = deepCopy(item)
		}
		out = l
	case []string:
		l := make([]string, len(v))
		copy(l, v)
		out = l
	default:
		out = v
	}
	return out
}
