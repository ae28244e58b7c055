package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nikogura/campaign-planner/pkg/campaign"
)

// Campaign count bounds and posts per campaign the writer is asked for.
const (
	MinCampaigns     = 5
	MaxCampaigns     = 7
	PostsPerCampaign = 2
)

// Reviewer checks drafted assets against the writing constraints.
type Reviewer struct{}

// NewReviewer creates a new reviewer instance.
func NewReviewer() (reviewer *Reviewer) {
	reviewer = &Reviewer{}
	return reviewer
}

// Review scores the assets for the brief. It never fails: a broken draft
// just scores low.
func (r *Reviewer) Review(brief campaign.Brief, assets campaign.Assets) (review campaign.Review) {
	campaigns := assets.Campaigns()
	posts := assets.Posts()

	var violations []campaign.Violation
	violations = append(violations, r.checkStructure(campaigns, posts)...)

	channels := preferredChannels(brief.PreferredChannels)
	for i, p := range posts {
		subject := postSubject(i, p)
		violations = append(violations, r.checkCopy(subject, p)...)

		if len(channels) > 0 && !onChannel(campaign.Text(p[campaign.FieldChannel]), channels) {
			violations = append(violations, violation(RuleOffChannel, subject,
				fmt.Sprintf("channel %s is not in %s", campaign.Text(p[campaign.FieldChannel]), brief.PreferredChannels)))
		}
	}

	review = score(violations)
	return review
}

func (r *Reviewer) checkStructure(campaigns []campaign.Campaign, posts []campaign.Post) (violations []campaign.Violation) {
	if len(campaigns) < MinCampaigns || len(campaigns) > MaxCampaigns {
		violations = append(violations, violation(RuleCampaignCount, "campaigns",
			fmt.Sprintf("%d campaigns drafted, expected %d-%d", len(campaigns), MinCampaigns, MaxCampaigns)))
	}

	counts := make(map[string]int, len(campaigns))
	for _, c := range campaigns {
		counts[c.Name()] = 0
	}

	for i, p := range posts {
		name := campaign.Text(p[campaign.FieldCampaignName])
		if _, ok := counts[name]; !ok {
			violations = append(violations, violation(RuleOrphanPost, postSubject(i, p),
				fmt.Sprintf("campaign %s was not drafted", name)))
			continue
		}
		counts[name]++
	}

	for _, c := range campaigns {
		if n := counts[c.Name()]; n != PostsPerCampaign {
			violations = append(violations, violation(RulePostsPerCampaign, c.Name(),
				fmt.Sprintf("%d posts, expected %d", n, PostsPerCampaign)))
		}
	}

	return violations
}

func (r *Reviewer) checkCopy(subject string, p campaign.Post) (violations []campaign.Violation) {
	text := campaign.Text(p[campaign.FieldCopy])
	if text == "" {
		violations = append(violations, violation(RuleMissingCopy, subject, "copy is empty"))
		return violations
	}

	if words := len(strings.Fields(text)); words > MaxCopyWords {
		violations = append(violations, violation(RuleCopyTooLong, subject,
			fmt.Sprintf("%d words, limit %d", words, MaxCopyWords)))
	}

	if campaign.Text(p[campaign.FieldCTA]) == "" {
		violations = append(violations, violation(RuleMissingCTA, subject, "cta is empty"))
	}

	lower := strings.ToLower(text)
	for _, phrase := range ClickbaitPhrases {
		if strings.Contains(lower, phrase) {
			violations = append(violations, violation(RuleClickbait, subject,
				fmt.Sprintf("contains: %s", phrase)))
		}
	}

	return violations
}

func score(violations []campaign.Violation) (review campaign.Review) {
	categoryScores := make(map[string]int, len(CategoryWeights))
	for category := range CategoryWeights {
		categoryScores[category] = 100
	}

	for _, v := range violations {
		rule, exists := Rules[v.Rule]
		if !exists {
			continue
		}
		categoryScores[rule.Category] -= rule.Weight
	}

	var overall float64
	for category, weight := range CategoryWeights {
		if categoryScores[category] < 0 {
			categoryScores[category] = 0
		}
		overall += float64(categoryScores[category]) * weight
	}

	if violations == nil {
		violations = []campaign.Violation{}
	}

	review = campaign.Review{
		Score:          int(overall + 0.5),
		CategoryScores: categoryScores,
		Violations:     violations,
		Lessons:        lessons(violations, int(overall+0.5)),
	}

	return review
}

// lessons lists each broken rule once, most costly first.
func lessons(violations []campaign.Violation, overall int) (out []string) {
	seen := make(map[string]bool)
	var broken []Rule
	for _, v := range violations {
		if seen[v.Rule] {
			continue
		}
		seen[v.Rule] = true
		if rule, ok := Rules[v.Rule]; ok {
			broken = append(broken, rule)
		}
	}

	sort.SliceStable(broken, func(i, j int) bool {
		return broken[i].Weight > broken[j].Weight
	})

	out = make([]string, 0, len(broken)+1)
	for _, rule := range broken {
		out = append(out, rule.Description)
	}

	if overall < PassingScore {
		out = append(out, fmt.Sprintf("Score %d is below %d: consider re-running the writer", overall, PassingScore))
	}

	return out
}

func violation(name, subject, detail string) (v campaign.Violation) {
	rule := Rules[name]
	v = campaign.Violation{
		Rule:     name,
		Category: rule.Category,
		Severity: rule.Severity,
		Subject:  subject,
		Detail:   detail,
	}
	return v
}

func postSubject(i int, p campaign.Post) (subject string) {
	subject = fmt.Sprintf("post %d (%s / %s)", i+1,
		campaign.Text(p[campaign.FieldCampaignName]), campaign.Text(p[campaign.FieldChannel]))
	return subject
}

func preferredChannels(raw string) (channels []string) {
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			channels = append(channels, part)
		}
	}
	return channels
}

// onChannel matches loosely so "LinkedIn post" counts as LinkedIn.
func onChannel(channel string, preferred []string) (ok bool) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return false
	}

	for _, p := range preferred {
		if strings.Contains(channel, p) || strings.Contains(p, channel) {
			return true
		}
	}

	return false
}
