package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/review"
)

// topPosts is how many ranked posts the summary lists.
const topPosts = 3

// renderSummary builds the boxed run summary printed after a plan is written.
func renderSummary(result campaign.Result) (out string) {
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF"))
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))
	warn := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1)

	lines := []string{
		head.Render(result.Brief.Topic),
		label.Render("run ") + result.RunID,
		"",
		fmt.Sprintf("%s %d", label.Render("campaigns:  "), len(result.Campaigns)),
		fmt.Sprintf("%s %d", label.Render("posts:      "), len(result.Posts)),
		fmt.Sprintf("%s %d", label.Render("experiments:"), len(result.Experiments)),
	}

	if len(result.Calendar) > 0 {
		first := result.Calendar[0].Date()
		last := result.Calendar[len(result.Calendar)-1].Date()
		lines = append(lines, fmt.Sprintf("%s %s to %s", label.Render("calendar:   "), first, last))
	}

	if result.Review != nil {
		score := fmt.Sprintf("%d/100", result.Review.Score)
		if result.Review.Score < review.PassingScore {
			score = warn.Render(score)
		}
		lines = append(lines, fmt.Sprintf("%s %s (%d issues)", label.Render("review:     "), score, len(result.Review.Violations)))
	}

	if missing := result.Strategy.Missing(); len(missing) > 0 {
		lines = append(lines, "", warn.Render("strategy is missing: "+strings.Join(missing, ", ")))
	}

	if len(result.Posts) > 0 {
		lines = append(lines, "", head.Render("Top posts by simulated CTR"))
		for i, p := range result.Posts {
			if i == topPosts {
				break
			}
			lines = append(lines, fmt.Sprintf("%d. %5.2f%%  %s (%s)",
				i+1, p.CTR(), campaign.Text(p[campaign.FieldCampaignName]), campaign.Text(p[campaign.FieldChannel])))
		}
	}

	out = box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return out
}
