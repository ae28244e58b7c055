package review

// Rule represents a review rule.
type Rule struct {
	Name        string
	Category    string // copy, structure, alignment
	Severity    string // major, minor
	Description string
	Weight      int // Points deducted per violation
}

// Rule names.
const (
	RuleCopyTooLong      = "COPY_TOO_LONG"
	RuleMissingCTA       = "MISSING_CTA"
	RuleClickbait        = "CLICKBAIT_PHRASE"
	RuleMissingCopy      = "MISSING_COPY"
	RuleCampaignCount    = "CAMPAIGN_COUNT"
	RulePostsPerCampaign = "POSTS_PER_CAMPAIGN"
	RuleOrphanPost       = "ORPHAN_POST"
	RuleOffChannel       = "OFF_CHANNEL"
)

// Categories.
const (
	CategoryCopy      = "copy"
	CategoryStructure = "structure"
	CategoryAlignment = "alignment"
)

// MaxCopyWords is the longest post copy the writer is asked for.
const MaxCopyWords = 120

//nolint:gochecknoglobals // Review configuration constants
var Rules = map[string]Rule{
	// Copy Rules
	RuleCopyTooLong: {
		Name:        RuleCopyTooLong,
		Category:    CategoryCopy,
		Severity:    "major",
		Description: "Post copy exceeds 120 words",
		Weight:      10,
	},
	RuleMissingCTA: {
		Name:        RuleMissingCTA,
		Category:    CategoryCopy,
		Severity:    "major",
		Description: "Post has no call to action",
		Weight:      10,
	},
	RuleClickbait: {
		Name:        RuleClickbait,
		Category:    CategoryCopy,
		Severity:    "major",
		Description: "Post copy uses clickbait phrasing",
		Weight:      15,
	},
	RuleMissingCopy: {
		Name:        RuleMissingCopy,
		Category:    CategoryCopy,
		Severity:    "major",
		Description: "Post has no copy",
		Weight:      20,
	},

	// Structure Rules
	RuleCampaignCount: {
		Name:        RuleCampaignCount,
		Category:    CategoryStructure,
		Severity:    "major",
		Description: "Fewer than 5 or more than 7 campaigns",
		Weight:      20,
	},
	RulePostsPerCampaign: {
		Name:        RulePostsPerCampaign,
		Category:    CategoryStructure,
		Severity:    "minor",
		Description: "Campaign does not have exactly 2 posts",
		Weight:      5,
	},
	RuleOrphanPost: {
		Name:        RuleOrphanPost,
		Category:    CategoryStructure,
		Severity:    "minor",
		Description: "Post names a campaign that was not drafted",
		Weight:      5,
	},

	// Alignment Rules
	RuleOffChannel: {
		Name:        RuleOffChannel,
		Category:    CategoryAlignment,
		Severity:    "minor",
		Description: "Post channel is not one of the brief's preferred channels",
		Weight:      5,
	},
}

//nolint:gochecknoglobals // Review configuration constants
var CategoryWeights = map[string]float64{
	CategoryCopy:      0.50,
	CategoryStructure: 0.30,
	CategoryAlignment: 0.20,
}

// ClickbaitPhrases are matched case-insensitively against post copy.
//
//nolint:gochecknoglobals // Review configuration constants
var ClickbaitPhrases = []string{
	"you won't believe",
	"you wont believe",
	"shocking",
	"this one trick",
	"what happens next",
	"click here",
	"doctors hate",
	"mind-blowing",
	"guaranteed results",
	"act now",
}

// PassingScore is the overall score below which the review adds a lesson.
const PassingScore = 70
