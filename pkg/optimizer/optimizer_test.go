package optimizer

import (
	"testing"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedCTR overrides ctr with the given values, in order.
func fixedCTR(values ...float64) (sim metrics.Func) {
	sim = func(posts []campaign.Post) (out []campaign.Post) {
		for i, p := range posts {
			out = append(out, p.With(campaign.FieldCTR, values[i]))
		}
		return out
	}
	return sim
}

func names(posts []campaign.Post) (out []string) {
	for _, p := range posts {
		out = append(out, campaign.Text(p[campaign.FieldCampaignName]))
	}
	return out
}

func TestOptimizeSortsDescendingByCTR(t *testing.T) {
	posts := []campaign.Post{
		{campaign.FieldCampaignName: "low"},
		{campaign.FieldCampaignName: "high"},
		{campaign.FieldCampaignName: "mid"},
	}

	o := NewOptimizer(fixedCTR(10.0, 50.0, 30.0))
	ranked, _ := o.Optimize(posts, campaign.Brief{}, campaign.Strategy{})

	assert.Equal(t, []string{"high", "mid", "low"}, names(ranked))
	assert.Equal(t, []float64{50.0, 30.0, 10.0}, []float64{ranked[0].CTR(), ranked[1].CTR(), ranked[2].CTR()})
}

func TestOptimizeStableForTies(t *testing.T) {
	posts := []campaign.Post{
		{campaign.FieldCampaignName: "first"},
		{campaign.FieldCampaignName: "top"},
		{campaign.FieldCampaignName: "second"},
		{campaign.FieldCampaignName: "third"},
	}

	o := NewOptimizer(fixedCTR(20.0, 40.0, 20.0, 20.0))
	ranked, _ := o.Optimize(posts, campaign.Brief{}, campaign.Strategy{})

	assert.Equal(t, []string{"top", "first", "second", "third"}, names(ranked))
}

func TestOptimizeExperiments(t *testing.T) {
	o := NewOptimizer(metrics.NewSeeded(3))
	_, experiments := o.Optimize(nil, campaign.SampleBrief(), campaign.Strategy{})

	require.Len(t, experiments, 2)
	assert.Equal(t, "Top vs educational hooks", experiments[0].Name)
	assert.Equal(t, "CTR", experiments[0].PrimaryKPI)
	assert.Equal(t, "3 weeks", experiments[1].Duration)

	// Callers get their own copy of the templates.
	experiments[0].Name = "changed"
	assert.Equal(t, "Top vs educational hooks", ExperimentTemplates[0].Name)
}

func TestOptimizeResimulates(t *testing.T) {
	posts := []campaign.Post{
		{campaign.FieldCampaignName: "a", campaign.FieldCTR: 99.0, campaign.FieldClicks: 1, campaign.FieldImpressions: 1},
	}

	o := NewOptimizer(metrics.NewSeeded(11))
	ranked, _ := o.Optimize(posts, campaign.Brief{}, campaign.Strategy{})

	require.Len(t, ranked, 1)
	assert.GreaterOrEqual(t, ranked[0].Clicks(), metrics.MinClicks)
	assert.Equal(t, 99.0, posts[0][campaign.FieldCTR])
}

func TestOptimizeDoesNotReorderSimulatorSlice(t *testing.T) {
	// A simulator that hands back its input slice unchanged.
	passthrough := metrics.Func(func(posts []campaign.Post) []campaign.Post {
		return posts
	})

	posts := []campaign.Post{
		{campaign.FieldCopy: "low", campaign.FieldCTR: 1.0},
		{campaign.FieldCopy: "high", campaign.FieldCTR: 9.0},
	}

	ranked, _ := NewOptimizer(passthrough).Optimize(posts, campaign.Brief{}, campaign.Strategy{})

	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0][campaign.FieldCopy])
	assert.Equal(t, "low", posts[0][campaign.FieldCopy], "caller's slice must keep its order")
	assert.Equal(t, "high", posts[1][campaign.FieldCopy], "caller's slice must keep its order")
}
