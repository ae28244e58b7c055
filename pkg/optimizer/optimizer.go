// Package optimizer ranks posts by simulated performance and proposes
// experiments.
package optimizer

import (
	"sort"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/metrics"
)

// ExperimentTemplates are emitted on every run. They are not derived from the
// brief or the strategy.
//
//nolint:gochecknoglobals // Experiment configuration constants
var ExperimentTemplates = []campaign.Experiment{
	{
		Name:       "Top vs educational hooks",
		Hypothesis: "Educational hooks will drive higher CTR and saves.",
		PrimaryKPI: "CTR",
		Duration:   "2 weeks",
		Notes:      "Use top 4 posts across LinkedIn and email, vary hook style.",
	},
	{
		Name:       "Short-form vs long-form",
		Hypothesis: "Short posts with clear CTA will drive more clicks to trial page.",
		PrimaryKPI: "Trials or demo bookings",
		Duration:   "3 weeks",
		Notes:      "Test on LinkedIn and blog; ensure tracking links.",
	},
}

// Optimizer scores and ranks posts.
type Optimizer struct {
	simulator metrics.Simulator
}

// NewOptimizer creates an optimizer that scores posts with sim.
func NewOptimizer(sim metrics.Simulator) (o *Optimizer) {
	o = &Optimizer{
		simulator: sim,
	}
	return o
}

// Optimize re-simulates metrics for posts, then returns them sorted by ctr,
// highest first, together with the experiment plan. Posts with equal ctr keep
// their input order. The returned slice is always new.
func (o *Optimizer) Optimize(posts []campaign.Post, brief campaign.Brief, strategy campaign.Strategy) (ranked []campaign.Post, experiments []campaign.Experiment) {
	scored := o.simulator.Simulate(posts)
	ranked = make([]campaign.Post, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CTR() > ranked[j].CTR()
	})

	experiments = make([]campaign.Experiment, len(ExperimentTemplates))
	copy(experiments, ExperimentTemplates)

	return ranked, experiments
}
