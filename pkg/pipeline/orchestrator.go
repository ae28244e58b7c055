// Package pipeline sequences the campaign stages into a single run:
// strategy, research, writing, draft review, metric simulation,
// optimization and scheduling.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikogura/campaign-planner/pkg/agents"
	"github.com/nikogura/campaign-planner/pkg/calendar"
	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/nikogura/campaign-planner/pkg/llm"
	"github.com/nikogura/campaign-planner/pkg/metrics"
	"github.com/nikogura/campaign-planner/pkg/optimizer"
	"github.com/nikogura/campaign-planner/pkg/review"
	"github.com/nikogura/campaign-planner/pkg/search"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Stage names used in error messages and logs.
const (
	StageStrategy = "strategy"
	StageResearch = "research"
	StageWriter   = "writer"
)

// Orchestrator runs the full campaign pipeline. It holds no per-run state,
// so one orchestrator may serve concurrent runs.
type Orchestrator struct {
	planner    *agents.Planner
	researcher *agents.Researcher
	writer     *agents.Writer
	simulator  metrics.Simulator
	optimizer  *optimizer.Optimizer
	reviewer   *review.Reviewer
	logger     *zap.Logger
	clock      func() time.Time
	newID      func() string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for stage progress.
func WithLogger(logger *zap.Logger) (opt Option) {
	opt = func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
	return opt
}

// WithSimulator replaces the metrics simulator used by both the simulation
// step and the optimizer.
func WithSimulator(sim metrics.Simulator) (opt Option) {
	opt = func(o *Orchestrator) {
		if sim != nil {
			o.simulator = sim
		}
	}
	return opt
}

// WithClock sets the source of the calendar start date.
func WithClock(clock func() time.Time) (opt Option) {
	opt = func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
	return opt
}

// WithRunIDs sets the run ID generator.
func WithRunIDs(newID func() string) (opt Option) {
	opt = func(o *Orchestrator) {
		if newID != nil {
			o.newID = newID
		}
	}
	return opt
}

// New creates an orchestrator whose model stages share caller and whose
// research stage uses searcher.
func New(caller llm.Caller, searcher search.Searcher, opts ...Option) (o *Orchestrator) {
	o = &Orchestrator{
		planner:    agents.NewPlanner(caller),
		researcher: agents.NewResearcher(caller, searcher),
		writer:     agents.NewWriter(caller),
		reviewer:   review.NewReviewer(),
		simulator:  metrics.NewUnseeded(),
		logger:     zap.NewNop(),
		clock:      time.Now,
		newID:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(o)
	}

	o.optimizer = optimizer.NewOptimizer(o.simulator)

	return o
}

// Run executes every stage in order and returns the result bundle. The first
// failing stage aborts the run; its error is wrapped with the stage name.
func (o *Orchestrator) Run(ctx context.Context, brief campaign.Brief) (result campaign.Result, err error) {
	runID := o.newID()
	log := o.logger.With(zap.String("run_id", runID), zap.String("topic", brief.Topic))
	started := time.Now()

	log.Info("campaign run started", zap.Int("timeline_weeks", brief.Weeks()))

	strategy, err := o.planner.Plan(ctx, brief)
	if err != nil {
		err = o.stageFailed(log, StageStrategy, err)
		return result, err
	}
	log.Debug("stage complete", zap.String("stage", StageStrategy), zap.Strings("missing_keys", strategy.Missing()))

	strategy, err = o.researcher.Enrich(ctx, brief, strategy)
	if err != nil {
		err = o.stageFailed(log, StageResearch, err)
		return result, err
	}
	log.Debug("stage complete", zap.String("stage", StageResearch), zap.Int("validation_notes", len(strategy.ValidationNotes())))

	assets, err := o.writer.Draft(ctx, brief, strategy)
	if err != nil {
		err = o.stageFailed(log, StageWriter, err)
		return result, err
	}
	campaigns := assets.Campaigns()
	posts := assets.Posts()
	log.Debug("stage complete", zap.String("stage", StageWriter), zap.Int("campaigns", len(campaigns)), zap.Int("posts", len(posts)))

	draftReview := o.reviewer.Review(brief, assets)
	if draftReview.Score < review.PassingScore {
		log.Warn("draft review below passing score", zap.Int("score", draftReview.Score), zap.Int("violations", len(draftReview.Violations)))
	}

	scored := o.simulator.Simulate(posts)
	ranked, experiments := o.optimizer.Optimize(scored, brief, strategy)
	entries := calendar.Build(ranked, o.clock())

	result = campaign.Result{
		RunID:       runID,
		Brief:       brief,
		Strategy:    strategy,
		Campaigns:   campaigns,
		Posts:       ranked,
		Experiments: experiments,
		Calendar:    entries,
		Review:      &draftReview,
	}

	log.Info("campaign run complete",
		zap.Int("campaigns", len(campaigns)),
		zap.Int("posts", len(ranked)),
		zap.Int("calendar_entries", len(entries)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, err
}

func (o *Orchestrator) stageFailed(log *zap.Logger, stage string, cause error) (err error) {
	log.Error("campaign run failed", zap.String("stage", stage), zap.Error(cause))
	err = errors.Wrapf(cause, "%s stage failed", stage)
	return err
}
