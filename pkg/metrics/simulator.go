// Package metrics assigns synthetic engagement numbers to posts.
//
// The numbers are not predictions. They exist so the optimizer has something
// to rank and the calendar has something to show.
package metrics

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nikogura/campaign-planner/pkg/campaign"
)

// Bounds for the uniform draws, inclusive.
const (
	MinClicks      = 20
	MaxClicks      = 300
	MinImpressions = 500
	MaxImpressions = 5000
)

// Simulator is anything that can attach clicks, impressions and ctr to posts.
type Simulator interface {
	Simulate(posts []campaign.Post) (scored []campaign.Post)
}

// RandomSimulator draws metrics from an injected random source.
type RandomSimulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulator backed by src.
func New(src rand.Source) (sim *RandomSimulator) {
	sim = &RandomSimulator{
		rng: rand.New(src),
	}
	return sim
}

// NewSeeded creates a reproducible simulator.
func NewSeeded(seed uint64) (sim *RandomSimulator) {
	sim = New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return sim
}

// NewUnseeded creates a simulator seeded from the clock.
func NewUnseeded() (sim *RandomSimulator) {
	seed := uint64(time.Now().UnixNano())
	sim = NewSeeded(seed)
	return sim
}

// Simulate returns a copy of every post with clicks, impressions and ctr
// merged in. Input posts are not modified.
func (s *RandomSimulator) Simulate(posts []campaign.Post) (scored []campaign.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scored = make([]campaign.Post, 0, len(posts))
	for _, p := range posts {
		clicks := MinClicks + s.rng.IntN(MaxClicks-MinClicks+1)
		impressions := MinImpressions + s.rng.IntN(MaxImpressions-MinImpressions+1)

		scored = append(scored, p.Merge(map[string]interface{}{
			campaign.FieldClicks:      clicks,
			campaign.FieldImpressions: impressions,
			campaign.FieldCTR:         CTR(clicks, impressions),
		}))
	}

	return scored
}

// CTR is the click-through rate as a percentage rounded to two decimals,
// halves to even.
func CTR(clicks, impressions int) (ctr float64) {
	if impressions == 0 {
		return ctr
	}
	ctr = math.RoundToEven(100*float64(clicks)/float64(impressions)*100) / 100
	return ctr
}

// Func adapts a plain function to the Simulator interface.
type Func func(posts []campaign.Post) []campaign.Post

// Simulate calls f.
func (f Func) Simulate(posts []campaign.Post) (scored []campaign.Post) {
	scored = f(posts)
	return scored
}
