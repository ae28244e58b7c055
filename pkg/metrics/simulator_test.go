package metrics

import (
	"math"
	"testing"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts(n int) (posts []campaign.Post) {
	for i := 0; i < n; i++ {
		posts = append(posts, campaign.Post{
			campaign.FieldCampaignName: "Launch",
			campaign.FieldChannel:      "LinkedIn",
			campaign.FieldCopy:         "Copy",
			campaign.FieldCTA:          "Start a trial",
		})
	}
	return posts
}

func TestSimulateBounds(t *testing.T) {
	sim := NewUnseeded()
	scored := sim.Simulate(samplePosts(500))
	require.Len(t, scored, 500)

	for _, p := range scored {
		clicks := p.Clicks()
		impressions := p.Impressions()

		assert.GreaterOrEqual(t, clicks, MinClicks)
		assert.LessOrEqual(t, clicks, MaxClicks)
		assert.GreaterOrEqual(t, impressions, MinImpressions)
		assert.LessOrEqual(t, impressions, MaxImpressions)

		expected := math.RoundToEven(100*float64(clicks)/float64(impressions)*100) / 100
		assert.Equal(t, expected, p.CTR())
	}
}

func TestSimulatePreservesFieldsAndInput(t *testing.T) {
	posts := samplePosts(2)
	posts[0][campaign.FieldCTR] = 99.0

	scored := NewSeeded(1).Simulate(posts)

	assert.Equal(t, 99.0, posts[0][campaign.FieldCTR], "input must not be modified")
	assert.NotContains(t, posts[1], campaign.FieldClicks)

	for _, p := range scored {
		assert.Equal(t, "Launch", p[campaign.FieldCampaignName])
		assert.Equal(t, "Start a trial", p[campaign.FieldCTA])
		assert.Contains(t, p, campaign.FieldClicks)
	}
	assert.NotEqual(t, 99.0, scored[0][campaign.FieldCTR])
}

func TestSimulateSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42).Simulate(samplePosts(10))
	b := NewSeeded(42).Simulate(samplePosts(10))
	assert.Equal(t, a, b)
}

func TestSimulateEmpty(t *testing.T) {
	scored := NewSeeded(7).Simulate(nil)
	assert.NotNil(t, scored)
	assert.Empty(t, scored)
}

func TestCTR(t *testing.T) {
	tests := []struct {
		clicks      int
		impressions int
		expected    float64
	}{
		{clicks: 20, impressions: 5000, expected: 0.4},
		{clicks: 300, impressions: 500, expected: 60},
		{clicks: 123, impressions: 4567, expected: 2.69},
		{clicks: 1, impressions: 3, expected: 33.33},
		{clicks: 5, impressions: 0, expected: 0},
		// exact halves round to even
		{clicks: 21, impressions: 800, expected: 2.62},
		{clicks: 27, impressions: 800, expected: 3.38},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CTR(tt.clicks, tt.impressions))
	}
}
