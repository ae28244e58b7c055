// Package calendar schedules posts onto publishing dates.
package calendar

import (
	"time"

	"github.com/nikogura/campaign-planner/pkg/campaign"
)

const (
	// DateLayout is the ISO-8601 calendar date format used for entries.
	DateLayout = "2006-01-02"
	// IntervalDays separates consecutive posts.
	IntervalDays = 2
)

// Build dates posts in order: the first on start, each following post
// IntervalDays after the previous one. A zero start means today in local time.
// The returned entries are copies; posts is not modified.
func Build(posts []campaign.Post, start time.Time) (entries []campaign.Post) {
	if start.IsZero() {
		start = time.Now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	entries = make([]campaign.Post, 0, len(posts))
	for i, p := range posts {
		day := start.AddDate(0, 0, IntervalDays*i)
		entries = append(entries, p.With(campaign.FieldDate, day.Format(DateLayout)))
	}

	return entries
}
