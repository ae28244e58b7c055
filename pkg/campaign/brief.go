package campaign

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimelineWeeks is used when a brief leaves timeline_weeks unset.
	DefaultTimelineWeeks = 6
	// MinTimelineWeeks is the shortest timeline a brief may request.
	MinTimelineWeeks = 2
	// MaxTimelineWeeks is the longest timeline a brief may request.
	MaxTimelineWeeks = 12
)

// Brief describes the campaign the caller wants planned.
type Brief struct {
	Topic             string `json:"topic" yaml:"topic"`
	Product           string `json:"product" yaml:"product"`
	TargetAudience    string `json:"target_audience" yaml:"target_audience"`
	GoalsKPIs         string `json:"goals_kpis" yaml:"goals_kpis"`
	Budget            string `json:"budget" yaml:"budget"`
	PreferredChannels string `json:"preferred_channels" yaml:"preferred_channels"`
	TimelineWeeks     int    `json:"timeline_weeks,omitempty" yaml:"timeline_weeks,omitempty"`
	Constraints       string `json:"constraints" yaml:"constraints"`
	AdditionalNotes   string `json:"additional_notes" yaml:"additional_notes"`
}

// Weeks returns the planning horizon, falling back to DefaultTimelineWeeks.
func (b Brief) Weeks() (weeks int) {
	weeks = b.TimelineWeeks
	if weeks <= 0 {
		weeks = DefaultTimelineWeeks
	}
	return weeks
}

// Validate checks the fields a run cannot do without.
func (b Brief) Validate() (err error) {
	if strings.TrimSpace(b.Topic) == "" {
		err = errors.New("brief topic is required")
		return err
	}

	if b.TimelineWeeks != 0 && (b.TimelineWeeks < MinTimelineWeeks || b.TimelineWeeks > MaxTimelineWeeks) {
		err = errors.Errorf("timeline_weeks must be between %d and %d, got %d", MinTimelineWeeks, MaxTimelineWeeks, b.TimelineWeeks)
		return err
	}

	return err
}

// SampleBrief returns a ready-to-edit example brief.
func SampleBrief() (b Brief) {
	b = Brief{
		Topic:             "AI tools for small businesses",
		Product:           "SaaS platform that bundles AI automations for SMEs",
		TargetAudience:    "Owners of small service businesses in US/Europe",
		GoalsKPIs:         "Increase product trials by 30% in 3 months; primary KPIs: trials, demo bookings, CTR",
		Budget:            "Low to medium budget, mostly organic + small paid tests",
		PreferredChannels: "LinkedIn, email, blog, YouTube shorts",
		TimelineWeeks:     DefaultTimelineWeeks,
		Constraints:       "No big brand ads; avoid over-technical jargon",
	}
	return b
}

// LoadBrief reads a brief from a file path or an http(s) URL. JSON and YAML
// are both accepted.
func LoadBrief(input string) (b Brief, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	b, err = LoadBriefWithContext(ctx, input)
	return b, err
}

// LoadBriefWithContext is LoadBrief with a caller-supplied context.
func LoadBriefWithContext(ctx context.Context, input string) (b Brief, err error) {
	var data []byte
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		data, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch brief from URL: %s", input)
			return b, err
		}
	} else {
		data, err = fetchFromFile(input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch brief from file: %s", input)
			return b, err
		}
	}

	b, err = ParseBrief(data)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse brief: %s", input)
		return b, err
	}

	err = b.Validate()
	if err != nil {
		err = errors.Wrap(err, "brief validation failed")
		return b, err
	}

	return b, err
}

// ParseBrief decodes a JSON or YAML document into a Brief.
func ParseBrief(data []byte) (b Brief, err error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		err = errors.New("brief is empty")
		return b, err
	}

	if strings.HasPrefix(trimmed, "{") {
		err = json.Unmarshal([]byte(trimmed), &b)
		if err != nil {
			err = errors.Wrap(err, "invalid JSON brief")
		}
		return b, err
	}

	err = yaml.Unmarshal([]byte(trimmed), &b)
	if err != nil {
		err = errors.Wrap(err, "invalid YAML brief")
		return b, err
	}

	return b, err
}

// fetchFromFile reads a brief document from disk.
func fetchFromFile(path string) (data []byte, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return data, err
	}

	if len(data) == 0 {
		err = errors.New("file is empty")
		return data, err
	}

	return data, err
}

// fetchFromURL retrieves a brief document over HTTP.
func fetchFromURL(ctx context.Context, urlStr string) (data []byte, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return data, err
	}

	req.Header.Set("User-Agent", "campaign-planner/1.0")
	req.Header.Set("Accept", "application/json, application/yaml, text/yaml, text/plain")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return data, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return data, err
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return data, err
	}

	if len(data) == 0 {
		err = errors.New("fetched content is empty")
		return data, err
	}

	return data, err
}
