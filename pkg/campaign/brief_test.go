package campaign

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadBriefFromJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	briefPath := filepath.Join(tmpDir, "brief.json")
	content := `{"topic": "AI tools", "target_audience": "SMB owners", "timeline_weeks": 4}`

	err := os.WriteFile(briefPath, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Failed to write test brief: %v", err)
	}

	b, err := LoadBrief(briefPath)
	if err != nil {
		t.Fatalf("Failed to load brief: %v", err)
	}

	if b.Topic != "AI tools" {
		t.Errorf("Expected topic 'AI tools', got '%s'", b.Topic)
	}

	if b.TimelineWeeks != 4 {
		t.Errorf("Expected 4 weeks, got %d", b.TimelineWeeks)
	}
}

func TestLoadBriefFromYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	briefPath := filepath.Join(tmpDir, "brief.yaml")
	content := "topic: Coffee subscriptions\npreferred_channels: Instagram, email\ntimeline_weeks: 3\n"

	err := os.WriteFile(briefPath, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Failed to write test brief: %v", err)
	}

	b, err := LoadBrief(briefPath)
	if err != nil {
		t.Fatalf("Failed to load brief: %v", err)
	}

	if b.PreferredChannels != "Instagram, email" {
		t.Errorf("Expected channels 'Instagram, email', got '%s'", b.PreferredChannels)
	}

	if b.Weeks() != 3 {
		t.Errorf("Expected 3 weeks, got %d", b.Weeks())
	}
}

func TestLoadBriefNonexistent(t *testing.T) {
	_, err := LoadBrief("/nonexistent/brief.yaml")
	if err == nil {
		t.Error("Expected error loading nonexistent brief, got nil")
	}
}

func TestLoadBriefEmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.yaml")

	err := os.WriteFile(emptyFile, []byte(""), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err = LoadBrief(emptyFile)
	if err == nil {
		t.Error("Expected error loading empty brief, got nil")
	}
}

func TestLoadBriefFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"topic": "Remote URL brief"}`))
	}))
	defer server.Close()

	b, err := LoadBrief(server.URL)
	if err != nil {
		t.Fatalf("Failed to load brief from URL: %v", err)
	}

	if b.Topic != "Remote URL brief" {
		t.Errorf("Expected topic 'Remote URL brief', got '%s'", b.Topic)
	}
}

func TestLoadBriefFromURLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := LoadBrief(server.URL)
	if err == nil {
		t.Fatal("Expected error for 404 response, got nil")
	}

	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Error should mention status 404: %v", err)
	}
}

func TestLoadBriefWithContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte(`{"topic": "late"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := LoadBriefWithContext(ctx, server.URL)
	if err == nil {
		t.Error("Expected error for timed out context, got nil")
	}
}

func TestBriefValidate(t *testing.T) {
	tests := []struct {
		name    string
		brief   Brief
		wantErr bool
	}{
		{name: "sample brief", brief: SampleBrief(), wantErr: false},
		{name: "missing topic", brief: Brief{TimelineWeeks: 4}, wantErr: true},
		{name: "unset timeline", brief: Brief{Topic: "x"}, wantErr: false},
		{name: "timeline too short", brief: Brief{Topic: "x", TimelineWeeks: 1}, wantErr: true},
		{name: "timeline too long", brief: Brief{Topic: "x", TimelineWeeks: 13}, wantErr: true},
		{name: "timeline at bounds", brief: Brief{Topic: "x", TimelineWeeks: MaxTimelineWeeks}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.brief.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBriefWeeksDefault(t *testing.T) {
	if (Brief{}).Weeks() != DefaultTimelineWeeks {
		t.Errorf("Expected default of %d weeks, got %d", DefaultTimelineWeeks, (Brief{}).Weeks())
	}
}
