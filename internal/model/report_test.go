package model

import (
	"testing"
)

// TestNewRunReport tests the RunReport constructor.
func TestNewRunReport(t *testing.T) {
	t.Parallel()

	report := NewRunReport("https://example.com", MethodPost, true, 3)

	if report.RunID == "" {
		t.Error("expected non-empty run ID")
	}
	if report.SeedURL != "https://example.com" {
		t.Errorf("unexpected seed URL %q", report.SeedURL)
	}
	if report.Method != MethodPost {
		t.Errorf("expected POST, got %v", report.Method)
	}
	if !report.FollowLinks {
		t.Error("expected FollowLinks to be true")
	}
	if report.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", report.Workers)
	}
	if report.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if report.BlacklistedPaths == nil {
		t.Error("expected non-nil BlacklistedPaths")
	}

	other := NewRunReport("https://example.com", MethodGet, false, 1)
	if other.RunID == report.RunID {
		t.Error("expected distinct run IDs")
	}
}

// TestRunReportSuccessRate tests SuccessRate and HasSamples.
func TestRunReportSuccessRate(t *testing.T) {
	t.Parallel()

	t.Run("zero attempts", func(t *testing.T) {
		t.Parallel()

		report := &RunReport{}
		if report.SuccessRate() != 0 {
			t.Errorf("expected 0, got %v", report.SuccessRate())
		}
		if report.HasSamples() {
			t.Error("expected no samples")
		}
	})

	t.Run("partial success", func(t *testing.T) {
		t.Parallel()

		report := &RunReport{Attempted: 4, Completed: 3, Failed: 1}
		if report.SuccessRate() != 75 {
			t.Errorf("expected 75, got %v", report.SuccessRate())
		}
		if !report.HasSamples() {
			t.Error("expected samples")
		}
	})
}
