package intake

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCGMIngestorValidFormat(t *testing.T) {
	ing := NewCGMIngestor(newFakeStore(completeProfile()))

	valid := []string{"95", "95,110,102", " 95 , 110 , 102 ", "0,1000"}
	for _, input := range valid {
		if !ing.ValidFormat(input) {
			t.Errorf("ValidFormat(%q) = false, want true", input)
		}
	}

	invalid := []string{"", "abc", "95;110;102", "95, ,102", "95.5,110", "95,110,", "ninety five"}
	for _, input := range invalid {
		if ing.ValidFormat(input) {
			t.Errorf("ValidFormat(%q) = true, want false", input)
		}
	}
}

func TestCGMIngestorIngestAllSaved(t *testing.T) {
	store := newFakeStore(completeProfile())
	ing := NewCGMIngestor(store)
	ing.now = func() time.Time { return time.Date(2026, 8, 29, 8, 30, 0, 0, time.UTC) }

	report, err := ing.Ingest(context.Background(), 1, "95, 110, 102")
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if report.Total != 3 || report.Saved != 3 || len(report.Failures) != 0 {
		t.Fatalf("report = %+v, want 3 of 3 saved", report)
	}
	if !report.AllSaved() {
		t.Error("AllSaved() = false, want true")
	}
	if store.saveCalls != 3 {
		t.Errorf("store received %d save calls, want 3", store.saveCalls)
	}
	for _, r := range store.readings {
		if r.ReadingType != "breakfast" {
			t.Errorf("reading type = %q, want breakfast for an 08:30 timestamp", r.ReadingType)
		}
	}

	text := ing.FormatReport(report, 1)
	if !strings.Contains(text, "✅ Saved 3 out of 3 readings for user #1.") {
		t.Errorf("report text missing saved summary: %q", text)
	}
	if !strings.Contains(text, "meal plan") {
		t.Errorf("report text missing meal plan nudge: %q", text)
	}
}

func TestCGMIngestorIngestPartialFailure(t *testing.T) {
	store := newFakeStore(completeProfile())
	store.saveErr = func(value float64) error {
		if value > 1000 {
			return errors.New("invalid glucose value: must be between 0 and 1000 mg/dL")
		}
		return nil
	}
	ing := NewCGMIngestor(store)

	report, err := ing.Ingest(context.Background(), 1, "95,2000,110")
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if report.Total != 3 || report.Saved != 2 {
		t.Fatalf("report = %+v, want 2 of 3 saved", report)
	}
	if report.AllSaved() {
		t.Error("AllSaved() = true with a failed reading")
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(report.Failures))
	}
	if report.Failures[0].Value != 2000 {
		t.Errorf("failed value = %g, want 2000", report.Failures[0].Value)
	}
	if report.Failures[0].Summary != "must be between 0 and 1000 mg/dL" {
		t.Errorf("failure summary = %q", report.Failures[0].Summary)
	}
	if store.saveCalls != 3 {
		t.Errorf("store received %d save calls, want 3: one failure must not abort the batch", store.saveCalls)
	}

	text := ing.FormatReport(report, 1)
	if !strings.Contains(text, "Saved 2 out of 3") {
		t.Errorf("report text missing partial summary: %q", text)
	}
	if !strings.Contains(text, "Details:") || !strings.Contains(text, "Reading 2000") {
		t.Errorf("report text missing failure details: %q", text)
	}
	if strings.Contains(text, "meal plan") {
		t.Errorf("partial batch must not include the meal plan nudge: %q", text)
	}
}

func TestCGMIngestorIngestAllFailed(t *testing.T) {
	store := newFakeStore(completeProfile())
	store.saveErr = func(float64) error {
		return errors.New("unknown user: user 1 not found")
	}
	ing := NewCGMIngestor(store)

	report, err := ing.Ingest(context.Background(), 1, "95,110")
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if report.Saved != 0 || report.Total != 2 {
		t.Fatalf("report = %+v, want 0 of 2 saved", report)
	}

	text := ing.FormatReport(report, 1)
	if !strings.Contains(text, "⚠️ Failed to save any of the 2 readings for user #1.") {
		t.Errorf("report text missing failure summary: %q", text)
	}
}

func TestCGMIngestorFormatReportEmpty(t *testing.T) {
	ing := NewCGMIngestor(newFakeStore(completeProfile()))
	if got := ing.FormatReport(&IngestReport{}, 1); got != "No readings provided to process." {
		t.Errorf("empty report text = %q", got)
	}
}
