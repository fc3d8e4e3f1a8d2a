package intake

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aduro-health/intake-assistant/internal/domain"
	"github.com/aduro-health/intake-assistant/internal/logger"
)

// MaxFormatRetries bounds consecutive shape-invalid CGM submissions
// before the session gets a terminal message. The counter only tracks
// the format gate; persistence failures never count against it.
const MaxFormatRetries = 2

// readingPattern accepts a comma-separated list of integer readings,
// e.g. "95, 110, 102". Decimals and other delimiters are rejected
// wholesale before any parsing or store call.
var readingPattern = regexp.MustCompile(`^\s*\d+\s*(,\s*\d+\s*)*$`)

// IngestFailure records one reading the store refused.
type IngestFailure struct {
	Value   float64
	Summary string
}

// IngestReport aggregates the outcome of one reading batch.
type IngestReport struct {
	Total    int
	Saved    int
	Failures []IngestFailure
}

// AllSaved reports whether every reading in a non-empty batch persisted.
func (r *IngestReport) AllSaved() bool {
	return r.Total > 0 && r.Saved == r.Total
}

// CGMIngestor parses free-text reading batches and persists them
// through the profile store.
type CGMIngestor struct {
	store domain.ProfileStore
	now   func() time.Time
}

// NewCGMIngestor creates an ingestor backed by the given store.
func NewCGMIngestor(store domain.ProfileStore) *CGMIngestor {
	return &CGMIngestor{store: store, now: time.Now}
}

// ValidFormat reports whether input matches the accepted reading shape.
func (ing *CGMIngestor) ValidFormat(input string) bool {
	return readingPattern.MatchString(input)
}

// Ingest parses a well-formed batch and persists every reading
// independently; a failing reading never aborts the rest of the batch.
// Per-reading store errors end up in the report, so the returned error
// is always nil today and reserved for faults outside the batch loop.
func (ing *CGMIngestor) Ingest(ctx context.Context, userID uint, input string) (*IngestReport, error) {
	report := &IngestReport{}
	for _, token := range strings.Split(input, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil {
			// Unreachable after the format gate, but a batch must
			// never abort halfway.
			report.Total++
			report.Failures = append(report.Failures, IngestFailure{Summary: "not a number"})
			continue
		}

		report.Total++
		ts := ing.now()
		if _, err := ing.store.SaveCGMReading(ctx, userID, value, ts, domain.InferReadingType(ts)); err != nil {
			logger.Warn("CGM reading rejected by store", "user_id", userID, "value", value, "error", err)
			report.Failures = append(report.Failures, IngestFailure{
				Value:   value,
				Summary: errorSummary(err.Error()),
			})
			continue
		}
		report.Saved++
	}
	return report, nil
}

// FormatReport renders the user-visible outcome of a batch.
func (ing *CGMIngestor) FormatReport(report *IngestReport, userID uint) string {
	var parts []string
	switch {
	case report.Saved > 0:
		parts = append(parts, fmt.Sprintf("✅ Saved %d out of %d readings for user #%d.", report.Saved, report.Total, userID))
	case report.Total > 0:
		parts = append(parts, fmt.Sprintf("⚠️ Failed to save any of the %d readings for user #%d.", report.Total, userID))
	default:
		return "No readings provided to process."
	}

	if len(report.Failures) > 0 {
		parts = append(parts, "Details:")
		for _, f := range report.Failures {
			parts = append(parts, fmt.Sprintf("- Reading %g: %s", f.Value, f.Summary))
		}
	}

	if report.AllSaved() {
		parts = append(parts, "Next, I can generate your meal plan—just let me know when you're ready.")
	}

	return strings.Join(parts, "\n")
}

// errorSummary extracts the text after the first colon of a store error
// message, falling back to the whole message.
func errorSummary(msg string) string {
	if _, after, found := strings.Cut(msg, ":"); found {
		return strings.TrimSpace(after)
	}
	return msg
}
