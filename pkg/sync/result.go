package sync

import (
	"fmt"
	"strings"
)

// Failure records one permanently failed write: the record's identity
// and the response detail. Failures never abort the batch.
type Failure struct {
	Operation string // "create" or "update"
	Key       string
	Err       error
}

// Result reports what an execution actually did. Partial progress
// persists remotely; a rerun re-reconciles from scratch.
type Result struct {
	Created []string // composite keys confirmed created
	Updated []string // composite keys confirmed updated
	Failed  []Failure

	SkippedFields  int // fields skipped for unsupported kinds
	RateLimitWaits int // backoff waits taken
}

// HasFailures reports whether any record-scoped write failed. The
// run's exit status must reflect this even when execution completed.
func (r *Result) HasFailures() bool {
	return len(r.Failed) > 0
}

// Confirmed returns the number of successful writes.
func (r *Result) Confirmed() int {
	return len(r.Created) + len(r.Updated)
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	parts := []string{
		fmt.Sprintf("%d created", len(r.Created)),
		fmt.Sprintf("%d updated", len(r.Updated)),
	}
	if len(r.Failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(r.Failed)))
	}
	if r.SkippedFields > 0 {
		parts = append(parts, fmt.Sprintf("%d fields skipped", r.SkippedFields))
	}
	return strings.Join(parts, ", ")
}

// merge folds another result into this one.
func (r *Result) merge(other *Result) {
	r.Created = append(r.Created, other.Created...)
	r.Updated = append(r.Updated, other.Updated...)
	r.Failed = append(r.Failed, other.Failed...)
	r.SkippedFields += other.SkippedFields
	r.RateLimitWaits += other.RateLimitWaits
}
