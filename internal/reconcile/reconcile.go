// Package reconcile holds the shared vocabulary for idempotent upserts of
// externally keyed records.
package reconcile

import "strings"

// ConflictMode decides what an upsert does when the external key already
// exists locally.
type ConflictMode string

const (
	// ConflictSkip treats existing records as authoritative. Bulk import
	// default, so re-runs are idempotent.
	ConflictSkip ConflictMode = "skip"
	// ConflictUpdate overwrites local state. Webhook deliveries always use
	// this mode because they carry authoritative real-time truth.
	ConflictUpdate ConflictMode = "update"
)

func ParseConflictMode(raw string) ConflictMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "update":
		return ConflictUpdate
	default:
		return ConflictSkip
	}
}

// Outcome reports the reconciler decision for one entity.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)
