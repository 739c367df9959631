// Package sync classifies local records against a remote collection
// by composite key and pushes the resulting create and update
// operations to the remote service.
package sync

import (
	"fmt"

	"github.com/agentstation/docsync/pkg/mapping"
)

// RemotePage is the minimal view of a remote record reconciliation
// needs: its stable identifier and its derived composite key.
type RemotePage struct {
	ID  string
	Key string
}

// Update pairs a local record with the remote record it overwrites.
type Update struct {
	Record mapping.Record
	PageID string
}

// Plan is the outcome of reconciliation: the ordered, disjoint sets of
// records to create and records to update. Computed once per run, not
// persisted.
type Plan struct {
	Creates []mapping.Record
	Updates []Update
}

// Reconcile classifies local records in their original order: a record
// whose composite key is absent from the remote set is created, one
// whose key is present updates that remote record. Key uniqueness on
// both sides is enforced upstream (loader and fetcher), so membership
// is a plain hash lookup, O(local + remote).
func Reconcile(records []mapping.Record, pages []RemotePage) *Plan {
	remote := make(map[string]string, len(pages))
	for _, p := range pages {
		remote[p.Key] = p.ID
	}

	plan := &Plan{}
	for _, rec := range records {
		if pageID, ok := remote[rec.Key]; ok {
			plan.Updates = append(plan.Updates, Update{Record: rec, PageID: pageID})
		} else {
			plan.Creates = append(plan.Creates, rec)
		}
	}
	return plan
}

// Total returns the number of planned operations.
func (p *Plan) Total() int {
	return len(p.Creates) + len(p.Updates)
}

// HasChanges reports whether the plan contains any operation.
func (p *Plan) HasChanges() bool {
	return p.Total() > 0
}

// Summary returns a human-readable summary of the plan.
func (p *Plan) Summary() string {
	return fmt.Sprintf("%d to create, %d to update", len(p.Creates), len(p.Updates))
}
