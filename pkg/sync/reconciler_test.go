package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsync/pkg/mapping"
	"github.com/agentstation/docsync/pkg/sync"
)

func record(key string, values map[string]string) mapping.Record {
	return mapping.Record{Key: key, Values: values}
}

func TestReconcileAllNew(t *testing.T) {
	records := []mapping.Record{
		record("a", nil),
		record("b", nil),
		record("c", nil),
	}

	plan := sync.Reconcile(records, nil)

	require.Len(t, plan.Creates, 3)
	assert.Empty(t, plan.Updates)
	assert.Equal(t, "a", plan.Creates[0].Key)
	assert.Equal(t, "b", plan.Creates[1].Key)
	assert.Equal(t, "c", plan.Creates[2].Key)
	assert.True(t, plan.HasChanges())
	assert.Equal(t, 3, plan.Total())
}

func TestReconcileMatchesPairPageID(t *testing.T) {
	records := []mapping.Record{
		record("keep", nil),
		record("new", nil),
	}
	pages := []sync.RemotePage{
		{ID: "page-7", Key: "keep"},
		{ID: "page-8", Key: "other"},
	}

	plan := sync.Reconcile(records, pages)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "keep", plan.Updates[0].Record.Key)
	assert.Equal(t, "page-7", plan.Updates[0].PageID)

	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "new", plan.Creates[0].Key)
}

func TestReconcileEmpty(t *testing.T) {
	plan := sync.Reconcile(nil, []sync.RemotePage{{ID: "p", Key: "k"}})
	assert.False(t, plan.HasChanges())
	assert.Equal(t, "0 to create, 0 to update", plan.Summary())
}

func TestReconcilePreservesLocalOrder(t *testing.T) {
	records := []mapping.Record{
		record("u1", nil),
		record("c1", nil),
		record("u2", nil),
		record("c2", nil),
	}
	pages := []sync.RemotePage{
		{ID: "p1", Key: "u1"},
		{ID: "p2", Key: "u2"},
	}

	plan := sync.Reconcile(records, pages)

	require.Len(t, plan.Creates, 2)
	assert.Equal(t, "c1", plan.Creates[0].Key)
	assert.Equal(t, "c2", plan.Creates[1].Key)

	require.Len(t, plan.Updates, 2)
	assert.Equal(t, "u1", plan.Updates[0].Record.Key)
	assert.Equal(t, "u2", plan.Updates[1].Record.Key)
}
