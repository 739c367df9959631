package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/mapping"
	"github.com/agentstation/docsync/pkg/properties"
	"github.com/agentstation/docsync/pkg/sync"
)

// fakeRemote scripts per-call responses and records what was written.
type fakeRemote struct {
	responses []error // consumed per call; exhausted means success
	creates   []map[string]properties.Value
	updates   map[string]map[string]properties.Value
}

func (f *fakeRemote) next() error {
	if len(f.responses) == 0 {
		return nil
	}
	err := f.responses[0]
	f.responses = f.responses[1:]
	return err
}

func (f *fakeRemote) CreatePage(_ context.Context, props map[string]properties.Value) (string, error) {
	if err := f.next(); err != nil {
		return "", err
	}
	f.creates = append(f.creates, props)
	return "created-id", nil
}

func (f *fakeRemote) UpdatePage(_ context.Context, pageID string, props map[string]properties.Value) (string, error) {
	if err := f.next(); err != nil {
		return "", err
	}
	if f.updates == nil {
		f.updates = map[string]map[string]properties.Value{}
	}
	f.updates[pageID] = props
	return pageID, nil
}

// fakeSleeper records backoff waits without actually waiting.
type fakeSleeper struct {
	waits []time.Duration
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.waits = append(f.waits, d)
	return nil
}

func execMapping(t *testing.T) *mapping.Mapping {
	t.Helper()
	m, err := mapping.New([]mapping.Field{
		{Column: "Name", Property: "Name", Kind: properties.Title},
		{Column: "Group", Property: "Group", Kind: properties.MultiSelect},
	})
	require.NoError(t, err)
	return m
}

func rateLimited(after float64) error {
	return &pkgerrors.APIError{StatusCode: 429, Message: "throttled", RetryAfter: after}
}

func TestExecutorBackoffSequence(t *testing.T) {
	// Two 429s with suggested waits of 2 and 1 seconds, then success:
	// exactly two waits of exactly those durations.
	remote := &fakeRemote{responses: []error{rateLimited(2), rateLimited(1), nil}}
	sleeper := &fakeSleeper{}

	executor := sync.NewExecutor(remote, execMapping(t),
		sync.WithSleeper(sleeper.sleep),
		sync.WithRequestsPerSecond(0),
	)

	result, err := executor.CreateAll(context.Background(), []mapping.Record{
		{Key: "Widget", Values: map[string]string{"Name": "Widget", "Group": "A, B"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{2 * time.Second, 1 * time.Second}, sleeper.waits)
	assert.Equal(t, 2, result.RateLimitWaits)
	assert.Equal(t, []string{"Widget"}, result.Created)
	assert.False(t, result.HasFailures())
}

func TestExecutorDefaultWait(t *testing.T) {
	remote := &fakeRemote{responses: []error{rateLimited(0), nil}}
	sleeper := &fakeSleeper{}

	executor := sync.NewExecutor(remote, execMapping(t),
		sync.WithSleeper(sleeper.sleep),
		sync.WithRequestsPerSecond(0),
	)

	_, err := executor.CreateAll(context.Background(), []mapping.Record{
		{Key: "k", Values: map[string]string{"Name": "k"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.waits, "missing suggestion defaults to one second")
}

func TestExecutorPermanentFailureContinuesBatch(t *testing.T) {
	remote := &fakeRemote{responses: []error{
		&pkgerrors.APIError{StatusCode: 400, Message: "bad property"},
		nil,
	}}

	executor := sync.NewExecutor(remote, execMapping(t), sync.WithRequestsPerSecond(0))
	result, err := executor.CreateAll(context.Background(), []mapping.Record{
		{Key: "bad", Values: map[string]string{"Name": "bad"}},
		{Key: "good", Values: map[string]string{"Name": "good"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "bad", result.Failed[0].Key)
	assert.Equal(t, "create", result.Failed[0].Operation)
	assert.Equal(t, []string{"good"}, result.Created)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, result.Confirmed())
}

func TestExecutorEncodesPayload(t *testing.T) {
	remote := &fakeRemote{}
	executor := sync.NewExecutor(remote, execMapping(t), sync.WithRequestsPerSecond(0))

	_, err := executor.CreateAll(context.Background(), []mapping.Record{
		{Key: "Widget", Values: map[string]string{"Name": "Widget", "Group": "A, B"}},
	})
	require.NoError(t, err)

	require.Len(t, remote.creates, 1)
	props := remote.creates[0]

	group, ok := props["Group"]
	require.True(t, ok)
	require.Len(t, group.MultiSelect, 2)
	assert.Equal(t, "A", group.MultiSelect[0].Name)
	assert.Equal(t, "B", group.MultiSelect[1].Name)

	name, ok := props["Name"]
	require.True(t, ok)
	require.Len(t, name.Title, 1)
	assert.Equal(t, "Widget", name.Title[0].Text.Content)
}

func TestExecutorSkipsUnsupportedKinds(t *testing.T) {
	m, err := mapping.New([]mapping.Field{
		{Column: "Name", Property: "Name", Kind: properties.Title},
		{Column: "Total", Property: "Total", Kind: properties.Kind("formula")},
	})
	require.NoError(t, err)

	remote := &fakeRemote{}
	executor := sync.NewExecutor(remote, m, sync.WithRequestsPerSecond(0))

	result, err := executor.CreateAll(context.Background(), []mapping.Record{
		{Key: "Widget", Values: map[string]string{"Name": "Widget", "Total": "42"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedFields)
	assert.Equal(t, []string{"Widget"}, result.Created, "record continues with remaining fields")

	require.Len(t, remote.creates, 1)
	assert.Contains(t, remote.creates[0], "Name")
	assert.NotContains(t, remote.creates[0], "Total")
}

func TestExecutorOmitsSystemManagedFields(t *testing.T) {
	m, err := mapping.New([]mapping.Field{
		{Column: "Name", Property: "Name", Kind: properties.Title},
		{Column: "EditedBy", Property: "EditedBy", Kind: properties.LastEditedBy},
	})
	require.NoError(t, err)

	remote := &fakeRemote{}
	executor := sync.NewExecutor(remote, m, sync.WithRequestsPerSecond(0))

	_, err = executor.CreateAll(context.Background(), []mapping.Record{
		{Key: "a", Values: map[string]string{"Name": "a", "EditedBy": ""}},
		{Key: "b", Values: map[string]string{"Name": "b", "EditedBy": "user-1"}},
	})
	require.NoError(t, err)

	require.Len(t, remote.creates, 2)
	assert.NotContains(t, remote.creates[0], "EditedBy")
	assert.Contains(t, remote.creates[1], "EditedBy")
}

func TestExecutorUpdateAll(t *testing.T) {
	remote := &fakeRemote{}
	executor := sync.NewExecutor(remote, execMapping(t), sync.WithRequestsPerSecond(0))

	result, err := executor.UpdateAll(context.Background(), []sync.Update{
		{Record: mapping.Record{Key: "k1", Values: map[string]string{"Name": "k1"}}, PageID: "p1"},
		{Record: mapping.Record{Key: "k2", Values: map[string]string{"Name": "k2"}}, PageID: "p2"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"k1", "k2"}, result.Updated)
	assert.Contains(t, remote.updates, "p1")
	assert.Contains(t, remote.updates, "p2")
}

func TestExecutorExecuteMergesResults(t *testing.T) {
	remote := &fakeRemote{}
	executor := sync.NewExecutor(remote, execMapping(t), sync.WithRequestsPerSecond(0))

	plan := &sync.Plan{
		Creates: []mapping.Record{{Key: "c", Values: map[string]string{"Name": "c"}}},
		Updates: []sync.Update{{Record: mapping.Record{Key: "u", Values: map[string]string{"Name": "u"}}, PageID: "p"}},
	}

	result, err := executor.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, result.Created)
	assert.Equal(t, []string{"u"}, result.Updated)
	assert.Equal(t, 2, result.Confirmed())
	assert.Equal(t, "1 created, 1 updated", result.Summary())
}

func TestExecutorContextCanceledDuringBackoff(t *testing.T) {
	remote := &fakeRemote{responses: []error{rateLimited(5)}}

	ctx, cancel := context.WithCancel(context.Background())
	executor := sync.NewExecutor(remote, execMapping(t),
		sync.WithRequestsPerSecond(0),
		sync.WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	_, err := executor.CreateAll(ctx, []mapping.Record{
		{Key: "k", Values: map[string]string{"Name": "k"}},
	})
	require.ErrorIs(t, err, context.Canceled)
}
