package sync

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/logging"
	"github.com/agentstation/docsync/pkg/mapping"
	"github.com/agentstation/docsync/pkg/properties"
)

// Remote issues create and update operations against the remote
// collection.
type Remote interface {
	CreatePage(ctx context.Context, props map[string]properties.Value) (string, error)
	UpdatePage(ctx context.Context, pageID string, props map[string]properties.Value) (string, error)
}

// Sleeper suspends for the given duration, honoring context
// cancellation. Tests inject one to simulate elapsed time.
type Sleeper func(ctx context.Context, d time.Duration) error

// DefaultRequestsPerSecond paces writes to the remote service's
// documented request budget before the server has to throttle us.
const DefaultRequestsPerSecond = 3

// defaultRetryWait is used when a throttling response carries no
// suggested wait.
const defaultRetryWait = time.Second

// Executor pushes planned operations to the remote service, one
// record at a time. Rate-limit responses are retried without bound
// after the server-suggested wait; any other failure is recorded and
// the batch moves on. No rollback: partial progress persists remotely.
type Executor struct {
	remote  Remote
	mapping *mapping.Mapping
	limiter *rate.Limiter
	sleep   Sleeper
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleeper replaces the backoff sleep function.
func WithSleeper(s Sleeper) Option {
	return func(e *Executor) { e.sleep = s }
}

// WithRequestsPerSecond adjusts client-side pacing. Zero or negative
// disables pacing entirely.
func WithRequestsPerSecond(rps float64) Option {
	return func(e *Executor) {
		if rps <= 0 {
			e.limiter = nil
			return
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewExecutor creates an executor writing through the given remote.
func NewExecutor(remote Remote, m *mapping.Mapping, opts ...Option) *Executor {
	e := &Executor{
		remote:  remote,
		mapping: m,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		sleep:   sleepWithContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the whole plan: creates first, then updates. The
// returned error is non-nil only for context cancellation; per-record
// failures are reported in the Result.
func (e *Executor) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	result, err := e.CreateAll(ctx, plan.Creates)
	if err != nil {
		return result, err
	}

	updated, err := e.UpdateAll(ctx, plan.Updates)
	result.merge(updated)
	return result, err
}

// CreateAll creates one remote record per local record, in order.
func (e *Executor) CreateAll(ctx context.Context, creates []mapping.Record) (*Result, error) {
	result := &Result{}
	for _, rec := range creates {
		props := e.encode(ctx, rec, result)
		err := e.attempt(ctx, result, "create", rec.Key, func(ctx context.Context) error {
			_, err := e.remote.CreatePage(ctx, props)
			return err
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// UpdateAll overwrites the mapped properties of each matched remote
// record, in order. Every matched record is rewritten whether or not
// any field changed; a rerun converges to the same state.
func (e *Executor) UpdateAll(ctx context.Context, updates []Update) (*Result, error) {
	result := &Result{}
	for _, upd := range updates {
		props := e.encode(ctx, upd.Record, result)
		err := e.attempt(ctx, result, "update", upd.Record.Key, func(ctx context.Context) error {
			_, err := e.remote.UpdatePage(ctx, upd.PageID, props)
			return err
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// encode translates every mapped cell of a record into its typed
// property value. Fields of unsupported kinds are skipped with a
// warning; the record continues with its remaining fields. Columns
// absent from the source entirely are not written.
func (e *Executor) encode(ctx context.Context, rec mapping.Record, result *Result) map[string]properties.Value {
	log := logging.FromContext(ctx)

	props := make(map[string]properties.Value, e.mapping.Len())
	for _, f := range e.mapping.Fields() {
		cell, ok := rec.Values[f.Column]
		if !ok {
			continue
		}

		value, include, err := properties.Encode(f.Kind, f.Column, cell)
		if err != nil {
			result.SkippedFields++
			log.Warn().
				Str("key", rec.Key).
				Str("column", f.Column).
				Str("kind", f.Kind.String()).
				Msg("Skipping field with unsupported kind")
			continue
		}
		if include {
			props[f.Property] = value
		}
	}
	return props
}

// attempt drives one record through the retry state machine:
// Attempting -> Success | RateLimited -> Attempting | PermanentFailure.
// Rate limiting retries without bound, trusting the server to
// eventually stop throttling. The returned error is non-nil only when
// the context is done.
func (e *Executor) attempt(ctx context.Context, result *Result, operation, key string, call func(context.Context) error) error {
	log := logging.FromContext(ctx)

	for {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		err := call(ctx)
		if err == nil {
			switch operation {
			case "create":
				result.Created = append(result.Created, key)
			default:
				result.Updated = append(result.Updated, key)
			}
			log.Info().Str("operation", operation).Str("key", key).Msg("Record confirmed")
			return nil
		}

		if errors.IsRateLimited(err) {
			wait := defaultRetryWait
			var apiErr *errors.APIError
			if stderrors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				wait = time.Duration(apiErr.RetryAfter * float64(time.Second))
			}

			result.RateLimitWaits++
			log.Warn().
				Str("key", key).
				Dur("wait", wait).
				Msg("Rate limited, backing off")

			if err := e.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		writeErr := &errors.WriteError{Operation: operation, Key: key, Err: err}
		result.Failed = append(result.Failed, Failure{Operation: operation, Key: key, Err: writeErr})
		log.Error().
			Err(err).
			Str("operation", operation).
			Str("key", key).
			Msg("Record permanently failed")
		return nil
	}
}

// sleepWithContext blocks for d or until the context is done.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
