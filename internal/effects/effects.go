// Package effects applies the denormalized side-writes that follow a primary
// document insert (last-donation stamps, alert fan-out). Services build an
// explicit effect list so tests can assert on it, and the runner skips
// already-applied keys so a retry after partial failure never duplicates a
// write.
package effects

import (
	"context"
	"fmt"
	"sync"
)

// Effect is one derived write. Key must be stable across retries of the same
// logical operation.
type Effect interface {
	Key() string
	Apply(ctx context.Context) error
}

// Runner applies effect lists idempotently. There is no rollback: a failed
// effect leaves earlier effects and the primary write in place.
type Runner struct {
	mu      sync.Mutex
	applied map[string]struct{}
}

func NewRunner() *Runner {
	return &Runner{applied: make(map[string]struct{})}
}

// Apply runs each effect in order, skipping keys applied earlier. The first
// failure stops the run; applied keys stay recorded so a retry resumes where
// it left off. Once every effect in the list has applied, the keys are
// released again: no retry follows a success, and holding them would grow
// the set for the life of the process.
func (r *Runner) Apply(ctx context.Context, list []Effect) error {
	for _, e := range list {
		if r.seen(e.Key()) {
			continue
		}
		if err := e.Apply(ctx); err != nil {
			return fmt.Errorf("effect %s: %w", e.Key(), err)
		}
		r.record(e.Key())
	}
	r.release(list)
	return nil
}

func (r *Runner) release(list []Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range list {
		delete(r.applied, e.Key())
	}
}

func (r *Runner) seen(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.applied[key]
	return ok
}

func (r *Runner) record(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied[key] = struct{}{}
}

// Func adapts a closure into an Effect.
type Func struct {
	K  string
	Fn func(ctx context.Context) error
}

func (f Func) Key() string                     { return f.K }
func (f Func) Apply(ctx context.Context) error { return f.Fn(ctx) }
