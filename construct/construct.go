// Package construct implements the accumulate-then-finalize pipeline shared
// by every Caliper builder.
//
// A builder owns an Accumulator holding its variant's field state. Setters
// mutate that state under a lock. Build takes an atomic snapshot, marks the
// accumulator finalized, applies the variant defaults, validates the
// snapshot against the variant's rule set and, only if it conforms, freezes
// it into the immutable result. A failed Build never yields a value.
package construct

import (
	"errors"
	"sync"

	"github.com/c360studio/caliper/conformance"
)

// ErrFinalized is returned by Build when the builder was already built.
var ErrFinalized = errors.New("builder already finalized")

// Accumulator collects field assignments for one builder. The zero value is
// ready to use.
type Accumulator[S any] struct {
	mu        sync.Mutex
	state     S
	finalized bool
	err       error
}

// Set applies fn to the accumulated state. Calls after finalization are
// ignored.
func (a *Accumulator[S]) Set(fn func(*S)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		return
	}
	fn(&a.state)
}

// Reject records a setter-time error. Only the first one is kept; Build
// returns it without running conformance.
func (a *Accumulator[S]) Reject(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err == nil && !a.finalized {
		a.err = err
	}
}

// Err returns the recorded setter-time error, if any.
func (a *Accumulator[S]) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Finalized reports whether Build has been called.
func (a *Accumulator[S]) Finalized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finalized
}

// snapshot finalizes the accumulator and returns a private copy of its state.
func (a *Accumulator[S]) snapshot(clone func(S) S) (S, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero S
	if a.finalized {
		return zero, ErrFinalized
	}
	a.finalized = true
	if a.err != nil {
		return zero, a.err
	}
	if clone == nil {
		return a.state, nil
	}
	return clone(a.state), nil
}

// Recipe describes how one variant turns accumulated state S into result T.
type Recipe[S, T any] struct {
	Rules conformance.RuleSet

	// Clone deep-copies state so the snapshot shares nothing mutable with
	// the builder. Nil means S has no reference fields.
	Clone func(S) S

	// Defaults fills variant-fixed fields such as context, type and a
	// singleton action.
	Defaults func(*S)

	// Candidate exposes the snapshot to the validator.
	Candidate func(*S) conformance.Candidate

	// Freeze converts a conformant snapshot into the immutable result. It
	// owns the snapshot and need not copy it again.
	Freeze func(S) T
}

// Observer is notified once per Build with the outcome. report is the zero
// Report when Build failed before validation.
type Observer interface {
	ObserveBuild(variant string, report conformance.Report, err error)
}

// Build runs the finalize step for acc using r. It returns either a frozen
// result and nil, or the zero T and an error: ErrFinalized on reuse, the
// recorded setter error, or a *conformance.Error carrying the full report.
func Build[S, T any](acc *Accumulator[S], r Recipe[S, T], obs Observer) (T, error) {
	var zero T

	state, err := acc.snapshot(r.Clone)
	if err != nil {
		notify(obs, r.Rules.Variant, conformance.Report{}, err)
		return zero, err
	}

	if r.Defaults != nil {
		r.Defaults(&state)
	}

	report := conformance.Validate(r.Candidate(&state), r.Rules)
	if err := report.Err(); err != nil {
		notify(obs, r.Rules.Variant, report, err)
		return zero, err
	}

	notify(obs, r.Rules.Variant, report, nil)
	return r.Freeze(state), nil
}

func notify(obs Observer, variant string, report conformance.Report, err error) {
	if obs != nil {
		obs.ObserveBuild(variant, report, err)
	}
}
