package screens

import "context"

// effect tracks the data-loading run of a screen for one dependency value.
// Starting a run cancels the previous one, and only the latest run may commit
// its result. Callers hold the owning screen's lock.
type effect[D comparable] struct {
	deps   D
	ran    bool
	gen    uint64
	cancel context.CancelFunc
}

func (e *effect[D]) changed(deps D) bool {
	return !e.ran || e.deps != deps
}

func (e *effect[D]) begin(parent context.Context, deps D) (context.Context, uint64) {
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	e.gen++
	e.deps = deps
	e.ran = true
	e.cancel = cancel
	return ctx, e.gen
}

func (e *effect[D]) current(gen uint64) bool {
	return gen == e.gen
}

// done releases the context of run gen if it is still the latest.
func (e *effect[D]) done(gen uint64) {
	if gen == e.gen && e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// abort forgets run gen when its caller gave up before it could commit, so the
// next change check reloads the same dependency.
func (e *effect[D]) abort(gen uint64) {
	if gen != e.gen {
		return
	}
	var zero D
	e.deps = zero
	e.ran = false
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
