package system

import (
	"fmt"
	"sort"
)

// Runner executes systems in phase order.
type Runner struct {
	systems []System
	sorted  bool
	after   func(s System)
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// OnComplete installs a hook called after each system finishes without error.
func (r *Runner) OnComplete(fn func(s System)) {
	r.after = fn
}

// Run executes every system once and stops at the first failure.
func (r *Runner) Run() error {
	r.ensureSorted()
	for _, s := range r.systems {
		if err := r.update(s); err != nil {
			return err
		}
	}
	return nil
}

// RunPhase executes only the systems of one phase.
func (r *Runner) RunPhase(phase Phase) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() != phase {
			continue
		}
		if err := r.update(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) update(s System) error {
	if err := s.Update(); err != nil {
		return fmt.Errorf("%s/%s: %w", s.Phase(), s.Name(), err)
	}
	if r.after != nil {
		r.after(s)
	}
	return nil
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
