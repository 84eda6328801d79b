package abax

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
)

// Master drives a branch and cut optimization. It owns the global bounds,
// the open subproblem set, the enumeration strategy, the termination
// policy and the run statistics; the problem specific work happens in the
// Sub implementations it selects. A Master is not safe for concurrent use:
// one run works on one enumeration tree, in one goroutine.
type Master struct {
	settings Settings
	options  []Option

	logger   logrus.FieldLogger
	observer TreeObserver

	firstSub               FirstSubFunc
	knownOptimum           KnownOptimumFunc
	initializeParameters   HookFunc
	initializeOptimization HookFunc
	terminateOptimization  TerminateFunc
	output                 TerminateFunc

	status Status

	bounds   *bounds
	openSubs *OpenSet
	history  *History
	fixCand  *FixCandidates
	stats    *Stats
	timers   *Timers

	root          Sub
	rRoot         Sub
	rootDualBound float64
	lastID        int
}

// New creates a Master and runs the first parameter initialization pass:
// the options are applied, then the InitializeParameters hook runs.
// Optimize repeats the pass, so a hook that derives parameters from others
// sees the final configured values both times.
func New(options ...Option) (*Master, error) {
	m := &Master{
		settings: defaultSettings(),
		options:  options,
	}
	if err := m.assignParameters(); err != nil {
		return nil, err
	}
	m.resetRun()
	return m, nil
}

// Configure applies options outside the construction pass. Parameter
// hooks use it to adjust values; since the hooks run once per assignment
// pass, their adjustments survive the repeated pass at the start of
// Optimize.
func (m *Master) Configure(options ...Option) error {
	for _, opt := range options {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

func (m *Master) assignParameters() error {
	for _, opt := range append(m.options, defaults...) {
		if err := opt(m); err != nil {
			return err
		}
	}
	if m.initializeParameters != nil {
		if err := m.initializeParameters(m); err != nil {
			return err
		}
	}
	return nil
}

// resetRun builds the per-run state from the current settings.
func (m *Master) resetRun() {
	m.status = StatusUnprocessed
	m.bounds = newBounds(m.settings.Sense, m.settings.ObjInteger,
		m.settings.Eps, m.settings.MachineEps, m.settings.Guarantee)
	m.bounds.onUpdate = m.boundsUpdated
	m.openSubs = newOpenSet(m.settings.Sense)
	m.history = &History{}
	m.fixCand = &FixCandidates{}
	m.stats = &Stats{}
	m.timers = newTimers()
	m.root = nil
	m.rRoot = nil
	m.rootDualBound = math.Inf(-1)
	if m.settings.Sense == Maximize {
		m.rootDualBound = math.Inf(1)
	}
	m.lastID = 0
}

func (m *Master) boundsUpdated(primal, dual float64) {
	m.history.update(primal, dual, m.timers.TotalCow.Total())
	m.observer.NewBounds(primal, dual)
}

// Settings returns a copy of the active parameter values.
func (m *Master) Settings() Settings { return m.settings }

// Sense returns the configured optimization sense.
func (m *Master) Sense() Sense { return m.settings.Sense }

// Logger returns the run logger for use by collaborating subproblems.
func (m *Master) Logger() logrus.FieldLogger { return m.logger }

// Status returns the current status of the run.
func (m *Master) Status() Status { return m.status }

// SetStatus records a terminal status raised by a subproblem
// implementation, such as StatusOutOfMemory when a pool cannot grow or
// StatusMaxLevel when the level limit suppressed branching. Any status
// but StatusMaxLevel stops the driver from selecting further
// subproblems; StatusMaxLevel only cuts off the raising subproblem's
// subtree, the enumeration continues and ends with that status unless a
// termination check overrides it.
func (m *Master) SetStatus(status Status) { m.status = status }

// Root returns the root of the enumeration tree, nil outside a run.
func (m *Master) Root() Sub { return m.root }

// RRoot returns the root of the remaining tree: the highest subproblem
// that is an ancestor of every open subproblem.
func (m *Master) RRoot() Sub { return m.rRoot }

// RootDualBound returns the dual bound the root relaxation proved. It is
// recorded once, from the first subproblem processed.
func (m *Master) RootDualBound() float64 { return m.rootDualBound }

// NextSubID returns the identifier for a subproblem about to be created.
// The root receives 1.
func (m *Master) NextSubID() int {
	m.lastID++
	return m.lastID
}

// OpenSubs returns the open subproblem set. Subproblem implementations
// use it to remove fathomed descendants.
func (m *Master) OpenSubs() *OpenSet { return m.openSubs }

// History returns the solution history of the run.
func (m *Master) History() *History { return m.history }

// FixCandidates returns the buffer of variables qualifying for fixing by
// reduced cost.
func (m *Master) FixCandidates() *FixCandidates { return m.fixCand }

// Stats returns the counters of the run.
func (m *Master) Stats() *Stats { return m.stats }

// Timers returns the timing breakdown of the run.
func (m *Master) Timers() *Timers { return m.timers }

// AddSubs hands newly created subproblems over to the driver: each one is
// announced to the tree observer, counted into the level statistics and
// inserted into the open set. Subproblem implementations call this with
// the children produced by branching.
func (m *Master) AddSubs(subs ...Sub) {
	for _, s := range subs {
		m.stats.newLevel(s.Level())
		parentID := 0
		if p := s.Parent(); p != nil {
			parentID = p.ID()
		}
		m.observer.NewNode(s.ID(), parentID, s.Level())
		m.openSubs.Insert(s)
	}
}

// ReassignRRoot moves the root of the remaining tree to newRoot. Moving to
// the current remaining root is a no-op. When NewRootReOptimize is set and
// the new root has already been processed, it is re-optimized so that the
// bounds it passes down to the remaining tree are as tight as possible.
func (m *Master) ReassignRRoot(ctx context.Context, newRoot Sub) error {
	if newRoot == nil {
		failf(FailIllegalParameter, "remaining root reassigned to nil")
	}
	if newRoot == m.rRoot {
		return nil
	}
	m.rRoot = newRoot
	m.stats.nNewRoot++
	m.logger.WithFields(logrus.Fields{
		"rRoot": newRoot.ID(),
		"level": newRoot.Level(),
	}).Debug("remaining root moved")
	if !m.settings.NewRootReOptimize {
		return nil
	}
	if st := newRoot.Status(); st == SubProcessed || st == SubDormant {
		return newRoot.Reoptimize(ctx, m)
	}
	return nil
}

// PrimalBound returns the incumbent primal bound, infinite until a
// feasible solution has been found.
func (m *Master) PrimalBound() float64 { return m.bounds.primal }

// DualBound returns the proven global dual bound.
func (m *Master) DualBound() float64 { return m.bounds.dual }

// SetPrimalBound accepts an improved incumbent value. Worsening the bound
// is fatal, use BetterPrimal to probe first.
func (m *Master) SetPrimalBound(x float64) { m.bounds.setPrimal(x) }

// SetDualBound accepts a tightened proven bound. Loosening it is fatal,
// use BetterDual to probe first.
func (m *Master) SetDualBound(x float64) { m.bounds.setDual(x) }

// BetterPrimal reports whether x would strictly improve the primal bound.
func (m *Master) BetterPrimal(x float64) bool { return m.bounds.betterPrimal(x) }

// BetterDual reports whether x would strictly tighten the dual bound.
func (m *Master) BetterDual(x float64) bool { return m.bounds.betterDual(x) }

// PrimalViolated reports whether a relaxation value x proves that its
// subproblem cannot improve on the incumbent, i.e. the subproblem can be
// fathomed.
func (m *Master) PrimalViolated(x float64) bool { return m.bounds.primalViolated(x) }

// FeasibleFound reports whether a feasible solution has been found.
func (m *Master) FeasibleFound() bool { return m.bounds.feasibleFound() }

// LowerBound returns the lower of the two global bounds: the dual bound
// when minimizing, the primal bound when maximizing.
func (m *Master) LowerBound() float64 { return m.bounds.lower() }

// UpperBound returns the upper of the two global bounds.
func (m *Master) UpperBound() float64 { return m.bounds.upper() }

// Guarantee returns the proven gap in percent. It fails with an
// AlgorithmFailure when the gap is undefined because the lower bound is
// zero while the upper bound is not.
func (m *Master) Guarantee() float64 { return m.bounds.guarantee() }

// Guaranteed reports whether the proven gap is within the required
// guarantee.
func (m *Master) Guaranteed() bool { return m.bounds.guaranteed() }
