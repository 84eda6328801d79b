package abax

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Optimize runs the enumeration until optimality is proven or a
// termination check fires. It repeats the parameter initialization pass of
// New, seeds the bounds, creates the root subproblem through the
// registered factory and then selects, one at a time, the next open
// subproblem under the configured enumeration strategy and lets it
// optimize itself.
//
// The returned status is also retained and available through Status. A
// non-nil error accompanies StatusError; configuration errors detected
// before the run starts leave the status untouched. Cancelling the context
// ends the run with StatusError and the context's error. End-of-run
// cleanup is deferred, so statistics output, the terminate hook, tree
// teardown and the fix candidate sweep happen exactly once on every exit
// path, including contract violation panics.
func (m *Master) Optimize(ctx context.Context) (Status, error) {
	if err := m.assignParameters(); err != nil {
		return m.status, err
	}
	if err := m.settings.validateRun(); err != nil {
		return m.status, err
	}
	if m.firstSub == nil {
		return m.status, ErrNoFirstSub
	}
	if m.settings.PrimalBoundInitMode != NoPrimalBound && m.knownOptimum == nil {
		return m.status, fmt.Errorf("%w: primal bound mode %s needs a known optimum oracle",
			ErrInvalidParameter, m.settings.PrimalBoundInitMode)
	}

	m.resetRun()
	m.status = StatusProcessing
	m.timers.Total.Start()
	m.timers.TotalCow.Start()
	defer m.cleanUp()

	m.logger.WithFields(logrus.Fields{
		"problem":  m.settings.ProblemName,
		"sense":    m.settings.Sense.String(),
		"strategy": m.settings.EnumerationStrategy.String(),
	}).Info("optimization started")

	m.initPrimalBound()

	if m.initializeOptimization != nil {
		if err := m.initializeOptimization(m); err != nil {
			m.status = StatusError
			return m.status, fmt.Errorf("initializing optimization: %w", err)
		}
	}

	root, err := m.firstSub(m)
	if err != nil {
		m.status = StatusError
		return m.status, fmt.Errorf("creating root subproblem: %w", err)
	}
	if root == nil {
		m.status = StatusError
		return m.status, fmt.Errorf("%w: first subproblem factory returned no subproblem", ErrInvalidParameter)
	}
	m.root = root
	m.rRoot = root
	if st := root.Status(); st == SubUnprocessed || st == SubDormant {
		m.AddSubs(root)
	} else {
		// decided before the loop even started, record it in the tree only
		m.stats.newLevel(root.Level())
		m.observer.NewNode(root.ID(), 0, root.Level())
	}

	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			m.status = StatusError
			runErr = fmt.Errorf("optimization interrupted: %w", err)
			m.fathomRemaining()
			break
		}
		sub := m.selectSub()
		if sub == nil {
			break
		}
		m.stats.nSubSelected++
		m.logger.WithFields(logrus.Fields{
			"sub":   sub.ID(),
			"level": sub.Level(),
			"open":  m.openSubs.Len(),
			"dual":  sub.DualBound(),
		}).Debug("subproblem selected")

		if err := sub.Optimize(ctx, m); err != nil {
			m.status = StatusError
			runErr = fmt.Errorf("optimizing subproblem %d: %w", sub.ID(), err)
			m.fathomRemaining()
			break
		}
		m.observer.PaintNode(sub.ID(), sub.Status())
		if m.stats.nSubSelected == 1 {
			m.rootDualBound = sub.DualBound()
		}
		m.improveDualBound()
		if m.status != StatusProcessing && m.status != StatusMaxLevel {
			// a subproblem raised a run ending status on its own
			m.fathomRemaining()
			break
		}
	}

	if m.status == StatusProcessing {
		m.status = StatusOptimal
		// the tree is exhausted, so the dual bound matches the incumbent
		if m.bounds.feasibleFound() && m.bounds.betterDual(m.bounds.primal) {
			m.bounds.setDual(m.bounds.primal)
		}
	}
	return m.status, runErr
}

// initPrimalBound pre-seeds the primal bound from the known optimum
// oracle, exactly, or one unit worse so that the run has to rediscover an
// optimal solution.
func (m *Master) initPrimalBound() {
	if m.settings.PrimalBoundInitMode == NoPrimalBound {
		return
	}
	value, ok := m.knownOptimum()
	if !ok {
		return
	}
	if m.settings.PrimalBoundInitMode == OptimumOne {
		if m.settings.Sense == Maximize {
			value--
		} else {
			value++
		}
	}
	m.bounds.setPrimal(value)
	m.logger.WithField("primal", value).Info("primal bound initialized from known optimum")
}

// selectSub runs the termination checks in their fixed order: CPU time,
// wall clock time, guarantee, subproblem limit. If none fires it extracts
// the next subproblem under the enumeration strategy; extracting from an
// exhausted open set ends the run.
func (m *Master) selectSub() Sub {
	switch {
	case m.timers.Total.Exceeds(m.settings.MaxCPUTime):
		m.terminate(StatusMaxCPUTime, "CPU time limit reached")
		return nil
	case m.timers.TotalCow.Exceeds(m.settings.MaxCowTime):
		m.terminate(StatusMaxCowTime, "wall clock time limit reached")
		return nil
	case m.bounds.guaranteed():
		m.terminate(StatusGuaranteed, "required guarantee reached")
		return nil
	case m.stats.nSubSelected >= m.settings.MaxNSub:
		m.terminate(StatusMaxNSub, "subproblem limit reached")
		return nil
	}
	return m.openSubs.Extract(m.compareSubs)
}

func (m *Master) terminate(status Status, reason string) {
	m.status = status
	m.logger.WithFields(logrus.Fields{
		"status": status.String(),
		"reason": reason,
	}).Info("terminating enumeration")
	m.fathomRemaining()
}

// fathomRemaining marks the whole remaining tree fathomed and drains the
// open set.
func (m *Master) fathomRemaining() {
	if m.root != nil {
		m.root.FathomSubtree()
	}
	m.openSubs.Clear()
}

// improveDualBound folds the best bound still promised by the open set
// into the global dual bound. The incumbent itself is attainable, so the
// folded bound is clamped at the primal bound: once every open subproblem
// promises less than the incumbent the gap closes to zero instead of
// crossing it.
func (m *Master) improveDualBound() {
	if m.openSubs.Empty() {
		return
	}
	d := m.openSubs.DualBound()
	if m.settings.Sense == Maximize {
		d = math.Max(d, m.bounds.primal)
	} else {
		d = math.Min(d, m.bounds.primal)
	}
	if m.bounds.betterDual(d) {
		m.bounds.setDual(d)
	}
}

// cleanUp is the tail of every run: stop the clocks, write the
// statistics, give the terminate hook a last look at the tree, then tear
// the tree down and clear the fix candidate buffer.
func (m *Master) cleanUp() {
	if m.timers.Total.Running() {
		m.timers.Total.Stop()
	}
	if m.timers.TotalCow.Running() {
		m.timers.TotalCow.Stop()
	}
	m.outputStatistics()
	if m.output != nil {
		m.output(m)
	}
	if m.terminateOptimization != nil {
		m.terminateOptimization(m)
	}
	m.tearDownTree()
	m.fixCand.Clear()
}

// tearDownTree disposes the enumeration tree. The open set is drained
// first; a subproblem must never be released while the set still
// references it. Disposal reaches the root exactly once per run and
// recurses through the tree in the Dispose implementation.
func (m *Master) tearDownTree() {
	m.openSubs.Clear()
	if m.root == nil {
		return
	}
	if d, ok := m.root.(Disposer); ok {
		d.Dispose()
	}
	m.root = nil
	m.rRoot = nil
}

func (m *Master) outputStatistics() {
	fields := logrus.Fields{
		"problem":      m.settings.ProblemName,
		"status":       m.status.String(),
		"dual":         m.bounds.dual,
		"subsSelected": m.stats.nSubSelected,
		"lpsSolved":    m.stats.nLP,
		"highestLevel": m.stats.highestLevel,
		"varsFixed":    m.stats.nFixed,
		"rootChanges":  m.stats.nNewRoot,
		"totalCPU":     m.timers.Total.Total().String(),
		"totalCow":     m.timers.TotalCow.Total().String(),
	}
	if m.bounds.feasibleFound() {
		fields["primal"] = m.bounds.primal
	}
	if g, ok := m.guaranteeForOutput(); ok {
		fields["guarantee"] = fmt.Sprintf("%.4f%%", g)
	}
	m.logger.WithFields(fields).Info("optimization finished")

	total := m.timers.Total.Total()
	if total <= 0 {
		return
	}
	percent := func(w *Stopwatch) string {
		return fmt.Sprintf("%.1f%%", float64(w.Total())/float64(total)*100)
	}
	misc := total - m.timers.LP.Total() - m.timers.Separation.Total() -
		m.timers.Heuristics.Total() - m.timers.Pricing.Total() - m.timers.Branching.Total()
	m.logger.WithFields(logrus.Fields{
		"lp":         percent(m.timers.LP),
		"separation": percent(m.timers.Separation),
		"heuristics": percent(m.timers.Heuristics),
		"pricing":    percent(m.timers.Pricing),
		"branching":  percent(m.timers.Branching),
		"misc":       fmt.Sprintf("%.1f%%", float64(misc)/float64(total)*100),
	}).Debug("time breakdown")
}

func (m *Master) guaranteeForOutput() (float64, bool) {
	if !m.bounds.guaranteeDefined() {
		return 0, false
	}
	g := m.bounds.guarantee()
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, false
	}
	return g, true
}
