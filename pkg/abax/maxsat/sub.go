package maxsat

import (
	"context"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/abax-solver/abax/pkg/abax"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
	unknown       = 0
)

// state is shared by every subproblem of one run: the instance, a single
// SAT solver loaded with the hard clauses, and the incumbent assignment.
// Branching decisions are planted as solver assumptions, never as clauses,
// so the solver can be reused across the whole tree.
type state struct {
	problem *Problem
	g       *gini.Gini
	total   int64

	best       []bool
	bestWeight int64
	found      bool
}

func newState(p *Problem) *state {
	g := gini.New()
	for _, clause := range p.Hard {
		for _, lit := range clause {
			g.Add(z.Dimacs2Lit(lit))
		}
		g.Add(z.LitNull)
	}
	return &state{problem: p, g: g, total: p.TotalSoftWeight()}
}

// varRule records the branching decision "variable v was fixed to value".
// Fixing to true counts as the upper bound of the boolean domain.
type varRule struct {
	v     int
	value bool
}

func (r *varRule) String() string        { return fmt.Sprintf("x%d = %t", r.v, r.value) }
func (r *varRule) SetToUpperBound() bool { return r.value }

// sub is one node of the search tree. The node at level L has the
// variables 1 through L-1 fixed on its path; its dual bound is the total
// soft weight minus the weight those fixings already falsified.
type sub struct {
	st *state
	m  *abax.Master

	id       int
	level    int
	parent   *sub
	children []*sub

	status abax.SubStatus
	rule   *varRule

	dual      float64
	falsified int64
}

func newRoot(m *abax.Master, st *state) *sub {
	return &sub{
		st:    st,
		m:     m,
		id:    m.NextSubID(),
		level: 1,
		dual:  float64(st.total),
	}
}

func (s *sub) ID() int                { return s.id }
func (s *sub) Level() int             { return s.level }
func (s *sub) DualBound() float64     { return s.dual }
func (s *sub) Status() abax.SubStatus { return s.status }

func (s *sub) Parent() abax.Sub {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

func (s *sub) BranchRule() abax.BranchRule {
	if s.rule == nil {
		return nil
	}
	return s.rule
}

func (s *sub) FathomSubtree() {
	if s.status != abax.SubFathomed {
		s.m.OpenSubs().Remove(s)
		s.status = abax.SubFathomed
	}
	for _, child := range s.children {
		child.FathomSubtree()
	}
}

func (s *sub) Optimize(ctx context.Context, m *abax.Master) error {
	s.status = abax.SubProcessing

	if m.PrimalViolated(s.dual) {
		s.status = abax.SubFathomed
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res := s.solve(m)
	switch res {
	case unsatisfiable:
		// no assignment extends this prefix under the hard clauses
		s.status = abax.SubFathomed
		return nil
	case unknown:
		return fmt.Errorf("sat solver returned no verdict for subproblem %d", s.id)
	}

	s.harvest(m)
	if m.PrimalViolated(s.dual) {
		s.status = abax.SubFathomed
		return nil
	}
	if s.level-1 == s.st.problem.NVars {
		s.status = abax.SubFathomed
		return nil
	}
	if s.level >= m.Settings().MaxLevel {
		if m.Status() == abax.StatusProcessing {
			m.SetStatus(abax.StatusMaxLevel)
		}
		s.FathomSubtree()
		return nil
	}

	s.branch(m)
	s.status = abax.SubProcessed
	return nil
}

// Reoptimize re-runs the relaxation without branching. It keeps the
// remaining root honest after a reassignment: an infeasible prefix fathoms
// the subtree, a satisfiable one may still improve the incumbent.
func (s *sub) Reoptimize(ctx context.Context, m *abax.Master) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := s.solve(m)
	switch res {
	case unsatisfiable:
		s.FathomSubtree()
		return nil
	case unknown:
		return fmt.Errorf("sat solver returned no verdict for subproblem %d", s.id)
	}
	s.harvest(m)
	return nil
}

// solve plants the path's fixings as assumptions and runs the SAT solver.
// Assumptions are consumed by the Solve call, so every invocation replants
// them from scratch.
func (s *sub) solve(m *abax.Master) int {
	for v, val := range s.fixed() {
		switch val {
		case 1:
			s.st.g.Assume(z.Var(v).Pos())
		case -1:
			s.st.g.Assume(z.Var(v).Neg())
		}
	}
	m.Timers().LP.Start()
	res := s.st.g.Solve()
	m.Timers().LP.Stop()
	m.Stats().CountLP(1)
	return res
}

// fixed returns the assignment forced on this node's path, indexed by
// variable: +1 for true, -1 for false, 0 for unassigned.
func (s *sub) fixed() []int8 {
	assign := make([]int8, s.st.problem.NVars+1)
	for n := s; n.rule != nil; n = n.parent {
		if n.rule.value {
			assign[n.rule.v] = 1
		} else {
			assign[n.rule.v] = -1
		}
	}
	return assign
}

// harvest reads the model left by a satisfiable Solve call, computes the
// soft weight it satisfies, and records it as the incumbent when it beats
// the current one.
func (s *sub) harvest(m *abax.Master) {
	m.Timers().Heuristics.Start()
	defer m.Timers().Heuristics.Stop()

	values := make([]bool, s.st.problem.NVars+1)
	for v := 1; v <= s.st.problem.NVars; v++ {
		values[v] = s.st.g.Value(z.Var(v).Pos())
	}
	var weight int64
	for _, c := range s.st.problem.Soft {
		for _, lit := range c.Lits {
			if (lit > 0) == values[abs(lit)] {
				weight += c.Weight
				break
			}
		}
	}

	better := m.BetterPrimal(float64(weight))
	if better {
		m.SetPrimalBound(float64(weight))
	}
	if better || (!s.st.found && float64(weight) == m.PrimalBound()) {
		s.st.best = values
		s.st.bestWeight = weight
		s.st.found = true
	}
}

// branch splits on the first unfixed variable. The false child is pushed
// first so the enumeration tie-break prefers the lower bound side.
func (s *sub) branch(m *abax.Master) {
	m.Timers().Branching.Start()
	defer m.Timers().Branching.Stop()

	v := s.level // variables 1..level-1 are fixed on the path here
	lower := s.child(m, v, false)
	upper := s.child(m, v, true)
	s.children = append(s.children, lower, upper)
	m.AddSubs(lower, upper)
}

func (s *sub) child(m *abax.Master, v int, value bool) *sub {
	c := &sub{
		st:     s.st,
		m:      s.m,
		id:     m.NextSubID(),
		level:  s.level + 1,
		parent: s,
		rule:   &varRule{v: v, value: value},
	}
	c.falsified = falsifiedWeight(s.st.problem, c.fixed())
	c.dual = float64(s.st.total - c.falsified)
	return c
}

// falsifiedWeight sums the weights of the soft clauses every literal of
// which is assigned false. Clauses with unassigned literals may still be
// satisfied below and are counted optimistically.
func falsifiedWeight(p *Problem, assign []int8) int64 {
	var lost int64
	for _, c := range p.Soft {
		dead := true
		for _, lit := range c.Lits {
			val := assign[abs(lit)]
			if val == 0 || (lit > 0) == (val > 0) {
				dead = false
				break
			}
		}
		if dead {
			lost += c.Weight
		}
	}
	return lost
}
