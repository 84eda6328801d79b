package milp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/abax-solver/abax/pkg/abax"
	"github.com/abax-solver/abax/pkg/abax/pool"
)

// boundRow is one branching bound in inequality form, coeff*x[v] <= rhs.
// Rows live in the shared slot pool; each subproblem keeps the slot of the
// row that separates it from its parent and collects the rows on its path
// for every relaxation solve.
type boundRow struct {
	v     int
	coeff float64
	rhs   float64
}

// state is shared by every subproblem of one run: the instance, the
// internal minimization objective, the branching row pool and the
// incumbent.
type state struct {
	problem *Problem
	c       []float64
	integer []bool
	binary  []bool
	rows    *pool.Pool[boundRow]
	solve   LPSolverFunc

	best  []float64
	found bool
}

func newState(p *Problem, settings abax.Settings) (*state, error) {
	fn, ok := lpSolvers[settings.DefaultLPSolver]
	if !ok {
		return nil, fmt.Errorf("%w: unknown LP solver %q", abax.ErrInvalidParameter, settings.DefaultLPSolver)
	}
	c := make([]float64, len(p.C))
	copy(c, p.C)
	if p.Sense == abax.Maximize {
		floats.Scale(-1, c)
	}
	integer := p.integerMask()
	return &state{
		problem: p,
		c:       c,
		integer: integer,
		binary:  binaryVars(p, integer),
		rows:    pool.New[boundRow](settings.PoolSize, settings.PoolRealloc),
		solve:   fn,
	}, nil
}

// standardForm assembles the relaxation in the equality form the simplex
// solver wants: one slack variable per inequality row, branching rows
// appended after the problem's own.
func (st *state) standardForm(extra []boundRow) ([]float64, *mat.Dense, []float64) {
	p := st.problem
	n := p.NVars()
	nEq := 0
	if p.A != nil {
		nEq, _ = p.A.Dims()
	}
	nIneq := 0
	if p.G != nil {
		nIneq, _ = p.G.Dims()
	}
	mTot := nEq + nIneq + len(extra)
	nTot := n + nIneq + len(extra)

	c := make([]float64, nTot)
	copy(c, st.c)

	a := mat.NewDense(mTot, nTot, nil)
	b := make([]float64, mTot)
	for i := 0; i < nEq; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, p.A.At(i, j))
		}
		b[i] = p.B[i]
	}
	for i := 0; i < nIneq; i++ {
		r := nEq + i
		for j := 0; j < n; j++ {
			a.Set(r, j, p.G.At(i, j))
		}
		a.Set(r, n+i, 1)
		b[r] = p.H[i]
	}
	for i, row := range extra {
		r := nEq + nIneq + i
		a.Set(r, row.v, row.coeff)
		a.Set(r, n+nIneq+i, 1)
		b[r] = row.rhs
	}
	return c, a, b
}

// solveRelaxation solves the relaxation under the given branching rows and
// reports the objective in the problem's own sense along with the
// structural part of the optimal point.
func (st *state) solveRelaxation(m *abax.Master, extra []boundRow) (float64, []float64, error) {
	c, a, b := st.standardForm(extra)
	var tol float64
	if m.Settings().SolveApprox {
		tol = m.Settings().Eps
	}
	m.Timers().LP.Start()
	value, xs, err := st.solve(c, a, b, tol)
	m.Timers().LP.Stop()
	m.Stats().CountLP(1)
	if err != nil {
		return 0, nil, err
	}
	x := make([]float64, st.problem.NVars())
	copy(x, xs)
	if st.problem.Sense == abax.Maximize {
		value = -value
	}
	return value, x, nil
}

// record stores a new incumbent point.
func (st *state) record(x []float64) {
	st.best = x
	st.found = true
}

// sub is one node of the search tree. Its dual bound starts at the bound
// inherited from its parent and tightens to the relaxation value once the
// node is solved.
type sub struct {
	st *state
	m  *abax.Master

	id       int
	level    int
	parent   *sub
	children []*sub

	status abax.SubStatus
	rule   abax.BranchRule
	slot   int

	dual float64
}

func newRoot(m *abax.Master, st *state) *sub {
	dual := math.Inf(-1)
	if st.problem.Sense == abax.Maximize {
		dual = math.Inf(1)
	}
	return &sub{
		st:    st,
		m:     m,
		id:    m.NextSubID(),
		level: 1,
		slot:  -1,
		dual:  dual,
	}
}

func (s *sub) ID() int                     { return s.id }
func (s *sub) Level() int                  { return s.level }
func (s *sub) DualBound() float64          { return s.dual }
func (s *sub) Status() abax.SubStatus      { return s.status }
func (s *sub) BranchRule() abax.BranchRule { return s.rule }

func (s *sub) Parent() abax.Sub {
	if s.parent == nil {
		return nil
	}
	return s.parent
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

// Dispose releases the subtree's branching rows back to the pool.
func (s *sub) Dispose() {
	for _, child := range s.children {
		child.Dispose()
	}
	if s.slot >= 0 {
		s.st.rows.Delete(s.slot)
		s.slot = -1
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

	value, x, err := s.st.solveRelaxation(m, s.rows())
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		s.status = abax.SubFathomed
		return nil
	case err != nil:
		return fmt.Errorf("relaxation of subproblem %d: %w", s.id, err)
	}
	s.tighten(m.Sense(), value)

	frac := fractionalVars(x, s.st.integer, m.Settings().Eps)
	if len(frac) == 0 {
		// the relaxation is already integral, the node is solved
		s.capture(m, value, x)
		s.status = abax.SubFathomed
		return nil
	}
	if m.PrimalViolated(s.dual) {
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

	s.branch(m, x, frac)
	if s.status == abax.SubProcessing {
		s.status = abax.SubProcessed
	}
	return nil
}

// Reoptimize re-solves the relaxation after a remaining root reassignment
// so the bounds passed down to the surviving subtree are current.
func (s *sub) Reoptimize(ctx context.Context, m *abax.Master) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, x, err := s.st.solveRelaxation(m, s.rows())
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		s.FathomSubtree()
		return nil
	case err != nil:
		return fmt.Errorf("relaxation of subproblem %d: %w", s.id, err)
	}
	s.tighten(m.Sense(), value)
	if len(fractionalVars(x, s.st.integer, m.Settings().Eps)) == 0 {
		s.capture(m, value, x)
	}
	return nil
}

// capture hands an integral relaxation point to the master. A point that
// merely matches an incumbent seeded through the primal bound init mode is
// still recorded, otherwise such runs would prove optimality without ever
// producing the optimum itself.
func (s *sub) capture(m *abax.Master, value float64, x []float64) {
	better := m.BetterPrimal(value)
	if better {
		m.SetPrimalBound(value)
	}
	if better || (!s.st.found && math.Abs(value-m.PrimalBound()) <= m.Settings().Eps) {
		s.st.record(x)
	}
}

// rows collects the branching rows on the path from the root to this
// subproblem.
func (s *sub) rows() []boundRow {
	var rows []boundRow
	for n := s; n != nil; n = n.parent {
		if n.slot < 0 {
			continue
		}
		if row, ok := n.st.rows.Get(n.slot); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// tighten moves the dual bound to the relaxation value. The bound
// inherited from the parent is never loosened; a relaxation can only gain
// constraints down the path.
func (s *sub) tighten(sense abax.Sense, value float64) {
	if sense == abax.Maximize {
		if value < s.dual {
			s.dual = value
		}
		return
	}
	if value > s.dual {
		s.dual = value
	}
}

// branch splits on a fractional variable: the lower child caps it at the
// floor of its relaxation value, the upper child forces it past the
// ceiling. The lower child is pushed first so the tie-break prefers the
// lower bound side. A full row pool raises OutOfMemory on the run and
// fathoms the node instead of branching.
func (s *sub) branch(m *abax.Master, x []float64, frac []int) {
	m.Timers().Branching.Start()
	defer m.Timers().Branching.Stop()

	settings := m.Settings()
	j := chooseBranchVar(settings.BranchingStrategy, settings.NBranchingVariableCandidates,
		frac, x, s.st.problem.C)
	fl := math.Floor(x[j])

	lowerSlot, err := s.st.rows.Insert(boundRow{v: j, coeff: 1, rhs: fl})
	if err != nil {
		s.outOfMemory(m, err)
		return
	}
	upperSlot, err := s.st.rows.Insert(boundRow{v: j, coeff: -1, rhs: -(fl + 1)})
	if err != nil {
		s.st.rows.Delete(lowerSlot)
		s.outOfMemory(m, err)
		return
	}
	m.Stats().CountAddCons(2)

	var lowerRule, upperRule abax.BranchRule
	if s.st.binary[j] && fl == 0 {
		lowerRule = setRule{v: j, upper: false}
		upperRule = setRule{v: j, upper: true}
	} else {
		lowerRule = boundRule{v: j, upper: true, bound: fl}
		upperRule = boundRule{v: j, upper: false, bound: fl + 1}
	}

	lower := s.child(m, lowerSlot, lowerRule)
	upper := s.child(m, upperSlot, upperRule)
	s.children = append(s.children, lower, upper)
	m.AddSubs(lower, upper)
}

func (s *sub) child(m *abax.Master, slot int, rule abax.BranchRule) *sub {
	return &sub{
		st:     s.st,
		m:      s.m,
		id:     m.NextSubID(),
		level:  s.level + 1,
		parent: s,
		rule:   rule,
		slot:   slot,
		dual:   s.dual,
	}
}

func (s *sub) outOfMemory(m *abax.Master, err error) {
	m.Logger().WithError(err).WithField("sub", s.id).Warn("branching row pool exhausted")
	m.SetStatus(abax.StatusOutOfMemory)
	s.status = abax.SubFathomed
}
