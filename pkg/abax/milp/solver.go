package milp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/abax-solver/abax/pkg/abax"
)

var (
	// ErrInfeasible is returned by Solve when no point satisfies the
	// constraints.
	ErrInfeasible = errors.New("problem is infeasible")

	// ErrIncomplete is returned by Solve when the run hit a limit before
	// any feasible point was found.
	ErrIncomplete = errors.New("search ended before a feasible point was found")
)

// LPSolverFunc solves min c·x subject to a·x = b, x >= 0 and returns the
// optimal value and point.
type LPSolverFunc func(c []float64, a mat.Matrix, b []float64, tol float64) (float64, []float64, error)

var lpSolvers = map[string]LPSolverFunc{
	"simplex": func(c []float64, a mat.Matrix, b []float64, tol float64) (float64, []float64, error) {
		return lp.Simplex(c, a, b, tol, nil)
	},
}

// RegisterLPSolver makes an LP solver selectable through the
// DefaultLPSolver setting. Registering an existing name replaces it.
func RegisterLPSolver(name string, fn LPSolverFunc) {
	lpSolvers[name] = fn
}

// Solution is the best feasible point a run found.
type Solution struct {
	// X holds the structural variable values.
	X []float64

	// Objective is the objective value of X in the problem's own sense.
	Objective float64

	// Status reports how the run ended. StatusOptimal means X is proven
	// optimal; any other status means the search was cut short and X is
	// the best incumbent seen until then.
	Status abax.Status
}

// Solve runs branch and bound on a mixed integer linear program. Options
// are applied on top of the problem derived defaults and may adjust the
// enumeration strategy, resource limits, pool sizing, logging or tree
// observers.
func Solve(ctx context.Context, p *Problem, options ...abax.Option) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	base := []abax.Option{
		abax.WithSense(p.Sense),
		abax.WithObjInteger(objectiveInteger(p)),
	}
	m, err := abax.New(append(base, options...)...)
	if err != nil {
		return nil, err
	}
	st, err := newState(p, m.Settings())
	if err != nil {
		return nil, err
	}
	if err := m.Configure(abax.WithFirstSub(func(m *abax.Master) (abax.Sub, error) {
		return newRoot(m, st), nil
	})); err != nil {
		return nil, err
	}

	status, err := m.Optimize(ctx)
	if err != nil {
		return nil, err
	}
	if !st.found {
		if status == abax.StatusOptimal {
			return nil, ErrInfeasible
		}
		return nil, fmt.Errorf("%w: run ended with status %s", ErrIncomplete, status)
	}
	return &Solution{X: st.best, Objective: m.PrimalBound(), Status: status}, nil
}

// objectiveInteger reports whether every feasible point must have an
// integer objective value: each variable with a nonzero coefficient is
// integer restricted and its coefficient is integral.
func objectiveInteger(p *Problem) bool {
	integer := p.integerMask()
	for j, c := range p.C {
		if c == 0 {
			continue
		}
		if !integer[j] || c != math.Trunc(c) {
			return false
		}
	}
	return true
}
