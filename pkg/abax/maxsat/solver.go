package maxsat

import (
	"context"
	"errors"
	"fmt"

	"github.com/abax-solver/abax/pkg/abax"
)

var (
	// ErrUnsatisfiable is returned by Solve when the hard clauses admit no
	// assignment at all.
	ErrUnsatisfiable = errors.New("hard clauses are unsatisfiable")

	// ErrIncomplete is returned by Solve when the run hit a limit before
	// any feasible assignment was found.
	ErrIncomplete = errors.New("search ended before a feasible assignment was found")
)

// Solution is the best assignment a run found.
type Solution struct {
	// Values holds the assignment indexed by variable; Values[0] is unused.
	Values []bool

	// Weight is the total weight of the soft clauses the assignment
	// satisfies.
	Weight int64

	// Status reports how the run ended. StatusOptimal means Weight is
	// proven optimal; any other status means the search was cut short and
	// Weight is the best incumbent seen until then.
	Status abax.Status
}

// Solve runs branch and bound on a weighted partial MaxSAT problem.
// Options are applied on top of the MaxSAT defaults and may adjust the
// enumeration strategy, resource limits, logging or tree observers.
func Solve(ctx context.Context, p *Problem, options ...abax.Option) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	st := newState(p)
	base := []abax.Option{
		abax.WithSense(abax.Maximize),
		abax.WithObjInteger(true),
		abax.WithFirstSub(func(m *abax.Master) (abax.Sub, error) {
			return newRoot(m, st), nil
		}),
	}
	m, err := abax.New(append(base, options...)...)
	if err != nil {
		return nil, err
	}

	status, err := m.Optimize(ctx)
	if err != nil {
		return nil, err
	}
	if !st.found {
		if status == abax.StatusOptimal {
			return nil, ErrUnsatisfiable
		}
		return nil, fmt.Errorf("%w: run ended with status %s", ErrIncomplete, status)
	}
	return &Solution{Values: st.best, Weight: st.bestWeight, Status: status}, nil
}
