package milp

import (
	"fmt"
	"math"
	"sort"

	"github.com/abax-solver/abax/pkg/abax"
)

// setRule records that a binary variable was fixed to one of its bounds.
// The enumeration tie-break recognizes it by the SetToUpperBound method.
type setRule struct {
	v     int
	upper bool
}

func (r setRule) String() string {
	if r.upper {
		return fmt.Sprintf("x%d = 1", r.v)
	}
	return fmt.Sprintf("x%d = 0", r.v)
}

func (r setRule) SetToUpperBound() bool { return r.upper }

// boundRule records a tightened variable bound that does not fix the
// variable.
type boundRule struct {
	v     int
	upper bool
	bound float64
}

func (r boundRule) String() string {
	if r.upper {
		return fmt.Sprintf("x%d <= %g", r.v, r.bound)
	}
	return fmt.Sprintf("x%d >= %g", r.v, r.bound)
}

// fractionalVars lists the integer restricted variables whose relaxation
// value is more than eps away from an integer.
func fractionalVars(x []float64, integer []bool, eps float64) []int {
	var frac []int
	for j, v := range x {
		if integer[j] && math.Abs(v-math.Round(v)) > eps {
			frac = append(frac, j)
		}
	}
	return frac
}

// closeness measures how near the fractional part of v is to one half.
// Smaller is closer, zero is exactly half.
func closeness(v float64) float64 {
	_, fr := math.Modf(v)
	return math.Abs(math.Abs(fr) - 0.5)
}

// chooseBranchVar picks the branching variable among the fractional
// candidates. CloseHalf takes the variable whose value is closest to half
// way between two integers; CloseHalfExpensive shortlists the nCand
// closest ones and takes the one with the largest absolute objective
// coefficient, so branching moves the objective as much as possible.
func chooseBranchVar(strategy abax.BranchingStrategy, nCand int, frac []int, x, c []float64) int {
	sorted := make([]int, len(frac))
	copy(sorted, frac)
	sort.SliceStable(sorted, func(i, j int) bool {
		return closeness(x[sorted[i]]) < closeness(x[sorted[j]])
	})
	if nCand < 1 {
		nCand = 1
	}
	if len(sorted) > nCand {
		sorted = sorted[:nCand]
	}
	best := sorted[0]
	if strategy == abax.CloseHalfExpensive {
		for _, j := range sorted[1:] {
			if math.Abs(c[j]) > math.Abs(c[best]) {
				best = j
			}
		}
	}
	return best
}

// binaryVars marks the integer variables that an inequality row bounds by
// one, i.e. the 0/1 variables. Branching on such a variable fixes it, and
// the branch records carry that as a set-to-bound rule.
func binaryVars(p *Problem, integer []bool) []bool {
	binary := make([]bool, p.NVars())
	if p.G == nil {
		return binary
	}
	rows, _ := p.G.Dims()
	for i := 0; i < rows; i++ {
		if p.H[i] != 1 {
			continue
		}
		j := -1
		unit := true
		for k := 0; k < p.NVars(); k++ {
			v := p.G.At(i, k)
			if v == 0 {
				continue
			}
			if v != 1 || j >= 0 {
				unit = false
				break
			}
			j = k
		}
		if unit && j >= 0 && integer[j] {
			binary[j] = true
		}
	}
	return binary
}
