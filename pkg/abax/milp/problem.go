// Package milp solves mixed integer linear programs with the abax
// enumeration framework. Subproblem relaxations are linear programs solved
// by the gonum simplex method; branching imposes variable bounds that are
// kept as extra inequality rows in a slot pool and collected along the
// path from the root for every solve.
package milp

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/abax-solver/abax/pkg/abax"
)

// Problem is a mixed integer linear program over nonnegative variables:
//
//	optimize  C·x
//	subject to  A·x = B, G·x <= H, x >= 0
//
// with x[j] restricted to integer values where Integer[j] is set. A and G
// may each be nil when the problem has no constraints of that kind; a nil
// Integer mask declares every variable continuous.
type Problem struct {
	Sense   abax.Sense
	C       []float64
	A       *mat.Dense
	B       []float64
	G       *mat.Dense
	H       []float64
	Integer []bool
}

// NVars returns the number of structural variables.
func (p *Problem) NVars() int { return len(p.C) }

// Validate checks the dimensions of the problem data.
func (p *Problem) Validate() error {
	if p.Sense != abax.Minimize && p.Sense != abax.Maximize {
		return fmt.Errorf("optimization sense must be minimize or maximize")
	}
	n := p.NVars()
	if n == 0 {
		return fmt.Errorf("a problem needs at least one variable")
	}
	nEq := 0
	if p.A != nil {
		rows, cols := p.A.Dims()
		if cols != n {
			return fmt.Errorf("equality matrix has %d columns, want %d", cols, n)
		}
		nEq = rows
	}
	if len(p.B) != nEq {
		return fmt.Errorf("equality rhs has %d entries, want %d", len(p.B), nEq)
	}
	nIneq := 0
	if p.G != nil {
		rows, cols := p.G.Dims()
		if cols != n {
			return fmt.Errorf("inequality matrix has %d columns, want %d", cols, n)
		}
		nIneq = rows
	}
	if len(p.H) != nIneq {
		return fmt.Errorf("inequality rhs has %d entries, want %d", len(p.H), nIneq)
	}
	if nEq+nIneq == 0 {
		return fmt.Errorf("a problem needs at least one constraint row")
	}
	if p.Integer != nil && len(p.Integer) != n {
		return fmt.Errorf("integrality mask has %d entries, want %d", len(p.Integer), n)
	}
	return nil
}

// integerMask returns the integrality mask, expanding a nil mask to all
// continuous.
func (p *Problem) integerMask() []bool {
	if p.Integer != nil {
		return p.Integer
	}
	return make([]bool, p.NVars())
}

type problemJSON struct {
	Sense   string      `json:"sense"`
	C       []float64   `json:"c"`
	A       [][]float64 `json:"a"`
	B       []float64   `json:"b"`
	G       [][]float64 `json:"g"`
	H       []float64   `json:"h"`
	Integer []bool      `json:"integer"`
}

// ReadProblem reads a problem from its JSON form:
//
//	{
//	  "sense": "maximize",
//	  "c": [8, 11],
//	  "g": [[5, 7], [1, 0], [0, 1]],
//	  "h": [14, 1, 1],
//	  "integer": [true, true]
//	}
//
// The keys a and b carry the equality system, g and h the inequality
// system; either pair may be omitted.
func ReadProblem(r io.Reader) (*Problem, error) {
	var raw problemJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding problem: %w", err)
	}
	sense, err := parseSense(raw.Sense)
	if err != nil {
		return nil, err
	}
	if len(raw.C) == 0 {
		return nil, fmt.Errorf("a problem needs at least one variable")
	}
	p := &Problem{
		Sense:   sense,
		C:       raw.C,
		B:       raw.B,
		H:       raw.H,
		Integer: raw.Integer,
	}
	if p.A, err = denseFrom(raw.A, len(raw.C), "a"); err != nil {
		return nil, err
	}
	if p.G, err = denseFrom(raw.G, len(raw.C), "g"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseSense(s string) (abax.Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min", "minimize":
		return abax.Minimize, nil
	case "max", "maximize":
		return abax.Maximize, nil
	}
	return abax.SenseUnknown, fmt.Errorf("unknown optimization sense %q", s)
}

func denseFrom(rows [][]float64, n int, name string) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	d := mat.NewDense(len(rows), n, nil)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("matrix %q row %d has %d entries, want %d", name, i, len(row), n)
		}
		d.SetRow(i, row)
	}
	return d, nil
}
