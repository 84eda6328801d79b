// Package maxsat solves weighted partial MaxSAT problems with the abax
// enumeration framework. Hard clauses must hold in every solution; the
// optimizer maximizes the total weight of the satisfied soft clauses.
// Feasibility of the hard clauses under a partial assignment is decided by
// the gini SAT solver, every satisfying assignment it produces is
// harvested as an incumbent candidate.
package maxsat

import (
	"fmt"
)

// SoftClause is a clause that may be violated at the given cost. Literals
// use DIMACS conventions: variable v appears as v, its negation as -v.
type SoftClause struct {
	Lits   []int
	Weight int64
}

// Problem is a weighted partial MaxSAT instance over the variables
// 1 through NVars.
type Problem struct {
	NVars int
	Hard  [][]int
	Soft  []SoftClause
}

// TotalSoftWeight returns the sum of all soft clause weights, the value a
// solution satisfying every soft clause would reach.
func (p *Problem) TotalSoftWeight() int64 {
	var total int64
	for _, c := range p.Soft {
		total += c.Weight
	}
	return total
}

// Validate checks literal ranges and weights.
func (p *Problem) Validate() error {
	if p.NVars < 1 {
		return fmt.Errorf("a problem needs at least one variable, got %d", p.NVars)
	}
	for _, clause := range p.Hard {
		if err := p.validateLits(clause); err != nil {
			return fmt.Errorf("hard clause %v: %w", clause, err)
		}
	}
	for _, clause := range p.Soft {
		if err := p.validateLits(clause.Lits); err != nil {
			return fmt.Errorf("soft clause %v: %w", clause.Lits, err)
		}
		if clause.Weight < 1 {
			return fmt.Errorf("soft clause %v: weight %d, must be positive", clause.Lits, clause.Weight)
		}
	}
	return nil
}

func (p *Problem) validateLits(lits []int) error {
	if len(lits) == 0 {
		return fmt.Errorf("empty clause")
	}
	for _, lit := range lits {
		if lit == 0 {
			return fmt.Errorf("0 is not a valid literal")
		}
		if v := abs(lit); v > p.NVars {
			return fmt.Errorf("literal %d out of range, only %d variables declared", lit, p.NVars)
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
