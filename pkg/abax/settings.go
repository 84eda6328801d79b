package abax

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EnumStrategy selects the order in which open subproblems are processed.
type EnumStrategy int

const (
	// BestFirst always selects the open subproblem with the best dual
	// bound.
	BestFirst EnumStrategy = iota
	// BreadthFirst processes the tree level by level.
	BreadthFirst
	// DepthFirst always dives to the deepest open subproblem.
	DepthFirst
	// DiveAndBest behaves depth first until the first feasible solution
	// is found and best first afterwards.
	DiveAndBest
)

func (s EnumStrategy) String() string {
	switch s {
	case BestFirst:
		return "BestFirst"
	case BreadthFirst:
		return "BreadthFirst"
	case DepthFirst:
		return "DepthFirst"
	case DiveAndBest:
		return "DiveAndBest"
	}
	return fmt.Sprintf("EnumStrategy(%d)", int(s))
}

// ParseEnumStrategy converts a parameter value as written in configuration
// files or on the command line into an EnumStrategy.
func ParseEnumStrategy(s string) (EnumStrategy, error) {
	switch strings.ToLower(s) {
	case "bestfirst", "best":
		return BestFirst, nil
	case "breadthfirst", "breadth":
		return BreadthFirst, nil
	case "depthfirst", "depth":
		return DepthFirst, nil
	case "diveandbest", "dive":
		return DiveAndBest, nil
	}
	return 0, fmt.Errorf("unknown enumeration strategy %q", s)
}

// BranchingStrategy selects how branching variables are chosen by
// subproblem implementations that consult it.
type BranchingStrategy int

const (
	// CloseHalf prefers the fractional variable closest to one half.
	CloseHalf BranchingStrategy = iota
	// CloseHalfExpensive additionally prefers, among the candidates
	// closest to one half, the one with the largest objective
	// coefficient.
	CloseHalfExpensive
)

func (s BranchingStrategy) String() string {
	switch s {
	case CloseHalf:
		return "CloseHalf"
	case CloseHalfExpensive:
		return "CloseHalfExpensive"
	}
	return fmt.Sprintf("BranchingStrategy(%d)", int(s))
}

// ParseBranchingStrategy converts a parameter value into a
// BranchingStrategy.
func ParseBranchingStrategy(s string) (BranchingStrategy, error) {
	switch strings.ToLower(s) {
	case "closehalf":
		return CloseHalf, nil
	case "closehalfexpensive":
		return CloseHalfExpensive, nil
	}
	return 0, fmt.Errorf("unknown branching strategy %q", s)
}

// PrimalBoundMode controls whether the primal bound is pre-seeded from a
// known optimum before the enumeration starts.
type PrimalBoundMode int

const (
	// NoPrimalBound leaves the primal bound at its infinite start value.
	NoPrimalBound PrimalBoundMode = iota
	// Optimum seeds the primal bound with the known optimum itself.
	Optimum
	// OptimumOne seeds the primal bound one unit worse than the known
	// optimum, so that the run must rediscover an optimal solution.
	// Requires an integer objective.
	OptimumOne
)

func (m PrimalBoundMode) String() string {
	switch m {
	case NoPrimalBound:
		return "NoPrimalBound"
	case Optimum:
		return "Optimum"
	case OptimumOne:
		return "OptimumOne"
	}
	return fmt.Sprintf("PrimalBoundMode(%d)", int(m))
}

// SkipMode controls how the skip factor for separation rounds is
// interpreted by subproblem implementations.
type SkipMode int

const (
	// SkipByNode skips cutting plane separation in all but every
	// SkipFactor-th processed subproblem.
	SkipByNode SkipMode = iota
	// SkipByLevel skips separation in all but every SkipFactor-th tree
	// level.
	SkipByLevel
)

func (m SkipMode) String() string {
	switch m {
	case SkipByNode:
		return "SkipByNode"
	case SkipByLevel:
		return "SkipByLevel"
	}
	return fmt.Sprintf("SkipMode(%d)", int(m))
}

// ConElimMode controls dynamic constraint elimination in subproblem
// relaxations.
type ConElimMode int

const (
	NoConElim ConElimMode = iota
	// NonBinding eliminates constraints whose slack exceeds ConElimEps.
	NonBinding
	// Basic eliminates constraints whose slack variable is basic.
	Basic
)

func (m ConElimMode) String() string {
	switch m {
	case NoConElim:
		return "NoConElim"
	case NonBinding:
		return "NonBinding"
	case Basic:
		return "Basic"
	}
	return fmt.Sprintf("ConElimMode(%d)", int(m))
}

// VarElimMode controls dynamic variable elimination in subproblem
// relaxations.
type VarElimMode int

const (
	NoVarElim VarElimMode = iota
	// ReducedCost eliminates variables whose reduced cost exceeds
	// VarElimEps.
	ReducedCost
)

func (m VarElimMode) String() string {
	switch m {
	case NoVarElim:
		return "NoVarElim"
	case ReducedCost:
		return "ReducedCost"
	}
	return fmt.Sprintf("VarElimMode(%d)", int(m))
}

// unlimited is the time limit meaning "no limit".
const unlimited = time.Duration(math.MaxInt64)

// Settings carries every tunable parameter of a Master. A copy of the
// active values is available through Master.Settings; mutation goes
// through Options so that validation runs on every assignment.
type Settings struct {
	ProblemName string

	Sense               Sense
	EnumerationStrategy EnumStrategy

	// Guarantee is the gap, in percent, at which a run may stop with
	// StatusGuaranteed. Zero demands a proven optimum.
	Guarantee  float64
	MaxLevel   int
	MaxNSub    int
	MaxCPUTime time.Duration
	MaxCowTime time.Duration

	// ObjInteger declares that every feasible solution has an integer
	// objective value. Integer objectives admit exact fathoming and snap
	// accepted primal bounds to the nearest integer.
	ObjInteger bool

	BranchingStrategy            BranchingStrategy
	NBranchingVariableCandidates int

	// TailOffNLP and TailOffPercent define tailing off: a subproblem
	// whose dual bound improved by less than TailOffPercent percent over
	// the last TailOffNLP relaxations becomes a candidate for dormancy.
	// TailOffNLP zero disables the check.
	TailOffNLP     int
	TailOffPercent float64

	// DelayedBranchingThreshold is the number of times a subproblem is
	// put back dormant before it must be branched on. MinDormantRounds
	// is the number of selections a dormant subproblem stays ineligible.
	DelayedBranchingThreshold int
	MinDormantRounds          int

	PrimalBoundInitMode PrimalBoundMode

	// PricingFreq is the number of relaxations between pricing rounds;
	// zero disables periodic pricing.
	PricingFreq int

	SkipFactor   int
	SkippingMode SkipMode

	FixSetByRedCost   bool
	EliminateFixedSet bool

	// NewRootReOptimize re-solves an already processed subproblem when it
	// becomes the remaining root, to tighten the bounds it passes down.
	NewRootReOptimize bool

	ConElimMode ConElimMode
	ConElimEps  float64
	ConElimAge  int

	VarElimMode VarElimMode
	VarElimEps  float64
	VarElimAge  int

	PoolSize    int
	PoolRealloc bool

	DefaultLPSolver string
	SolveApprox     bool

	// Eps is the general feasibility tolerance, MachineEps the zero
	// tolerance for guarantee computations.
	Eps        float64
	MachineEps float64
}

func defaultSettings() Settings {
	return Settings{
		EnumerationStrategy:          BestFirst,
		Guarantee:                    0,
		MaxLevel:                     math.MaxInt32,
		MaxNSub:                      math.MaxInt32,
		MaxCPUTime:                   unlimited,
		MaxCowTime:                   unlimited,
		BranchingStrategy:            CloseHalfExpensive,
		NBranchingVariableCandidates: 1,
		TailOffNLP:                   0,
		TailOffPercent:               0.0001,
		DelayedBranchingThreshold:    0,
		MinDormantRounds:             1,
		PrimalBoundInitMode:          NoPrimalBound,
		PricingFreq:                  0,
		SkipFactor:                   1,
		SkippingMode:                 SkipByNode,
		FixSetByRedCost:              true,
		ConElimMode:                  NoConElim,
		ConElimEps:                   0.001,
		ConElimAge:                   1,
		VarElimMode:                  NoVarElim,
		VarElimEps:                   0.001,
		VarElimAge:                   1,
		PoolSize:                     10000,
		PoolRealloc:                  true,
		DefaultLPSolver:              "simplex",
		Eps:                          1e-4,
		MachineEps:                   1e-7,
	}
}

// validateRun checks the preconditions Optimize demands beyond what the
// individual Options already enforce. It runs after the parameter hooks,
// so values set by a hook are covered too.
func (s *Settings) validateRun() error {
	if s.Sense == SenseUnknown {
		return ErrUnknownSense
	}
	if s.Guarantee < 0 {
		return fmt.Errorf("%w: guarantee %g is negative", ErrInvalidParameter, s.Guarantee)
	}
	if s.MaxLevel < 1 {
		return fmt.Errorf("%w: maximum level %d, must be at least 1", ErrInvalidParameter, s.MaxLevel)
	}
	if s.MaxNSub < 0 {
		return fmt.Errorf("%w: maximum number of subproblems %d is negative", ErrInvalidParameter, s.MaxNSub)
	}
	if s.PrimalBoundInitMode == OptimumOne && !s.ObjInteger {
		return fmt.Errorf("%w: primal bound mode OptimumOne requires an integer objective", ErrInvalidParameter)
	}
	if s.Eps <= 0 || s.MachineEps <= 0 {
		return fmt.Errorf("%w: tolerances must be positive (eps %g, machine eps %g)", ErrInvalidParameter, s.Eps, s.MachineEps)
	}
	return nil
}

// ParseTime parses a time limit given either as a plain number of seconds,
// in the colon format [hh:]mm:ss, or as a Go duration string such as
// "1h30m".
func ParseTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative time value %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return 0, fmt.Errorf("malformed time value %q, want [hh:]mm:ss", s)
		}
		var total int64
		for _, p := range parts {
			v, err := strconv.ParseInt(p, 10, 64)
			if err != nil || v < 0 {
				return 0, fmt.Errorf("malformed time value %q, want [hh:]mm:ss", s)
			}
			total = total*60 + v
		}
		return time.Duration(total) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("malformed time value %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative time value %q", s)
	}
	return d, nil
}
