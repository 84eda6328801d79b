package abax

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Master. Options are applied once by New and a second
// time at the start of Optimize, so they must be idempotent; all options
// returned by this package are.
type Option func(m *Master) error

// WithProblemName sets the name used in log records and statistics output.
func WithProblemName(name string) Option {
	return func(m *Master) error {
		m.settings.ProblemName = name
		return nil
	}
}

// WithSense sets the optimization sense. A sense must be configured before
// Optimize is called.
func WithSense(sense Sense) Option {
	return func(m *Master) error {
		if sense != Minimize && sense != Maximize {
			return fmt.Errorf("%w: sense must be Minimize or Maximize", ErrInvalidParameter)
		}
		m.settings.Sense = sense
		return nil
	}
}

// WithEnumerationStrategy selects the subproblem selection order.
func WithEnumerationStrategy(strategy EnumStrategy) Option {
	return func(m *Master) error {
		switch strategy {
		case BestFirst, BreadthFirst, DepthFirst, DiveAndBest:
			m.settings.EnumerationStrategy = strategy
			return nil
		}
		return fmt.Errorf("%w: unknown enumeration strategy %d", ErrInvalidParameter, strategy)
	}
}

// WithGuarantee sets the gap, in percent, that suffices to stop the run
// with StatusGuaranteed.
func WithGuarantee(percent float64) Option {
	return func(m *Master) error {
		if percent < 0 {
			return fmt.Errorf("%w: guarantee %g is negative", ErrInvalidParameter, percent)
		}
		m.settings.Guarantee = percent
		return nil
	}
}

// WithMaxLevel limits the depth of the enumeration tree. Subproblem
// implementations consult the limit before branching.
func WithMaxLevel(level int) Option {
	return func(m *Master) error {
		if level < 1 {
			return fmt.Errorf("%w: maximum level %d, must be at least 1", ErrInvalidParameter, level)
		}
		m.settings.MaxLevel = level
		return nil
	}
}

// WithMaxNSub limits the number of subproblem selections in a run.
func WithMaxNSub(n int) Option {
	return func(m *Master) error {
		if n < 0 {
			return fmt.Errorf("%w: maximum number of subproblems %d is negative", ErrInvalidParameter, n)
		}
		m.settings.MaxNSub = n
		return nil
	}
}

// WithMaxCPUTime limits the CPU time of a run.
func WithMaxCPUTime(d time.Duration) Option {
	return func(m *Master) error {
		if d < 0 {
			return fmt.Errorf("%w: negative CPU time limit %s", ErrInvalidParameter, d)
		}
		m.settings.MaxCPUTime = d
		return nil
	}
}

// WithMaxCowTime limits the elapsed wall clock ("cow") time of a run.
func WithMaxCowTime(d time.Duration) Option {
	return func(m *Master) error {
		if d < 0 {
			return fmt.Errorf("%w: negative wall clock time limit %s", ErrInvalidParameter, d)
		}
		m.settings.MaxCowTime = d
		return nil
	}
}

// WithObjInteger declares that all feasible solutions have integer
// objective values.
func WithObjInteger(objInteger bool) Option {
	return func(m *Master) error {
		m.settings.ObjInteger = objInteger
		return nil
	}
}

// WithBranchingStrategy selects the branching variable strategy and the
// number of candidates considered by it.
func WithBranchingStrategy(strategy BranchingStrategy, nCandidates int) Option {
	return func(m *Master) error {
		switch strategy {
		case CloseHalf, CloseHalfExpensive:
		default:
			return fmt.Errorf("%w: unknown branching strategy %d", ErrInvalidParameter, strategy)
		}
		if nCandidates < 1 {
			return fmt.Errorf("%w: number of branching candidates %d, must be at least 1", ErrInvalidParameter, nCandidates)
		}
		m.settings.BranchingStrategy = strategy
		m.settings.NBranchingVariableCandidates = nCandidates
		return nil
	}
}

// WithTailOff configures tailing off detection: nLP is the number of
// consecutive relaxations considered, percent the minimal improvement of
// the dual bound over them. nLP zero disables the check.
func WithTailOff(nLP int, percent float64) Option {
	return func(m *Master) error {
		if nLP < 0 {
			return fmt.Errorf("%w: tail off LP count %d is negative", ErrInvalidParameter, nLP)
		}
		if percent < 0 {
			return fmt.Errorf("%w: tail off percent %g is negative", ErrInvalidParameter, percent)
		}
		m.settings.TailOffNLP = nLP
		m.settings.TailOffPercent = percent
		return nil
	}
}

// WithDelayedBranching allows a subproblem to return to the open set
// dormant, instead of being branched on, up to threshold times.
func WithDelayedBranching(threshold int) Option {
	return func(m *Master) error {
		if threshold < 0 {
			return fmt.Errorf("%w: delayed branching threshold %d is negative", ErrInvalidParameter, threshold)
		}
		m.settings.DelayedBranchingThreshold = threshold
		return nil
	}
}

// WithMinDormantRounds sets the number of selections a dormant subproblem
// stays ineligible before it may be selected again.
func WithMinDormantRounds(rounds int) Option {
	return func(m *Master) error {
		if rounds < 1 {
			return fmt.Errorf("%w: minimal dormant rounds %d, must be at least 1", ErrInvalidParameter, rounds)
		}
		m.settings.MinDormantRounds = rounds
		return nil
	}
}

// WithPrimalBoundInitMode controls pre-seeding of the primal bound from a
// known optimum. Modes other than NoPrimalBound require a known optimum
// oracle, see WithKnownOptimum.
func WithPrimalBoundInitMode(mode PrimalBoundMode) Option {
	return func(m *Master) error {
		switch mode {
		case NoPrimalBound, Optimum, OptimumOne:
			m.settings.PrimalBoundInitMode = mode
			return nil
		}
		return fmt.Errorf("%w: unknown primal bound mode %d", ErrInvalidParameter, mode)
	}
}

// WithKnownOptimum registers the oracle consulted when the primal bound is
// pre-seeded.
func WithKnownOptimum(fn KnownOptimumFunc) Option {
	return func(m *Master) error {
		m.knownOptimum = fn
		return nil
	}
}

// WithPricingFreq sets the number of relaxations between pricing rounds.
func WithPricingFreq(freq int) Option {
	return func(m *Master) error {
		if freq < 0 {
			return fmt.Errorf("%w: pricing frequency %d is negative", ErrInvalidParameter, freq)
		}
		m.settings.PricingFreq = freq
		return nil
	}
}

// WithSkip configures how often cutting plane separation is skipped.
func WithSkip(factor int, mode SkipMode) Option {
	return func(m *Master) error {
		if factor < 1 {
			return fmt.Errorf("%w: skip factor %d, must be at least 1", ErrInvalidParameter, factor)
		}
		switch mode {
		case SkipByNode, SkipByLevel:
		default:
			return fmt.Errorf("%w: unknown skipping mode %d", ErrInvalidParameter, mode)
		}
		m.settings.SkipFactor = factor
		m.settings.SkippingMode = mode
		return nil
	}
}

// WithFixSetByRedCost enables fixing and setting of variables by reduced
// cost criteria.
func WithFixSetByRedCost(enabled bool) Option {
	return func(m *Master) error {
		m.settings.FixSetByRedCost = enabled
		return nil
	}
}

// WithEliminateFixedSet enables the elimination of fixed and set variables
// from the relaxations.
func WithEliminateFixedSet(enabled bool) Option {
	return func(m *Master) error {
		m.settings.EliminateFixedSet = enabled
		return nil
	}
}

// WithNewRootReOptimize controls whether a processed subproblem is
// re-optimized when it becomes the remaining root.
func WithNewRootReOptimize(enabled bool) Option {
	return func(m *Master) error {
		m.settings.NewRootReOptimize = enabled
		return nil
	}
}

// WithConstraintElimination configures dynamic constraint elimination.
func WithConstraintElimination(mode ConElimMode, eps float64, age int) Option {
	return func(m *Master) error {
		switch mode {
		case NoConElim, NonBinding, Basic:
		default:
			return fmt.Errorf("%w: unknown constraint elimination mode %d", ErrInvalidParameter, mode)
		}
		if eps < 0 || age < 1 {
			return fmt.Errorf("%w: constraint elimination eps %g, age %d", ErrInvalidParameter, eps, age)
		}
		m.settings.ConElimMode = mode
		m.settings.ConElimEps = eps
		m.settings.ConElimAge = age
		return nil
	}
}

// WithVariableElimination configures dynamic variable elimination.
func WithVariableElimination(mode VarElimMode, eps float64, age int) Option {
	return func(m *Master) error {
		switch mode {
		case NoVarElim, ReducedCost:
		default:
			return fmt.Errorf("%w: unknown variable elimination mode %d", ErrInvalidParameter, mode)
		}
		if eps < 0 || age < 1 {
			return fmt.Errorf("%w: variable elimination eps %g, age %d", ErrInvalidParameter, eps, age)
		}
		m.settings.VarElimMode = mode
		m.settings.VarElimEps = eps
		m.settings.VarElimAge = age
		return nil
	}
}

// WithPool sets the initial capacity of constraint and variable pools and
// whether they may grow on demand.
func WithPool(size int, realloc bool) Option {
	return func(m *Master) error {
		if size < 1 {
			return fmt.Errorf("%w: pool size %d, must be at least 1", ErrInvalidParameter, size)
		}
		m.settings.PoolSize = size
		m.settings.PoolRealloc = realloc
		return nil
	}
}

// WithDefaultLPSolver names the linear programming solver subproblem
// implementations should use for their relaxations.
func WithDefaultLPSolver(name string) Option {
	return func(m *Master) error {
		if name == "" {
			return fmt.Errorf("%w: empty LP solver name", ErrInvalidParameter)
		}
		m.settings.DefaultLPSolver = name
		return nil
	}
}

// WithSolveApprox lets subproblem implementations solve relaxations
// approximately where an approximate method is available.
func WithSolveApprox(enabled bool) Option {
	return func(m *Master) error {
		m.settings.SolveApprox = enabled
		return nil
	}
}

// WithEps sets the feasibility tolerance and the zero tolerance.
func WithEps(eps, machineEps float64) Option {
	return func(m *Master) error {
		if eps <= 0 || machineEps <= 0 {
			return fmt.Errorf("%w: tolerances must be positive (eps %g, machine eps %g)", ErrInvalidParameter, eps, machineEps)
		}
		m.settings.Eps = eps
		m.settings.MachineEps = machineEps
		return nil
	}
}

// WithLogger sets the logger for the run. The default logger discards
// everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(m *Master) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidParameter)
		}
		m.logger = logger
		return nil
	}
}

// WithTreeObserver registers an observer of the enumeration tree.
func WithTreeObserver(observer TreeObserver) Option {
	return func(m *Master) error {
		if observer == nil {
			return fmt.Errorf("%w: nil tree observer", ErrInvalidParameter)
		}
		m.observer = observer
		return nil
	}
}

// WithFirstSub registers the factory for the root subproblem. Every Master
// needs one before Optimize is called.
func WithFirstSub(fn FirstSubFunc) Option {
	return func(m *Master) error {
		m.firstSub = fn
		return nil
	}
}

// WithInitializeParameters registers a hook that runs after each parameter
// assignment pass, once during New and once at the start of Optimize.
// Values it sets override the configured ones.
func WithInitializeParameters(fn HookFunc) Option {
	return func(m *Master) error {
		m.initializeParameters = fn
		return nil
	}
}

// WithInitializeOptimization registers a hook that runs right before the
// root subproblem is created.
func WithInitializeOptimization(fn HookFunc) Option {
	return func(m *Master) error {
		m.initializeOptimization = fn
		return nil
	}
}

// WithTerminateOptimization registers a hook that runs when the run is
// over, before the enumeration tree is torn down, so it may still inspect
// the tree.
func WithTerminateOptimization(fn TerminateFunc) Option {
	return func(m *Master) error {
		m.terminateOptimization = fn
		return nil
	}
}

// WithOutput registers a hook invoked after the built-in statistics have
// been written at the end of a run.
func WithOutput(fn TerminateFunc) Option {
	return func(m *Master) error {
		m.output = fn
		return nil
	}
}

var defaults = []Option{
	func(m *Master) error {
		if m.logger == nil {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			m.logger = logger
		}
		return nil
	},
	func(m *Master) error {
		if m.observer == nil {
			m.observer = NopObserver{}
		}
		return nil
	},
}
