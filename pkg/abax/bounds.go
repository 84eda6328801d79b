package abax

import "math"

// bounds tracks the incumbent primal bound and the proven dual bound of a
// run. It owns the direction invariants: a primal bound may only improve,
// a dual bound may only tighten. Violations are contract breaches of the
// collaborating subproblems and raise an AlgorithmFailure.
type bounds struct {
	sense      Sense
	objInteger bool
	eps        float64
	machineEps float64

	// required is the guarantee threshold in percent.
	required float64

	primal float64
	dual   float64

	// onUpdate fans accepted updates out to history and observer. May be
	// nil in tests.
	onUpdate func(primal, dual float64)
}

func newBounds(sense Sense, objInteger bool, eps, machineEps, required float64) *bounds {
	b := &bounds{
		sense:      sense,
		objInteger: objInteger,
		eps:        eps,
		machineEps: machineEps,
		required:   required,
	}
	if sense == Maximize {
		b.primal = math.Inf(-1)
		b.dual = math.Inf(1)
	} else {
		b.primal = math.Inf(1)
		b.dual = math.Inf(-1)
	}
	return b
}

// setPrimal accepts a new incumbent value. Worsening the bound is fatal.
// With an integer objective the value must be integral within eps and is
// snapped to the exact integer before it is stored.
func (b *bounds) setPrimal(x float64) {
	worse := x > b.primal
	if b.sense == Maximize {
		worse = x < b.primal
	}
	if worse {
		failf(FailPrimalBound, "new primal bound %g is worse than %g", x, b.primal)
	}
	if b.objInteger {
		rounded := math.Floor(x + b.eps)
		if math.Abs(x-rounded) > b.eps {
			failf(FailNotInteger, "primal bound %g is fractional but the objective is declared integer", x)
		}
		x = rounded
	}
	b.primal = x
	if b.onUpdate != nil {
		b.onUpdate(b.primal, b.dual)
	}
}

// setDual accepts a new proven bound. Loosening it is fatal.
func (b *bounds) setDual(x float64) {
	worse := x < b.dual
	if b.sense == Maximize {
		worse = x > b.dual
	}
	if worse {
		failf(FailDualBound, "new dual bound %g is worse than %g", x, b.dual)
	}
	b.dual = x
	if b.onUpdate != nil {
		b.onUpdate(b.primal, b.dual)
	}
}

// betterPrimal reports whether x would strictly improve the primal bound.
func (b *bounds) betterPrimal(x float64) bool {
	if b.sense == Maximize {
		return x > b.primal
	}
	return x < b.primal
}

// betterDual reports whether x would strictly tighten the dual bound.
func (b *bounds) betterDual(x float64) bool {
	if b.sense == Maximize {
		return x < b.dual
	}
	return x > b.dual
}

// primalViolated reports whether a relaxation value x proves that its
// subproblem cannot beat the incumbent. Continuous objectives keep an eps
// margin so that near ties are not fathomed prematurely; integer
// objectives fathom exactly on equality.
func (b *bounds) primalViolated(x float64) bool {
	if b.sense == Maximize {
		if b.objInteger {
			return x <= b.primal
		}
		return x+b.eps <= b.primal
	}
	if b.objInteger {
		return x >= b.primal
	}
	return x-b.eps >= b.primal
}

// feasibleFound reports whether any incumbent has been accepted, i.e. the
// primal bound left its infinite start value.
func (b *bounds) feasibleFound() bool {
	if b.sense == Maximize {
		return !math.IsInf(b.primal, -1)
	}
	return !math.IsInf(b.primal, 1)
}

func (b *bounds) lower() float64 {
	if b.sense == Maximize {
		return b.primal
	}
	return b.dual
}

func (b *bounds) upper() float64 {
	if b.sense == Maximize {
		return b.dual
	}
	return b.primal
}

// guarantee returns the gap |upper-lower| / |lower| in percent. A lower
// bound at zero with a nonzero upper bound leaves the gap undefined, which
// is fatal; callers that merely probe use guaranteed or guaranteeDefined.
func (b *bounds) guarantee() float64 {
	l := b.lower()
	if math.Abs(l) < b.machineEps {
		if math.Abs(b.upper()) < b.machineEps {
			return 0
		}
		failf(FailIllegalParameter,
			"guarantee undefined: lower bound %g is zero while upper bound %g is not", l, b.upper())
	}
	return math.Abs((b.upper()-l)/l) * 100
}

// guaranteeDefined reports whether guarantee can be computed without
// failing.
func (b *bounds) guaranteeDefined() bool {
	return !(math.Abs(b.lower()) < b.machineEps && math.Abs(b.upper()) >= b.machineEps)
}

// guaranteed reports whether the current gap is within the required
// guarantee, with machine eps slack on the threshold. An undefined gap is
// never within the guarantee.
func (b *bounds) guaranteed() bool {
	if !b.guaranteeDefined() {
		return false
	}
	g := b.guarantee()
	return !math.IsNaN(g) && g <= b.required+b.machineEps
}
