package abax

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownSense is returned by Optimize when no optimization sense
	// has been configured.
	ErrUnknownSense = errors.New("optimization sense not set")

	// ErrNoFirstSub is returned by Optimize when no root subproblem
	// factory has been configured.
	ErrNoFirstSub = errors.New("no first subproblem factory set")

	// ErrInvalidParameter wraps every parameter validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Sense is the optimization sense of a problem. The zero value is
// SenseUnknown; running a Master whose sense is still unknown is a
// configuration error detected at the start of Optimize.
type Sense int

const (
	SenseUnknown Sense = iota
	Minimize
	Maximize
)

func (s Sense) String() string {
	switch s {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	}
	return "unknown"
}

// Status is the state of an optimization run. It starts at
// StatusUnprocessed, is StatusProcessing while the enumeration loop runs,
// and ends in exactly one of the terminal values.
type Status int

const (
	StatusUnprocessed Status = iota
	StatusProcessing
	StatusOptimal
	StatusGuaranteed
	StatusMaxLevel
	StatusMaxCPUTime
	StatusMaxCowTime
	StatusMaxNSub
	StatusError
	StatusOutOfMemory
	StatusExceptionFathom
)

func (s Status) String() string {
	switch s {
	case StatusUnprocessed:
		return "Unprocessed"
	case StatusProcessing:
		return "Processing"
	case StatusOptimal:
		return "Optimal"
	case StatusGuaranteed:
		return "Guaranteed"
	case StatusMaxLevel:
		return "MaxLevel"
	case StatusMaxCPUTime:
		return "MaxCpuTime"
	case StatusMaxCowTime:
		return "MaxCowTime"
	case StatusMaxNSub:
		return "MaxNSub"
	case StatusError:
		return "Error"
	case StatusOutOfMemory:
		return "OutOfMemory"
	case StatusExceptionFathom:
		return "ExceptionFathom"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// SubStatus is the lifecycle state of a single subproblem. Subproblems in
// the open set are always SubUnprocessed or SubDormant.
type SubStatus int

const (
	SubUnprocessed SubStatus = iota
	SubProcessing
	SubProcessed
	SubDormant
	SubFathomed
)

func (s SubStatus) String() string {
	switch s {
	case SubUnprocessed:
		return "Unprocessed"
	case SubProcessing:
		return "Processing"
	case SubProcessed:
		return "Processed"
	case SubDormant:
		return "Dormant"
	case SubFathomed:
		return "Fathomed"
	}
	return fmt.Sprintf("SubStatus(%d)", int(s))
}

// FailureCode identifies which contract an AlgorithmFailure violated.
type FailureCode int

const (
	FailIllegalParameter FailureCode = iota
	FailPrimalBound
	FailDualBound
	FailNotInteger
)

func (c FailureCode) String() string {
	switch c {
	case FailIllegalParameter:
		return "IllegalParameter"
	case FailPrimalBound:
		return "PrimalBound"
	case FailDualBound:
		return "DualBound"
	case FailNotInteger:
		return "NotInteger"
	}
	return fmt.Sprintf("FailureCode(%d)", int(c))
}

// AlgorithmFailure reports a violated invariant: a bound moving in the
// wrong direction, a fractional value where an integer objective was
// declared, or an undefined guarantee computation. These are programming
// or configuration errors with no recovery path, so the framework raises
// them by panicking with an *AlgorithmFailure value rather than returning
// an error. The Master's cleanup is deferred and therefore still runs when
// a collaborator triggers one mid-loop.
type AlgorithmFailure struct {
	Code   FailureCode
	Reason string
}

func (e *AlgorithmFailure) Error() string {
	return fmt.Sprintf("algorithm failure (%s): %s", e.Code, e.Reason)
}

func failf(code FailureCode, format string, args ...interface{}) {
	panic(&AlgorithmFailure{Code: code, Reason: fmt.Sprintf(format, args...)})
}

// Sub is one node of the enumeration tree: a relaxation plus the branching
// decisions accumulated on the path from the root. Implementations own
// their subtree links and the transitions of their own status; the Master
// only observes both.
type Sub interface {
	// ID returns the identifier assigned at creation via Master.NextSubID.
	// Identifiers are unique and increase monotonically in creation order.
	ID() int

	// Level returns the depth of this subproblem in the tree. The root
	// has level 1.
	Level() int

	// DualBound returns the best bound proven by this subproblem's
	// relaxation. Along any root-to-leaf path dual bounds may only
	// tighten; implementations enforce this, the Master observes it.
	DualBound() float64

	Status() SubStatus

	// Parent returns the parent subproblem, or nil for the root.
	Parent() Sub

	// BranchRule returns the branching decision that separates this
	// subproblem from its parent, or nil for the root. It is consulted
	// only for tie-breaking between equally good subproblems.
	BranchRule() BranchRule

	// Optimize processes the subproblem. It is granted full mutation
	// rights on the run: it may push children via Master.AddSubs, propose
	// bounds via the Master's bound setters, and fathom parts of the
	// tree. A non-nil error is the one collaborator failure the driver
	// converts into StatusError instead of propagating.
	Optimize(ctx context.Context, m *Master) error

	// Reoptimize re-solves an already processed subproblem. It is invoked
	// by Master.ReassignRRoot when the remaining root moves onto a
	// Processed or Dormant node and NewRootReOptimize is set.
	Reoptimize(ctx context.Context, m *Master) error

	// FathomSubtree recursively marks this subproblem and all its
	// descendants fathomed and removes any of them from the open set.
	// The driver may invoke it on nodes whose subtrees are partially
	// fathomed already, so implementations tolerate repeated invocation.
	FathomSubtree()
}

// BranchRule describes how a subproblem's relaxation differs from its
// parent's.
type BranchRule interface {
	String() string
}

// SetVarRule is a BranchRule that fixed a branching variable to one of its
// bounds. The enumeration tie-break orders the subproblem that set its
// variable to the upper bound after the one that set it to the lower
// bound; rules are detected by type assertion.
type SetVarRule interface {
	BranchRule
	SetToUpperBound() bool
}

// Disposer is implemented by subproblems that hold resources which must be
// released when the enumeration tree is torn down. Dispose releases the
// receiver and, recursively, its whole subtree; the Master invokes it on
// the true root exactly once per run, after the terminate hook and after
// the open set has been drained.
type Disposer interface {
	Dispose()
}

// TreeObserver receives notifications about the growing enumeration tree.
// A no-op implementation is always valid; NopObserver is the default.
type TreeObserver interface {
	// NewNode reports a subproblem entering the tree. The root reports
	// parentID 0.
	NewNode(id, parentID, level int)

	// NewBounds reports every accepted primal or dual bound update.
	NewBounds(primal, dual float64)

	// PaintNode reports a status change of a node, typically after its
	// optimization step finished.
	PaintNode(id int, status SubStatus)
}

// NopObserver is a TreeObserver that does nothing.
type NopObserver struct{}

func (NopObserver) NewNode(_, _, _ int)          {}
func (NopObserver) NewBounds(_, _ float64)       {}
func (NopObserver) PaintNode(_ int, _ SubStatus) {}

// FirstSubFunc produces the root subproblem. It is the one hook every
// Master must be given; the framework is problem-independent and cannot
// invent a root on its own.
type FirstSubFunc func(m *Master) (Sub, error)

// KnownOptimumFunc reports the optimum objective value for the problem
// being solved, if one is known. It is consulted only to pre-seed the
// primal bound; returning ok == false is not an error.
type KnownOptimumFunc func() (value float64, ok bool)

// HookFunc is an overridable lifecycle hook invoked with the Master it was
// registered on. All hooks default to no-ops.
type HookFunc func(m *Master) error

// TerminateFunc is a hook invoked while a run shuts down. Shutdown is not
// allowed to fail, so unlike HookFunc it returns nothing.
type TerminateFunc func(m *Master)
