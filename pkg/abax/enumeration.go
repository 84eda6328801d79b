package abax

// compareSubs ranks two open subproblems under the configured enumeration
// strategy. A negative result selects a before b.
func (m *Master) compareSubs(a, b Sub) int {
	switch m.settings.EnumerationStrategy {
	case BestFirst:
		return m.bestFirstCompare(a, b)
	case BreadthFirst:
		return breadthFirstCompare(a, b)
	case DepthFirst:
		return depthFirstCompare(a, b)
	case DiveAndBest:
		if m.bounds.feasibleFound() {
			return m.bestFirstCompare(a, b)
		}
		return depthFirstCompare(a, b)
	}
	failf(FailIllegalParameter, "unknown enumeration strategy %d", m.settings.EnumerationStrategy)
	return 0
}

// bestFirstCompare prefers the better dual bound: the smaller one when
// minimizing, the larger one when maximizing.
func (m *Master) bestFirstCompare(a, b Sub) int {
	da, db := a.DualBound(), b.DualBound()
	if da == db {
		return equalSubCompare(a, b)
	}
	if m.settings.Sense == Maximize {
		if da > db {
			return -1
		}
		return 1
	}
	if da < db {
		return -1
	}
	return 1
}

// breadthFirstCompare prefers the smaller level. Within a level the
// subproblem with the smaller id sorts after the other one.
func breadthFirstCompare(a, b Sub) int {
	switch {
	case a.Level() < b.Level():
		return -1
	case a.Level() > b.Level():
		return 1
	case a.ID() < b.ID():
		return 1
	}
	return -1
}

// depthFirstCompare prefers the larger level.
func depthFirstCompare(a, b Sub) int {
	switch {
	case a.Level() > b.Level():
		return -1
	case a.Level() < b.Level():
		return 1
	}
	return equalSubCompare(a, b)
}

// equalSubCompare breaks ties between otherwise equally ranked
// subproblems. A subproblem whose branching rule set its variable to the
// upper bound sorts after one that set it to the lower bound; if only one
// of the two carries a variable setting rule, the other wins. All other
// combinations stay tied.
func equalSubCompare(a, b Sub) int {
	ra, aOK := a.BranchRule().(SetVarRule)
	rb, bOK := b.BranchRule().(SetVarRule)
	switch {
	case aOK && bOK:
		switch {
		case ra.SetToUpperBound() && !rb.SetToUpperBound():
			return 1
		case !ra.SetToUpperBound() && rb.SetToUpperBound():
			return -1
		}
		return 0
	case aOK:
		return 1
	case bOK:
		return -1
	}
	return 0
}
