package abax

import "math"

// OpenSet holds the subproblems that still await processing. Order is not
// maintained inside the set; the enumeration strategy is applied on
// extraction, so a strategy change mid-run affects all later selections.
type OpenSet struct {
	sense Sense
	subs  []Sub
}

func newOpenSet(sense Sense) *OpenSet {
	return &OpenSet{sense: sense}
}

// Insert adds a subproblem to the set. Only unprocessed and dormant
// subproblems are admissible; anything else indicates a broken subproblem
// implementation and is fatal.
func (o *OpenSet) Insert(s Sub) {
	if st := s.Status(); st != SubUnprocessed && st != SubDormant {
		failf(FailIllegalParameter, "subproblem %d entered the open set with status %s", s.ID(), st)
	}
	o.subs = append(o.subs, s)
}

// Remove takes a subproblem out of the set. It reports whether the
// subproblem was a member; removing a non-member is not an error, fathoming
// sweeps entire subtrees without checking membership first.
func (o *OpenSet) Remove(s Sub) bool {
	for i, member := range o.subs {
		if member == s {
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Extract removes and returns the subproblem ranked first by compare,
// where compare(a, b) < 0 means a is selected before b. Members that
// compare equal are extracted in insertion order. An empty set yields nil.
func (o *OpenSet) Extract(compare func(a, b Sub) int) Sub {
	if len(o.subs) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(o.subs); i++ {
		if compare(o.subs[i], o.subs[best]) < 0 {
			best = i
		}
	}
	s := o.subs[best]
	o.subs = append(o.subs[:best], o.subs[best+1:]...)
	return s
}

// DualBound returns the best dual bound any member can still deliver: the
// minimum over the members' bounds when minimizing, the maximum when
// maximizing. An empty set no longer constrains anything and yields the
// corresponding infinity.
func (o *OpenSet) DualBound() float64 {
	if o.sense == Maximize {
		bound := math.Inf(-1)
		for _, s := range o.subs {
			if d := s.DualBound(); d > bound {
				bound = d
			}
		}
		return bound
	}
	bound := math.Inf(1)
	for _, s := range o.subs {
		if d := s.DualBound(); d < bound {
			bound = d
		}
	}
	return bound
}

// Clear drops all members without processing them.
func (o *OpenSet) Clear() {
	o.subs = o.subs[:0]
}

func (o *OpenSet) Empty() bool {
	return len(o.subs) == 0
}

func (o *OpenSet) Len() int {
	return len(o.subs)
}
