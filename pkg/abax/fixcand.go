package abax

// FixCandidate is a variable that qualified for fixing by reduced cost at
// the root of the remaining tree: the variable may be fixed to one of its
// bounds without losing all optimal solutions.
type FixCandidate struct {
	Variable int
	ToUpper  bool
}

// FixCandidates buffers fixing candidates between the subproblem that
// discovered them and a later root change that applies them. The Master
// clears the buffer once during end-of-run cleanup.
type FixCandidates struct {
	candidates []FixCandidate
	nCleared   int
}

// Save replaces the buffered candidates.
func (f *FixCandidates) Save(candidates ...FixCandidate) {
	f.candidates = append(f.candidates[:0], candidates...)
}

// Candidates returns a copy of the buffered candidates.
func (f *FixCandidates) Candidates() []FixCandidate {
	out := make([]FixCandidate, len(f.candidates))
	copy(out, f.candidates)
	return out
}

func (f *FixCandidates) Len() int {
	return len(f.candidates)
}

// Clear drops the buffered candidates.
func (f *FixCandidates) Clear() {
	f.candidates = nil
	f.nCleared++
}
