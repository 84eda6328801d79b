package abax

// Stats collects the counters of a run. The selection counter and the
// highest level are maintained by the Master itself; the remaining
// counters are fed by the subproblem implementations as they solve
// relaxations and modify their constraint and variable sets.
type Stats struct {
	nSubSelected int
	nLP          int
	highestLevel int
	nFixed       int
	nAddCons     int
	nRemCons     int
	nAddVars     int
	nRemVars     int
	nNewRoot     int
}

// SubsSelected returns the number of subproblems selected from the open
// set so far.
func (s *Stats) SubsSelected() int { return s.nSubSelected }

// LPsSolved returns the number of solved relaxations.
func (s *Stats) LPsSolved() int { return s.nLP }

// HighestLevel returns the deepest level the enumeration tree reached.
func (s *Stats) HighestLevel() int { return s.highestLevel }

// VarsFixed returns the number of variables fixed or set during the run.
func (s *Stats) VarsFixed() int { return s.nFixed }

// ConsAdded returns the number of constraints added to relaxations.
func (s *Stats) ConsAdded() int { return s.nAddCons }

// ConsRemoved returns the number of constraints removed from relaxations.
func (s *Stats) ConsRemoved() int { return s.nRemCons }

// VarsAdded returns the number of variables added to relaxations.
func (s *Stats) VarsAdded() int { return s.nAddVars }

// VarsRemoved returns the number of variables removed from relaxations.
func (s *Stats) VarsRemoved() int { return s.nRemVars }

// RootChanges returns how often the remaining root moved.
func (s *Stats) RootChanges() int { return s.nNewRoot }

// CountLP records n solved relaxations.
func (s *Stats) CountLP(n int) { s.nLP += n }

// CountFixed records n fixed or set variables.
func (s *Stats) CountFixed(n int) { s.nFixed += n }

// CountAddCons records n constraints added to a relaxation.
func (s *Stats) CountAddCons(n int) { s.nAddCons += n }

// CountRemCons records n constraints removed from a relaxation.
func (s *Stats) CountRemCons(n int) { s.nRemCons += n }

// CountAddVars records n variables added to a relaxation.
func (s *Stats) CountAddVars(n int) { s.nAddVars += n }

// CountRemVars records n variables removed from a relaxation.
func (s *Stats) CountRemVars(n int) { s.nRemVars += n }

func (s *Stats) newLevel(level int) {
	if level > s.highestLevel {
		s.highestLevel = level
	}
}

// Timers is the timing breakdown of a run. Total runs on the CPU clock
// and TotalCow on the wall clock; both are started and stopped by the
// Master. The phase timers are started and stopped by the subproblem
// implementations around the respective phases.
type Timers struct {
	Total      *Stopwatch
	TotalCow   *Stopwatch
	LP         *Stopwatch
	Separation *Stopwatch
	Heuristics *Stopwatch
	Pricing    *Stopwatch
	Branching  *Stopwatch
}

func newTimers() *Timers {
	return &Timers{
		Total:      NewCPUStopwatch(),
		TotalCow:   NewWallStopwatch(),
		LP:         NewCPUStopwatch(),
		Separation: NewCPUStopwatch(),
		Heuristics: NewCPUStopwatch(),
		Pricing:    NewCPUStopwatch(),
		Branching:  NewCPUStopwatch(),
	}
}
