package abax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	type tc struct {
		Name    string
		In      string
		Want    time.Duration
		WantErr bool
	}

	for _, tt := range []tc{
		{
			Name: "plain seconds",
			In:   "90",
			Want: 90 * time.Second,
		},
		{
			Name: "minutes and seconds",
			In:   "2:30",
			Want: 150 * time.Second,
		},
		{
			Name: "hours minutes seconds",
			In:   "1:30:05",
			Want: time.Hour + 30*time.Minute + 5*time.Second,
		},
		{
			Name: "go duration",
			In:   "1h30m",
			Want: 90 * time.Minute,
		},
		{
			Name: "surrounding spaces",
			In:   " 45 ",
			Want: 45 * time.Second,
		},
		{
			Name:    "empty",
			In:      "",
			WantErr: true,
		},
		{
			Name:    "negative seconds",
			In:      "-5",
			WantErr: true,
		},
		{
			Name:    "too many colon fields",
			In:      "1:2:3:4",
			WantErr: true,
		},
		{
			Name:    "non numeric colon field",
			In:      "1:xx:00",
			WantErr: true,
		},
		{
			Name:    "garbage",
			In:      "soon",
			WantErr: true,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			got, err := ParseTime(tt.In)
			if tt.WantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.Want, got)
		})
	}
}

func TestParseEnumStrategy(t *testing.T) {
	for in, want := range map[string]EnumStrategy{
		"BestFirst":    BestFirst,
		"best":         BestFirst,
		"BreadthFirst": BreadthFirst,
		"breadth":      BreadthFirst,
		"DepthFirst":   DepthFirst,
		"depth":        DepthFirst,
		"DiveAndBest":  DiveAndBest,
		"dive":         DiveAndBest,
	} {
		got, err := ParseEnumStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEnumStrategy("widest")
	assert.Error(t, err)
}

func TestParseBranchingStrategy(t *testing.T) {
	got, err := ParseBranchingStrategy("closehalf")
	require.NoError(t, err)
	assert.Equal(t, CloseHalf, got)

	got, err = ParseBranchingStrategy("CloseHalfExpensive")
	require.NoError(t, err)
	assert.Equal(t, CloseHalfExpensive, got)

	_, err = ParseBranchingStrategy("random")
	assert.Error(t, err)
}

func TestDefaultSettings(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	s := m.Settings()
	assert.Equal(t, SenseUnknown, s.Sense)
	assert.Equal(t, BestFirst, s.EnumerationStrategy)
	assert.Equal(t, CloseHalfExpensive, s.BranchingStrategy)
	assert.Equal(t, 0.0, s.Guarantee)
	assert.Equal(t, unlimited, s.MaxCPUTime)
	assert.Equal(t, unlimited, s.MaxCowTime)
	assert.Equal(t, 1, s.SkipFactor)
	assert.Equal(t, "simplex", s.DefaultLPSolver)
	assert.Equal(t, 1e-4, s.Eps)
	assert.Equal(t, 1e-7, s.MachineEps)
}

func TestOptionValidation(t *testing.T) {
	type tc struct {
		Name   string
		Option Option
	}

	for _, tt := range []tc{
		{Name: "unknown sense", Option: WithSense(SenseUnknown)},
		{Name: "negative guarantee", Option: WithGuarantee(-1)},
		{Name: "zero max level", Option: WithMaxLevel(0)},
		{Name: "negative max subs", Option: WithMaxNSub(-1)},
		{Name: "negative cpu limit", Option: WithMaxCPUTime(-time.Second)},
		{Name: "negative cow limit", Option: WithMaxCowTime(-time.Second)},
		{Name: "unknown enumeration strategy", Option: WithEnumerationStrategy(EnumStrategy(42))},
		{Name: "unknown branching strategy", Option: WithBranchingStrategy(BranchingStrategy(42), 1)},
		{Name: "zero branching candidates", Option: WithBranchingStrategy(CloseHalf, 0)},
		{Name: "negative tail off", Option: WithTailOff(-1, 0.1)},
		{Name: "zero dormant rounds", Option: WithMinDormantRounds(0)},
		{Name: "unknown primal bound mode", Option: WithPrimalBoundInitMode(PrimalBoundMode(42))},
		{Name: "zero skip factor", Option: WithSkip(0, SkipByNode)},
		{Name: "zero pool size", Option: WithPool(0, true)},
		{Name: "empty lp solver", Option: WithDefaultLPSolver("")},
		{Name: "zero eps", Option: WithEps(0, 1e-7)},
		{Name: "nil logger", Option: WithLogger(nil)},
		{Name: "nil observer", Option: WithTreeObserver(nil)},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := New(tt.Option)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestValidateRun(t *testing.T) {
	s := defaultSettings()
	assert.ErrorIs(t, s.validateRun(), ErrUnknownSense)

	s.Sense = Minimize
	assert.NoError(t, s.validateRun())

	s.PrimalBoundInitMode = OptimumOne
	assert.ErrorIs(t, s.validateRun(), ErrInvalidParameter,
		"OptimumOne needs an integer objective")

	s.ObjInteger = true
	assert.NoError(t, s.validateRun())
}
