package abax

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRule is a variable setting branch rule for tie break tests.
type testRule struct {
	upper bool
}

func (r testRule) String() string {
	if r.upper {
		return "x set to upper bound"
	}
	return "x set to lower bound"
}

func (r testRule) SetToUpperBound() bool { return r.upper }

func newTestMaster(t *testing.T, options ...Option) *Master {
	t.Helper()
	m, err := New(options...)
	require.NoError(t, err)
	return m
}

func TestBestFirstCompare(t *testing.T) {
	minimize := newTestMaster(t, WithSense(Minimize))
	a := &openSub{id: 1, level: 2, dual: 3}
	b := &openSub{id: 2, level: 2, dual: 5}
	assert.Negative(t, minimize.compareSubs(a, b), "smaller dual bound first when minimizing")
	assert.Positive(t, minimize.compareSubs(b, a))

	maximize := newTestMaster(t, WithSense(Maximize))
	assert.Positive(t, maximize.compareSubs(a, b), "larger dual bound first when maximizing")
	assert.Negative(t, maximize.compareSubs(b, a))
}

func TestBestFirstCompareTie(t *testing.T) {
	m := newTestMaster(t, WithSense(Minimize))
	lower := &openSub{id: 1, dual: 3, rule: testRule{upper: false}}
	upper := &openSub{id: 2, dual: 3, rule: testRule{upper: true}}
	assert.Negative(t, m.compareSubs(lower, upper), "the upper bound branch sorts after")
	assert.Positive(t, m.compareSubs(upper, lower))
}

func TestBreadthFirstCompare(t *testing.T) {
	m := newTestMaster(t, WithSense(Minimize), WithEnumerationStrategy(BreadthFirst))
	shallow := &openSub{id: 9, level: 1}
	deep := &openSub{id: 2, level: 3}
	assert.Negative(t, m.compareSubs(shallow, deep), "smaller level first")
	assert.Positive(t, m.compareSubs(deep, shallow))

	first := &openSub{id: 4, level: 2}
	second := &openSub{id: 7, level: 2}
	assert.Positive(t, m.compareSubs(first, second), "the smaller id sorts after its sibling")
	assert.Negative(t, m.compareSubs(second, first))
}

func TestBreadthFirstExtraction(t *testing.T) {
	m := newTestMaster(t, WithSense(Minimize), WithEnumerationStrategy(BreadthFirst))
	o := newOpenSet(Minimize)
	older := &openSub{id: 5, level: 4}
	younger := &openSub{id: 9, level: 4}
	o.Insert(older)
	o.Insert(younger)
	assert.Equal(t, 9, o.Extract(m.compareSubs).ID())
	assert.Equal(t, 5, o.Extract(m.compareSubs).ID())
}

func TestDepthFirstCompare(t *testing.T) {
	m := newTestMaster(t, WithSense(Minimize), WithEnumerationStrategy(DepthFirst))
	shallow := &openSub{id: 1, level: 2}
	deep := &openSub{id: 2, level: 5}
	assert.Negative(t, m.compareSubs(deep, shallow), "larger level first")
	assert.Positive(t, m.compareSubs(shallow, deep))

	lower := &openSub{id: 3, level: 5, rule: testRule{upper: false}}
	assert.Negative(t, m.compareSubs(lower, deep), "level ties fall to the branch rule")
}

func TestDiveAndBestCompare(t *testing.T) {
	m := newTestMaster(t, WithSense(Minimize), WithEnumerationStrategy(DiveAndBest))
	deepWorse := &openSub{id: 1, level: 5, dual: 9}
	shallowBetter := &openSub{id: 2, level: 2, dual: 3}

	assert.Negative(t, m.compareSubs(deepWorse, shallowBetter),
		"dives while no feasible solution is known")

	m.SetPrimalBound(100)
	assert.Positive(t, m.compareSubs(deepWorse, shallowBetter),
		"switches to best first once a feasible solution is known")
}

func TestEqualSubCompare(t *testing.T) {
	type tc struct {
		Name string
		A, B BranchRule
		Want int
	}

	for _, tt := range []tc{
		{
			Name: "no rules stay tied",
			Want: 0,
		},
		{
			Name: "both to the same bound stay tied",
			A:    testRule{upper: true},
			B:    testRule{upper: true},
			Want: 0,
		},
		{
			Name: "upper bound branch sorts after the lower bound branch",
			A:    testRule{upper: true},
			B:    testRule{upper: false},
			Want: 1,
		},
		{
			Name: "lower bound branch sorts before the upper bound branch",
			A:    testRule{upper: false},
			B:    testRule{upper: true},
			Want: -1,
		},
		{
			Name: "only one variable setting rule, the other wins",
			A:    testRule{upper: false},
			Want: 1,
		},
		{
			Name: "only one variable setting rule, reversed",
			B:    testRule{upper: true},
			Want: -1,
		},
		{
			Name: "a plain rule is no variable setting rule",
			A:    plainRule{},
			B:    testRule{upper: false},
			Want: -1,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			a := &openSub{id: 1, rule: tt.A}
			b := &openSub{id: 2, rule: tt.B}
			assert.Equal(t, tt.Want, equalSubCompare(a, b))
		})
	}
}

type plainRule struct{}

func (plainRule) String() string { return "branched on a constraint" }

func TestCompareSubsUnknownStrategy(t *testing.T) {
	m := newTestMaster(t, WithSense(Minimize))
	m.settings.EnumerationStrategy = EnumStrategy(42)
	requireFailure(t, FailIllegalParameter, func() {
		m.compareSubs(&openSub{id: 1}, &openSub{id: 2})
	})
}

func TestEnumStrategyStrings(t *testing.T) {
	for _, tt := range []struct {
		Strategy EnumStrategy
		Want     string
	}{
		{BestFirst, "BestFirst"},
		{BreadthFirst, "BreadthFirst"},
		{DepthFirst, "DepthFirst"},
		{DiveAndBest, "DiveAndBest"},
		{EnumStrategy(42), "EnumStrategy(42)"},
	} {
		assert.Equal(t, tt.Want, tt.Strategy.String())
		assert.Equal(t, tt.Want, fmt.Sprintf("%s", tt.Strategy))
	}
}
