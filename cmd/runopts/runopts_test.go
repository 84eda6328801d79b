package runopts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abax-solver/abax/pkg/abax"
)

func parse(t *testing.T, args ...string) *RunOpts {
	t.Helper()
	opts := &RunOpts{}
	cmd := &cobra.Command{}
	opts.Register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return opts
}

func TestOptionsDefaults(t *testing.T) {
	opts := parse(t)
	options, closer, err := opts.Options(abax.Minimize)
	require.NoError(t, err)
	defer closer()

	m, err := abax.New(append(options, abax.WithSense(abax.Minimize))...)
	require.NoError(t, err)
	settings := m.Settings()
	assert.Equal(t, abax.BestFirst, settings.EnumerationStrategy)
	assert.Equal(t, abax.CloseHalfExpensive, settings.BranchingStrategy)
	assert.Equal(t, 0.0, settings.Guarantee)
}

func TestOptionsFlags(t *testing.T) {
	opts := parse(t,
		"--strategy", "diveandbest",
		"--branching", "closehalf",
		"--branching-candidates", "4",
		"--guarantee", "2.5",
		"--max-cpu-time", "1:30:00",
		"--max-wall-time", "45",
		"--max-level", "12",
		"--max-subs", "1000",
	)
	options, closer, err := opts.Options(abax.Maximize)
	require.NoError(t, err)
	defer closer()

	m, err := abax.New(append(options, abax.WithSense(abax.Maximize))...)
	require.NoError(t, err)
	settings := m.Settings()
	assert.Equal(t, abax.DiveAndBest, settings.EnumerationStrategy)
	assert.Equal(t, abax.CloseHalf, settings.BranchingStrategy)
	assert.Equal(t, 4, settings.NBranchingVariableCandidates)
	assert.Equal(t, 2.5, settings.Guarantee)
	assert.Equal(t, 90*time.Minute, settings.MaxCPUTime)
	assert.Equal(t, 45*time.Second, settings.MaxCowTime)
	assert.Equal(t, 12, settings.MaxLevel)
	assert.Equal(t, 1000, settings.MaxNSub)
}

func TestOptionsRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown strategy", args: []string{"--strategy", "widest"}, want: "enumeration strategy"},
		{name: "unknown branching", args: []string{"--branching", "cheapest"}, want: "branching strategy"},
		{name: "bad cpu time", args: []string{"--max-cpu-time", "later"}, want: "time"},
		{name: "bad wall time", args: []string{"--max-wall-time", "1:2:3:4"}, want: "time"},
		{name: "bad log level", args: []string{"--log-level", "chatty"}, want: "log level"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := parse(t, tc.args...)
			_, _, err := opts.Options(abax.Minimize)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestOptionsWritesVBCLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.vbc")
	opts := parse(t, "--vbc", path)
	options, closer, err := opts.Options(abax.Minimize)
	require.NoError(t, err)
	assert.Len(t, options, 5)

	require.NoError(t, closer())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#TYPE: COMPLETE TREE")
}
