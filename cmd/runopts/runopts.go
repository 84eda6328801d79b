// Package runopts declares the run control flags shared by the solver
// commands and turns them into master options.
package runopts

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abax-solver/abax/pkg/abax"
	"github.com/abax-solver/abax/pkg/abax/vbc"
)

// RunOpts carries the flag values. Zero or empty values leave the master
// defaults untouched.
type RunOpts struct {
	strategy    string
	branching   string
	nBranchCand int
	guarantee   float64
	maxCPUTime  string
	maxCowTime  string
	maxLevel    int
	maxSubs     int
	logLevel    string
	vbcPath     string
}

// Register declares the shared flags on cmd.
func (o *RunOpts) Register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.strategy, "strategy", "bestfirst",
		"enumeration strategy (bestfirst, breadthfirst, depthfirst, diveandbest)")
	flags.StringVar(&o.branching, "branching", "closehalfexpensive",
		"branching variable strategy (closehalf, closehalfexpensive)")
	flags.IntVar(&o.nBranchCand, "branching-candidates", 1,
		"fractional candidates shortlisted by closehalfexpensive")
	flags.Float64Var(&o.guarantee, "guarantee", 0,
		"stop once the gap is within this percentage")
	flags.StringVar(&o.maxCPUTime, "max-cpu-time", "",
		"CPU time limit, as seconds, [hh:]mm:ss or a duration such as 30m")
	flags.StringVar(&o.maxCowTime, "max-wall-time", "",
		"wall clock time limit, same formats as --max-cpu-time")
	flags.IntVar(&o.maxLevel, "max-level", 0,
		"do not branch below this tree level")
	flags.IntVar(&o.maxSubs, "max-subs", 0,
		"stop after this many subproblem selections")
	flags.StringVar(&o.logLevel, "log-level", "warning",
		"log verbosity (trace, debug, info, warning, error)")
	flags.StringVar(&o.vbcPath, "vbc", "",
		"write the enumeration tree as a VBC tool log to this file")
}

// Options turns the flag values into master options. The returned closer
// flushes the VBC log if one was requested and must be called once the run
// is over.
func (o *RunOpts) Options(sense abax.Sense) ([]abax.Option, func() error, error) {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level (%s): %w", o.logLevel, err)
	}
	logger := logrus.New()
	logger.SetLevel(level)

	strategy, err := abax.ParseEnumStrategy(o.strategy)
	if err != nil {
		return nil, nil, err
	}
	branching, err := abax.ParseBranchingStrategy(o.branching)
	if err != nil {
		return nil, nil, err
	}

	options := []abax.Option{
		abax.WithLogger(logger),
		abax.WithEnumerationStrategy(strategy),
		abax.WithBranchingStrategy(branching, o.nBranchCand),
		abax.WithGuarantee(o.guarantee),
	}
	if o.maxCPUTime != "" {
		d, err := abax.ParseTime(o.maxCPUTime)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid CPU time limit: %w", err)
		}
		options = append(options, abax.WithMaxCPUTime(d))
	}
	if o.maxCowTime != "" {
		d, err := abax.ParseTime(o.maxCowTime)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid wall clock time limit: %w", err)
		}
		options = append(options, abax.WithMaxCowTime(d))
	}
	if o.maxLevel > 0 {
		options = append(options, abax.WithMaxLevel(o.maxLevel))
	}
	if o.maxSubs > 0 {
		options = append(options, abax.WithMaxNSub(o.maxSubs))
	}

	closer := func() error { return nil }
	if o.vbcPath != "" {
		f, err := os.Create(o.vbcPath)
		if err != nil {
			return nil, nil, fmt.Errorf("creating VBC log (%s): %w", o.vbcPath, err)
		}
		w := vbc.New(f, sense)
		options = append(options, abax.WithTreeObserver(w))
		closer = func() error {
			if err := w.Flush(); err != nil {
				f.Close()
				return fmt.Errorf("writing VBC log (%s): %w", o.vbcPath, err)
			}
			return f.Close()
		}
	}
	return options, closer, nil
}
