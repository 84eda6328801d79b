package milp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abax-solver/abax/cmd/runopts"
	"github.com/abax-solver/abax/pkg/abax"
	milpsolver "github.com/abax-solver/abax/pkg/abax/milp"
)

func NewMilpCommand() *cobra.Command {
	opts := &runopts.RunOpts{}
	var lpSolver string
	cmd := &cobra.Command{
		Use:   "milp <path>",
		Short: "Solves a mixed integer linear program given in JSON format",
		Long: `Solves a mixed integer linear program given in JSON format. For instance:
{
  "sense": "maximize",
  "c": [8, 11, 6, 4],
  "g": [[5, 7, 4, 3], [1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0], [0, 0, 0, 1]],
  "h": [14, 1, 1, 1, 1],
  "integer": [true, true, true, true]
}
The keys a and b carry equality rows a x = b, g and h inequality rows
g x <= h; either pair may be omitted. Variables are nonnegative, and
integer restricted where the integer mask is true.
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(args[0], opts, lpSolver)
		},
	}
	opts.Register(cmd)
	cmd.Flags().StringVar(&lpSolver, "lp-solver", "",
		"registered LP solver for the relaxations (default simplex)")
	return cmd
}

func solve(path string, opts *runopts.RunOpts, lpSolver string) error {
	// open problem file
	problemFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening problem file (%s): %w", path, err)
	}
	defer problemFile.Close()

	problem, err := milpsolver.ReadProblem(problemFile)
	if err != nil {
		return fmt.Errorf("error parsing problem file (%s): %w", path, err)
	}

	options, closeVBC, err := opts.Options(problem.Sense)
	if err != nil {
		return err
	}
	options = append(options, abax.WithProblemName(path))
	if lpSolver != "" {
		options = append(options, abax.WithDefaultLPSolver(lpSolver))
	}

	// get solution
	solution, err := milpsolver.Solve(context.Background(), problem, options...)
	if cerr := closeVBC(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Printf("no solution found: %s\n", err)
		return nil
	}

	fmt.Printf("status: %s\n", solution.Status)
	fmt.Printf("objective: %g\n", solution.Objective)
	for j, v := range solution.X {
		fmt.Printf("x%d = %g\n", j, v)
	}
	return nil
}
