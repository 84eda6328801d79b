package maxsat

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abax-solver/abax/cmd/runopts"
	"github.com/abax-solver/abax/pkg/abax"
	maxsatsolver "github.com/abax-solver/abax/pkg/abax/maxsat"
)

func NewMaxSatCommand() *cobra.Command {
	opts := &runopts.RunOpts{}
	cmd := &cobra.Command{
		Use:   "maxsat <path>",
		Short: "Solves a weighted partial MaxSAT problem given in WCNF format",
		Long: `Solves a weighted partial MaxSAT problem given in WCNF format. For instance:
c
c this is a comment
c header: p wcnf <number of variables> <number of clauses> <top>
p wcnf 2 3 100
c clauses end in zero, negative means 'not'
c clauses with weight >= top are hard, the others are soft
100 1 2 0
2 -1 0
1 -2 0
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(args[0], opts)
		},
	}
	opts.Register(cmd)
	return cmd
}

func solve(path string, opts *runopts.RunOpts) error {
	// open WCNF file
	wcnfFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening WCNF file (%s): %w", path, err)
	}
	defer wcnfFile.Close()

	problem, err := maxsatsolver.ParseWCNF(wcnfFile)
	if err != nil {
		return fmt.Errorf("error parsing WCNF file (%s): %w", path, err)
	}

	options, closeVBC, err := opts.Options(abax.Maximize)
	if err != nil {
		return err
	}
	options = append(options, abax.WithProblemName(path))

	// get solution
	solution, err := maxsatsolver.Solve(context.Background(), problem, options...)
	if cerr := closeVBC(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Printf("no solution found: %s\n", err)
		return nil
	}

	fmt.Printf("status: %s\n", solution.Status)
	fmt.Printf("satisfied soft weight: %d of %d\n", solution.Weight, problem.TotalSoftWeight())
	for v := 1; v <= problem.NVars; v++ {
		fmt.Printf("x%d = %t\n", v, solution.Values[v])
	}
	return nil
}
