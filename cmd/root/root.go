package root

import (
	"github.com/spf13/cobra"

	"github.com/abax-solver/abax/cmd/maxsat"
	"github.com/abax-solver/abax/cmd/milp"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "abax",
		Short: "Abax is an open-source branch-and-bound enumeration framework",
		Long: `An open-source branch-and-bound enumeration framework written in Go.
For more information visit https://github.com/abax-solver/abax`,
	}

	// add sub-commands
	rootCmd.AddCommand(maxsat.NewMaxSatCommand())
	rootCmd.AddCommand(milp.NewMilpCommand())

	return rootCmd
}
