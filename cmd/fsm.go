package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/core"
	"github.com/spf13/cobra"
)

var fsmCmd = &cobra.Command{
	Use:     "fsm",
	Short:   "Prints the router lifecycle as a Graphviz graph",
	GroupID: "tools",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), core.VisualizeLifecycle())
	},
}

func init() {
	rootCmd.AddCommand(fsmCmd)
}
