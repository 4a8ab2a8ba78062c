package cmd

import (
	"fmt"
	"strings"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var topologyCmd = &cobra.Command{
	Use:     "topology",
	Short:   "Inspect topologies",
	GroupID: "tools",
}

var topologyShowCmd = &cobra.Command{
	Use:       "show <name>",
	Short:     "Prints a built-in topology as yaml, to be used as a starting point for --config",
	Args:      cobra.ExactArgs(1),
	ValidArgs: state.BuiltinTopologyNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := state.BuiltinTopology(args[0])
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var topologyCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validates a topology file and prints the expected shortest path costs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology(args[0], "")
		if err != nil {
			return err
		}
		dist := core.ShortestPaths(cfg)

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		header := []string{"from"}
		for _, dst := range cfg.Nodes {
			header = append(header, string(dst))
		}
		table.SetHeader(header)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, src := range cfg.Nodes {
			row := []string{string(src)}
			for _, dst := range cfg.Nodes {
				row = append(row, dist[src][dst].String())
			}
			table.Append(row)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d nodes, %d links\n", len(cfg.Nodes), len(cfg.Links))
		for _, id := range cfg.Nodes {
			neighs := cfg.GetNeighbours(id)
			state.SortPairs(neighs)
			parts := make([]string, 0, len(neighs))
			for _, n := range neighs {
				parts = append(parts, fmt.Sprintf("%s(%s)", n.V1, n.V2))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", id, strings.Join(parts, " "))
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topologyCmd)
	topologyCmd.AddCommand(topologyShowCmd)
	topologyCmd.AddCommand(topologyCheckCmd)
}
