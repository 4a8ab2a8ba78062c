package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation until the network converges",
	Long: `This builds every router of the topology, wires the links, starts the routers and waits until no router has changed its distance vector for the quiet period.
The routing table, distance vector and forwarding table of every router are then printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		example, _ := cmd.Flags().GetString("example")
		cfg, err := loadTopology(configPath, example)
		if err != nil {
			panic(err)
		}

		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		logPath, _ := cmd.Flags().GetString("log-path")
		logger, closer, err := core.NewLogger(level, logPath, "dvsim")
		if err != nil {
			panic(err)
		}
		defer closer.Close()

		quiet, _ := cmd.Flags().GetDuration("quiet")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		report, _ := cmd.Flags().GetDuration("report")
		verify, _ := cmd.Flags().GetBool("verify")
		debugAddr, _ := cmd.Flags().GetString("debug-addr")

		err = core.Run(context.Background(), core.RunOptions{
			Topology:  cfg,
			Log:       logger,
			Out:       cmd.OutOrStdout(),
			Quiet:     quiet,
			Timeout:   timeout,
			Verify:    verify,
			Report:    report,
			DebugAddr: debugAddr,
		})
		if err != nil {
			logger.Error("simulation failed", "error", err)
			panic(err)
		}
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "topology file, overrides --example")
	runCmd.Flags().StringP("example", "e", "book", "built-in topology to simulate")
	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	runCmd.Flags().Bool("verify", false, "Check the converged routes against Floyd-Warshall shortest paths")
	runCmd.Flags().Duration("quiet", state.DefaultQuietPeriod, "how long the network must be idle to count as converged")
	runCmd.Flags().Duration("timeout", 30*time.Second, "give up waiting for convergence after this long, 0 waits forever")
	runCmd.Flags().Duration("report", 0, "periodically log the forwarding table of every router")
	runCmd.Flags().String("log-path", "", "also write logs to this file")
	runCmd.Flags().String("debug-addr", "", "serve expvar metrics on this address, e.g. localhost:6060")
	runCmd.Flags().BoolVarP(&state.DBG_log_tables, "ltable", "t", false, "Outputs the tables of a router after every round")
	runCmd.Flags().BoolVarP(&state.DBG_log_vector_changes, "lvchange", "g", false, "Outputs distance vector changes to the console")
	runCmd.Flags().BoolVarP(&state.DBG_log_links, "llink", "l", false, "Outputs every delivered vector to the console")
}
