package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/encodeous/dvsim/state"
	"github.com/encodeous/tint"
	"github.com/olekukonko/tablewriter"
	slogmulti "github.com/samber/slog-multi"
)

// NewLogger writes coloured logs to stderr and, if logPath is set, plain text logs to a file
func NewLogger(level slog.Level, logPath, prefix string) (*slog.Logger, io.Closer, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	var closer io.Closer = io.NopCloser(nil)
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

type RunOptions struct {
	Topology *state.TopologyCfg
	Log      *slog.Logger
	// Out receives the tables of every router once the network converged
	Out       io.Writer
	Quiet     time.Duration
	Timeout   time.Duration
	Verify    bool
	Report    time.Duration
	DebugAddr string
}

// Run simulates the topology until it converges, prints the routing tables and stops every router
func Run(ctx context.Context, opts RunOptions) error {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Quiet <= 0 {
		opts.Quiet = state.DefaultQuietPeriod
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
		}
	}()

	if opts.DebugAddr != "" {
		go func() {
			log.Info("serving metrics", "addr", opts.DebugAddr)
			if err := http.ListenAndServe(opts.DebugAddr, nil); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	nodeOpts := make([]NodeOption, 0)
	if opts.Report > 0 {
		nodeOpts = append(nodeOpts, WithReportInterval(opts.Report))
	}
	network, err := NewNetwork(opts.Topology, opts.Quiet, log, nodeOpts...)
	if err != nil {
		return err
	}

	start := time.Now()
	log.Info("starting network", "name", opts.Topology.Name, "nodes", len(opts.Topology.Nodes), "links", len(opts.Topology.Links))
	if err = network.Start(); err != nil {
		return err
	}

	waitCtx := ctx
	if opts.Timeout > 0 {
		var waitCancel context.CancelFunc
		waitCtx, waitCancel = context.WithTimeout(ctx, opts.Timeout)
		defer waitCancel()
	}
	err = network.WaitConverged(waitCtx)
	if err != nil {
		return errors.Join(err, network.Stop())
	}
	log.Info("network converged", "elapsed", time.Since(start)-opts.Quiet, "rounds", network.Tracker.Rounds())

	snaps, err := network.Snapshots(ctx)
	if err != nil {
		return errors.Join(err, network.Stop())
	}
	for _, id := range opts.Topology.Nodes {
		_, _ = fmt.Fprintln(opts.Out, RenderSnapshot(snaps[id]))
	}
	writeSummary(opts.Out, opts.Topology, snaps)

	if opts.Verify {
		if err = Verify(opts.Topology, snaps); err != nil {
			return errors.Join(fmt.Errorf("verification failed: %w", err), network.Stop())
		}
		log.Info("routes match shortest paths")
	}
	return network.Stop()
}

func writeSummary(w io.Writer, cfg *state.TopologyCfg, snaps map[state.NodeId]state.RouterSnapshot) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Router", "Neighbours", "Rounds", "Vector"})
	for _, id := range cfg.Nodes {
		snap := snaps[id]
		table.Append([]string{string(id), fmt.Sprint(len(snap.Neighbours)), fmt.Sprint(snap.Rounds), snap.Vector.String()})
	}
	table.Render()
}
