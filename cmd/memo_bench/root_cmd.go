package main

import (
	"context"
	"io"
	"time"

	"github.com/on-the-ground/memo_bench/bench"
	"github.com/on-the-ground/memo_bench/clock"
	"github.com/on-the-ground/memo_bench/config"
	"github.com/on-the-ground/memo_bench/memo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flags struct {
	configPath     string
	busyWait       time.Duration
	backend        string
	sinks          []string
	seedFromDirect bool
	logLevel       string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "memo_bench",
		Short: "Compare a direct call with a memoized call of the same function",
		Long: `Runs one benchmark of a busy-waiting function:
- the function called directly
- the first call through the memoizing cache
- reading the cached result back

and reports which path was faster, and by how many milliseconds, for
direct vs. memoisation and direct vs. cached access.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.DurationVar(&f.busyWait, "busy-wait", 0, "how long the benchmarked function spins")
	fs.StringVar(&f.backend, "backend", "", "cache backend: rotating, sharded, ristretto or memdb")
	fs.StringSliceVar(&f.sinks, "sinks", nil, "report sinks: log, metrics")
	fs.BoolVar(&f.seedFromDirect, "seed-from-direct", false, "seed the cache with the direct call's result")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("busy-wait") {
		cfg.Target.BusyWait = f.busyWait
	}
	if fs.Changed("backend") {
		cfg.Cache.Backend = f.backend
	}
	if fs.Changed("sinks") {
		cfg.Sinks = f.sinks
	}
	if fs.Changed("seed-from-direct") {
		cfg.SeedFromDirect = f.seedFromDirect
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger, err := cfg.NewLogger(out)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, closeStore, err := cfg.NewStore()
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	sink, closeSink, err := cfg.NewSink(ctx, out, reg)
	if err != nil {
		return err
	}

	runner := bench.NewRunner(
		memo.NewCache(store, memo.WithLogger(logger)),
		clock.NewMonotonic(),
		sink,
		bench.WithLogger(logger),
		bench.WithSeedFromDirect(cfg.SeedFromDirect),
	)
	target := memo.NewTargetFunc(func() time.Duration {
		return busyWait(cfg.Target.BusyWait)
	})

	logger.Debug("starting benchmark",
		zap.String("backend", cfg.Cache.Backend),
		zap.Duration("busy_wait", cfg.Target.BusyWait),
		zap.String("target", target.Token()),
	)
	runErr := bench.Run(ctx, runner, target)
	if err := closeSink(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	return writeMetrics(reg, out)
}

// busyWait spins instead of sleeping so the elapsed time is spent on-CPU.
func busyWait(d time.Duration) time.Duration {
	start := time.Now()
	for time.Since(start) < d {
	}
	return time.Since(start)
}

func writeMetrics(g prometheus.Gatherer, out io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
