package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"qir/internal/observ"
	"qir/internal/prof"
	"qir/internal/report"
	"qir/internal/scenario"
	"qir/internal/trace"
)

type emitOptions struct {
	configPath string
	output     string
	reportPath string
	scenarios  []string
	inline     bool
	parallel   int
	timings    bool
	profile    prof.Options
}

func newEmitCmd() *cobra.Command {
	opts := &emitOptions{}
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Print the LLVM IR of the selected scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to qir.toml (default: nearest one above the working directory)")
	cmd.Flags().StringSliceVar(&opts.scenarios, "scenario", nil, "scenario to emit, repeatable (default: all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "write IR to file (- for stdout)")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "write a msgpack emission report to file")
	cmd.Flags().BoolVar(&opts.inline, "inline", false, "keep literal aggregates in registers")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "scenarios emitted concurrently")
	cmd.Flags().BoolVar(&opts.timings, "timings", false, "print phase timings to stderr")
	cmd.Flags().StringVar(&opts.profile.CPU, "cpuprofile", "", "write a CPU profile to file")
	cmd.Flags().StringVar(&opts.profile.Mem, "memprofile", "", "write a heap profile to file")
	cmd.Flags().StringVar(&opts.profile.Trace, "runtime-trace", "", "write a Go runtime trace to file")
	return cmd
}

func runEmit(cmd *cobra.Command, opts *emitOptions) (err error) {
	if opts.profile.Enabled() {
		session, startErr := prof.Start(opts.profile)
		if startErr != nil {
			return startErr
		}
		defer func() {
			if stopErr := session.Stop(); stopErr != nil && err == nil {
				err = stopErr
			}
		}()
	}
	timer := observ.NewTimer()
	if opts.timings {
		defer func() {
			if err == nil {
				err = timer.WriteSummary(cmd.ErrOrStderr())
			}
		}()
	}

	endConfig := timer.Begin("config")
	cfg, cfgPath, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	endConfig(cfgPath)
	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "emit", 0)
	if cfgPath != "" {
		span.WithExtra("config", cfgPath)
	}
	defer func() {
		if err != nil {
			dumpRing(cmd.ErrOrStderr(), tracer)
		}
		span.End("")
	}()

	names := cfg.Emit.Scenarios
	if cmd.Flags().Changed("scenario") {
		names = opts.scenarios
	}
	inline := cfg.Emit.InlineAggregates
	if cmd.Flags().Changed("inline") {
		inline = opts.inline
	}
	parallel := cfg.Emit.Parallel
	if cmd.Flags().Changed("parallel") {
		parallel = opts.parallel
	}

	programs, err := scenario.Select(names)
	if err != nil {
		return err
	}
	target := cfg.Target.layoutTarget()
	span.WithExtra("scenarios", strconv.Itoa(len(programs)))

	endLower := timer.Begin("lower")
	results, err := scenario.EmitAll(ctx, programs, scenario.Options{Target: target, Inline: inline}, parallel)
	if err != nil {
		return err
	}
	endLower(fmt.Sprintf("%d scenarios", len(results)))

	endWrite := timer.Begin("write")
	if err := writeModules(cmd.OutOrStdout(), opts.output, results); err != nil {
		return err
	}
	endWrite("")
	if opts.reportPath != "" {
		endReport := timer.Begin("report")
		if err := report.Write(opts.reportPath, report.Build(target.Triple, results)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		endReport("")
	}
	return nil
}

func writeModules(stdout io.Writer, path string, results []*scenario.Result) (err error) {
	w := stdout
	if path != "" && path != "-" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = f
	}
	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "; scenario: %s\n%s", res.Scenario, res.Module.String()); err != nil {
			return err
		}
	}
	return nil
}

// dumpRing writes buffered trace events after a failure.
func dumpRing(w io.Writer, tracer trace.Tracer) {
	var buf bytes.Buffer
	ok, err := trace.DumpRing(tracer, &buf)
	if !ok {
		return
	}
	fmt.Fprintln(w, "--- trace ---")
	_, _ = w.Write(buf.Bytes())
	if err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
