package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qir/internal/trace"
)

// setupTracing merges trace flags over the [trace] section and attaches the
// tracer to the command context. Flags win when set explicitly.
func setupTracing(cmd *cobra.Command, cfg traceConfig) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	override := func(name string, dst *string) error {
		if !flags.Changed(name) {
			return nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
		return nil
	}
	for name, dst := range map[string]*string{
		"trace":        &cfg.Output,
		"trace-level":  &cfg.Level,
		"trace-mode":   &cfg.Mode,
		"trace-format": &cfg.Format,
	} {
		if err := override(name, dst); err != nil {
			return nil, err
		}
	}
	if flags.Changed("trace-ring-size") {
		size, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		cfg.RingSize = size
	}
	// An output file without an explicit level traces phases.
	if flags.Changed("trace") && !flags.Changed("trace-level") && (cfg.Level == "" || cfg.Level == "off") {
		cfg.Level = "phase"
	}

	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: cfg.Output,
		RingSize:   cfg.RingSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
