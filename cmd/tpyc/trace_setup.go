package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cla7aye15I4nd/TypePython/internal/project"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// Manifest settings apply when the matching flag was not given. It
// returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command, fromManifest project.TraceConfig) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if !flags.Changed("trace") && fromManifest.Output != "" {
		traceOutput = fromManifest.Output
	}

	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if !flags.Changed("trace-level") && fromManifest.Level != "" {
		levelStr = fromManifest.Level
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	// An output without a level traces phases.
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	format, err := parseTraceFormat(fromManifest.Format)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: traceOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func parseTraceFormat(s string) (trace.Format, error) {
	return trace.ParseFormat(s)
}
