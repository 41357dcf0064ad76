package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/brbond/cmd/brbond/internal/jsonio"
	"github.com/meenmo/brbond/cmd/brbond/internal/settings"
)

// app is shared by every subcommand of one invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	settings *settings.Settings
	logger   *zap.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "brbond",
		Short: "ANBIMA bond pricing and yield-curve tools",
		Long: `brbond converts between yield and unit price (PU) for LTN, LFT, NTN-F,
NTN-B and NTN-C following the ANBIMA methodology, and builds interpolated
yield curves from DI-style vertices.

Configuration is read from --config (YAML) and BRBOND_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().String("config", "", "config file path (YAML)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		a.newPriceCmd(),
		a.newYieldCmd(),
		a.newCurveCmd(),
		a.newCalendarCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	s, err := settings.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		s.LogLevel = level
	}

	logger, err := s.NewLogger(a.stderr)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.settings = s
	a.logger = logger.Named(cmd.Name())
	a.logger.Debug("config loaded",
		zap.String("config", configFile),
		zap.Int("workers", s.Workers),
		zap.String("curve_method", s.Curve.Method))
	return nil
}

// runBatch is the shared read → decode → process → write pipeline of the
// JSON commands.
func runBatch[In, Out any](a *app, cmd *cobra.Command, process func(context.Context, []In) []Out, failed func(Out) bool) error {
	path, _ := cmd.Flags().GetString("input")
	raw, err := jsonio.ReadInput(path, a.stdin)
	if err != nil {
		if errors.Is(err, jsonio.ErrNoInput) {
			return err
		}
		_ = jsonio.WriteError(a.stdout, fmt.Sprintf("read input: %v", err))
		return errItemsFailed
	}

	inputs, isArray, err := jsonio.Decode[In](raw)
	if err != nil {
		_ = jsonio.WriteError(a.stdout, fmt.Sprintf("parse JSON: %v", err))
		return errItemsFailed
	}

	outputs := process(cmd.Context(), inputs)
	hadError := false
	for _, out := range outputs {
		if failed(out) {
			hadError = true
		}
	}
	a.logger.Info("batch done", zap.Int("items", len(outputs)), zap.Bool("had_error", hadError))

	if err := jsonio.Write(a.stdout, outputs, isArray); err != nil {
		return err
	}
	if hadError {
		return errItemsFailed
	}
	return nil
}
