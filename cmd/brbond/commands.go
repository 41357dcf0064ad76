package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meenmo/brbond/cmd/brbond/internal/curvebuild"
	"github.com/meenmo/brbond/cmd/brbond/internal/pricing"
)

func (a *app) runner() *pricing.Runner {
	return &pricing.Runner{
		Workers: a.settings.Workers,
		Solver:  a.settings.SolverConfig(),
		Logger:  a.logger,
	}
}

func (a *app) newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Unit price (PU) from annual yield",
		Long: `Reads one request object or an array of them:

  {"task_id": "...", "kind": "NTN-B", "reference_date": "2025-01-02",
   "maturity_date": "2035-05-15", "rate": "7.2345", "vna": "4400.123456",
   "quantity": "100"}

"vna" may be replaced by "vna_series": {"YYYY-MM-DD": value, ...}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(a, cmd, a.runner().PriceAll, func(out pricing.PriceResponse) bool {
				return out.Error != ""
			})
		},
	}
	cmd.Flags().String("input", "", "JSON input path (reads stdin if omitted)")
	return cmd
}

func (a *app) newYieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yield",
		Short: "Annual yield from unit price (PU)",
		Long: `Reads one request object or an array of them:

  {"task_id": "...", "kind": "LTN", "reference_date": "2025-01-02",
   "maturity_date": "2026-01-01", "unit_price": "892.857142"}

The rate is solved with Brent's method and truncated to 4 decimals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(a, cmd, a.runner().YieldAll, func(out pricing.YieldResponse) bool {
				return out.Error != ""
			})
		},
	}
	cmd.Flags().String("input", "", "JSON input path (reads stdin if omitted)")
	return cmd
}

func (a *app) newCurveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Interpolated yield curve from vertices",
		Long: `Reads one request object or an array of them:

  {"reference_date": "2025-01-02", "method": "flat_forward", "min_points": 5,
   "vertices": [{"ticker": "DI1F26", "maturity_date": "2026-01-02", "rate": 11.0}]}

Vertices take either maturity_date or business_days (B3 calendar).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &curvebuild.Builder{
				Method:    a.settings.CurveMethod(),
				MinPoints: a.settings.Curve.MinPoints,
				Logger:    a.logger,
			}
			process := func(_ context.Context, reqs []curvebuild.Request) []curvebuild.Response {
				out := make([]curvebuild.Response, len(reqs))
				for i, req := range reqs {
					out[i] = b.Build(req)
				}
				return out
			}
			return runBatch(a, cmd, process, func(out curvebuild.Response) bool {
				return out.Error != ""
			})
		},
	}
	cmd.Flags().String("input", "", "JSON input path (reads stdin if omitted)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "brbond %s (commit %s)\n", version, commit)
		},
	}
}
