package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/tsln/metrics"
	"github.com/arloliu/tsln/regression"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		unit    string
		budget  float64
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "estimate [file]",
		Short: "Fit the cost per row against rows per document",
		Long: `Split the dataset into documents of increasing size, measure each split and
fit a cost curve. With --budget, report the largest number of rows per
document that stays within the budget.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := regression.ParseUnit(unit)
			if !ok {
				return fmt.Errorf("unknown unit %q, want bytes or tokens", unit)
			}

			ds, err := readDataset(cmd.InOrStdin(), args)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			counter, err := metrics.NewTokenCounter(a.cfg.Metrics.Tokenizer)
			if err != nil {
				return err
			}

			res, err := regression.Analyze(ds,
				regression.WithUnit(u),
				regression.WithTokenCounter(counter),
				regression.WithEncoderOptions(a.cfg.EncoderOptions()...),
				regression.WithMaxChunkRows(maxRows),
			)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ROWS/DOC\tDOCS\t%s/ROW\tFITTED\n", res.Unit)
			for _, s := range res.Samples {
				fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\n", s.Rows, s.Documents, s.CostPerRow, res.BestFit.Estimator.Estimate(float64(s.Rows)))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(w, "\nmodel: %s (R² %.4f, RMSE %.3f)\n", res.BestFit.Formula, res.BestFit.RSquared, res.BestFit.RMSE)
			if budget > 0 {
				rows := regression.RowsWithin(res.BestFit.Estimator, budget, maxRows)
				fmt.Fprintf(w, "rows within %.0f %s: %d\n", budget, res.Unit, rows)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "tokens", "cost unit: bytes or tokens")
	cmd.Flags().Float64Var(&budget, "budget", 0, "report the rows per document that fit this cost")
	cmd.Flags().IntVar(&maxRows, "max-rows", regression.DefaultMaxChunkRows, "largest rows per document to measure and report")

	return cmd
}
