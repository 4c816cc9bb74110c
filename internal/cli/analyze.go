package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/internal/server"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Profile the fields of a JSON dataset and show the chosen strategies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDataset(cmd.InOrStdin(), args)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			enc, err := codec.NewEncoder(a.cfg.EncoderOptions()...)
			if err != nil {
				return err
			}

			res, err := enc.Analyze(ds)
			if err != nil {
				return err
			}

			view := server.NewAnalysisView(res)
			if asJSON {
				e := json.NewEncoder(cmd.OutOrStdout())
				e.SetIndent("", "  ")

				return e.Encode(view)
			}

			return writeAnalysis(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")

	return cmd
}

func writeAnalysis(w io.Writer, view server.AnalysisView) error {
	ts := view.Timestamps
	fmt.Fprintf(w, "points:      %s\n", humanize.Comma(int64(ts.Count)))
	if ts.Interval != nil {
		fmt.Fprintf(w, "timestamps:  %s, every %dms\n", ts.Mode, *ts.Interval)
	} else {
		fmt.Fprintf(w, "timestamps:  %s\n", ts.Mode)
	}
	fmt.Fprintf(w, "volatility:  %.4f\n", view.DatasetVolatility)
	fmt.Fprintf(w, "potential:   %.4f\n\n", view.CompressionPotential)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTYPE\tSTRATEGY\tOBSERVED\tUNIQUE\tREPEAT\tVOLATILITY\tTREND")
	for _, f := range view.Fields {
		vol := "-"
		if f.Volatility != nil {
			vol = fmt.Sprintf("%.4f", *f.Volatility)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f\t%s\t%s\n",
			f.Name, f.Type, f.Strategy, f.ObservedCount, f.UniqueCount, f.RepeatRate, vol, f.Trend)
	}

	return tw.Flush()
}
