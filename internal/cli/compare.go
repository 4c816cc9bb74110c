package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/tsln"
	"github.com/arloliu/tsln/internal/server"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		tokenizer   string
		compression string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Compare the size and token count of JSON, CSV, TOON and TSLN renderings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDataset(cmd.InOrStdin(), args)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			if cmd.Flags().Changed("tokenizer") {
				a.cfg.Metrics.Tokenizer = tokenizer
			}
			if cmd.Flags().Changed("compression") {
				a.cfg.Metrics.Compression = compression
			}

			metricsOpts, err := a.cfg.MetricsOptions()
			if err != nil {
				return err
			}

			report, err := tsln.CompareFormats(ds,
				tsln.WithEncoderOptions(a.cfg.EncoderOptions()...),
				tsln.WithMetricsOptions(metricsOpts...),
			)
			if err != nil {
				return err
			}

			view := server.NewReportView(report)
			if asJSON {
				e := json.NewEncoder(cmd.OutOrStdout())
				e.SetIndent("", "  ")

				return e.Encode(view)
			}

			return writeReport(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVar(&tokenizer, "tokenizer", "", `token counter: "heuristic" or a tiktoken encoding such as cl100k_base`)
	cmd.Flags().StringVar(&compression, "compression", "", "also report compressed size: none, zstd, s2 or lz4")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func writeReport(w io.Writer, view server.ReportView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "FORMAT\tSIZE\tTOKENS\tSAVINGS"
	if view.Compression != "" {
		header += "\t" + view.Compression
	}
	fmt.Fprintln(tw, header)

	for _, f := range view.Formats {
		line := fmt.Sprintf("%s\t%s\t%s\t%.1f%%", f.Name, humanize.Bytes(uint64(f.Size)), humanize.Comma(int64(f.Tokens)), f.Savings)
		if view.Compression != "" {
			line += "\t" + humanize.Bytes(uint64(f.CompressedSize))
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	approx := ""
	if view.Approximate {
		approx = ", approximate"
	}
	_, err := fmt.Fprintf(w, "\nbest: %s, %.1f%% fewer tokens than %s (%s%s)\n",
		view.Best, view.Savings, view.Formats[0].Name, view.Tokenizer, approx)

	return err
}
