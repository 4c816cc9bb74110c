package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/tsln"
	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/metrics"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		noDiff      bool
		noRepeat    bool
		parallelism int
		output      string
		stats       bool
	)

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a JSON dataset as TSLN",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readDataset(cmd.InOrStdin(), args)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			opts := a.cfg.EncoderOptions()
			if cmd.Flags().Changed("no-diff") {
				opts = append(opts, codec.WithDifferential(!noDiff))
			}
			if cmd.Flags().Changed("no-repeat") {
				opts = append(opts, codec.WithRepeatMarkers(!noRepeat))
			}
			if cmd.Flags().Changed("parallelism") {
				opts = append(opts, codec.WithParallelism(parallelism))
			}

			metricsOpts, err := a.cfg.MetricsOptions()
			if err != nil {
				return err
			}

			res, err := tsln.Convert(ds,
				tsln.WithEncoderOptions(opts...),
				tsln.WithMetricsOptions(metricsOpts...),
			)
			if err != nil {
				return err
			}

			a.logger.Debug("dataset encoded",
				slog.Int("rows", res.Document.Rows()),
				slog.Int("fields", len(res.Schema.Fields)),
				slog.String("timestamps", res.Schema.TimestampMode.String()),
			)

			out, err := createOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer out.Close()

			if _, err := io.WriteString(out, res.Text+"\n"); err != nil {
				return err
			}

			if stats {
				writeStatistics(cmd.ErrOrStderr(), res.Document.Rows(), res.Statistics)
			}

			return out.Close()
		},
	}

	cmd.Flags().BoolVar(&noDiff, "no-diff", false, "disable differential encoding")
	cmd.Flags().BoolVar(&noRepeat, "no-repeat", false, "disable repeat markers")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "number of fields profiled concurrently")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print size and token statistics to stderr")

	return cmd
}

func writeStatistics(w io.Writer, rows int, s metrics.Statistics) {
	approx := ""
	if s.Approximate {
		approx = "~"
	}

	fmt.Fprintf(w, "rows:     %s\n", humanize.Comma(int64(rows)))
	fmt.Fprintf(w, "json:     %s, %s%s tokens\n", humanize.Bytes(uint64(s.OriginalSize)), approx, humanize.Comma(int64(s.OriginalTokens)))
	fmt.Fprintf(w, "tsln:     %s, %s%s tokens\n", humanize.Bytes(uint64(s.EncodedSize)), approx, humanize.Comma(int64(s.EstimatedTokens)))
	if s.CompressedSize > 0 {
		fmt.Fprintf(w, "packed:   %s\n", humanize.Bytes(uint64(s.CompressedSize)))
	}
	fmt.Fprintf(w, "ratio:    %.3f\n", s.CompressionRatio)
	fmt.Fprintf(w, "savings:  %s tokens (%.1f%%, %s)\n", humanize.Comma(int64(s.EstimatedTokenSavings)), s.TokenSavingsPercent, s.Tokenizer)
}
