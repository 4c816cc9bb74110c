package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/dataset"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		output     string
		headerOnly bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a TSLN document to a JSON dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			dec, err := codec.NewDecoder(text)
			if err != nil {
				return err
			}

			out, err := createOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer out.Close()

			if headerOnly {
				if _, err := fmt.Fprintln(out, describeSchema(dec)); err != nil {
					return err
				}

				return out.Close()
			}

			ds, err := dec.Decode()
			if err != nil {
				return err
			}
			a.logger.Debug("document decoded", slog.Int("rows", len(ds)))

			if err := dataset.WriteJSON(out, ds); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}

			return out.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&headerOnly, "schema", false, "print the parsed header instead of the data")

	return cmd
}

func describeSchema(dec *codec.Decoder) string {
	s := dec.Schema()

	ts := s.TimestampMode.String()
	if s.HasInterval {
		ts = fmt.Sprintf("%s every %dms", ts, s.Interval)
	}

	desc := fmt.Sprintf("version %d, %d rows, timestamps %s from %d, capabilities %q, fingerprint %016x",
		s.Version, s.Rows, ts, s.Base, s.Capabilities.String(), s.Fingerprint())
	for _, f := range s.Fields {
		desc += fmt.Sprintf("\n  %s: %s, %s", f.Name, f.Type, f.Strategy)
	}

	return desc
}
