// Package cli defines the Cobra command tree of the tsln command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arloliu/tsln/internal/config"
)

// BuildInfo is injected by the linker through cmd/tsln.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by the commands of one invocation.
type app struct {
	build      BuildInfo
	configPath string
	verbose    bool
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(build BuildInfo) *cobra.Command {
	a := &app{build: build}

	root := &cobra.Command{
		Use:   "tsln",
		Short: "Encode time-series data as Time-Series Lean Notation",
		Long: `tsln converts JSON time-series datasets to TSLN, a compact text notation
for language-model prompts, and back.

Input is a JSON array of {"timestamp": ..., "data": {...}} objects. Every
command reads from the named file, or from standard input when the file is
omitted or "-".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (YAML or TOML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newAnalyzeCmd(a),
		newCompareCmd(a),
		newEstimateCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)

	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(build BuildInfo) {
	if err := NewRootCmd(build).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	a.cfg = cfg
	a.logger = newLogger(stderr, cfg.Log)
	a.logger.Debug("configuration loaded", slog.String("path", a.configPath))

	return nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.Level))

	opts := &slog.HandlerOptions{Level: level}
	if useJSON(w, cfg.Format) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func useJSON(w io.Writer, format string) bool {
	switch format {
	case "json":
		return true
	case "text":
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tsln %s (commit %s, built %s)\n", a.build.Version, a.build.Commit, a.build.Date)
		},
	}
}
