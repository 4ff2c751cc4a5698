package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
	"github.com/jcdickinson/ferrisdoc/internal/build"
	"github.com/jcdickinson/ferrisdoc/internal/cargo"
	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/db"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	manifestPath string
	configFile   string
	quiet        bool
	verbose      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "ferrisdoc",
	Short:         "Generate browsable documentation for a Rust crate",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if quiet && verbose {
			return errors.New("--quiet and --verbose are mutually exclusive")
		}
		setupLogging(os.Stderr, verbosity())

		var err error
		cfg, err = config.Load(verbosity(), manifestPath, configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), build.AllArtifacts, false)
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err, verbose)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest-path", "Cargo.toml", "path to the crate's Cargo.toml")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ferrisdoc.toml beside the manifest)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

func verbosity() config.Verbosity {
	switch {
	case quiet:
		return config.Quiet
	case verbose:
		return config.Verbose
	default:
		return config.Normal
	}
}

func setupLogging(w io.Writer, v config.Verbosity) {
	level := slog.LevelInfo
	switch v {
	case config.Quiet:
		level = slog.LevelError
	case config.Verbose:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		AddSource:  v == config.Verbose,
	})))
}

// newBuilder wires the analyzer and ledger for cfg. The returned func
// releases the ledger.
func newBuilder(opts ...build.Option) (*build.Builder, func(), error) {
	analyzer, err := cargo.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {}
	if cfg.Ledger.Enabled {
		database, err := db.New(config.DBPath())
		if err != nil {
			// Another ferrisdoc may hold the ledger; builds still work without it.
			slog.Warn("build ledger unavailable", "path", config.DBPath(), "error", err)
		} else {
			opts = append(opts, build.WithLedger(build.NewDBLedger(database)))
			closeFn = func() { database.Close() }
		}
	}
	return build.New(cfg, analyzer, opts...), closeFn, nil
}

// causes splits err into its message and the messages of each wrapped
// cause, dropping the repeated suffix fmt.Errorf leaves on each level.
func causes(err error) []string {
	var msgs []string
	for err != nil {
		next := errors.Unwrap(err)
		msg := err.Error()
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if msg != "" {
			msgs = append(msgs, msg)
		}
		err = next
	}
	return msgs
}

func printError(w io.Writer, err error, dump bool) {
	msgs := causes(err)
	for i, msg := range msgs {
		if i == 0 {
			fmt.Fprintf(w, "Error: %s\n", msg)
		} else {
			fmt.Fprintf(w, "Caused by: %s\n", msg)
		}
	}
	if analysis.IsCrateNotFound(err) {
		fmt.Fprintln(w, "Hint: the crate name is [lib] name in Cargo.toml, or the package name with dashes replaced by underscores")
	}
	if dump {
		fmt.Fprintf(w, "Detail: %#v\n", err)
	}
}

// indexPath is the front-end entry point in the output directory.
func indexPath() string {
	return filepath.Join(cfg.OutputPath(), "index.html")
}
