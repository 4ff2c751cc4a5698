package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jcdickinson/ferrisdoc/internal/browser"
	"github.com/jcdickinson/ferrisdoc/internal/build"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the generated documentation, building it first if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cfg.OutputPath()
		if _, err := os.Stat(out); errors.Is(err, fs.ErrNotExist) {
			slog.Info("no documentation yet, building", "dir", out)
			return runBuild(cmd.Context(), build.AllArtifacts, true)
		}
		return browser.Open(indexPath())
	},
}
