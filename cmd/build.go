package cmd

import (
	"context"
	"fmt"

	"github.com/jcdickinson/ferrisdoc/internal/browser"
	"github.com/jcdickinson/ferrisdoc/internal/build"
	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildEmit []string
	buildOpen bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate documentation into target/doc",
	Example: `  ferrisdoc build
  ferrisdoc build --emit json
  ferrisdoc --manifest-path ../other/Cargo.toml build --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		artifacts, err := build.ParseArtifacts(buildEmit)
		if err != nil {
			return err
		}
		return runBuild(cmd.Context(), artifacts, buildOpen)
	},
}

func init() {
	buildCmd.Flags().StringSliceVar(&buildEmit, "emit", nil, "artifacts to build (assets,json)")
	buildCmd.Flags().BoolVarP(&buildOpen, "open", "o", false, "open the documentation when done")
}

func runBuild(ctx context.Context, artifacts []build.Artifact, open bool) error {
	b, closeLedger, err := newBuilder()
	if err != nil {
		return err
	}
	defer closeLedger()

	if err := b.Build(ctx, artifacts); err != nil {
		return err
	}
	if cfg.Verbosity != config.Quiet {
		fmt.Printf("Documented %s into %s\n", cfg.CrateName(), b.OutputPath())
	}
	if open {
		return browser.Open(indexPath())
	}
	return nil
}
