package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/ferrisdoc/internal/browser"
	"github.com/jcdickinson/ferrisdoc/internal/build"
	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/serve"
	"github.com/jcdickinson/ferrisdoc/internal/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveEmit  []string
	serveWatch bool
	serveOpen  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build and serve the documentation over HTTP",
	Example: `  ferrisdoc serve
  ferrisdoc serve --watch --open`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringSliceVar(&serveEmit, "emit", nil, "artifacts to build (assets,json)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "rebuild when sources change")
	serveCmd.Flags().BoolVarP(&serveOpen, "open", "o", false, "open the documentation in a browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	artifacts, err := build.ParseArtifacts(serveEmit)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	b, closeLedger, err := newBuilder(build.WithMetrics(build.NewMetrics(reg)))
	if err != nil {
		return err
	}
	defer closeLedger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var matcher *watch.Matcher
	if serveWatch {
		matcher, err = watch.NewMatcher(cfg.RootPath(), cfg.Watch.Include, []string{cfg.TargetPath()})
		if err != nil {
			return err
		}
	}

	if err := b.Build(ctx, artifacts); err != nil {
		return err
	}

	srv := serve.New(b.OutputPath(), cfg.Serve.Addr, serve.WithMetrics(reg))
	if err := srv.Listen(); err != nil {
		return err
	}
	if cfg.Verbosity != config.Quiet {
		fmt.Printf("Serving %s at %s\n", cfg.CrateName(), srv.URL())
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(ctx) })

	if matcher != nil {
		w := watch.New(cfg.RootPath(), matcher, cfg.Watch.Debounce, func(ctx context.Context, changed []string) {
			slog.Info("sources changed, rebuilding", "files", len(changed))
			b.Rebuild(ctx, artifacts)
		})
		g.Go(func() error { return w.Run(ctx) })
	}

	if serveOpen {
		if err := browser.Open(srv.URL()); err != nil {
			slog.Warn("could not open browser", "error", err)
		}
	}
	return g.Wait()
}
