package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jcdickinson/ferrisdoc/internal/cas"
	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/db"
	"github.com/spf13/cobra"
)

var (
	statusLimit int
	statusShow  string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recorded documentation builds for the crate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.New(config.DBPath())
		if err != nil {
			return fmt.Errorf("opening build ledger: %w", err)
		}
		defer database.Close()

		builds, err := database.ListBuilds(cfg.CrateName())
		if err != nil {
			return err
		}
		if statusShow != "" {
			b, err := findBuild(builds, statusShow)
			if err != nil {
				return err
			}
			return showBuild(os.Stdout, b)
		}
		printBuilds(os.Stdout, cfg.CrateName(), builds, statusLimit)
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "number of builds to show (0 for all)")
	statusCmd.Flags().StringVar(&statusShow, "show", "", "print the stored data.json of the build with this hash (prefix)")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func printBuilds(w io.Writer, crate string, builds []db.Build, limit int) {
	if len(builds) == 0 {
		fmt.Fprintf(w, "No builds recorded for %s\n", crate)
		return
	}
	if limit > 0 && len(builds) > limit {
		builds = builds[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUILT\tVERSION\tITEMS\tMODULES\tSTRUCTS\tHASH")
	for _, b := range builds {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			humanize.Time(b.BuiltAt), b.Version, b.Items, b.Modules, b.Structs, shortHash(b.ContentHash))
	}
	tw.Flush()
}

// findBuild resolves a hash or unambiguous hash prefix among builds.
func findBuild(builds []db.Build, prefix string) (*db.Build, error) {
	var found *db.Build
	for i := range builds {
		b := &builds[i]
		if !strings.HasPrefix(b.ContentHash, prefix) {
			continue
		}
		if found != nil && found.ContentHash != b.ContentHash {
			return nil, fmt.Errorf("hash prefix %s is ambiguous", prefix)
		}
		if found == nil {
			found = b
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no recorded build with hash %s", prefix)
	}
	return found, nil
}

func showBuild(w io.Writer, b *db.Build) error {
	data, err := cas.Read(b.ContentHash)
	if err != nil {
		return fmt.Errorf("loading build %s: %w", shortHash(b.ContentHash), err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
