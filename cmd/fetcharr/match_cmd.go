package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetcharr/fetcharr/internal/catalog"
	"github.com/fetcharr/fetcharr/internal/logging"
	"github.com/fetcharr/fetcharr/internal/matcher"
	"github.com/fetcharr/fetcharr/internal/parser"
)

func newMatchCmd() *cobra.Command {
	var (
		dbPath   string
		workers  int
		rateLim  float64
		maxDist  int
		verbose  bool
		disFuzzy bool
	)

	cmd := &cobra.Command{
		Use:   "match <title>...",
		Short: "Match release titles against the local catalog",
		Long: `Parse each title and match it against the local catalog database.

Multiple titles run concurrently through the bulk matcher; lookups against
the catalog share one rate limiter.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.Context(), args, dbPath, workers, rateLim, maxDist, disFuzzy, verbose)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Catalog database path (default: config dir)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent releases")
	cmd.Flags().Float64Var(&rateLim, "rate", 0, "Catalog lookups per second (0 = unthrottled)")
	cmd.Flags().IntVar(&maxDist, "max-distance", 3, "Maximum fuzzy edit distance")
	cmd.Flags().BoolVar(&disFuzzy, "no-fuzzy", false, "Disable fuzzy matching")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log matcher internals")
	return cmd
}

func runMatch(ctx context.Context, titles []string, dbPath string, workers int, rateLim float64, maxDist int, disFuzzy, verbose bool) error {
	store, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	log := logging.Nop()
	if verbose {
		log, err = logging.New(logging.Config{Level: "debug"})
		if err != nil {
			return err
		}
		defer log.Close()
	}

	p := parser.New()
	releases := make([]*parser.ParsedRelease, len(titles))
	for i, title := range titles {
		releases[i] = p.Parse(title)
	}

	opts := matcher.Options{MaxFuzzyDistance: maxDist, DisableFuzzy: disFuzzy}
	bulk := matcher.NewBulk(
		[]matcher.Provider{matcher.NewProvider("local", store, rateLim)},
		opts,
		matcher.BulkOptions{Workers: workers},
		log,
	)

	results, err := bulk.Run(ctx, releases)
	if err != nil {
		return err
	}

	for i, res := range results {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s\n", res.Release.RawTitle)
		if len(res.Candidates) == 0 {
			fmt.Println("  (unmatched)")
			continue
		}
		for _, c := range res.Candidates {
			year := ""
			if c.Year != 0 {
				year = fmt.Sprintf(" (%d)", c.Year)
			}
			fmt.Printf("  %3d  %-20s %s%s  [%s, %s]\n",
				c.Confidence, c.ExternalID, c.Title, year, c.Type, c.Method)
		}
	}
	return nil
}

func openStore(dbPath string) (*catalog.Store, error) {
	if dbPath == "" {
		return catalog.Open()
	}
	return catalog.OpenPath(dbPath)
}
