package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "fetcharr",
		Short:   "Release title parsing, matching and ranking toolkit",
		Version: version,
		Long: `Fetcharr classifies unstructured media release titles into structured
records, matches them against a catalog of known media, and ranks them
for grabbing.

Examples:
  fetcharr parse "The.Walking.Dead.S11E08.1080p.AMZN.WEB-DL.DDP5.1.H.264-NTb"
  fetcharr match --db catalog.db "Show.S01E01.720p.HDTV.x264-GRP"
  fetcharr score --profile hd --seeders 42 "Movie.2024.1080p.BluRay.x264-GRP"`,
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newCatalogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
