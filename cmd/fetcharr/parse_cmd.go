package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fetcharr/fetcharr/internal/parser"
)

func newParseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <title>...",
		Short: "Parse release titles into structured records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func runParse(titles []string, asJSON bool) error {
	p := parser.New()

	for i, title := range titles {
		rel := p.Parse(title)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rel); err != nil {
				return err
			}
			continue
		}

		if i > 0 {
			fmt.Println()
		}
		printRelease(rel)
	}
	return nil
}

func printRelease(rel *parser.ParsedRelease) {
	fmt.Printf("Title:       %s\n", rel.Title)
	fmt.Printf("Clean title: %s\n", rel.CleanTitle)
	if rel.Year != 0 {
		fmt.Printf("Year:        %d\n", rel.Year)
	}
	if rel.SeasonNumber >= 0 {
		fmt.Printf("Season:      %d\n", rel.SeasonNumber)
	}
	if rel.HasEpisodes() {
		eps := make([]string, len(rel.EpisodeNumbers))
		for i, e := range rel.EpisodeNumbers {
			eps[i] = fmt.Sprintf("%d", e)
		}
		fmt.Printf("Episodes:    %s\n", strings.Join(eps, ", "))
	}
	if rel.AbsoluteEpisode != 0 {
		fmt.Printf("Absolute:    %d\n", rel.AbsoluteEpisode)
	}
	if rel.IsDaily() {
		fmt.Printf("Air date:    %s\n", rel.AirDate.Format("2006-01-02"))
	}
	if rel.IsSeasonPack {
		fmt.Printf("Season pack: yes\n")
	}
	fmt.Printf("Quality:     %s (weight %d)\n", rel.Quality, rel.Quality.Weight)
	if len(rel.Languages) > 0 {
		fmt.Printf("Languages:   %s\n", strings.Join(rel.Languages, ", "))
	}
	if rel.ReleaseGroup != "" {
		fmt.Printf("Group:       %s\n", rel.ReleaseGroup)
	}
	if rel.ReleaseHash != "" {
		fmt.Printf("Hash:        %s\n", rel.ReleaseHash)
	}
	if rel.Edition != "" {
		fmt.Printf("Edition:     %s\n", rel.Edition)
	}
	fmt.Printf("Confidence:  %d (%s)\n", rel.Confidence, rel.ParserUsed)
}
