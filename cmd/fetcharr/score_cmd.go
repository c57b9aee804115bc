package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fetcharr/fetcharr/internal/decision"
	"github.com/fetcharr/fetcharr/internal/parser"
	"github.com/fetcharr/fetcharr/internal/profile"
	"github.com/fetcharr/fetcharr/internal/scoring"
)

func newScoreCmd() *cobra.Command {
	var (
		profilesPath    string
		profileName     string
		seeders         int
		usenet          bool
		sizeMB          int64
		indexerPriority int
		ageDays         int
	)

	cmd := &cobra.Command{
		Use:   "score <title>...",
		Short: "Score and rank release titles under a quality profile",
		Long: `Parse each title, score it under the selected profile, evaluate the
rejection rules, and print the ranked order.

Examples:
  fetcharr score --profile hd --seeders 42 "Movie.2024.1080p.BluRay.x264-GRP"
  fetcharr score --profile hd "A.1080p.WEB-DL-X" "A.2160p.REMUX-Y"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(args, profilesPath, profileName, seeders, usenet, sizeMB, indexerPriority, ageDays)
		},
	}

	cmd.Flags().StringVar(&profilesPath, "profiles", "", "Profiles file (default: config dir)")
	cmd.Flags().StringVar(&profileName, "profile", "hd", "Profile name")
	cmd.Flags().IntVar(&seeders, "seeders", 0, "Seeder count (torrent)")
	cmd.Flags().BoolVar(&usenet, "usenet", false, "Treat releases as usenet")
	cmd.Flags().Int64Var(&sizeMB, "size-mb", 0, "Release size in MB")
	cmd.Flags().IntVar(&indexerPriority, "indexer-priority", 0, "Indexer priority term")
	cmd.Flags().IntVar(&ageDays, "age-days", 0, "Release age in days")
	return cmd
}

func runScore(titles []string, profilesPath, profileName string, seeders int, usenet bool, sizeMB int64, indexerPriority, ageDays int) error {
	cfg, err := profile.Load(profilesPath)
	if err != nil {
		return err
	}
	prof := cfg.Profile(profileName)
	if prof == nil {
		return fmt.Errorf("no profile named %q", profileName)
	}

	protocol := scoring.ProtocolTorrent
	if usenet {
		protocol = scoring.ProtocolUsenet
	}

	p := parser.New()
	releases := make([]*decision.Release, len(titles))
	for i, title := range titles {
		rel := p.Parse(title)
		breakdown := scoring.Score(scoring.Input{
			Release:         rel,
			Profile:         prof,
			CustomFormats:   cfg.CustomFormats,
			PreferredWords:  cfg.PreferredWords,
			IndexerPriority: indexerPriority,
			Protocol:        protocol,
			Seeders:         seeders,
		})
		releases[i] = &decision.Release{
			Parsed:   rel,
			SizeMB:   sizeMB,
			Protocol: protocol,
			Seeders:  seeders,
			Age:      time.Duration(ageDays) * 24 * time.Hour,
			Score:    breakdown,
		}
	}

	decisions := decision.Decide(releases, decision.Policy{Profile: prof})

	for i, d := range decisions {
		if i > 0 {
			fmt.Println()
		}
		rel := d.Release
		fmt.Printf("%s\n", rel.Parsed.RawTitle)
		fmt.Printf("  quality=%d customFormat=%d preferredWord=%d indexer=%d age=%d seeders=%d total=%d\n",
			rel.Score.Quality, rel.Score.CustomFormat, rel.Score.PreferredWord,
			rel.Score.IndexerPriority, rel.Score.Age, rel.Score.Seeders, rel.Score.Total)
		for _, rej := range d.Rejections {
			fmt.Printf("  rejected (%s): %s\n", rej.Kind, rej.Reason)
		}
	}

	ranked := decision.Rank(decisions)
	if len(titles) > 1 {
		fmt.Println("\nRanked:")
		if len(ranked) == 0 {
			fmt.Println("  (nothing survives rejection)")
		}
		for i, rel := range ranked {
			fmt.Printf("  %d. %s (total %d)\n", i+1, rel.Parsed.RawTitle, rel.Score.Total)
		}
	}
	return nil
}
