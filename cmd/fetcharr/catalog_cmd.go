package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetcharr/fetcharr/internal/matcher"
)

func newCatalogCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local catalog database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Catalog database path (default: config dir)")

	cmd.AddCommand(newCatalogAddCmd(&dbPath))
	cmd.AddCommand(newCatalogAliasCmd(&dbPath))
	cmd.AddCommand(newCatalogStatsCmd(&dbPath))
	return cmd
}

func newCatalogAddCmd(dbPath *string) *cobra.Command {
	var (
		title       string
		year        int
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "add <external-id>",
		Short: "Add or update a catalog entry",
		Long: `Add or update a catalog entry keyed by its namespaced external id,
for example "tvdb:153021" or "tmdb:438631".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entry := matcher.Entry{
				ExternalID: args[0],
				Title:      title,
				Year:       year,
				Type:       parseContentTypeFlag(contentType),
			}
			if err := store.Upsert(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Printf("Stored %s: %s\n", entry.ExternalID, entry.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Entry title (required)")
	cmd.Flags().IntVar(&year, "year", 0, "First-release year")
	cmd.Flags().StringVar(&contentType, "type", "series", "Content type: series, anime, movie, music-artist")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newCatalogAliasCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias <external-id> <alternate-title>",
		Short: "Register an alternate title for an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AddAlias(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Aliased %q -> %s\n", args[1], args[0])
			return nil
		},
	}
	return cmd
}

func newCatalogStatsCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\n", n)
			return nil
		},
	}
	return cmd
}

func parseContentTypeFlag(s string) matcher.ContentType {
	switch s {
	case "series":
		return matcher.ContentSeries
	case "anime":
		return matcher.ContentAnime
	case "movie":
		return matcher.ContentMovie
	case "music-artist":
		return matcher.ContentMusicArtist
	default:
		return matcher.ContentUnknown
	}
}
