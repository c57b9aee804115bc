// Package parser turns free-text release titles (scene names, P2P names,
// anime fan-sub names, user-typed filenames) into structured ParsedRelease
// records. Parsing is total: every non-empty title yields a record, with
// confidence 0 marking the unconditional fallback.
package parser

import (
	"time"

	"github.com/fetcharr/fetcharr/internal/quality"
)

// Modifiers carries release revision flags parsed from the title.
type Modifiers struct {
	Proper  bool
	Repack  bool
	Real    bool
	Version uint8 // 0 = unversioned, v2/v3... otherwise
}

// ParsedRelease is the immutable result of parsing one title. Fields use
// sentinel values for absence: SeasonNumber -1, AbsoluteEpisode 0, Year 0,
// zero AirDate. Records are created fresh per parse and never mutated after
// construction; rebuild instead of patching.
type ParsedRelease struct {
	RawTitle   string
	Title      string // extracted media title, display form
	CleanTitle string // lowercased, punctuation-stripped, for comparison

	Year            int
	SeasonNumber    int // -1 when no season parsed (season 0 = specials)
	EpisodeNumbers  []int
	AbsoluteEpisode int // anime absolute numbering, 0 when absent
	AirDate         time.Time
	IsSeasonPack    bool // season marker with no episode marker

	Quality      quality.Tag
	Languages    []string // empty = unspecified, never assumed English
	ReleaseGroup string
	ReleaseHash  string
	Edition      string
	Modifiers    Modifiers

	Confidence int    // 0..100; 0 iff only the fallback strategy matched
	ParserUsed string // name of the accepting strategy
}

// HasEpisodes reports whether any per-season episode numbers were parsed.
func (r *ParsedRelease) HasEpisodes() bool {
	return len(r.EpisodeNumbers) > 0
}

// IsDaily reports whether the release is identified by air date rather than
// season/episode numbering.
func (r *ParsedRelease) IsDaily() bool {
	return !r.AirDate.IsZero()
}
