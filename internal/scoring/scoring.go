// Package scoring computes the multi-term score deciding fetch priority
// between releases. Scoring is a pure function of its input: re-scoring
// under a new profile never depends on earlier results.
package scoring

import (
	"time"

	"github.com/fetcharr/fetcharr/internal/parser"
	"github.com/fetcharr/fetcharr/internal/profile"
)

// Protocol is how a release would be fetched. Seeder health only applies to
// torrents.
type Protocol int

const (
	ProtocolTorrent Protocol = iota
	ProtocolUsenet
)

func (p Protocol) String() string {
	if p == ProtocolUsenet {
		return "usenet"
	}
	return "torrent"
}

// Input carries everything one scoring pass needs. Now defaults to the wall
// clock; tests pin it.
type Input struct {
	Release        *parser.ParsedRelease
	Profile        *profile.QualityProfile
	CustomFormats  []profile.CustomFormat
	PreferredWords []profile.PreferredWord

	IndexerPriority int
	Protocol        Protocol
	Seeders         int

	ReleasePublished    time.Time
	MediaFirstAvailable time.Time
	Now                 time.Time
}

// Breakdown is the per-term score decomposition. Total is always the sum of
// the six terms; terms may be negative.
type Breakdown struct {
	Quality         int
	CustomFormat    int
	PreferredWord   int
	IndexerPriority int
	Age             int
	Seeders         int
	Total           int
}

// Score computes the full breakdown for one release.
func Score(in Input) Breakdown {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	b := Breakdown{
		Quality:         qualityTerm(in),
		CustomFormat:    customFormatTerm(in),
		PreferredWord:   preferredWordTerm(in),
		IndexerPriority: in.IndexerPriority,
		Age:             ageTerm(in, now),
		Seeders:         seedersTerm(in),
	}
	b.Total = b.Quality + b.CustomFormat + b.PreferredWord + b.IndexerPriority + b.Age + b.Seeders
	return b
}

// qualityTerm is the profile rank of the release's quality tier times 100.
// A tier absent from the profile scores 0 here; the rejector turns that into
// a permanent rejection rather than a merely low score.
func qualityTerm(in Input) int {
	if in.Profile == nil || in.Release == nil {
		return 0
	}
	return in.Profile.RankOf(in.Release.Quality) * 100
}

func customFormatTerm(in Input) int {
	if in.Release == nil {
		return 0
	}
	sum := 0
	for i := range in.CustomFormats {
		if in.CustomFormats[i].Matches(in.Release.RawTitle) {
			sum += in.CustomFormats[i].Score
		}
	}
	return sum
}

func preferredWordTerm(in Input) int {
	if in.Release == nil {
		return 0
	}
	sum := 0
	for i := range in.PreferredWords {
		if in.PreferredWords[i].Matches(in.Release.RawTitle) {
			sum += in.PreferredWords[i].Score
		}
	}
	return sum
}

// ageTerm rewards grabbing fresh releases of fresh media. Long-tail catalog
// content is never penalized: anything older than a year scores 0.
func ageTerm(in Input, now time.Time) int {
	if in.MediaFirstAvailable.IsZero() || in.ReleasePublished.IsZero() {
		return 0
	}

	mediaAge := now.Sub(in.MediaFirstAvailable)
	releaseAge := now.Sub(in.ReleasePublished)

	const day = 24 * time.Hour
	switch {
	case mediaAge < 30*day:
		switch {
		case releaseAge < day:
			return 100
		case releaseAge <= 7*day:
			return 50
		case releaseAge <= 14*day:
			return 25
		default:
			return 0
		}
	case mediaAge < 365*day:
		switch {
		case releaseAge <= 7*day:
			return 50
		case releaseAge <= 30*day:
			return 25
		default:
			return 0
		}
	default:
		return 0
	}
}

// seedersTerm is a step function over seeder count for torrents. Zero
// seeders is a hard discourage, not a rejection. Usenet always scores 0.
func seedersTerm(in Input) int {
	if in.Protocol == ProtocolUsenet {
		return 0
	}
	switch {
	case in.Seeders == 0:
		return -1000
	case in.Seeders < 5:
		return 0
	case in.Seeders < 10:
		return 25
	case in.Seeders < 50:
		return 50
	case in.Seeders < 100:
		return 75
	default:
		return 100
	}
}
