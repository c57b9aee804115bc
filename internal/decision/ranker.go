package decision

import (
	"sort"

	"github.com/fetcharr/fetcharr/internal/scoring"
)

// Decision pairs a release with its rejections.
type Decision struct {
	Release    *Release
	Rejections []Rejection
}

// Decide evaluates every release against the policy, preserving input order.
// Releases are never dropped here, so unmatched or rejected ones still appear
// in the output for the caller to display.
func Decide(releases []*Release, pol Policy) []Decision {
	out := make([]Decision, len(releases))
	for i, rel := range releases {
		out[i] = Decision{Release: rel, Rejections: Evaluate(rel, pol)}
	}
	return out
}

// Rank orders the non-permanently-rejected releases for grabbing. The sort
// is stable, so releases identical under every tie-break keep discovery
// order.
func Rank(decisions []Decision) []*Release {
	var out []*Release
	for _, d := range decisions {
		if HasPermanent(d.Rejections) {
			continue
		}
		out = append(out, d.Release)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if a.Score.Quality != b.Score.Quality {
			return a.Score.Quality > b.Score.Quality
		}
		if a.Score.CustomFormat != b.Score.CustomFormat {
			return a.Score.CustomFormat > b.Score.CustomFormat
		}
		if a.Protocol == scoring.ProtocolTorrent && b.Protocol == scoring.ProtocolTorrent &&
			a.Seeders != b.Seeders {
			return a.Seeders > b.Seeders
		}
		if a.Age != b.Age {
			return a.Age < b.Age
		}
		return false
	})
	return out
}

// Best returns the top-ranked release, or nil when nothing survives
// rejection.
func Best(decisions []Decision) *Release {
	ranked := Rank(decisions)
	if len(ranked) == 0 {
		return nil
	}
	return ranked[0]
}
