// Package decision turns scored releases into grab decisions: rejection
// rules, the ranking order, and conflict classification against files
// already in the library.
package decision

import (
	"fmt"
	"strings"
	"time"

	"github.com/fetcharr/fetcharr/internal/parser"
	"github.com/fetcharr/fetcharr/internal/profile"
	"github.com/fetcharr/fetcharr/internal/quality"
	"github.com/fetcharr/fetcharr/internal/scoring"
)

// RejectionKind classifies how long a rejection holds.
type RejectionKind int

const (
	// Permanent rejections exclude the release from ranking entirely.
	Permanent RejectionKind = iota
	// Temporary rejections may clear on a later pass (seeders improve).
	Temporary
	// UserPolicy rejections are configuration-driven and mutable between runs.
	UserPolicy
)

func (k RejectionKind) String() string {
	switch k {
	case Permanent:
		return "permanent"
	case Temporary:
		return "temporary"
	case UserPolicy:
		return "user-policy"
	default:
		return "unknown"
	}
}

// Rejection is one reason a release is excluded or deprioritized.
type Rejection struct {
	Reason string
	Kind   RejectionKind
}

// LibraryFile is one already-imported file, supplied as a read-only snapshot.
type LibraryFile struct {
	MediaUnitID string
	Quality     quality.Tag
	Edition     string
}

// Release is one fetchable candidate with everything the rules need.
type Release struct {
	Parsed      *parser.ParsedRelease
	MediaUnitID string
	SizeMB      int64
	Protocol    scoring.Protocol
	Seeders     int
	Age         time.Duration
	Score       scoring.Breakdown
	Blocklisted bool
}

// Policy is the rule context for one evaluation pass.
type Policy struct {
	Profile *profile.QualityProfile
	Library []LibraryFile
}

// Evaluate runs every rejection rule. Rules are independent; a release can
// carry several rejections at once.
func Evaluate(rel *Release, pol Policy) []Rejection {
	var out []Rejection

	if r, ok := alreadyImported(rel, pol); ok {
		out = append(out, r)
	}
	if r, ok := qualityNotInProfile(rel, pol); ok {
		out = append(out, r)
	}
	if r, ok := sizeExceedsMaximum(rel, pol); ok {
		out = append(out, r)
	}
	if r, ok := belowMinimumSeeders(rel, pol); ok {
		out = append(out, r)
	}
	if r, ok := blocklisted(rel); ok {
		out = append(out, r)
	}
	out = append(out, termRestrictions(rel, pol)...)
	if r, ok := usenetRetention(rel, pol); ok {
		out = append(out, r)
	}

	return out
}

// HasPermanent reports whether any rejection excludes the release outright.
func HasPermanent(rejs []Rejection) bool {
	for _, r := range rejs {
		if r.Kind == Permanent {
			return true
		}
	}
	return false
}

func alreadyImported(rel *Release, pol Policy) (Rejection, bool) {
	if rel.MediaUnitID == "" {
		return Rejection{}, false
	}
	for _, f := range pol.Library {
		if f.MediaUnitID != rel.MediaUnitID {
			continue
		}
		if f.Quality.Weight >= rel.Parsed.Quality.Weight {
			return Rejection{
				Reason: fmt.Sprintf("already imported at equal or better quality (%s)", f.Quality),
				Kind:   Permanent,
			}, true
		}
	}
	return Rejection{}, false
}

func qualityNotInProfile(rel *Release, pol Policy) (Rejection, bool) {
	if pol.Profile == nil {
		return Rejection{}, false
	}
	if pol.Profile.Allows(rel.Parsed.Quality) {
		return Rejection{}, false
	}
	return Rejection{
		Reason: fmt.Sprintf("quality-not-in-profile: %s not in profile %q", rel.Parsed.Quality, pol.Profile.Name),
		Kind:   Permanent,
	}, true
}

func sizeExceedsMaximum(rel *Release, pol Policy) (Rejection, bool) {
	if pol.Profile == nil || pol.Profile.MaxSizeMB <= 0 || rel.SizeMB <= pol.Profile.MaxSizeMB {
		return Rejection{}, false
	}
	return Rejection{
		Reason: fmt.Sprintf("size %d MB exceeds profile maximum %d MB", rel.SizeMB, pol.Profile.MaxSizeMB),
		Kind:   Permanent,
	}, true
}

func belowMinimumSeeders(rel *Release, pol Policy) (Rejection, bool) {
	if rel.Protocol != scoring.ProtocolTorrent {
		return Rejection{}, false
	}
	if pol.Profile == nil || pol.Profile.MinSeeders <= 0 || rel.Seeders >= pol.Profile.MinSeeders {
		return Rejection{}, false
	}
	return Rejection{
		Reason: fmt.Sprintf("%d seeders below minimum %d", rel.Seeders, pol.Profile.MinSeeders),
		Kind:   Temporary,
	}, true
}

func blocklisted(rel *Release) (Rejection, bool) {
	if !rel.Blocklisted {
		return Rejection{}, false
	}
	return Rejection{Reason: "release is blocklisted", Kind: Permanent}, true
}

func termRestrictions(rel *Release, pol Policy) []Rejection {
	if pol.Profile == nil {
		return nil
	}
	title := strings.ToLower(rel.Parsed.RawTitle)

	var out []Rejection
	for _, term := range pol.Profile.Required {
		if !strings.Contains(title, strings.ToLower(term)) {
			out = append(out, Rejection{
				Reason: fmt.Sprintf("missing required term %q", term),
				Kind:   UserPolicy,
			})
		}
	}
	for _, term := range pol.Profile.Forbidden {
		if strings.Contains(title, strings.ToLower(term)) {
			out = append(out, Rejection{
				Reason: fmt.Sprintf("contains forbidden term %q", term),
				Kind:   UserPolicy,
			})
		}
	}
	return out
}

func usenetRetention(rel *Release, pol Policy) (Rejection, bool) {
	if rel.Protocol != scoring.ProtocolUsenet {
		return Rejection{}, false
	}
	if pol.Profile == nil || pol.Profile.RetentionDays <= 0 {
		return Rejection{}, false
	}
	retention := time.Duration(pol.Profile.RetentionDays) * 24 * time.Hour
	if rel.Age <= retention {
		return Rejection{}, false
	}
	return Rejection{
		Reason: fmt.Sprintf("age exceeds usenet retention of %d days", pol.Profile.RetentionDays),
		Kind:   Permanent,
	}, true
}
