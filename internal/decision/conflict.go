package decision

import (
	"github.com/fetcharr/fetcharr/internal/parser"
)

// Classification names the relationship between a candidate release and an
// existing file for the same media unit.
type Classification int

const (
	QualityUpgrade Classification = iota
	DuplicateFile
	EditionVariant
)

func (c Classification) String() string {
	switch c {
	case QualityUpgrade:
		return "quality-upgrade"
	case DuplicateFile:
		return "duplicate-file"
	case EditionVariant:
		return "edition-variant"
	default:
		return "unknown"
	}
}

// Recommendation is the advisory action for a conflict. The actual
// accept/replace/skip call belongs to the caller.
type Recommendation int

const (
	Replace Recommendation = iota
	Skip
	KeepBoth
)

func (r Recommendation) String() string {
	switch r {
	case Replace:
		return "replace"
	case Skip:
		return "skip"
	case KeepBoth:
		return "keep-both"
	default:
		return "unknown"
	}
}

// Conflict is the classification result for one candidate/existing pair.
type Conflict struct {
	Classification Classification
	Recommendation Recommendation
	Reason         string
}

// ResolveConflict compares a candidate against an existing file using quality
// weight alone. Weight is the single ordering authority; source and
// resolution never enter the comparison directly.
func ResolveConflict(candidate *parser.ParsedRelease, existing LibraryFile) Conflict {
	cw := candidate.Quality.Weight
	ew := existing.Quality.Weight

	switch {
	case cw > ew:
		return Conflict{
			Classification: QualityUpgrade,
			Recommendation: Replace,
			Reason:         "candidate quality outranks existing file",
		}
	case cw < ew:
		return Conflict{
			Classification: DuplicateFile,
			Recommendation: Skip,
			Reason:         "existing file quality outranks candidate",
		}
	case candidate.Edition != existing.Edition:
		return Conflict{
			Classification: EditionVariant,
			Recommendation: KeepBoth,
			Reason:         "equal quality, differing edition",
		}
	default:
		return Conflict{
			Classification: DuplicateFile,
			Recommendation: Skip,
			Reason:         "identical",
		}
	}
}
