// Package matcher resolves parsed releases against external catalog entries.
// Four lookup strategies run independently and their candidates are merged,
// deduplicated by external identifier and ordered by confidence.
package matcher

import (
	"context"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/fetcharr/fetcharr/internal/logging"
	"github.com/fetcharr/fetcharr/internal/parser"
)

// ContentType classifies what kind of media a catalog entry describes.
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentSeries
	ContentAnime
	ContentMovie
	ContentMusicArtist
)

func (c ContentType) String() string {
	switch c {
	case ContentSeries:
		return "series"
	case ContentAnime:
		return "anime"
	case ContentMovie:
		return "movie"
	case ContentMusicArtist:
		return "music-artist"
	default:
		return "unknown"
	}
}

// Entry is one catalog record returned by a provider. ExternalID is
// namespaced: "tvdb:257855", "tmdb:335984", "mbid:...".
type Entry struct {
	ExternalID string
	Title      string
	Year       int
	Type       ContentType
}

// Filters narrows a catalog search.
type Filters struct {
	Year int
	Type ContentType
}

// Catalog is the lookup capability the matcher calls. Implementations may be
// remote metadata providers or local caches; the matcher does not care.
type Catalog interface {
	Search(ctx context.Context, term string, f Filters) ([]Entry, error)
	Aliases(ctx context.Context, term string) ([]Entry, error)
}

// Method identifies which strategy produced a candidate. Higher values are
// higher priority when confidence ties.
type Method int

const (
	MethodFuzzyTitle Method = iota
	MethodYearDisambiguation
	MethodAlias
	MethodExactTitle
	MethodExternalID
)

func (m Method) String() string {
	switch m {
	case MethodExternalID:
		return "external-id"
	case MethodExactTitle:
		return "exact-title"
	case MethodAlias:
		return "alias"
	case MethodYearDisambiguation:
		return "year-disambiguation"
	case MethodFuzzyTitle:
		return "fuzzy-title"
	default:
		return "unknown"
	}
}

// Candidate is one possible catalog identity for a parsed release.
type Candidate struct {
	Entry
	Confidence int
	Method     Method
}

// Options controls strategy selection and fuzzy tolerance.
type Options struct {
	MaxFuzzyDistance int // 0 means the default of 3

	DisableExact bool
	DisableYear  bool
	DisableFuzzy bool
	DisableAlias bool
}

const defaultMaxFuzzyDistance = 3

// Matcher runs the strategy set against a single catalog provider.
type Matcher struct {
	catalog Catalog
	opts    Options
	log     *logging.Logger
}

// New returns a Matcher over the given catalog. A nil logger discards output.
func New(catalog Catalog, opts Options, log *logging.Logger) *Matcher {
	if opts.MaxFuzzyDistance <= 0 {
		opts.MaxFuzzyDistance = defaultMaxFuzzyDistance
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Matcher{catalog: catalog, opts: opts, log: log}
}

// Match produces the merged, deduplicated, ordered candidate list for one
// parsed release. Provider failures yield zero candidates from the failing
// lookup; they never fail the match as a whole.
func (m *Matcher) Match(ctx context.Context, rel *parser.ParsedRelease) []Candidate {
	clean := rel.CleanTitle
	if clean == "" {
		clean = parser.CleanTitle(rel.Title)
	}
	if clean == "" {
		return nil
	}

	// strategy order doubles as method priority: on duplicate external IDs
	// the first occurrence wins
	var all []Candidate
	if !m.opts.DisableExact {
		all = append(all, m.exact(ctx, clean, rel.Year)...)
	}
	if !m.opts.DisableAlias {
		all = append(all, m.alias(ctx, clean)...)
	}
	if !m.opts.DisableYear && rel.Year != 0 {
		all = append(all, m.yearDisambiguation(ctx, clean, rel.Year)...)
	}
	if !m.opts.DisableFuzzy {
		all = append(all, m.fuzzy(ctx, clean)...)
	}

	return Merge(all)
}

// exact matches clean-title equality: confidence 95, +5 when the year also
// matches.
func (m *Matcher) exact(ctx context.Context, clean string, year int) []Candidate {
	entries, err := m.catalog.Search(ctx, clean, Filters{})
	if err != nil {
		m.log.Warn("matcher", "exact search failed", logging.F("term", clean), logging.F("error", err))
		return nil
	}

	var out []Candidate
	for _, e := range entries {
		if parser.CleanTitle(e.Title) != clean {
			continue
		}
		confidence := 95
		if year != 0 && e.Year == year {
			confidence += 5
		}
		out = append(out, Candidate{Entry: e, Confidence: confidence, Method: MethodExactTitle})
	}
	return out
}

// alias matches against the alternate-title table at fixed confidence 85.
func (m *Matcher) alias(ctx context.Context, clean string) []Candidate {
	entries, err := m.catalog.Aliases(ctx, clean)
	if err != nil {
		m.log.Warn("matcher", "alias lookup failed", logging.F("term", clean), logging.F("error", err))
		return nil
	}

	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, Candidate{Entry: e, Confidence: 85, Method: MethodAlias})
	}
	return out
}

// yearDisambiguation scores title similarity into 0-80 and adds 20 when the
// candidate year matches exactly.
func (m *Matcher) yearDisambiguation(ctx context.Context, clean string, year int) []Candidate {
	entries, err := m.catalog.Search(ctx, clean, Filters{Year: year})
	if err != nil {
		m.log.Warn("matcher", "year search failed", logging.F("term", clean), logging.F("error", err))
		return nil
	}

	var out []Candidate
	for _, e := range entries {
		sim := Similarity(clean, parser.CleanTitle(e.Title))
		confidence := sim * 80 / 100
		if e.Year == year {
			confidence += 20
		}
		if confidence > 100 {
			confidence = 100
		}
		if confidence <= 0 {
			continue
		}
		out = append(out, Candidate{Entry: e, Confidence: confidence, Method: MethodYearDisambiguation})
	}
	return out
}

// fuzzy matches by Levenshtein distance up to MaxFuzzyDistance: distance 0
// scores 90, max distance scores 60, linear between. Jaro-Winkler similarity
// orders the shortlist so the closest candidate survives deduplication.
func (m *Matcher) fuzzy(ctx context.Context, clean string) []Candidate {
	entries, err := m.catalog.Search(ctx, clean, Filters{})
	if err != nil {
		m.log.Warn("matcher", "fuzzy search failed", logging.F("term", clean), logging.F("error", err))
		return nil
	}

	max := m.opts.MaxFuzzyDistance
	type scored struct {
		cand Candidate
		jw   float32
	}
	var shortlist []scored
	for _, e := range entries {
		entryClean := parser.CleanTitle(e.Title)
		dist := Levenshtein(clean, entryClean)
		if dist > max {
			continue
		}
		// rounds half-up so the 90 and 60 endpoints hold for any max
		confidence := 90 - (dist*30+max/2)/max
		shortlist = append(shortlist, scored{
			cand: Candidate{Entry: e, Confidence: confidence, Method: MethodFuzzyTitle},
			jw:   edlib.JaroWinklerSimilarity(clean, entryClean),
		})
	}

	sort.SliceStable(shortlist, func(i, j int) bool {
		if shortlist[i].cand.Confidence != shortlist[j].cand.Confidence {
			return shortlist[i].cand.Confidence > shortlist[j].cand.Confidence
		}
		return shortlist[i].jw > shortlist[j].jw
	})

	out := make([]Candidate, 0, len(shortlist))
	for _, s := range shortlist {
		out = append(out, s.cand)
	}
	return out
}

// Pinned returns the full-confidence candidate for a release whose catalog
// identity is already known, e.g. carried on an import list.
func Pinned(e Entry) Candidate {
	return Candidate{Entry: e, Confidence: 100, Method: MethodExternalID}
}

// Merge deduplicates candidates by external ID (first occurrence wins) and
// orders the result by confidence descending, method priority breaking ties.
func Merge(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if seen[c.ExternalID] {
			continue
		}
		seen[c.ExternalID] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Method > out[j].Method
	})
	return out
}
