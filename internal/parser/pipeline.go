package parser

import (
	"strings"
	"time"

	"github.com/fetcharr/fetcharr/internal/quality"
)

// minConfidence is the acceptance threshold for every strategy except the
// unconditional fallback.
const minConfidence = 50

// Parser runs the strategy pipeline over a shared pattern library. A Parser
// is stateless and safe for concurrent use.
type Parser struct {
	lib *Library
}

// New returns a Parser over the process-wide pattern library.
func New() *Parser {
	return &Parser{lib: DefaultLibrary()}
}

type strategyFunc func(p *Parser, title string) *ParsedRelease

// The strategy order is fixed at compile time: highest priority first.
// Re-sorting at runtime would make acceptance order a mutable property; the
// array literal keeps it an invariant.
var strategies = [...]struct {
	name     string
	priority int
	parse    strategyFunc
}{
	{"arr", 100, (*Parser).parseArr},
	{"scene", 90, (*Parser).parseScene},
	{"anime", 85, (*Parser).parseAnime},
	{"user", 70, (*Parser).parseUser},
	{"fallback", 50, (*Parser).parseFallback},
}

// Parse classifies a single release title. It is total: every input yields
// a ParsedRelease, with confidence 0 marking a fallback-only result. Parse
// never panics; a strategy or extractor failing on pathological input is
// treated as that strategy not matching.
func (p *Parser) Parse(rawTitle string) *ParsedRelease {
	title := p.preprocess(rawTitle)

	if IsObfuscatedTitle(title) {
		rel := p.parseFallback(title)
		rel.RawTitle = rawTitle
		rel.ParserUsed = "fallback"
		p.postprocess(rel)
		return rel
	}

	for _, s := range strategies {
		rel := runStrategy(s.parse, p, title)
		if rel == nil {
			continue
		}
		if s.name != "fallback" && rel.Confidence < minConfidence {
			continue
		}
		rel.RawTitle = rawTitle
		rel.ParserUsed = s.name
		p.postprocess(rel)
		return rel
	}

	// fallback always accepts; this is unreachable
	return &ParsedRelease{RawTitle: rawTitle, SeasonNumber: -1, ParserUsed: "fallback"}
}

// runStrategy isolates strategy panics: pathological input turns into a
// non-match instead of aborting the parse.
func runStrategy(fn strategyFunc, p *Parser, title string) (rel *ParsedRelease) {
	defer func() {
		if recover() != nil {
			rel = nil
		}
	}()
	return fn(p, title)
}

// preprocess runs once before any strategy: strip the file extension,
// remove bracketed sample markers, normalize whitespace.
func (p *Parser) preprocess(title string) string {
	title = strings.TrimSpace(title)
	title = p.lib.fileExtension.ReplaceAllString(title, "")
	title = p.lib.sampleMarker.ReplaceAllString(title, " ")
	title = p.lib.spaces.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// postprocess runs once after the accepting strategy: range-check numeric
// fields (out-of-range values are dropped to "absent", not clamped to the
// boundary) and derive the comparison title.
func (p *Parser) postprocess(rel *ParsedRelease) {
	if rel.SeasonNumber < 0 || rel.SeasonNumber > 100 {
		rel.SeasonNumber = -1
	}

	if len(rel.EpisodeNumbers) > 0 {
		kept := rel.EpisodeNumbers[:0]
		for _, ep := range rel.EpisodeNumbers {
			if ep > 0 && ep < 10000 {
				kept = append(kept, ep)
			}
		}
		rel.EpisodeNumbers = kept
	}

	maxYear := time.Now().Year() + 5
	if rel.Year != 0 && (rel.Year < 1900 || rel.Year > maxYear) {
		rel.Year = 0
	}
	if rel.AbsoluteEpisode < 0 || rel.AbsoluteEpisode >= 10000 {
		rel.AbsoluteEpisode = 0
	}

	rel.CleanTitle = CleanTitle(rel.Title)
}

// parseArr matches pre-organized library naming: "Title (2020)" optionally
// followed by SxxEyy. These names are already clean, so confidence is high.
func (p *Parser) parseArr(title string) *ParsedRelease {
	loc := p.lib.arrStyle.FindStringSubmatchIndex(title)
	if loc == nil {
		return nil
	}
	// dot-separated scene names never carry " (year)"; this strategy only
	// fires on human/arr-organized names
	rel := &ParsedRelease{SeasonNumber: -1}
	rel.Title = strings.TrimSpace(title[loc[2]:loc[3]])
	rel.Year = atoiSpan(title, loc, 2)

	if loc[6] >= 0 {
		rel.SeasonNumber = atoiSpan(title, loc, 3)
		rel.EpisodeNumbers = []int{atoiSpan(title, loc, 4)}
	}

	rel.Quality = quality.Detect(title)
	rel.Languages = p.lib.extractLanguages(title)
	if edition, _ := p.lib.extractEdition(title); edition != "" {
		rel.Edition = edition
	}
	real, version := p.lib.extractModifiers(title)
	rel.Modifiers = Modifiers{
		Proper:  rel.Quality.Proper,
		Repack:  rel.Quality.Repack,
		Real:    real,
		Version: version,
	}
	rel.Confidence = 95
	return rel
}

// parseScene handles dot/underscore-separated release names with structural
// markers: episode numbering, air dates, years, quality blocks, trailing
// groups. Confidence accumulates per recognized component.
func (p *Parser) parseScene(title string) *ParsedRelease {
	rel := &ParsedRelease{SeasonNumber: -1}
	confidence := 35

	season, episodes, epSpan := p.lib.extractSeasonEpisodes(title)
	airDate, dateSpan := p.lib.extractAirDate(title)
	year, yearSpan := p.lib.extractYear(title)

	packSpan := noSpan
	if season < 0 && airDate.IsZero() {
		if packSeason, sp := p.lib.extractSeasonPack(title); packSeason >= 0 {
			season = packSeason
			rel.IsSeasonPack = true
			packSpan = sp
		}
	}

	switch {
	case season >= 0 && len(episodes) > 0:
		rel.SeasonNumber = season
		rel.EpisodeNumbers = episodes
		confidence += 20
	case !airDate.IsZero():
		rel.AirDate = airDate
		confidence += 20
	case rel.IsSeasonPack:
		rel.SeasonNumber = season
		confidence += 15
	}

	// the year inside an air date is the date, not a release year
	if year != 0 && (rel.AirDate.IsZero() || year != rel.AirDate.Year()) {
		rel.Year = year
		confidence += 5
	}

	rel.Quality = quality.Detect(title)
	if rel.Quality.Source != quality.SourceUnknown {
		confidence += 10
	}
	if rel.Quality.Resolution != 0 {
		confidence += 10
	}

	if group, _ := p.lib.extractTrailingGroup(title); group != "" {
		rel.ReleaseGroup = group
		confidence += 5
	}

	rel.Languages = p.lib.extractLanguages(title)
	if edition, _ := p.lib.extractEdition(title); edition != "" {
		rel.Edition = edition
	}
	real, version := p.lib.extractModifiers(title)
	rel.Modifiers = Modifiers{
		Proper:  rel.Quality.Proper,
		Repack:  rel.Quality.Repack,
		Real:    real,
		Version: version,
	}

	end := p.lib.titleEndIndex(title, epSpan, dateSpan, yearSpan, packSpan)
	rel.Title = p.lib.displayTitle(title[:end])
	if rel.Title == "" {
		return nil
	}

	if confidence > 95 {
		confidence = 95
	}
	rel.Confidence = confidence
	return rel
}

// parseAnime handles fan-sub naming: "[Group] Title - 43 (1080p) [HASH]".
// A leading bracketed group is required; numbering is absolute, not
// per-season.
func (p *Parser) parseAnime(title string) *ParsedRelease {
	group, groupSpan := p.lib.extractFansubGroup(title)
	if group == "" {
		return nil
	}

	rest := title[groupSpan.end:]
	rel := &ParsedRelease{SeasonNumber: -1, ReleaseGroup: group}
	confidence := 55

	absolute, absSpan := p.lib.extractAbsoluteEpisode(rest)
	season, episodes, epSpan := p.lib.extractSeasonEpisodes(rest)

	switch {
	case absolute > 0:
		rel.AbsoluteEpisode = absolute
		confidence += 15
	case season >= 0 && len(episodes) > 0:
		rel.SeasonNumber = season
		rel.EpisodeNumbers = episodes
		confidence += 15
	default:
		return nil
	}

	if hash, _ := p.lib.extractHash(rest); hash != "" {
		rel.ReleaseHash = strings.ToUpper(hash)
		confidence += 5
	}

	rel.Quality = quality.Detect(rest)
	if rel.Quality.Resolution != 0 {
		confidence += 10
	}

	rel.Languages = p.lib.extractLanguages(rest)
	real, version := p.lib.extractModifiers(rest)
	rel.Modifiers = Modifiers{
		Proper:  rel.Quality.Proper,
		Repack:  rel.Quality.Repack,
		Real:    real,
		Version: version,
	}

	end := p.lib.titleEndIndex(rest, absSpan, epSpan)
	rel.Title = p.lib.displayTitle(rest[:end])
	if rel.Title == "" {
		return nil
	}

	rel.Confidence = confidence
	return rel
}

// parseUser handles loosely formatted user-typed names: spaces instead of
// dots, few or no release markers. Lower base confidence reflects the
// weaker structure.
func (p *Parser) parseUser(title string) *ParsedRelease {
	rel := &ParsedRelease{SeasonNumber: -1}
	confidence := 40

	season, episodes, epSpan := p.lib.extractSeasonEpisodes(title)
	airDate, dateSpan := p.lib.extractAirDate(title)
	year, yearSpan := p.lib.extractYear(title)

	switch {
	case season >= 0 && len(episodes) > 0:
		rel.SeasonNumber = season
		rel.EpisodeNumbers = episodes
		confidence += 15
	case !airDate.IsZero():
		rel.AirDate = airDate
		confidence += 15
	}

	if year != 0 && (rel.AirDate.IsZero() || year != rel.AirDate.Year()) {
		rel.Year = year
		confidence += 10
	}

	rel.Quality = quality.Detect(title)
	if rel.Quality.Source != quality.SourceUnknown || rel.Quality.Resolution != 0 {
		confidence += 5
	}

	rel.Languages = p.lib.extractLanguages(title)
	real, version := p.lib.extractModifiers(title)
	rel.Modifiers = Modifiers{
		Proper:  rel.Quality.Proper,
		Repack:  rel.Quality.Repack,
		Real:    real,
		Version: version,
	}

	end := p.lib.titleEndIndex(title, epSpan, dateSpan, yearSpan)
	rel.Title = p.lib.displayTitle(title[:end])
	if rel.Title == "" {
		return nil
	}

	rel.Confidence = confidence
	return rel
}

// parseFallback is the unconditional terminal strategy: title-only
// extraction at confidence 0. It guarantees the pipeline is total.
func (p *Parser) parseFallback(title string) *ParsedRelease {
	rel := &ParsedRelease{SeasonNumber: -1}
	rel.Title = p.lib.displayTitle(title)
	if rel.Title == "" {
		rel.Title = strings.TrimSpace(title)
	}
	rel.Quality = quality.NewTag(quality.SourceUnknown, 0, false, false)
	rel.Confidence = 0
	return rel
}

func atoiSpan(s string, loc []int, group int) int {
	start, end := loc[2*group], loc[2*group+1]
	if start < 0 {
		return 0
	}
	n := 0
	for _, c := range s[start:end] {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
