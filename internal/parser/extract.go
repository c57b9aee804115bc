package parser

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// span marks where in the title an extractor matched. Extractors return
// start = -1 when nothing matched; the earliest structural match decides
// where the media title ends.
type span struct {
	start, end int
}

var noSpan = span{-1, -1}

// Resolution widths that look like years and must never be read as one.
var resolutionWidths = map[string]bool{
	"1920": true,
	"1280": true,
	"2160": true,
	"1440": true,
}

// maxEpisodeRange bounds dashed-range expansion; a wider jump is read as a
// stray number, not a range.
const maxEpisodeRange = 20

// extractSeasonEpisodes parses SxxEyy and 1x02 forms, including
// multi-episode spans. Glued markers (S01E01E02) chain individual episodes;
// a dashed marker (S01E01-E03) is an inclusive range. Episode order follows
// appearance order, duplicates dropped.
func (l *Library) extractSeasonEpisodes(title string) (season int, episodes []int, sp span) {
	season = -1
	sp = noSpan

	if loc := l.seasonEpisode.FindStringSubmatchIndex(title); loc != nil {
		season, _ = strconv.Atoi(title[loc[2]:loc[3]])
		first, _ := strconv.Atoi(title[loc[4]:loc[5]])
		episodes = append(episodes, first)
		sp = span{loc[0], loc[1]}

		// chained episodes directly after the first marker
		rest := title[loc[1]:]
		offset := loc[1]
		for {
			m := l.episodeSpan.FindStringSubmatchIndex(rest)
			if m == nil || m[0] != 0 {
				break
			}
			ep, _ := strconv.Atoi(rest[m[2]:m[3]])
			last := episodes[len(episodes)-1]
			if rest[0] == '-' && ep > last && ep-last <= maxEpisodeRange {
				for e := last + 1; e <= ep; e++ {
					episodes = appendEpisode(episodes, e)
				}
			} else {
				episodes = appendEpisode(episodes, ep)
			}
			sp.end = offset + m[1]
			rest = rest[m[1]:]
			offset += m[1]
		}
		return season, episodes, sp
	}

	if loc := l.xFormat.FindStringSubmatchIndex(title); loc != nil {
		season, _ = strconv.Atoi(title[loc[2]:loc[3]])
		ep, _ := strconv.Atoi(title[loc[4]:loc[5]])
		return season, []int{ep}, span{loc[0], loc[1]}
	}

	return -1, nil, noSpan
}

// extractSeasonPack matches a bare season marker (S02, Season 2) with no
// episode component.
func (l *Library) extractSeasonPack(title string) (season int, sp span) {
	loc := l.seasonOnly.FindStringSubmatchIndex(title)
	if loc == nil {
		return -1, noSpan
	}
	raw := ""
	if loc[2] >= 0 {
		raw = title[loc[2]:loc[3]]
	} else if loc[4] >= 0 {
		raw = title[loc[4]:loc[5]]
	}
	season, err := strconv.Atoi(raw)
	if err != nil {
		return -1, noSpan
	}
	return season, span{loc[0], loc[1]}
}

// extractAirDate parses daily-show dates (2024.01.15). Impossible calendar
// dates are treated as absent rather than guessed at.
func (l *Library) extractAirDate(title string) (time.Time, span) {
	loc := l.airDate.FindStringSubmatchIndex(title)
	if loc == nil {
		return time.Time{}, noSpan
	}
	year, _ := strconv.Atoi(title[loc[2]:loc[3]])
	month, _ := strconv.Atoi(title[loc[4]:loc[5]])
	day, _ := strconv.Atoi(title[loc[6]:loc[7]])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, noSpan
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, noSpan
	}
	return d, span{loc[0], loc[1]}
}

// extractYear returns the last year-looking token that is not a resolution
// width. Scene names put the release year between title and quality block,
// so the last occurrence is the safer read ("2001 A Space Odyssey 1968").
func (l *Library) extractYear(title string) (int, span) {
	matches := l.year.FindAllStringSubmatchIndex(title, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		raw := title[m[2]:m[3]]
		if resolutionWidths[raw] {
			continue
		}
		year, _ := strconv.Atoi(raw)
		return year, span{m[0], m[1]}
	}
	return 0, noSpan
}

// extractAbsoluteEpisode parses anime-style absolute numbering: a bare
// number between title and quality block (" - 43 (1080p)").
func (l *Library) extractAbsoluteEpisode(title string) (int, span) {
	loc := l.absoluteNumber.FindStringSubmatchIndex(title)
	if loc == nil {
		return 0, noSpan
	}
	raw := title[loc[2]:loc[3]]
	// years in that position are release years, not episode numbers
	if len(raw) == 4 && (strings.HasPrefix(raw, "19") || strings.HasPrefix(raw, "20")) {
		return 0, noSpan
	}
	n, _ := strconv.Atoi(raw)
	if n == 0 {
		return 0, noSpan
	}
	return n, span{loc[0], loc[1]}
}

// extractFansubGroup reads a bracketed group at the very start of the title.
func (l *Library) extractFansubGroup(title string) (string, span) {
	loc := l.fansubGroup.FindStringSubmatchIndex(title)
	if loc == nil {
		return "", noSpan
	}
	group := title[loc[2]:loc[3]]
	// a leading [ABCD1234] is a hash, not a group
	if l.releaseHash.MatchString(title[loc[0]:loc[1]]) {
		return "", noSpan
	}
	return group, span{loc[0], loc[1]}
}

// extractTrailingGroup reads the scene-style -GROUP suffix.
func (l *Library) extractTrailingGroup(title string) (string, span) {
	loc := l.trailingGroup.FindStringSubmatchIndex(title)
	if loc == nil {
		return "", noSpan
	}
	group := title[loc[2]:loc[3]]
	// quality tokens glued on with a hyphen are not groups
	switch strings.ToLower(group) {
	case "dl", "rip", "web", "bluray", "hdtv", "x264", "x265", "h264", "h265",
		"hevc", "avc", "av1", "remux", "proper", "repack", "sample":
		return "", noSpan
	}
	return group, span{loc[0], loc[1]}
}

// extractHash reads a bracketed 8-hex-digit CRC, the anime checksum idiom.
func (l *Library) extractHash(title string) (string, span) {
	loc := l.releaseHash.FindStringSubmatchIndex(title)
	if loc == nil {
		return "", noSpan
	}
	return title[loc[2]:loc[3]], span{loc[0], loc[1]}
}

// extractEdition normalizes edition markers to a compact display form.
func (l *Library) extractEdition(title string) (string, span) {
	loc := l.edition.FindStringSubmatchIndex(title)
	if loc == nil {
		return "", noSpan
	}
	raw := strings.ToLower(title[loc[2]:loc[3]])
	raw = strings.NewReplacer(".", " ", "_", " ").Replace(raw)
	switch {
	case strings.HasPrefix(raw, "director"):
		return "Directors Cut", span{loc[0], loc[1]}
	case strings.HasPrefix(raw, "extended"):
		return "Extended", span{loc[0], loc[1]}
	case strings.HasPrefix(raw, "theatrical"):
		return "Theatrical", span{loc[0], loc[1]}
	case strings.HasPrefix(raw, "imax"):
		return "IMAX", span{loc[0], loc[1]}
	case raw == "unrated" || raw == "uncut":
		return "Unrated", span{loc[0], loc[1]}
	case raw == "remastered":
		return "Remastered", span{loc[0], loc[1]}
	case raw == "criterion":
		return "Criterion", span{loc[0], loc[1]}
	case strings.HasPrefix(raw, "special"):
		return "Special Edition", span{loc[0], loc[1]}
	case strings.HasPrefix(raw, "ultimate"):
		return "Ultimate Edition", span{loc[0], loc[1]}
	default:
		return "", noSpan
	}
}

// extractLanguages collects explicit language tokens. A MULTi/dual-audio tag
// yields a multi-language set. No token means unspecified, never English.
func (l *Library) extractLanguages(title string) []string {
	var langs []string
	seen := map[string]bool{}
	for _, m := range l.language.FindAllStringSubmatch(title, -1) {
		lang := strings.ToLower(m[1])
		if lang == "nordic" {
			lang = "norwegian"
		}
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	if l.multiLanguage.MatchString(title) {
		if !seen["multi"] {
			langs = append(langs, "multi")
		}
	}
	return langs
}

// extractModifiers reads revision flags: REAL and v2/v3 version bumps.
// Proper/repack come from quality detection and are merged by the pipeline.
func (l *Library) extractModifiers(title string) (real bool, version uint8) {
	real = l.real.MatchString(title)
	if m := l.version.FindStringSubmatch(title); m != nil {
		v, _ := strconv.Atoi(m[1])
		if v > 1 && v < 10 {
			version = uint8(v)
		}
	}
	return real, version
}

// titleEndIndex finds where the media title stops: the earliest structural
// span, or the first release marker when no span starts earlier.
func (l *Library) titleEndIndex(title string, spans ...span) int {
	end := len(title)
	for _, s := range spans {
		if s.start >= 0 && s.start < end {
			end = s.start
		}
	}
	if loc := l.releaseMarker.FindStringIndex(title); loc != nil && loc[0] < end {
		end = loc[0]
	}
	return end
}

var titleCaser = cases.Title(language.English)

// displayTitle converts the carved raw title portion into display form:
// separators to spaces, trimmed, title-cased only when the input carries no
// casing signal of its own.
func (l *Library) displayTitle(raw string) string {
	s := strings.NewReplacer(".", " ", "_", " ").Replace(raw)
	s = strings.Trim(s, " -[](){}")
	s = l.spaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if s == strings.ToLower(s) || s == strings.ToUpper(s) {
		s = titleCaser.String(strings.ToLower(s))
	}
	return s
}

// CleanTitle normalizes a title for comparison: lowercase, punctuation
// stripped, single-spaced. The transform is a fixed point: cleaning a clean
// title returns it unchanged.
func CleanTitle(title string) string {
	s := strings.ToLower(title)
	s = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(s)
	s = defaultLibrary.punctuation.ReplaceAllString(s, "")
	s = defaultLibrary.spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func appendEpisode(eps []int, ep int) []int {
	for _, e := range eps {
		if e == ep {
			return eps
		}
	}
	return append(eps, ep)
}
