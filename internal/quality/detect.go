package quality

import (
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled detection patterns, shared read-only across goroutines.
var (
	explicitResolutionRegex = regexp.MustCompile(`(?i)\b(\d{3,4})[pi]\b`)
	dimensionRegex          = regexp.MustCompile(`(?i)\b\d{3,4}x(\d{3,4})\b`)

	remuxRegex   = regexp.MustCompile(`(?i)\b(remux)\b`)
	blurayRegex  = regexp.MustCompile(`(?i)\b(blu[-_. ]?ray|bdrip|brrip|bd)\b`)
	webdlRegex   = regexp.MustCompile(`(?i)\b(web[-_. ]?dl)\b`)
	webripRegex  = regexp.MustCompile(`(?i)\b(web[-_. ]?rip)\b`)
	bareWebRegex = regexp.MustCompile(`(?i)\b(web)\b`)
	hdtvRegex    = regexp.MustCompile(`(?i)\b(hdtv|pdtv)\b`)
	dvdRegex     = regexp.MustCompile(`(?i)\b(dvd|dvdrip|dvd[-_. ]?r)\b`)
	sdtvRegex    = regexp.MustCompile(`(?i)\b(sdtv|tvrip|dsr)\b`)

	// Streaming service tags imply a web download when nothing stronger matches.
	streamingServiceRegex = regexp.MustCompile(`(?i)\b(AMZN|NF|DSNP|HMAX|MAX|HULU|ATVP|PCOK|PMTP|STAN|CR|iT|RED)\b`)

	properRegex = regexp.MustCompile(`(?i)\b(proper)\b`)
	repackRegex = regexp.MustCompile(`(?i)\b(repack|rerip)\b`)

	losslessAudioRegex = regexp.MustCompile(`(?i)\b(flac|alac|ape|wav|24bit)\b`)
	highBitrateRegex   = regexp.MustCompile(`(?i)\b(320|v0)\b`)
	standardAudioRegex = regexp.MustCompile(`(?i)\b(mp3|aac|256|192|v2)\b`)
	lowAudioRegex      = regexp.MustCompile(`(?i)\b(128|96|64)\b`)
)

// Known resolution aliases, checked after explicit tokens and dimensions.
var resolutionAliases = []struct {
	token  string
	height int
}{
	{"4k", 2160},
	{"uhd", 2160},
	{"fhd", 1080},
	{"hd", 720},
}

// Detect extracts a quality Tag from a release title. It never fails: titles
// without any recognizable quality token produce an unknown tag with weight
// computed from nothing.
func Detect(title string) Tag {
	source := detectSource(title)
	resolution := detectResolution(title, source)
	proper := properRegex.MatchString(title)
	repack := repackRegex.MatchString(title)
	return NewTag(source, resolution, proper, repack)
}

// detectSource applies the fixed source priority: remux > bluray > web-dl >
// web-rip > hdtv > dvd > sdtv. First match by this order wins, not first
// token seen in the string.
func detectSource(title string) Source {
	switch {
	case remuxRegex.MatchString(title):
		return SourceRemux
	case blurayRegex.MatchString(title):
		return SourceBluRay
	case webdlRegex.MatchString(title):
		return SourceWEBDL
	case webripRegex.MatchString(title):
		return SourceWEBRip
	case bareWebRegex.MatchString(title):
		// A bare WEB token with no dl/rip qualifier is treated as web-dl.
		return SourceWEBDL
	case streamingServiceRegex.MatchString(title):
		// A service tag outranks broadcast/disc-rip tokens: AMZN+HDTV is a
		// web download of an HDTV broadcast.
		return SourceWEBDL
	case hdtvRegex.MatchString(title):
		return SourceHDTV
	case dvdRegex.MatchString(title):
		return SourceDVD
	case sdtvRegex.MatchString(title):
		return SourceSDTV
	default:
		return SourceUnknown
	}
}

// detectResolution resolves in strict precedence: explicit token (1080p)
// beats dimension string (1920x1080) beats alias (4K) beats source default.
func detectResolution(title string, source Source) int {
	if m := explicitResolutionRegex.FindStringSubmatch(title); m != nil {
		if height := normalizeHeight(m[1]); height != 0 {
			return height
		}
	}

	if m := dimensionRegex.FindStringSubmatch(title); m != nil {
		if height := normalizeHeight(m[1]); height != 0 {
			return height
		}
	}

	lower := strings.ToLower(title)
	for _, alias := range resolutionAliases {
		if containsToken(lower, alias.token) {
			return alias.height
		}
	}

	switch source {
	case SourceHDTV:
		return 720
	case SourceBluRay, SourceRemux:
		return 1080
	case SourceWEBDL, SourceWEBRip:
		return 720
	default:
		return 0
	}
}

// normalizeHeight maps a raw pixel height to a canonical resolution value.
// Unrecognized heights are treated as unknown rather than invented tiers.
func normalizeHeight(raw string) int {
	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	switch {
	case h >= 2000:
		return 2160
	case h >= 1000:
		return 1080
	case h >= 700:
		return 720
	case h >= 570:
		return 576
	case h >= 400:
		return 480
	default:
		return 0
	}
}

// DetectAudioTier extracts the music quality tier from a release title.
func DetectAudioTier(title string) AudioTier {
	switch {
	case losslessAudioRegex.MatchString(title):
		return AudioTierLossless
	case highBitrateRegex.MatchString(title):
		return AudioTierHighBitrate
	case standardAudioRegex.MatchString(title):
		return AudioTierStandard
	case lowAudioRegex.MatchString(title):
		return AudioTierLow
	default:
		return AudioTierUnknown
	}
}

// containsToken reports whether token appears in s delimited by
// non-alphanumeric characters on both sides.
func containsToken(s, token string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		beforeOK := start == 0 || !isAlphaNum(s[start-1])
		afterOK := end == len(s) || !isAlphaNum(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(s) {
			return false
		}
	}
}

func isAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
