package parser

import "regexp"

// Library is the compiled pattern set shared by all extractors. It is built
// once at package load and is read-only afterwards, so it may be shared
// across any number of parsing goroutines without synchronization.
type Library struct {
	seasonEpisode  *regexp.Regexp
	episodeSpan    *regexp.Regexp
	xFormat        *regexp.Regexp
	seasonOnly     *regexp.Regexp
	airDate        *regexp.Regexp
	year           *regexp.Regexp
	absoluteNumber *regexp.Regexp
	fansubGroup    *regexp.Regexp
	releaseHash    *regexp.Regexp
	trailingGroup  *regexp.Regexp
	edition        *regexp.Regexp
	language       *regexp.Regexp
	multiLanguage  *regexp.Regexp
	real           *regexp.Regexp
	version        *regexp.Regexp
	sampleMarker   *regexp.Regexp
	fileExtension  *regexp.Regexp
	releaseMarker  *regexp.Regexp
	arrStyle       *regexp.Regexp
	punctuation    *regexp.Regexp
	spaces         *regexp.Regexp
}

var defaultLibrary = &Library{
	// S01E02, S01 E02, s1e2, also the leading part of multi-episode spans
	seasonEpisode: regexp.MustCompile(`(?i)\bS(\d{1,3})[ ._-]?E(\d{1,4})`),
	// additional episodes chained after the first: E02, -E03, .E04
	episodeSpan: regexp.MustCompile(`(?i)[-_. ]?E(\d{1,4})`),
	// 1x02 style
	xFormat: regexp.MustCompile(`\b(\d{1,2})x(\d{2,3})\b`),
	// bare season marker: S01, Season 2 (season packs)
	seasonOnly: regexp.MustCompile(`(?i)\b(?:S(\d{1,3})|Season[ ._](\d{1,3}))\b`),
	// 2024-01-15, 2024.01.15, 2024 01 15
	airDate: regexp.MustCompile(`\b(\d{4})[-. ](\d{2})[-. ](\d{2})\b`),
	year:    regexp.MustCompile(`\b((?:19|20)\d{2})\b`),
	// anime absolute numbering: " - 43", " - 043" before quality block or end
	absoluteNumber: regexp.MustCompile(`[-_ ] (\d{1,4})(?:\s*[([]|\s*$|\s+v\d)`),
	// [SubsPlease] at the start of fan-sub names
	fansubGroup: regexp.MustCompile(`^\[([^\]]+)\]`),
	// [ABCD1234] CRC hash anywhere, typically trailing
	releaseHash: regexp.MustCompile(`\[([0-9A-Fa-f]{8})\]`),
	// trailing -GROUP on scene names
	trailingGroup: regexp.MustCompile(`-([A-Za-z0-9]+)(?:\[[^\]]*\])?$`),
	edition: regexp.MustCompile(`(?i)\b(director'?s?[ ._]cut|extended(?:[ ._](?:cut|edition))?|theatrical(?:[ ._](?:cut|edition))?|unrated|uncut|imax(?:[ ._]enhanced)?|remastered|criterion|special[ ._]edition|ultimate[ ._]edition)\b`),
	language: regexp.MustCompile(`(?i)\b(german|french|italian|spanish|dutch|polish|russian|japanese|korean|hindi|swedish|norwegian|danish|finnish|nordic|english)\b`),
	// MULTi / dual audio yields a multi-language set
	multiLanguage: regexp.MustCompile(`(?i)\b(multi|dual[ ._-]?audio)\b`),
	real:          regexp.MustCompile(`\bREAL\b`),
	version:       regexp.MustCompile(`(?i)\bv(\d)\b`),
	sampleMarker:  regexp.MustCompile(`(?i)[([]\s*sample\s*[)\]]`),
	fileExtension: regexp.MustCompile(`(?i)\.(mkv|mp4|avi|m4v|mov|wmv|flv|webm|mpg|mpeg|ts|flac|mp3|m4a|ogg|nzb|torrent)$`),
	// any marker that terminates the title portion of a scene name
	releaseMarker: regexp.MustCompile(`(?i)\b(\d{3,4}[pi]|4K|UHD|FHD|BluRay|Blu-ray|BDRip|BRRip|REMUX|WEB[-_. ]?DL|WEB[-_. ]?Rip|WEB|HDTV|PDTV|SDTV|DVDRip|DVD|x264|x265|x266|h[ ._]?264|h[ ._]?265|HEVC|AVC|AV1|XviD|DivX|AAC|AC3|EAC3|DDP?[ ._]?\d[ ._]?\d|DTS(?:-(?:HD|X|ES))?(?:[ ._]?MA)?|TrueHD|Atmos|FLAC|MP3|Opus|HDR10\+?|HDR|DV|DoVi|HLG|PROPER|REPACK|RERIP|iNTERNAL|LIMITED|UNRATED|EXTENDED|MULTI|DUAL|SUBBED|DUBBED|AMZN|NF|DSNP|HMAX|HULU|ATVP|PCOK|PMTP|10bit|8bit)\b`),
	// pre-organized library names: "Title (2020)" optionally followed by SxxEyy
	arrStyle:    regexp.MustCompile(`^(.+?) \((\d{4})\)(?: - | )?(?:S(\d{1,3})E(\d{1,4}))?`),
	punctuation: regexp.MustCompile(`[^a-z0-9 ]+`),
	spaces:      regexp.MustCompile(`\s+`),
}

// DefaultLibrary returns the process-wide compiled pattern library.
func DefaultLibrary() *Library {
	return defaultLibrary
}
