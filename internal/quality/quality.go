// Package quality provides the quality model for parsed releases: source
// tiers, resolutions, and a precomputed weight giving every quality tag a
// total order. Weight is the only field other packages may use to compare
// two tags.
package quality

// Source represents the media source type, ordered by quality.
type Source int

const (
	SourceUnknown Source = iota
	SourceSDTV
	SourceDVD
	SourceHDTV
	SourceWEBRip
	SourceWEBDL
	SourceBluRay
	SourceRemux // BluRay remux (highest)
)

// String returns the canonical lowercase name used in profiles and logs.
func (s Source) String() string {
	switch s {
	case SourceSDTV:
		return "sdtv"
	case SourceDVD:
		return "dvd"
	case SourceHDTV:
		return "hdtv"
	case SourceWEBRip:
		return "web-rip"
	case SourceWEBDL:
		return "web-dl"
	case SourceBluRay:
		return "bluray"
	case SourceRemux:
		return "bluray-remux"
	default:
		return "unknown"
	}
}

// ParseSource converts a canonical source name back to its Source value.
// Returns SourceUnknown for names outside the enumeration.
func ParseSource(name string) Source {
	switch name {
	case "sdtv":
		return SourceSDTV
	case "dvd":
		return SourceDVD
	case "hdtv":
		return SourceHDTV
	case "web-rip", "webrip":
		return SourceWEBRip
	case "web-dl", "webdl":
		return SourceWEBDL
	case "bluray":
		return SourceBluRay
	case "bluray-remux", "remux":
		return SourceRemux
	default:
		return SourceUnknown
	}
}

// AudioTier represents the quality tier for music releases.
type AudioTier int

const (
	AudioTierUnknown AudioTier = iota
	AudioTierLow
	AudioTierStandard
	AudioTierHighBitrate
	AudioTierLossless
)

func (a AudioTier) String() string {
	switch a {
	case AudioTierLow:
		return "low"
	case AudioTierStandard:
		return "standard"
	case AudioTierHighBitrate:
		return "high-bitrate"
	case AudioTierLossless:
		return "lossless"
	default:
		return "unknown"
	}
}

// Tag is the quality of a single release. Resolution is the vertical pixel
// count (0 = unknown). Weight is computed once at construction and is
// monotonically increasing with perceptual quality.
type Tag struct {
	Source     Source
	Resolution int
	Proper     bool
	Repack     bool
	Weight     int
}

// NewTag builds a Tag with its weight precomputed.
func NewTag(source Source, resolution int, proper, repack bool) Tag {
	t := Tag{Source: source, Resolution: resolution, Proper: proper, Repack: repack}
	t.Weight = computeWeight(t)
	return t
}

// Resolution base scores; resolution dominates source in the total order.
const (
	scoreResolution2160p = 400
	scoreResolution1080p = 300
	scoreResolution720p  = 200
	scoreResolution576p  = 120
	scoreResolution480p  = 100
)

// computeWeight derives the ordering weight: resolution is the major term,
// source the minor one, with small bumps for proper/repack releases.
func computeWeight(t Tag) int {
	weight := 0

	switch t.Resolution {
	case 2160:
		weight += scoreResolution2160p
	case 1080:
		weight += scoreResolution1080p
	case 720:
		weight += scoreResolution720p
	case 576:
		weight += scoreResolution576p
	case 480:
		weight += scoreResolution480p
	}

	switch t.Source {
	case SourceRemux:
		weight += 100
	case SourceBluRay:
		weight += 80
	case SourceWEBDL:
		weight += 60
	case SourceWEBRip:
		weight += 50
	case SourceHDTV:
		weight += 40
	case SourceDVD:
		weight += 20
	case SourceSDTV:
		weight += 10
	}

	if t.Proper {
		weight += 5
	}
	if t.Repack {
		weight++
	}

	return weight
}

// Compare orders two tags by weight.
// Returns -1 if t is lower quality than other, 0 if equal, +1 if higher.
func (t Tag) Compare(other Tag) int {
	if t.Weight > other.Weight {
		return 1
	}
	if t.Weight < other.Weight {
		return -1
	}
	return 0
}

// IsBetterThan returns true if t is strictly higher quality than other.
func (t Tag) IsBetterThan(other Tag) bool {
	return t.Compare(other) > 0
}

// String returns a display form like "1080p web-dl".
func (t Tag) String() string {
	res := "unknown"
	switch t.Resolution {
	case 480:
		res = "480p"
	case 576:
		res = "576p"
	case 720:
		res = "720p"
	case 1080:
		res = "1080p"
	case 2160:
		res = "2160p"
	}
	return res + " " + t.Source.String()
}
