package quality

import (
	"testing"
)

func TestDetectSource(t *testing.T) {
	tests := []struct {
		title string
		want  Source
	}{
		{"Movie.2024.2160p.REMUX.mkv", SourceRemux},
		{"Movie.2024.1080p.BluRay.x264", SourceBluRay},
		{"Movie.2024.1080p.Blu-Ray", SourceBluRay},
		{"Movie.2024.1080p.BDRip", SourceBluRay},
		{"Movie.2024.1080p.WEB-DL", SourceWEBDL},
		{"Movie.2024.1080p.WEBDL", SourceWEBDL},
		{"Movie.2024.1080p.WEB", SourceWEBDL},
		{"Movie.2024.1080p.WEBRip", SourceWEBRip},
		{"Movie.2024.1080p.WEB-Rip", SourceWEBRip},
		{"Show.S01E01.720p.HDTV", SourceHDTV},
		{"Movie.2024.DVDRip", SourceDVD},
		{"Movie.2024.SDTV", SourceSDTV},
		{"Movie.2024", SourceUnknown},
		// remux beats bluray when both appear
		{"Movie.2024.2160p.BluRay.REMUX", SourceRemux},
		// web-dl beats web-rip when both appear
		{"Movie.2024.WEB-DL.WEBRip", SourceWEBDL},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Detect(tt.title)
			if got.Source != tt.want {
				t.Errorf("Detect(%q).Source = %v, want %v", tt.title, got.Source, tt.want)
			}
		})
	}
}

func TestDetectResolution(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Movie.2024.2160p.BluRay", 2160},
		{"Movie.2024.1080p.WEB-DL", 1080},
		{"Movie.2024.720p.HDTV", 720},
		{"Movie.2024.480p.DVDRip", 480},
		// dimension string
		{"Movie.2024.1920x1080.WEB", 1080},
		// alias tokens
		{"Movie.2024.4K.UHD", 2160},
		{"Movie.2024.FHD.WEB", 1080},
		// explicit token beats alias
		{"Movie.2024.720p.4K.upscale", 720},
		// source defaults when nothing explicit
		{"Show.S01E01.HDTV", 720},
		{"Movie.2024.BluRay", 1080},
		{"Movie.2024.WEB-DL", 720},
		{"Movie.2024", 0},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Detect(tt.title)
			if got.Resolution != tt.want {
				t.Errorf("Detect(%q).Resolution = %d, want %d", tt.title, got.Resolution, tt.want)
			}
		})
	}
}

func TestStreamingServiceImpliesWebDL(t *testing.T) {
	tests := []struct {
		title string
		want  Source
	}{
		{"Show.S01E01.1080p.AMZN.DDP5.1.H.264-NTb", SourceWEBDL},
		{"Show.S01E01.1080p.NF.x264", SourceWEBDL},
		{"Show.S01E01.1080p.DSNP.DDP5.1", SourceWEBDL},
		// stronger token wins over service tag
		{"Show.S01E01.1080p.AMZN.BluRay", SourceBluRay},
		{"Show.S01E01.2160p.NF.REMUX", SourceRemux},
		// weaker tokens lose to the service tag
		{"Show.S01E01.1080p.AMZN.HDTV.x264-GRP", SourceWEBDL},
		{"Show.S01E01.NF.DVDRip", SourceWEBDL},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Detect(tt.title)
			if got.Source != tt.want {
				t.Errorf("Detect(%q).Source = %v, want %v", tt.title, got.Source, tt.want)
			}
		})
	}
}

func TestWeightMonotonicity(t *testing.T) {
	// Ascending perceptual quality must produce strictly ascending weights.
	ladder := []Tag{
		NewTag(SourceSDTV, 480, false, false),
		NewTag(SourceDVD, 480, false, false),
		NewTag(SourceHDTV, 720, false, false),
		NewTag(SourceWEBRip, 720, false, false),
		NewTag(SourceWEBDL, 720, false, false),
		NewTag(SourceWEBDL, 1080, false, false),
		NewTag(SourceBluRay, 1080, false, false),
		NewTag(SourceRemux, 1080, false, false),
		NewTag(SourceBluRay, 2160, false, false),
		NewTag(SourceRemux, 2160, false, false),
	}

	for i := 1; i < len(ladder); i++ {
		if ladder[i].Weight <= ladder[i-1].Weight {
			t.Errorf("weight not monotonic: %s (%d) <= %s (%d)",
				ladder[i], ladder[i].Weight, ladder[i-1], ladder[i-1].Weight)
		}
	}
}

func TestProperOutweighsPlain(t *testing.T) {
	plain := NewTag(SourceWEBDL, 1080, false, false)
	proper := NewTag(SourceWEBDL, 1080, true, false)
	repack := NewTag(SourceWEBDL, 1080, false, true)

	if !proper.IsBetterThan(plain) {
		t.Error("proper release should outweigh plain release of same tier")
	}
	if !repack.IsBetterThan(plain) {
		t.Error("repack release should outweigh plain release of same tier")
	}
	if !proper.IsBetterThan(repack) {
		t.Error("proper should outweigh repack")
	}
}

func TestCompare(t *testing.T) {
	hi := NewTag(SourceRemux, 2160, false, false)
	lo := NewTag(SourceBluRay, 1080, false, false)

	if hi.Compare(lo) != 1 {
		t.Errorf("Compare = %d, want 1", hi.Compare(lo))
	}
	if lo.Compare(hi) != -1 {
		t.Errorf("Compare = %d, want -1", lo.Compare(hi))
	}
	if hi.Compare(hi) != 0 {
		t.Errorf("Compare = %d, want 0", hi.Compare(hi))
	}
}

func TestSourceRoundTrip(t *testing.T) {
	for s := SourceUnknown; s <= SourceRemux; s++ {
		if got := ParseSource(s.String()); got != s {
			t.Errorf("ParseSource(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestDetectAudioTier(t *testing.T) {
	tests := []struct {
		title string
		want  AudioTier
	}{
		{"Artist - Album (2020) [FLAC]", AudioTierLossless},
		{"Artist - Album (2020) [320]", AudioTierHighBitrate},
		{"Artist - Album (2020) [MP3 V2]", AudioTierStandard},
		{"Artist - Album (2020) [128]", AudioTierLow},
		{"Artist - Album (2020)", AudioTierUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := DetectAudioTier(tt.title); got != tt.want {
				t.Errorf("DetectAudioTier(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}
