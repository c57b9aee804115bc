package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fetcharr/fetcharr/internal/quality"
)

func validConfig() *Config {
	return &Config{
		Profiles: []QualityProfile{{
			Name:      "hd",
			Qualities: []string{"720p hdtv", "720p web-dl", "1080p web-dl", "1080p bluray"},
			Cutoff:    "1080p web-dl",
		}},
		CustomFormats: []CustomFormat{
			{Name: "hdr", Pattern: `\bHDR10?\b`, Score: 100},
			{Name: "x265", Pattern: `\bx265\b`, Score: -50},
		},
		PreferredWords: []PreferredWord{
			{Term: "atmos", Score: 25},
		},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid custom format pattern", func(c *Config) {
			c.CustomFormats[0].Pattern = `([unclosed`
		}},
		{"unknown quality name", func(c *Config) {
			c.Profiles[0].Qualities = []string{"1080p laserdisc"}
		}},
		{"cutoff outside quality list", func(c *Config) {
			c.Profiles[0].Cutoff = "2160p bluray-remux"
		}},
		{"empty quality list", func(c *Config) {
			c.Profiles[0].Qualities = nil
		}},
		{"duplicate profile name", func(c *Config) {
			c.Profiles = append(c.Profiles, c.Profiles[0])
		}},
		{"preferred word without term", func(c *Config) {
			c.PreferredWords[0].Term = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestRankOf(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	p := cfg.Profile("hd")

	tests := []struct {
		name string
		tag  quality.Tag
		want int
	}{
		{"worst tier", quality.NewTag(quality.SourceHDTV, 720, false, false), 1},
		{"middle tier", quality.NewTag(quality.SourceWEBDL, 1080, false, false), 3},
		{"best tier", quality.NewTag(quality.SourceBluRay, 1080, false, false), 4},
		{"absent tier", quality.NewTag(quality.SourceRemux, 2160, false, false), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.RankOf(tt.tag); got != tt.want {
				t.Errorf("RankOf = %d, want %d", got, tt.want)
			}
		})
	}

	if !p.Allows(quality.NewTag(quality.SourceHDTV, 720, false, false)) {
		t.Error("Allows = false for tier in profile")
	}
	if p.Allows(quality.NewTag(quality.SourceRemux, 2160, false, false)) {
		t.Error("Allows = true for tier outside profile")
	}
	if got := p.CutoffRank(); got != 3 {
		t.Errorf("CutoffRank = %d, want 3", got)
	}
}

func TestCustomFormatMatching(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	hdr := &cfg.CustomFormats[0]
	if !hdr.Matches("Movie.2024.2160p.WEB-DL.HDR10.x265-GRP") {
		t.Error("HDR format should match HDR10 title")
	}
	if !hdr.Matches("Movie.2024.2160p.hdr.WEB-DL") {
		t.Error("format matching should be case-insensitive")
	}
	if hdr.Matches("Movie.2024.1080p.WEB-DL.x264-GRP") {
		t.Error("HDR format should not match plain title")
	}
}

func TestPreferredWordMatching(t *testing.T) {
	w := PreferredWord{Term: "atmos", Score: 25}
	if !w.Matches("Movie.2024.TrueHD.Atmos.7.1-GRP") {
		t.Error("preferred word should match case-insensitively")
	}
	if w.Matches("Movie.2024.DTS-HD.MA-GRP") {
		t.Error("preferred word matched absent term")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.toml")

	doc := `
[[profiles]]
name = "uhd"
qualities = ["1080p bluray", "2160p web-dl", "2160p bluray-remux"]
cutoff = "2160p web-dl"
max_size_mb = 40000
min_seeders = 5

[[custom_formats]]
name = "dolby-vision"
pattern = '\bDV\b'
score = 75

[[preferred_words]]
term = "atmos"
score = 25
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.Profile("uhd")
	if p == nil {
		t.Fatal("profile uhd missing")
	}
	if p.MinSeeders != 5 || p.MaxSizeMB != 40000 {
		t.Errorf("policy fields = %d/%d, want 5/40000", p.MinSeeders, p.MaxSizeMB)
	}
	if got := p.RankOf(quality.NewTag(quality.SourceRemux, 2160, false, false)); got != 3 {
		t.Errorf("RankOf remux = %d, want 3", got)
	}
	if len(cfg.CustomFormats) != 1 || !cfg.CustomFormats[0].Matches("Movie.2160p.DV.HDR") {
		t.Error("custom format not loaded or not compiled")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile("hd") == nil {
		t.Error("default profile missing")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.toml")

	doc := `
[[profiles]]
name = "broken"
qualities = ["1080p laserdisc"]
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted profile with unknown quality name")
	}
}
