// Package profile holds the externally supplied scoring configuration:
// quality profiles, custom formats and preferred words. Everything here is
// validated eagerly at load time; invalid patterns or unknown quality names
// never surface mid-parse.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/fetcharr/fetcharr/internal/quality"
)

// QualityProfile is an ordered list of acceptable quality tiers, worst
// first, with a cutoff and per-profile fetch policy.
type QualityProfile struct {
	Name          string   `mapstructure:"name"`
	Qualities     []string `mapstructure:"qualities"` // ordered worst to best
	Cutoff        string   `mapstructure:"cutoff"`
	MaxSizeMB     int64    `mapstructure:"max_size_mb"`
	MinSeeders    int      `mapstructure:"min_seeders"`
	RetentionDays int      `mapstructure:"retention_days"`
	Required      []string `mapstructure:"required"`
	Forbidden     []string `mapstructure:"forbidden"`

	tiers []tier
}

type tier struct {
	source     quality.Source
	resolution int
}

// CustomFormat is a named pattern contributing a signed score to any release
// whose raw title matches.
type CustomFormat struct {
	Name    string `mapstructure:"name"`
	Pattern string `mapstructure:"pattern"`
	Score   int    `mapstructure:"score"`

	re *regexp.Regexp
}

// Matches reports whether the format's pattern matches the raw title.
// Only valid after Validate has compiled the pattern.
func (f *CustomFormat) Matches(rawTitle string) bool {
	return f.re != nil && f.re.MatchString(rawTitle)
}

// PreferredWord contributes a signed score when its term appears in the raw
// title, case-insensitively.
type PreferredWord struct {
	Term  string `mapstructure:"term"`
	Score int    `mapstructure:"score"`
}

// Matches reports whether the term appears in the raw title.
func (w *PreferredWord) Matches(rawTitle string) bool {
	return w.Term != "" && strings.Contains(strings.ToLower(rawTitle), strings.ToLower(w.Term))
}

// Config is the full scoring configuration document.
type Config struct {
	Profiles       []QualityProfile `mapstructure:"profiles"`
	CustomFormats  []CustomFormat   `mapstructure:"custom_formats"`
	PreferredWords []PreferredWord  `mapstructure:"preferred_words"`
}

// DefaultConfig returns a single permissive HD profile.
func DefaultConfig() *Config {
	return &Config{
		Profiles: []QualityProfile{{
			Name: "hd",
			Qualities: []string{
				"720p hdtv",
				"720p web-dl",
				"1080p web-dl",
				"1080p bluray",
			},
			Cutoff: "1080p web-dl",
		}},
	}
}

// ConfigPath returns the default profiles file location.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to get config dir: %w", err)
	}
	return filepath.Join(configDir, "fetcharr", "profiles.toml"), nil
}

// Load reads the configuration file at path (the default location when path
// is empty) and validates it. A missing file yields the default config.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read profiles file: %w", err)
		}
		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unable to unmarshal profiles: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate compiles every custom-format pattern and resolves every quality
// name. It must be called before the config is used; any error here is fatal
// at the load boundary.
func (c *Config) Validate() error {
	names := map[string]bool{}
	for i := range c.Profiles {
		p := &c.Profiles[i]
		if p.Name == "" {
			return fmt.Errorf("profile %d: missing name", i)
		}
		if names[p.Name] {
			return fmt.Errorf("profile %q: duplicate name", p.Name)
		}
		names[p.Name] = true

		if len(p.Qualities) == 0 {
			return fmt.Errorf("profile %q: no qualities", p.Name)
		}
		p.tiers = make([]tier, len(p.Qualities))
		for j, name := range p.Qualities {
			tr, err := parseQualityName(name)
			if err != nil {
				return fmt.Errorf("profile %q: quality %q: %w", p.Name, name, err)
			}
			p.tiers[j] = tr
		}
		if p.Cutoff != "" {
			cut, err := parseQualityName(p.Cutoff)
			if err != nil {
				return fmt.Errorf("profile %q: cutoff %q: %w", p.Name, p.Cutoff, err)
			}
			if p.rankOfTier(cut) == 0 {
				return fmt.Errorf("profile %q: cutoff %q not in quality list", p.Name, p.Cutoff)
			}
		}
	}

	for i := range c.CustomFormats {
		f := &c.CustomFormats[i]
		if f.Name == "" {
			return fmt.Errorf("custom format %d: missing name", i)
		}
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return fmt.Errorf("custom format %q: invalid pattern: %w", f.Name, err)
		}
		f.re = re
	}

	for i := range c.PreferredWords {
		if c.PreferredWords[i].Term == "" {
			return fmt.Errorf("preferred word %d: missing term", i)
		}
	}

	return nil
}

// Profile returns the named profile, or nil.
func (c *Config) Profile(name string) *QualityProfile {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i]
		}
	}
	return nil
}

// RankOf returns the 1-based position of the tag's tier within the profile's
// ordered quality list, or 0 when the tag is not in the profile. Higher rank
// means better quality since the list is ordered worst first.
func (p *QualityProfile) RankOf(tag quality.Tag) int {
	return p.rankOfTier(tier{source: tag.Source, resolution: tag.Resolution})
}

// Allows reports whether the tag's tier appears in the profile.
func (p *QualityProfile) Allows(tag quality.Tag) bool {
	return p.RankOf(tag) > 0
}

// CutoffRank returns the rank of the cutoff tier, or 0 when no cutoff is set.
func (p *QualityProfile) CutoffRank() int {
	if p.Cutoff == "" {
		return 0
	}
	cut, err := parseQualityName(p.Cutoff)
	if err != nil {
		return 0
	}
	return p.rankOfTier(cut)
}

func (p *QualityProfile) rankOfTier(t tier) int {
	for i, have := range p.tiers {
		if have == t {
			return i + 1
		}
	}
	return 0
}

// parseQualityName resolves names like "1080p web-dl" or "2160p
// bluray-remux" into a tier. A resolution token is optional; the source
// token is not.
func parseQualityName(name string) (tier, error) {
	var t tier
	sourceSeen := false

	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if res, ok := parseResolutionToken(tok); ok {
			t.resolution = res
			continue
		}
		src := quality.ParseSource(tok)
		if src == quality.SourceUnknown {
			return tier{}, fmt.Errorf("unknown quality token %q", tok)
		}
		t.source = src
		sourceSeen = true
	}

	if !sourceSeen {
		return tier{}, fmt.Errorf("no source token in %q", name)
	}
	return t, nil
}

func parseResolutionToken(tok string) (int, bool) {
	if !strings.HasSuffix(tok, "p") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(tok, "p"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
