package decision

import (
	"testing"
	"time"

	"github.com/fetcharr/fetcharr/internal/parser"
	"github.com/fetcharr/fetcharr/internal/profile"
	"github.com/fetcharr/fetcharr/internal/quality"
	"github.com/fetcharr/fetcharr/internal/scoring"
)

func hdProfile(t *testing.T) *profile.QualityProfile {
	t.Helper()
	cfg := &profile.Config{
		Profiles: []profile.QualityProfile{{
			Name:          "hd",
			Qualities:     []string{"720p hdtv", "720p web-dl", "1080p web-dl", "1080p bluray"},
			MaxSizeMB:     20000,
			MinSeeders:    5,
			RetentionDays: 1500,
			Required:      nil,
			Forbidden:     nil,
		}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg.Profile("hd")
}

func torrentRelease(tag quality.Tag, seeders int) *Release {
	return &Release{
		Parsed:   &parser.ParsedRelease{RawTitle: "Some.Release.Title", Quality: tag},
		Protocol: scoring.ProtocolTorrent,
		Seeders:  seeders,
	}
}

func TestQualityNotInProfileIsPermanent(t *testing.T) {
	p := hdProfile(t)
	rel := torrentRelease(quality.NewTag(quality.SourceRemux, 2160, false, false), 50)

	rejs := Evaluate(rel, Policy{Profile: p})
	if !HasPermanent(rejs) {
		t.Fatalf("rejections = %v, want a permanent quality-not-in-profile", rejs)
	}

	// excluded from ranked output regardless of score
	rel.Score = scoring.Breakdown{Total: 9999}
	ranked := Rank(Decide([]*Release{rel}, Policy{Profile: p}))
	if len(ranked) != 0 {
		t.Errorf("ranked = %d releases, want 0", len(ranked))
	}
}

func TestAlreadyImportedAtEqualOrBetterQuality(t *testing.T) {
	p := hdProfile(t)
	existing := LibraryFile{
		MediaUnitID: "tvdb:153021/s11e08",
		Quality:     quality.NewTag(quality.SourceBluRay, 1080, false, false),
	}
	pol := Policy{Profile: p, Library: []LibraryFile{existing}}

	t.Run("worse candidate rejected", func(t *testing.T) {
		rel := torrentRelease(quality.NewTag(quality.SourceHDTV, 720, false, false), 50)
		rel.MediaUnitID = existing.MediaUnitID
		if !HasPermanent(Evaluate(rel, pol)) {
			t.Error("want permanent rejection for equal-or-better existing file")
		}
	})

	t.Run("different media unit untouched", func(t *testing.T) {
		rel := torrentRelease(quality.NewTag(quality.SourceHDTV, 720, false, false), 50)
		rel.MediaUnitID = "tvdb:153021/s11e09"
		if HasPermanent(Evaluate(rel, pol)) {
			t.Error("rejection fired for unrelated media unit")
		}
	})
}

func TestSizeExceedsMaximum(t *testing.T) {
	p := hdProfile(t)
	rel := torrentRelease(quality.NewTag(quality.SourceWEBDL, 1080, false, false), 50)
	rel.SizeMB = 25000

	rejs := Evaluate(rel, Policy{Profile: p})
	if !HasPermanent(rejs) {
		t.Errorf("rejections = %v, want permanent size rejection", rejs)
	}
}

func TestBelowMinimumSeedersIsTemporary(t *testing.T) {
	p := hdProfile(t)
	rel := torrentRelease(quality.NewTag(quality.SourceWEBDL, 1080, false, false), 2)

	rejs := Evaluate(rel, Policy{Profile: p})
	if len(rejs) != 1 || rejs[0].Kind != Temporary {
		t.Fatalf("rejections = %v, want one temporary rejection", rejs)
	}
	if HasPermanent(rejs) {
		t.Error("seeder shortfall must not be permanent")
	}
}

func TestBlocklisted(t *testing.T) {
	p := hdProfile(t)
	rel := torrentRelease(quality.NewTag(quality.SourceWEBDL, 1080, false, false), 50)
	rel.Blocklisted = true

	if !HasPermanent(Evaluate(rel, Policy{Profile: p})) {
		t.Error("blocklisted release must be permanently rejected")
	}
}

func TestTermRestrictions(t *testing.T) {
	cfg := &profile.Config{
		Profiles: []profile.QualityProfile{{
			Name:      "strict",
			Qualities: []string{"1080p web-dl"},
			Required:  []string{"AMZN"},
			Forbidden: []string{"CAM"},
		}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	pol := Policy{Profile: cfg.Profile("strict")}

	tag := quality.NewTag(quality.SourceWEBDL, 1080, false, false)

	t.Run("missing required term", func(t *testing.T) {
		rel := &Release{Parsed: &parser.ParsedRelease{RawTitle: "Show.S01E01.1080p.WEB-DL-GRP", Quality: tag}}
		rejs := Evaluate(rel, pol)
		if len(rejs) != 1 || rejs[0].Kind != UserPolicy {
			t.Fatalf("rejections = %v, want one user-policy rejection", rejs)
		}
	})

	t.Run("forbidden term present", func(t *testing.T) {
		rel := &Release{Parsed: &parser.ParsedRelease{RawTitle: "Show.S01E01.AMZN.CAM.1080p.WEB-DL", Quality: tag}}
		rejs := Evaluate(rel, pol)
		if len(rejs) != 1 || rejs[0].Kind != UserPolicy {
			t.Fatalf("rejections = %v, want one user-policy rejection", rejs)
		}
	})

	t.Run("satisfied", func(t *testing.T) {
		rel := &Release{Parsed: &parser.ParsedRelease{RawTitle: "Show.S01E01.1080p.AMZN.WEB-DL-GRP", Quality: tag}}
		if rejs := Evaluate(rel, pol); len(rejs) != 0 {
			t.Errorf("rejections = %v, want none", rejs)
		}
	})
}

func TestUsenetRetention(t *testing.T) {
	p := hdProfile(t)
	tag := quality.NewTag(quality.SourceWEBDL, 1080, false, false)

	old := &Release{
		Parsed:   &parser.ParsedRelease{RawTitle: "x", Quality: tag},
		Protocol: scoring.ProtocolUsenet,
		Age:      1600 * 24 * time.Hour,
	}
	if !HasPermanent(Evaluate(old, Policy{Profile: p})) {
		t.Error("release beyond retention must be permanently rejected")
	}

	fresh := &Release{
		Parsed:   &parser.ParsedRelease{RawTitle: "x", Quality: tag},
		Protocol: scoring.ProtocolUsenet,
		Age:      100 * 24 * time.Hour,
	}
	if len(Evaluate(fresh, Policy{Profile: p})) != 0 {
		t.Error("release within retention must pass")
	}
}

func TestMultipleRejectionsAccumulate(t *testing.T) {
	p := hdProfile(t)
	rel := torrentRelease(quality.NewTag(quality.SourceRemux, 2160, false, false), 2)
	rel.SizeMB = 50000
	rel.Blocklisted = true

	rejs := Evaluate(rel, Policy{Profile: p})
	if len(rejs) < 3 {
		t.Errorf("rejections = %d, want at least 3 independent rules firing", len(rejs))
	}
}
