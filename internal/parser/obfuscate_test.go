package parser

import "testing"

func TestIsObfuscatedTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  bool
	}{
		{"md5 hex", "30e2dc4173fc4798bbe5fd40137ed621", true},
		{"uuid", "675d7595-3e9b-4602-9464-6424b664c6d7", true},
		{"uuid underscores", "675d7595_3e9b_4602_9464_6424b664c6d7", true},
		{"random alphanumeric", "RTVA3rFvM11jjtr6pdNPpUDg2", true},
		{"scene name", "The.Walking.Dead.S11E08.1080p.WEB-DL-NTb", false},
		{"plain title", "Breaking Bad", false},
		{"short string", "abc123", false},
		{"movie with year", "Inception.2010.1080p.BluRay.x264-GRP", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsObfuscatedTitle(tc.title); got != tc.want {
				t.Errorf("IsObfuscatedTitle(%q) = %v, want %v", tc.title, got, tc.want)
			}
		})
	}
}

func TestParseObfuscatedFallsBack(t *testing.T) {
	p := New()
	rel := p.Parse("30e2dc4173fc4798bbe5fd40137ed621.mkv")

	if rel.ParserUsed != "fallback" {
		t.Fatalf("ParserUsed = %q, want fallback", rel.ParserUsed)
	}
	if rel.Confidence != 0 {
		t.Errorf("Confidence = %d, want 0", rel.Confidence)
	}
}
