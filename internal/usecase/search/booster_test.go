package search

import (
	"testing"

	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
)

func boosted(t *testing.T, c domsearch.Candidate, query string) domsearch.Candidate {
	t.Helper()
	candidates := []domsearch.Candidate{c}
	boostCandidates(candidates, query, testRegistry(t), 0.15, 2.0)
	return candidates[0]
}

func TestBoost_NoMatchKeepsUnitMultiplier(t *testing.T) {
	c := candidate("a", 0.2)
	c.MetadataValues = map[string][]string{"md_pricing": {"paid"}}

	got := boosted(t, c, "learn tajweed rules")
	if !closeTo(got.Boost, 1.0) {
		t.Errorf("expected boost 1.0, got %g", got.Boost)
	}
	if !closeTo(got.Score, 0.8) {
		t.Errorf("expected score 0.8, got %g", got.Score)
	}
	if len(got.MatchReasons) != 0 {
		t.Errorf("expected no match reasons, got %+v", got.MatchReasons)
	}
}

func TestBoost_EachMatchAddsIncrement(t *testing.T) {
	c := candidate("a", 0.2)
	c.MetadataValues = map[string][]string{
		"md_pricing":         {"free"},
		"md_target_audience": {"kids"},
	}

	got := boosted(t, c, "free quran app for kids")
	if !closeTo(got.Boost, 1.30) {
		t.Errorf("expected boost 1.30 for two matches, got %g", got.Boost)
	}
	if len(got.MatchReasons) != 2 {
		t.Fatalf("expected 2 match reasons, got %d", len(got.MatchReasons))
	}
	// Reasons follow registry type order.
	if got.MatchReasons[0].Type != "pricing" || got.MatchReasons[1].Type != "target-audience" {
		t.Errorf("unexpected reason order: %+v", got.MatchReasons)
	}
}

func TestBoost_CapClamps(t *testing.T) {
	reg := metadata.NewRegistry(
		[]metadata.Type{{Name: "tags", MultiValued: true, Active: true}},
		[]metadata.Option{
			{TypeName: "tags", Value: "quran", LabelEN: "Quran", Active: true},
			{TypeName: "tags", Value: "tajweed", LabelEN: "Tajweed", Active: true},
			{TypeName: "tags", Value: "hifz", LabelEN: "Hifz", Active: true},
			{TypeName: "tags", Value: "tafsir", LabelEN: "Tafsir", Active: true},
			{TypeName: "tags", Value: "audio", LabelEN: "Audio", Active: true},
			{TypeName: "tags", Value: "offline", LabelEN: "Offline", Active: true},
			{TypeName: "tags", Value: "arabic", LabelEN: "Arabic", Active: true},
			{TypeName: "tags", Value: "kids", LabelEN: "Kids", Active: true},
		},
	)
	c := candidate("a", 0.5)
	c.MetadataValues = map[string][]string{
		"md_tags": {"quran", "tajweed", "hifz", "tafsir", "audio", "offline", "arabic", "kids"},
	}

	candidates := []domsearch.Candidate{c}
	boostCandidates(candidates, "quran tajweed hifz tafsir audio offline arabic kids", reg, 0.15, 2.0)

	got := candidates[0]
	if !closeTo(got.Boost, 2.0) {
		t.Errorf("expected boost clamped at 2.0, got %g", got.Boost)
	}
	if !closeTo(got.Score, 0.5*2.0) {
		t.Errorf("expected score 1.0, got %g", got.Score)
	}
	if len(got.MatchReasons) != 8 {
		t.Errorf("all matches are reported even past the cap, got %d", len(got.MatchReasons))
	}
}

func TestBoost_ArabicLabelMatches(t *testing.T) {
	c := candidate("a", 0.3)
	c.MetadataValues = map[string][]string{"md_pricing": {"free"}}

	got := boosted(t, c, "تطبيق مجاني للقرآن")
	if !closeTo(got.Boost, 1.15) {
		t.Errorf("expected Arabic label match to boost, got %g", got.Boost)
	}
}

func TestBoost_ArabicLabelWordMatches(t *testing.T) {
	reg := metadata.NewRegistry(
		[]metadata.Type{{Name: "features", MultiValued: true, Active: true}},
		[]metadata.Option{{
			TypeName: "features", Value: "audio-player",
			LabelEN: "Audio Player", LabelAR: "مشغل الصوت", Active: true,
		}},
	)
	c := candidate("a", 0.3)
	c.MetadataValues = map[string][]string{"md_features": {"audio-player"}}

	// Query mentions one word of the two-word Arabic label.
	candidates := []domsearch.Candidate{c}
	boostCandidates(candidates, "تطبيق مشغل للقرآن", reg, 0.15, 2.0)

	got := candidates[0]
	if !closeTo(got.Boost, 1.15) {
		t.Errorf("expected a single Arabic label word to boost, got %g", got.Boost)
	}
	if len(got.MatchReasons) != 1 || got.MatchReasons[0].Value != "audio-player" {
		t.Errorf("unexpected match reasons: %+v", got.MatchReasons)
	}
}

func TestBoost_CaseInsensitive(t *testing.T) {
	c := candidate("a", 0.3)
	c.MetadataValues = map[string][]string{"md_pricing": {"free"}}

	got := boosted(t, c, "FREE apps only")
	if !closeTo(got.Boost, 1.15) {
		t.Errorf("expected case-insensitive match, got boost %g", got.Boost)
	}
}

func TestBoost_UnknownValueMatchesRawOnly(t *testing.T) {
	c := candidate("a", 0.3)
	c.MetadataValues = map[string][]string{"md_pricing": {"freemium"}}

	got := boosted(t, c, "looking for freemium options")
	if !closeTo(got.Boost, 1.15) {
		t.Errorf("stale vocabulary value must still match on raw value, got %g", got.Boost)
	}
	if got.MatchReasons[0].LabelEN != "" {
		t.Errorf("unknown option must carry no labels, got %+v", got.MatchReasons[0])
	}
}

func TestQueryMentions_DashSplitValue(t *testing.T) {
	if !queryMentions("apps for new muslims here", "new-muslims", metadata.Option{}) {
		t.Error("dash-separated value must match its space-split form")
	}
	if queryMentions("something else", "new-muslims", metadata.Option{}) {
		t.Error("unrelated query must not match")
	}
}
