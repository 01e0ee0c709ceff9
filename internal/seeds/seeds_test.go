package seeds

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyiyaqing/ideapack/internal/source"
)

func TestExtract_EmptyPoolFallsBack(t *testing.T) {
	vocab := DefaultVocabulary()
	got := Extract(nil, vocab)

	require.Len(t, got, 4)
	for _, cat := range vocab {
		assert.Equal(t, cat.Fallback, got[cat.Name], cat.Name)
		assert.NotEmpty(t, got[cat.Name])
	}
}

func TestExtract_RanksByCountThenFirstSeen(t *testing.T) {
	pool := []source.ContentRecord{
		{Title: "Taxi to the office", Description: "elevator then office again"},
		{Title: "Lobby run", Tags: []string{"Taxi"}},
		{Title: "POV: banana on a chair", Description: "fake note swap"},
		{Title: "Corridor", Description: "subway bodega boardroom"},
	}

	got := Extract(pool, DefaultVocabulary())

	// office=2, taxi=2 (taxi seen first), elevator, lobby, corridor, subway each 1.
	assert.Equal(t, []string{"taxi", "office", "elevator", "lobby", "corridor", "subway"}, got[Settings])
	assert.Equal(t, []string{"banana", "chair", "note"}, got[Objects])
	assert.Equal(t, []string{"POV-style cold open"}, got[Hooks])
	assert.Equal(t, []string{"prank / bait-and-switch"}, got[Formats])
}

func TestExtract_PresenceRulesCountOncePerRecord(t *testing.T) {
	pool := []source.ContentRecord{
		{Title: "meme meme meme reaction"},
		{Title: "duet reaction meme"},
		{Title: "when your boss asks"},
	}
	got := Extract(pool, DefaultVocabulary())
	assert.Equal(t, []string{"prank / bait-and-switch"}, got[Formats])
	// No record mentions pov, so hooks fall back.
	assert.Equal(t, []string{"POV-style cold open"}, got[Hooks])
}

func TestDefaultVocabulary_PresenceRules(t *testing.T) {
	for _, cat := range DefaultVocabulary() {
		switch cat.Name {
		case Hooks:
			assert.Equal(t, []Rule{{Label: "POV-style cold open", Terms: []string{"pov"}}}, cat.Rules)
		case Formats:
			require.Len(t, cat.Rules, 1)
			assert.Equal(t, "prank / bait-and-switch", cat.Rules[0].Label)
			assert.Equal(t, []string{"prank", "trick", "swap", "fake", "sticker", "duet", "reaction", "meme"}, cat.Rules[0].Terms)
			assert.False(t, cat.Rules[0].EachMatch)
		}
	}
}

func TestExtract_TopKLimit(t *testing.T) {
	pool := []source.ContentRecord{{
		Title: "office elevator subway boardroom taxi bodega lobby corridor coffee cart",
	}}
	got := Extract(pool, DefaultVocabulary())
	assert.Len(t, got[Settings], 6)
}

func TestExtract_Deterministic(t *testing.T) {
	pool := []source.ContentRecord{
		{Title: "box badge bagel", Description: "briefcase"},
		{Title: "badge box", Tags: []string{"coffee", "bagel"}},
	}
	first := Extract(pool, DefaultVocabulary())
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, Extract(pool, DefaultVocabulary())); diff != "" {
			t.Fatalf("extraction not deterministic (-first +again):\n%s", diff)
		}
	}
	assert.Equal(t, []string{"box", "badge", "bagel", "briefcase", "coffee"}, first[Objects])
}

func TestExtract_FallbackIsCopied(t *testing.T) {
	vocab := DefaultVocabulary()
	got := Extract(nil, vocab)
	got[Settings][0] = "mutated"
	assert.Equal(t, "office", vocab[1].Fallback[0])
}

func TestIndexAll(t *testing.T) {
	assert.Equal(t, []int{0, 4}, indexAll("box box", "box"))
	assert.Equal(t, []int{0}, indexAll("aaaa", "aaa"))
	assert.Nil(t, indexAll("abc", ""))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seeds.json")
	want := File{
		GeneratedFrom: 3,
		GeneratedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Patterns:      Patterns{Settings: {"lobby"}},
	}
	require.NoError(t, Save(path, want))

	got, status := Load(path)
	assert.Equal(t, StatusLoaded, status)
	require.NotNil(t, got)
	assert.Equal(t, want.GeneratedFrom, got.GeneratedFrom)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, want.Patterns, got.Patterns)
}

func TestLoad_MissingAndMalformed(t *testing.T) {
	dir := t.TempDir()

	got, status := Load(filepath.Join(dir, "absent.json"))
	assert.Nil(t, got)
	assert.Equal(t, StatusMissing, status)

	for name, body := range map[string]string{
		"truncated.json": `{"patterns": {"settings": [`,
		"array.json":     `["lobby"]`,
	} {
		bad := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(bad, []byte(body), 0o644))
		got, status = Load(bad)
		assert.Nil(t, got, name)
		assert.Equal(t, StatusMalformed, status, name)
	}

	noPatterns := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(noPatterns, []byte(`{"generated_from": 0}`), 0o644))
	got, status = Load(noPatterns)
	assert.Equal(t, StatusLoaded, status)
	assert.NotNil(t, got.Patterns)
	assert.Empty(t, got.Patterns)
}

func TestLoad_TolerantFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Patterns
	}{
		{
			name: "generated_from as string",
			body: `{"generated_from": "12", "patterns": {"settings": ["lobby"]}}`,
			want: Patterns{Settings: {"lobby"}},
		},
		{
			name: "generated_at not RFC3339",
			body: `{"generated_at": "2025-01-01 10:00", "patterns": {"settings": ["lobby"]}}`,
			want: Patterns{Settings: {"lobby"}},
		},
		{
			name: "non-list key under patterns",
			body: `{"patterns": {"settings": ["lobby"], "notes": "hand edited"}}`,
			want: Patterns{Settings: {"lobby"}},
		},
		{
			name: "list with a non-string element",
			body: `{"patterns": {"settings": ["lobby"], "objects": ["box", 3]}}`,
			want: Patterns{Settings: {"lobby"}},
		},
		{
			name: "patterns not an object",
			body: `{"patterns": ["lobby"]}`,
			want: Patterns{},
		},
	}

	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("seeds-%d.json", i))
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			got, status := Load(path)
			require.Equal(t, StatusLoaded, status)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got.Patterns); diff != "" {
				t.Errorf("patterns mismatch (-want +got):\n%s", diff)
			}
			assert.Zero(t, got.GeneratedFrom)
			assert.True(t, got.GeneratedAt.IsZero())
		})
	}
}

func TestLoad_KeepsSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.json")
	body := `{"generated_from": 4, "sources": {"youtube": "ok", "reddit": 1}, "patterns": {}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	got, status := Load(path)
	require.Equal(t, StatusLoaded, status)
	assert.Equal(t, 4, got.GeneratedFrom)
	assert.Equal(t, map[string]string{"youtube": "ok"}, got.Sources)
}
