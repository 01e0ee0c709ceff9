package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyiyaqing/ideapack/internal/generator"
	"github.com/chyiyaqing/ideapack/internal/seeds"
	"github.com/chyiyaqing/ideapack/internal/source"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveHarvest_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	started := time.Now().Add(-time.Hour).Truncate(time.Second)

	pool := []source.ContentRecord{
		{Source: "youtube", Title: "office prank", Tags: []string{"a", "b"}, Description: "desc"},
		{Source: "r/funny", Title: "lobby cat"},
	}
	results := []source.Result{
		{Source: "youtube", Status: source.StatusFetched, Records: pool[:1]},
		{Source: "reddit", Status: source.StatusFailed, Err: errors.New("boom")},
		{Source: "google-trends", Status: source.StatusDisabled},
	}
	patterns := seeds.Patterns{seeds.Settings: {"lobby", "office"}, seeds.Hooks: {"POV-style cold open"}}

	id, err := s.SaveHarvest(started, pool, results, patterns)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	records, err := s.RecordsForRun(id)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a", "b"}, records[0].Tags)
	assert.Equal(t, "desc", records[0].Description)
	assert.Empty(t, records[1].Tags)

	srs, err := s.SourceResults(id)
	require.NoError(t, err)
	want := []SourceResult{
		{Source: "youtube", Status: "fetched", Records: 1},
		{Source: "reddit", Status: "failed", Error: "boom"},
		{Source: "google-trends", Status: "disabled"},
	}
	if diff := cmp.Diff(want, srs); diff != "" {
		t.Errorf("source results mismatch (-want +got):\n%s", diff)
	}

	snap, err := s.LatestSeeds()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, id, snap.RunID)
	if diff := cmp.Diff(patterns, snap.Patterns); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestLatestSeeds_Empty(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.LatestSeeds()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestLatestSeeds_NewestWins(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	_, err := s.SaveHarvest(now.Add(-2*time.Hour), nil, nil, seeds.Patterns{seeds.Settings: {"old"}})
	require.NoError(t, err)
	newID, err := s.SaveHarvest(now.Add(-time.Hour), nil, nil, seeds.Patterns{seeds.Settings: {"new"}})
	require.NoError(t, err)

	snap, err := s.LatestSeeds()
	require.NoError(t, err)
	assert.Equal(t, newID, snap.RunID)
	assert.Equal(t, []string{"new"}, snap.Patterns[seeds.Settings])
}

func TestSaveIdeas_RankOrder(t *testing.T) {
	s := newTestStore(t)
	ideas := []generator.Idea{
		{Title: "first", Score: 9, DurationSeconds: 12, PromptText: "p1"},
		{Title: "second", Score: 4, DurationSeconds: 18, PromptText: "p2"},
	}

	id, err := s.SaveIdeas(time.Now(), ideas)
	require.NoError(t, err)

	got, err := s.IdeasForRun(id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, StoredIdea{Rank: 1, Title: "first", Score: 9, DurationSeconds: 12, PromptText: "p1"}, got[0])
	assert.Equal(t, 2, got[1].Rank)

	none, err := s.IdeasForRun("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecentRuns(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	oldID, err := s.SaveIdeas(now.Add(-48*time.Hour), nil)
	require.NoError(t, err)
	harvestID, err := s.SaveHarvest(now.Add(-2*time.Hour), []source.ContentRecord{{Source: "x", Title: "y"}}, nil, seeds.Patterns{})
	require.NoError(t, err)
	genID, err := s.SaveIdeas(now.Add(-time.Hour), []generator.Idea{{Title: "t", PromptText: "p"}})
	require.NoError(t, err)

	runs, err := s.RecentRuns("24h", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, genID, runs[0].ID)
	assert.Equal(t, KindGenerate, runs[0].Kind)
	assert.Equal(t, 1, runs[0].RecordCount)
	assert.Equal(t, harvestID, runs[1].ID)
	assert.Equal(t, KindHarvest, runs[1].Kind)

	all, err := s.RecentRuns("all", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, oldID, all[2].ID)

	limited, err := s.RecentRuns("all", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = s.RecentRuns("1y", 10)
	assert.ErrorContains(t, err, "unsupported time window")
}

func TestMarkNotified(t *testing.T) {
	s := newTestStore(t)
	id, err := s.SaveIdeas(time.Now(), []generator.Idea{{Title: "t", PromptText: "p"}})
	require.NoError(t, err)

	runs, err := s.RecentRuns("all", 10)
	require.NoError(t, err)
	assert.Nil(t, runs[0].NotifiedAt)

	require.NoError(t, s.MarkNotified(id))

	runs, err = s.RecentRuns("all", 10)
	require.NoError(t, err)
	assert.NotNil(t, runs[0].NotifiedAt)
}
