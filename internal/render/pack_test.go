package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyiyaqing/ideapack/internal/canon"
	"github.com/chyiyaqing/ideapack/internal/generator"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleIdeas() []generator.Idea {
	return []generator.Idea{
		{Title: "Baxter vs. the Lobby Chair Swap", PromptText: "title: one\nbody", DurationSeconds: 12, Style: "2D", Score: 5},
		{Title: "Baxter vs. the Kitchen Prank", PromptText: "title: two\nbody", DurationSeconds: 18, Style: "3D", Score: 3},
	}
}

func TestWritePack_WritesAllFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	require.NoError(t, WritePack(dir, sampleIdeas(), canon.Default(), fixedNow))

	for _, name := range []string{PackJSON, PackText, PackMarkdown, PackHTML} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, PackJSON))
	require.NoError(t, err)
	var got []generator.Idea
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Baxter vs. the Lobby Chair Swap", got[0].Title)
	assert.Contains(t, string(data), `"duration_s": 12`)
}

func TestWritePack_EmptyListIsArray(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WritePack(dir, nil, canon.Default(), fixedNow))

	data, err := os.ReadFile(filepath.Join(dir, PackJSON))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestTranscript(t *testing.T) {
	c := canon.Default()
	out := Transcript(sampleIdeas(), c)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "CAT CANON — "+c.Name+": "+c.OneLiner, lines[0])
	assert.Equal(t, c.ContinuityRules(), lines[1])
	assert.Contains(t, out, "#1 — Baxter vs. the Lobby Chair Swap\ntitle: one\nbody\n---\n")
	assert.Contains(t, out, "#2 — Baxter vs. the Kitchen Prank\n")
	assert.Less(t, strings.Index(out, "#1 —"), strings.Index(out, "#2 —"))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleIdeas(), canon.Default(), fixedNow)
	assert.True(t, strings.HasPrefix(md, "# Baxter von Pounce Idea Pack (2026-03-01 09:30)"))
	assert.Contains(t, md, "## 2. Baxter vs. the Kitchen Prank")
	assert.Contains(t, md, "```\ntitle: one\nbody\n```")
}

func TestPackPage(t *testing.T) {
	c := canon.Default()
	c.OneLiner = "A cat <script>alert(1)</script> with **style**"

	page, err := PackPage(c, 7, fixedNow)
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, `id="copyBtn"`)
	assert.Contains(t, html, "Copy Next")
	assert.Contains(t, html, `<span id="counter">7</span>`)
	assert.Contains(t, html, "fetch('latest.json')")
	assert.Contains(t, html, "Trending influence ON")
	assert.Contains(t, html, "<strong>style</strong>")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
