// Package render writes idea packs and trending reports to static files.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/chyiyaqing/ideapack/internal/canon"
	"github.com/chyiyaqing/ideapack/internal/generator"
)

const (
	PackJSON     = "latest.json"
	PackText     = "latest.txt"
	PackMarkdown = "latest.md"
	PackHTML     = "index.html"
)

// WritePack writes the idea list as JSON, plain text, Markdown and an
// interactive HTML page into dir. Files keep the order of ideas.
func WritePack(dir string, ideas []generator.Idea, c canon.Canon, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if ideas == nil {
		ideas = []generator.Idea{}
	}

	data, err := json.MarshalIndent(ideas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ideas: %w", err)
	}

	page, err := PackPage(c, len(ideas), now)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		PackJSON:     data,
		PackText:     []byte(Transcript(ideas, c)),
		PackMarkdown: []byte(Markdown(ideas, c, now)),
		PackHTML:     page,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Transcript renders the flat text file: canon header, then one block per
// idea.
func Transcript(ideas []generator.Idea, c canon.Canon) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CAT CANON — %s: %s\n", c.Name, c.OneLiner)
	sb.WriteString(c.ContinuityRules() + "\n\n")
	for i, it := range ideas {
		fmt.Fprintf(&sb, "#%d — %s\n%s\n---\n", i+1, it.Title, it.PromptText)
	}
	return sb.String()
}

func Markdown(ideas []generator.Idea, c canon.Canon, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Idea Pack (%s)\n\n", c.Name, now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "> %s\n\n", c.OneLiner)
	for i, it := range ideas {
		fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, it.Title)
		fmt.Fprintf(&sb, "*%ds, %s, score %d*\n\n", it.DurationSeconds, it.Style, it.Score)
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", it.PromptText)
	}
	return sb.String()
}

var packTmpl = template.Must(template.New("pack").Parse(packHTML))

const packHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} Idea Pack ({{.Generated}})</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;max-width:900px;margin:24px auto;padding:0 16px}
.card{border:1px solid #ddd;border-radius:12px;padding:16px;margin:12px 0}
button{padding:8px 12px;border-radius:10px;border:1px solid #ccc;cursor:pointer}
#counter{font-weight:600}
.small{color:#444;font-size:13px}
pre{white-space:pre-wrap}
</style>
</head>
<body>
<h1>{{.Name}} Idea Pack ({{.Generated}})</h1>
<div class="small">{{.Notes}}</div>
<p>Click <b>Copy Next</b>, then paste into the video tool and hit Generate. Repeat.</p>
<p>Remaining: <span id="counter">{{.Count}}</span></p>
<p id="trendInfo" class="small"></p>
<div id="controls" class="card">
  <button id="copyBtn">Copy Next</button>
  <a href="latest.txt" download style="margin-left:8px">Download .txt</a>
</div>
<div id="list"></div>
<script>
let ideas = [];
let idx = 0;
async function load() {
  const r = await fetch('latest.json');
  ideas = await r.json();
  idx = 0;
  updateCounter();
  const info = ideas.length ? ideas[0].trend_note : null;
  document.getElementById('trendInfo').textContent = (info && info.used_seeds)
    ? 'Trending influence ON: settings: ' + (info.setting_pool || []).join(', ') + ' | formats: ' + (info.format_pool || []).join(', ')
    : 'Trending influence OFF (defaults only).';
  const list = document.getElementById('list');
  list.innerHTML = '';
  ideas.forEach(function (it, i) {
    const card = document.createElement('div');
    card.className = 'card';
    const head = document.createElement('b');
    head.textContent = '#' + (i + 1) + ' ' + it.title;
    const pre = document.createElement('pre');
    pre.textContent = it.prompt_text;
    card.appendChild(head);
    card.appendChild(pre);
    list.appendChild(card);
  });
}
function updateCounter() {
  document.getElementById('counter').textContent = String(ideas.length - idx);
}
async function copyNext() {
  if (idx >= ideas.length) return;
  await navigator.clipboard.writeText(ideas[idx].prompt_text);
  idx++;
  updateCounter();
}
document.getElementById('copyBtn').addEventListener('click', copyNext);
load();
</script>
</body>
</html>`

type packPage struct {
	Name      string
	Generated string
	Notes     template.HTML
	Count     int
}

// PackPage renders index.html. The idea list itself is fetched by the page
// from latest.json.
func PackPage(c canon.Canon, count int, now time.Time) ([]byte, error) {
	notes, err := markdownToHTML(fmt.Sprintf("**Canon:** %s\n\n%s\n", c.OneLiner, c.ContinuityRules()))
	if err != nil {
		return nil, fmt.Errorf("render canon notes: %w", err)
	}

	var buf bytes.Buffer
	err = packTmpl.Execute(&buf, packPage{
		Name:      c.Name,
		Generated: now.Format("2006-01-02 15:04"),
		Notes:     notes,
		Count:     count,
	})
	if err != nil {
		return nil, fmt.Errorf("render pack page: %w", err)
	}
	return buf.Bytes(), nil
}

// markdownToHTML converts trusted Markdown; raw HTML in the input is
// dropped by goldmark's default renderer.
func markdownToHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
