package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/chyiyaqing/ideapack/internal/trending"
)

const (
	TrendingJSON = "trending.json"
	TrendingHTML = "trending.html"
)

var trendingTmpl = template.Must(template.New("trending").Funcs(template.FuncMap{
	"comma": humanize.Comma,
}).Parse(trendingPage))

const trendingPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Top 10 Funny: Last 24h</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;max-width:1000px;margin:24px auto;padding:0 16px}
h1{margin:0 0 8px} .small{color:#555;font-size:13px}
.grid{display:grid;grid-template-columns:1fr;gap:12px}
.card{display:flex;gap:12px;border:1px solid #ddd;border-radius:12px;padding:12px;align-items:flex-start}
.card img{width:160px;height:90px;object-fit:cover;border-radius:8px;border:1px solid #ccc}
.section{margin-top:24px}
</style>
</head>
<body>
<h1>Top 10 Funny: Last 24h</h1>
<p class="small">Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}. YouTube sorted by views; Reddit sorted by video links first, then score.</p>

<div class="section">
  <h2>YouTube (most viewed, short videos, last 24h)</h2>
  <div class="grid">
  {{- range .YouTube}}
    <div class="card">
      <img src="{{.Thumb}}" alt="thumb">
      <div>
        <b>{{.Title}}</b><br>
        <span class="small">Channel: {{.Channel}} • Views: {{comma .Views}}</span><br>
        <a href="{{.URL}}" target="_blank">Open video</a>
      </div>
    </div>
  {{- else}}
    <p>No YouTube key or no results.</p>
  {{- end}}
  </div>
</div>

<div class="section">
  <h2>Reddit (top today)</h2>
  <div class="grid">
  {{- range .Reddit}}
    <div class="card">
      <div>
        <b>{{.Title}}</b><br>
        <span class="small">r/{{.Subreddit}} • Score: {{comma .Score}} • {{if .IsVideo}}video-ish{{else}}{{.Domain}}{{end}}</span><br>
        <a href="{{.URL}}" target="_blank">Open post</a>
      </div>
    </div>
  {{- else}}
    <p>No Reddit results.</p>
  {{- end}}
  </div>
</div>
</body>
</html>`

// WriteTrending writes trending.json and trending.html into dir.
func WriteTrending(dir string, rep trending.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trending: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, TrendingJSON), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", TrendingJSON, err)
	}

	var buf bytes.Buffer
	if err := trendingTmpl.Execute(&buf, rep); err != nil {
		return fmt.Errorf("render trending page: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, TrendingHTML), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", TrendingHTML, err)
	}
	return nil
}
