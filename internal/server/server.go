package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/chyiyaqing/ideapack/internal/store"
)

var tmpl = template.Must(template.New("runs").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
}).Parse(runsHTML))

const runsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>ideapack - Runs</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f5f5f5; color: #333; }
  .container { max-width: 960px; margin: 0 auto; padding: 20px; }
  h1 { margin-bottom: 16px; font-size: 24px; }
  .tabs { display: flex; gap: 8px; margin-bottom: 24px; }
  .tabs a {
    padding: 8px 20px; border-radius: 6px; text-decoration: none;
    background: #e0e0e0; color: #555; font-weight: 500; font-size: 14px;
  }
  .tabs a.active { background: #1a73e8; color: #fff; }
  .tabs a:hover:not(.active) { background: #d0d0d0; }
  .card {
    background: #fff; border-radius: 8px; padding: 16px 20px; margin-bottom: 12px;
    box-shadow: 0 1px 3px rgba(0,0,0,0.08);
  }
  .card-header { display: flex; align-items: baseline; gap: 12px; }
  .kind { font-size: 13px; background: #e8f0fe; color: #1a73e8; padding: 2px 8px; border-radius: 4px; }
  .count { font-size: 13px; background: #fce8e6; color: #c5221f; padding: 2px 8px; border-radius: 4px; }
  .card a { font-size: 14px; color: #1a1a1a; }
  .meta { font-size: 12px; color: #aaa; margin-top: 8px; }
  .empty { text-align: center; padding: 60px 20px; color: #999; }
</style>
</head>
<body>
<div class="container">
  <h1>ideapack</h1>
  <div class="tabs">
    <a href="/index.html">Latest pack</a>
    <a href="/runs?window=24h" {{if eq .Window "24h"}}class="active"{{end}}>24h</a>
    <a href="/runs?window=7days" {{if eq .Window "7days"}}class="active"{{end}}>7 Days</a>
    <a href="/runs?window=all" {{if eq .Window "all"}}class="active"{{end}}>All</a>
  </div>
  {{if .Runs}}
  {{range .Runs}}
  <div class="card">
    <div class="card-header">
      <span class="kind">{{.Kind}}</span>
      <span class="count">{{.RecordCount}}</span>
      {{if eq .Kind "generate"}}<a href="/api/runs/{{.ID}}/ideas">ideas</a>{{else}}<a href="/api/runs/{{.ID}}/sources">sources</a> <a href="/api/runs/{{.ID}}/records">records</a>{{end}}
    </div>
    <div class="meta">{{.ID}} &middot; {{fmtTime .StartedAt}}{{if .NotifiedAt}} &middot; notified{{end}}</div>
  </div>
  {{end}}
  {{else}}
  <div class="empty">No runs in this time window.</div>
  {{end}}
</div>
</body>
</html>`

type pageData struct {
	Window string
	Runs   []store.Run
}

type Server struct {
	db     *store.Store
	outDir string
	srv    *http.Server
}

// New serves the generated files in outDir at / next to the run history
// and the JSON API.
func New(db *store.Store, outDir, addr string) *Server {
	s := &Server{db: db, outDir: outDir}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(outDir)))
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/runs", s.handleRuns)

	// REST API
	mux.HandleFunc("/api/seeds", s.handleAPISeeds)
	mux.HandleFunc("/api/runs", s.handleAPIRuns)
	mux.HandleFunc("/api/runs/", s.handleAPIRunDetail)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	log.Printf("HTTP server listening on %s (serving %s)", ln.Addr(), s.outDir)

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	if err := s.srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	window := parseWindow(r.URL.Query().Get("window"))

	runs, err := s.db.RecentRuns(window, 50)
	if err != nil {
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		log.Printf("ERROR: load runs: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, pageData{Window: window, Runs: runs}); err != nil {
		log.Printf("ERROR: render template: %v", err)
	}
}

func parseWindow(v string) string {
	switch v {
	case "24h", "3days", "7days", "all":
		return v
	default:
		return "7days"
	}
}
