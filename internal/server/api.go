package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chyiyaqing/ideapack/internal/store"
)

// JSON response types for the REST API.

type apiRun struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	StartedAt   string `json:"started_at"`
	RecordCount int    `json:"record_count"`
	NotifiedAt  string `json:"notified_at,omitempty"`
}

type apiRunsResponse struct {
	Window string   `json:"window"`
	Count  int      `json:"count"`
	Runs   []apiRun `json:"runs"`
}

type apiSeedsResponse struct {
	RunID     string              `json:"run_id"`
	CreatedAt string              `json:"created_at"`
	Patterns  map[string][]string `json:"patterns"`
}

type apiIdeasResponse struct {
	RunID string             `json:"run_id"`
	Count int                `json:"count"`
	Ideas []store.StoredIdea `json:"ideas"`
}

type apiError struct {
	Error string `json:"error"`
}

// GET /api/seeds
func (s *Server) handleAPISeeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	snap, err := s.db.LatestSeeds()
	if err != nil {
		log.Printf("ERROR: api latest seeds: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load seeds"})
		return
	}
	if snap == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "no harvest yet"})
		return
	}

	writeJSON(w, http.StatusOK, apiSeedsResponse{
		RunID:     snap.RunID,
		CreatedAt: fmtTimeRFC3339(snap.CreatedAt),
		Patterns:  snap.Patterns,
	})
}

// GET /api/runs?window=24h|3days|7days|all&limit=20
func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	window := parseWindow(r.URL.Query().Get("window"))

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := s.db.RecentRuns(window, limit)
	if err != nil {
		log.Printf("ERROR: api list runs: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load runs"})
		return
	}

	items := make([]apiRun, len(runs))
	for i, run := range runs {
		items[i] = toAPIRun(run)
	}

	writeJSON(w, http.StatusOK, apiRunsResponse{
		Window: window,
		Count:  len(items),
		Runs:   items,
	})
}

// GET /api/runs/{id}/ideas, /api/runs/{id}/sources, /api/runs/{id}/records
func (s *Server) handleAPIRunDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	id, part, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/runs/"), "/")
	if !ok || uuid.Validate(id) != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid run id"})
		return
	}

	switch part {
	case "ideas":
		ideas, err := s.db.IdeasForRun(id)
		if err != nil {
			log.Printf("ERROR: api ideas for run %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load ideas"})
			return
		}
		writeJSON(w, http.StatusOK, apiIdeasResponse{RunID: id, Count: len(ideas), Ideas: ideas})
	case "sources":
		results, err := s.db.SourceResults(id)
		if err != nil {
			log.Printf("ERROR: api sources for run %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load sources"})
			return
		}
		writeJSON(w, http.StatusOK, results)
	case "records":
		records, err := s.db.RecordsForRun(id)
		if err != nil {
			log.Printf("ERROR: api records for run %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load records"})
			return
		}
		writeJSON(w, http.StatusOK, records)
	default:
		writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
	}
}

func toAPIRun(r store.Run) apiRun {
	out := apiRun{
		ID:          r.ID,
		Kind:        string(r.Kind),
		StartedAt:   fmtTimeRFC3339(r.StartedAt),
		RecordCount: r.RecordCount,
	}
	if r.NotifiedAt != nil {
		out.NotifiedAt = fmtTimeRFC3339(*r.NotifiedAt)
	}
	return out
}

func fmtTimeRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
