// Package source fetches trending content metadata from public APIs and
// flattens it into a pool of ContentRecords.
package source

import (
	"context"
	"fmt"
	"log"
)

// ContentRecord is one piece of trending content, normalized for pattern
// extraction.
type ContentRecord struct {
	Source      string   `json:"source"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"desc,omitempty"`
}

// Source is a single best-effort trending feed.
type Source interface {
	Name() string
	// Enabled reports whether the source has what it needs (credentials,
	// configuration) to attempt a fetch.
	Enabled() bool
	Fetch(ctx context.Context) ([]ContentRecord, error)
}

// Status classifies the outcome of fetching one source.
type Status string

const (
	StatusFetched  Status = "fetched"
	StatusEmpty    Status = "empty"
	StatusDisabled Status = "disabled"
	StatusFailed   Status = "failed"
)

// Result is the outcome of one source in a harvest. Records is empty unless
// Status is StatusFetched.
type Result struct {
	Source  string
	Status  Status
	Records []ContentRecord
	Err     error
}

func (r Result) String() string {
	switch r.Status {
	case StatusFetched:
		return fmt.Sprintf("%s: %d records", r.Source, len(r.Records))
	case StatusFailed:
		return fmt.Sprintf("%s: failed: %v", r.Source, r.Err)
	default:
		return fmt.Sprintf("%s: %s", r.Source, r.Status)
	}
}

// StatusError is returned when an API answers with a non-200 status.
type StatusError struct {
	Target string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.Target, e.Code)
}

// Harvest queries each source in order and concatenates their records.
// A failing or disabled source contributes nothing; Harvest itself never
// fails.
func Harvest(ctx context.Context, sources []Source) ([]ContentRecord, []Result) {
	pool := []ContentRecord{}
	results := make([]Result, 0, len(sources))

	for _, src := range sources {
		res := fetchOne(ctx, src)
		switch res.Status {
		case StatusFailed:
			log.Printf("WARNING: source %s: %v", res.Source, res.Err)
		case StatusDisabled:
			log.Printf("Source %s disabled, skipping", res.Source)
		default:
			log.Printf("Source %s: %d records", res.Source, len(res.Records))
		}
		pool = append(pool, res.Records...)
		results = append(results, res)
	}
	return pool, results
}

func fetchOne(ctx context.Context, src Source) Result {
	res := Result{Source: src.Name()}
	if !src.Enabled() {
		res.Status = StatusDisabled
		return res
	}

	records, err := src.Fetch(ctx)
	switch {
	case err != nil:
		res.Status = StatusFailed
		res.Err = err
	case len(records) == 0:
		res.Status = StatusEmpty
	default:
		res.Status = StatusFetched
		res.Records = records
	}
	return res
}
