// Package check verifies that API credentials are present and working.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chyiyaqing/ideapack/internal/source"
)

var (
	required = []string{"REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET", "REDDIT_USER_AGENT"}
	optional = []string{"YOUTUBE_API_KEY"}
)

// Checker prints a credential report and probes each configured API once.
type Checker struct {
	Getenv  func(string) string
	Reddit  *source.Reddit
	YouTube *source.YouTube
}

// Run writes the report to w and reports whether every check passed. The
// failure summary goes to errw. A missing optional variable is not a
// failure.
func (c *Checker) Run(ctx context.Context, w, errw io.Writer) bool {
	ok := true

	fmt.Fprintln(w, "Checking required secrets...")
	for _, name := range required {
		if !c.has(w, name) {
			ok = false
		}
	}
	fmt.Fprintln(w, "Optional:")
	for _, name := range optional {
		c.has(w, name)
	}

	if c.allSet(required...) && c.Reddit != nil {
		if !c.probeReddit(ctx, w) {
			ok = false
		}
	}
	if c.allSet(optional...) && c.YouTube != nil {
		if !c.probeYouTube(ctx, w) {
			ok = false
		}
	}

	if ok {
		fmt.Fprintln(w, "All checks passed.")
	} else {
		fmt.Fprintln(errw, "One or more checks failed. Fix your secrets and rerun.")
	}
	return ok
}

func (c *Checker) has(w io.Writer, name string) bool {
	set := c.Getenv(name) != ""
	state := "MISSING"
	if set {
		state = "SET"
	}
	fmt.Fprintf(w, "%s: %s\n", name, state)
	return set
}

func (c *Checker) allSet(names ...string) bool {
	for _, n := range names {
		if c.Getenv(n) == "" {
			return false
		}
	}
	return true
}

func (c *Checker) probeReddit(ctx context.Context, w io.Writer) bool {
	posts, err := c.Reddit.TopOfDay(ctx, "funny", 1)
	if err != nil {
		fmt.Fprintf(w, "Reddit API test: FAILED: %v\n", err)
		return false
	}
	if len(posts) == 0 {
		fmt.Fprintln(w, "Reddit API test: No items (still OK)")
		return true
	}
	fmt.Fprintln(w, "Reddit API test: OK")
	return true
}

func (c *Checker) probeYouTube(ctx context.Context, w io.Writer) bool {
	_, err := c.YouTube.MostPopular(ctx, 1)
	if err == nil {
		fmt.Fprintln(w, "YouTube API test: OK")
		return true
	}

	var se *source.StatusError
	if errors.As(err, &se) {
		fmt.Fprintf(w, "YouTube API test: HTTP %d\n", se.Code)
	} else {
		fmt.Fprintf(w, "YouTube API test: FAILED: %v\n", err)
	}
	return false
}
