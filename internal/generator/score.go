package generator

import (
	"context"
	"strings"
	"unicode/utf8"
)

var comedicKeywords = []string{"prank", "fake", "swap", "pov", "reveal", "escalation", "echo", "betrayal"}

// Heuristic scores ideas from shallow textual signals. It never fails.
type Heuristic struct {
	Disallowed []string
}

func (h Heuristic) Score(_ context.Context, idea Idea) (int, error) {
	score := 2 * len(idea.FromSeeds)

	beats := strings.ToLower(strings.Join(idea.Beats, " "))
	text := strings.ToLower(idea.Title) + " " + beats
	for _, kw := range comedicKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}

	if utf8.RuneCountInString(idea.Title) <= 60 {
		score++
	}
	if idea.DurationSeconds > 0 && idea.DurationSeconds <= 15 {
		score++
	}

	// The continuity line names the disallowed terms, so only the beats are
	// checked.
	for _, d := range h.Disallowed {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" && strings.Contains(beats, d) {
			score -= 3
		}
	}
	return score, nil
}
