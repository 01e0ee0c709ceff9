// Package seeds turns a pool of trending content into ranked per-category
// keyword lists and persists them for the idea generator.
package seeds

import (
	"sort"
	"strings"

	"github.com/chyiyaqing/ideapack/internal/source"
)

// Patterns maps a category name to its ranked representative strings.
type Patterns map[string][]string

type hit struct {
	pos   int
	label string
}

// Extract counts vocabulary hits across the pool and keeps the top-K labels
// per category, most frequent first. Equal counts keep first-seen order.
// Every category in vocab is present and non-empty in the result.
func Extract(pool []source.ContentRecord, vocab Vocabulary) Patterns {
	texts := make([]string, len(pool))
	for i, rec := range pool {
		texts[i] = recordText(rec)
	}

	out := make(Patterns, len(vocab))
	for _, cat := range vocab {
		out[cat.Name] = rank(texts, cat)
	}
	return out
}

func rank(texts []string, cat Category) []string {
	counts := make(map[string]int)
	var order []string

	for _, text := range texts {
		for _, h := range matches(text, cat.Rules) {
			if counts[h.label] == 0 {
				order = append(order, h.label)
			}
			counts[h.label]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) == 0 {
		return append([]string(nil), cat.Fallback...)
	}
	if cat.TopK > 0 && len(order) > cat.TopK {
		order = order[:cat.TopK]
	}
	return order
}

// matches returns the rule hits in text ordered by position.
func matches(text string, rules []Rule) []hit {
	var hits []hit
	for _, r := range rules {
		if r.EachMatch {
			for _, term := range r.Terms {
				for _, pos := range indexAll(text, term) {
					hits = append(hits, hit{pos: pos, label: r.Label})
				}
			}
			continue
		}

		first := -1
		for _, term := range r.Terms {
			if i := strings.Index(text, term); i >= 0 && (first < 0 || i < first) {
				first = i
			}
		}
		if first >= 0 {
			hits = append(hits, hit{pos: first, label: r.Label})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	return hits
}

// indexAll returns the offsets of non-overlapping occurrences of term.
func indexAll(s, term string) []int {
	if term == "" {
		return nil
	}
	var idx []int
	off := 0
	for {
		i := strings.Index(s[off:], term)
		if i < 0 {
			return idx
		}
		idx = append(idx, off+i)
		off += i + len(term)
	}
}

func recordText(rec source.ContentRecord) string {
	parts := []string{rec.Title, rec.Description}
	parts = append(parts, rec.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
