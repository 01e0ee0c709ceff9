package source

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxDescription = 160

var (
	markerRe     = regexp.MustCompile(`[#@]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize strips markup, hashtag/mention markers and redundant
// whitespace from scraped text.
func Normalize(s string) string {
	s = stripTags(s)
	s = markerRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripTags returns the text content of s when it looks like HTML. Entities
// are decoded along the way.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Normalize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
