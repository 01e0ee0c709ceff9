package telegram

import (
	"fmt"
	"strings"

	"github.com/chyiyaqing/ideapack/internal/generator"
)

const maxListed = 30

// FormatPack builds an HTML-formatted Telegram message listing the kept
// ideas of a generate run. packURL is appended when set.
func FormatPack(name string, ideas []generator.Idea, packURL string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>🎬 %s idea pack (%d ideas)</b>\n", escapeHTML(name), len(ideas)))

	influence := "OFF (defaults only)"
	if len(ideas) > 0 && ideas[0].TrendNote.UsedSeeds {
		influence = "ON"
	}
	sb.WriteString(fmt.Sprintf("Trending influence: %s\n\n", influence))

	limit := maxListed
	if len(ideas) < limit {
		limit = len(ideas)
	}
	for i := 0; i < limit; i++ {
		it := ideas[i]
		sb.WriteString(fmt.Sprintf("<b>%d.</b> [%d | %ds] %s\n", i+1, it.Score, it.DurationSeconds, escapeHTML(it.Title)))
	}
	if len(ideas) > limit {
		sb.WriteString(fmt.Sprintf("… and %d more\n", len(ideas)-limit))
	}

	if packURL != "" {
		sb.WriteString(fmt.Sprintf("\n🔗 %s\n", escapeHTML(packURL)))
	}
	return sb.String()
}
