package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/chyiyaqing/ideapack/internal/config"
)

const googleTrendsFeed = "https://trends.google.com/trending/rss"

// GoogleTrends reads the daily trending-searches RSS feed. Each trending
// query becomes a record whose description is built from the attached news
// headlines.
type GoogleTrends struct {
	On      bool
	Geo     string
	FeedURL string
	Timeout time.Duration
}

func NewGoogleTrends(cfg config.GoogleTrendsConfig) *GoogleTrends {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleTrends{
		On:      cfg.Enabled,
		Geo:     cfg.Geo,
		FeedURL: googleTrendsFeed,
		Timeout: timeout,
	}
}

func (g *GoogleTrends) Name() string  { return "google-trends" }
func (g *GoogleTrends) Enabled() bool { return g.On }

func (g *GoogleTrends) Fetch(ctx context.Context) ([]ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: g.Timeout}

	feed, err := fp.ParseURLWithContext(g.url(), ctx)
	if err != nil {
		return nil, fmt.Errorf("google trends: %w", err)
	}
	return trendRecords(feed, g.Name()), nil
}

func (g *GoogleTrends) url() string {
	geo := g.Geo
	if geo == "" {
		geo = "US"
	}
	return g.FeedURL + "?geo=" + url.QueryEscape(geo)
}

func trendRecords(feed *gofeed.Feed, name string) []ContentRecord {
	records := make([]ContentRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := Normalize(item.Title)
		if title == "" {
			continue
		}

		var headlines, tags []string
		if traffic := extValue(item.Extensions, "approx_traffic"); traffic != "" {
			tags = append(tags, traffic)
		}
		for _, news := range extList(item.Extensions, "news_item") {
			if t := childValue(news, "news_item_title"); t != "" {
				headlines = append(headlines, t)
			}
			if s := childValue(news, "news_item_source"); s != "" {
				tags = append(tags, s)
			}
		}

		records = append(records, ContentRecord{
			Source:      name,
			Title:       title,
			Tags:        normalizeAll(tags),
			Description: truncate(Normalize(strings.Join(headlines, " ")), maxDescription),
		})
	}
	return records
}

func extList(e ext.Extensions, name string) []ext.Extension {
	if e == nil {
		return nil
	}
	return e["ht"][name]
}

func extValue(e ext.Extensions, name string) string {
	if l := extList(e, name); len(l) > 0 {
		return strings.TrimSpace(l[0].Value)
	}
	return ""
}

func childValue(e ext.Extension, name string) string {
	if c := e.Children[name]; len(c) > 0 {
		return strings.TrimSpace(c[0].Value)
	}
	return ""
}
