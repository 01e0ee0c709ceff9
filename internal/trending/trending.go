// Package trending builds the "top 10 funny of the last day" report from
// YouTube search and Reddit listings.
package trending

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/chyiyaqing/ideapack/internal/source"
)

const (
	topN         = 10
	youtubeQuery = "funny OR comedy"
	redditLimit  = 25
)

// Subreddits scanned for the Reddit half of the report.
var Subreddits = []string{"funny", "funnyvideos", "ContagiousLaughter", "MadeMeSmile"}

type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Views       int64  `json:"views"`
	URL         string `json:"url"`
	Thumb       string `json:"thumb"`
	PublishedAt string `json:"publishedAt"`
}

type Post struct {
	Subreddit string `json:"subreddit"`
	Title     string `json:"title"`
	Score     int64  `json:"score"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	IsVideo   bool   `json:"is_video"`
}

type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	YouTube     []Video   `json:"youtube"`
	Reddit      []Post    `json:"reddit"`
}

// Collect builds the report. Either half may be empty: a nil or disabled
// client, or any fetch error, leaves that half empty without failing.
func Collect(ctx context.Context, yt *source.YouTube, rd *source.Reddit, now time.Time) Report {
	rep := Report{GeneratedAt: now, YouTube: []Video{}, Reddit: []Post{}}

	if yt != nil && yt.Enabled() {
		videos, err := TopVideos(ctx, yt, now)
		if err != nil {
			log.Printf("WARNING: trending youtube: %v", err)
		} else {
			rep.YouTube = videos
		}
	}

	if rd != nil {
		rep.Reddit = TopPosts(ctx, rd, Subreddits)
	}
	return rep
}

// TopVideos returns the most viewed short funny videos published in the 24
// hours before now.
func TopVideos(ctx context.Context, yt *source.YouTube, now time.Time) ([]Video, error) {
	ids, err := yt.SearchRecent(ctx, youtubeQuery, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Video{}, nil
	}

	found, err := yt.Videos(ctx, ids)
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(found))
	for _, v := range found {
		videos = append(videos, Video{
			ID:          v.ID,
			Title:       v.Title,
			Channel:     v.Channel,
			Views:       v.Views,
			URL:         v.URL(),
			Thumb:       v.Thumb(),
			PublishedAt: v.PublishedAt,
		})
	}
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Views > videos[j].Views })
	if len(videos) > topN {
		videos = videos[:topN]
	}
	return videos, nil
}

// TopPosts merges the day's top posts across subs, video links first, then
// by score. Subreddits that fail are skipped.
func TopPosts(ctx context.Context, rd *source.Reddit, subs []string) []Post {
	posts := []Post{}
	for _, sub := range subs {
		listing, err := rd.TopOfDay(ctx, sub, redditLimit)
		if err != nil {
			log.Printf("WARNING: trending r/%s: %v", sub, err)
			continue
		}
		for _, p := range listing {
			posts = append(posts, Post{
				Subreddit: sub,
				Title:     p.Title,
				Score:     p.Score,
				URL:       p.URL(),
				Domain:    p.Domain,
				IsVideo:   p.IsVideo(),
			})
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].IsVideo != posts[j].IsVideo {
			return posts[i].IsVideo
		}
		return posts[i].Score > posts[j].Score
	})
	if len(posts) > topN {
		posts = posts[:topN]
	}
	return posts
}
