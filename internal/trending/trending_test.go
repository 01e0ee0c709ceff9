package trending

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyiyaqing/ideapack/internal/config"
	"github.com/chyiyaqing/ideapack/internal/source"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func youtubeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, youtubeQuery, r.URL.Query().Get("q"))
			assert.Equal(t, "2026-02-28T12:00:00Z", r.URL.Query().Get("publishedAfter"))
			fmt.Fprint(w, `{"items":[{"id":{"videoId":"a"}},{"id":{"videoId":"b"}},{"id":{"videoId":"c"}}]}`)
		case "/videos":
			fmt.Fprint(w, `{"items":[
				{"id":"a","snippet":{"title":"small","channelTitle":"x"},"statistics":{"viewCount":"10"}},
				{"id":"b","snippet":{"title":"big","channelTitle":"y"},"statistics":{"viewCount":"5000"}},
				{"id":"c","snippet":{"title":"mid","channelTitle":"z"},"statistics":{"viewCount":"700"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestTopVideos_SortedByViews(t *testing.T) {
	srv := youtubeServer(t)
	defer srv.Close()

	yt := source.NewYouTube(config.YouTubeConfig{APIKey: "k"})
	yt.BaseURL = srv.URL

	videos, err := TopVideos(context.Background(), yt, now)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, []string{"big", "mid", "small"}, []string{videos[0].Title, videos[1].Title, videos[2].Title})
	assert.Equal(t, "https://www.youtube.com/watch?v=b", videos[0].URL)
	assert.Equal(t, "https://img.youtube.com/vi/b/hqdefault.jpg", videos[0].Thumb)
}

func TestTopPosts_VideoFirstThenScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/r/funny/top.json":
			fmt.Fprint(w, `{"data":{"children":[
				{"data":{"id":"p1","title":"image","score":900,"domain":"i.redd.it"}},
				{"data":{"id":"p2","title":"clip","score":20,"domain":"v.redd.it"}}]}}`)
		case "/r/funnyvideos/top.json":
			fmt.Fprint(w, `{"data":{"children":[
				{"data":{"id":"p3","title":"yt","score":50,"domain":"youtube.com"}}]}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	rd := source.NewReddit(config.RedditConfig{})
	rd.PublicBaseURL = srv.URL

	posts := TopPosts(context.Background(), rd, Subreddits)
	require.Len(t, posts, 3)
	assert.Equal(t, "yt", posts[0].Title)
	assert.Equal(t, "clip", posts[1].Title)
	assert.Equal(t, "image", posts[2].Title)
	assert.True(t, posts[0].IsVideo)
	assert.Equal(t, "funnyvideos", posts[0].Subreddit)
	assert.Equal(t, "https://redd.it/p3", posts[0].URL)
}

func TestTopPosts_CapsAtTen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"children":[`)
		for i := 0; i < 6; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"data":{"id":"p%d","title":"t%d","score":%d,"domain":"i.redd.it"}}`, i, i, i)
		}
		fmt.Fprint(w, `]}}`)
	}))
	defer srv.Close()

	rd := source.NewReddit(config.RedditConfig{})
	rd.PublicBaseURL = srv.URL

	assert.Len(t, TopPosts(context.Background(), rd, Subreddits), topN)
}

func TestCollect_BestEffort(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer down.Close()

	yt := source.NewYouTube(config.YouTubeConfig{APIKey: "k"})
	yt.BaseURL = down.URL
	rd := source.NewReddit(config.RedditConfig{})
	rd.PublicBaseURL = down.URL

	rep := Collect(context.Background(), yt, rd, now)
	assert.Equal(t, now, rep.GeneratedAt)
	assert.NotNil(t, rep.YouTube)
	assert.Empty(t, rep.YouTube)
	assert.NotNil(t, rep.Reddit)
	assert.Empty(t, rep.Reddit)
}

func TestCollect_NoYouTubeKey(t *testing.T) {
	yt := source.NewYouTube(config.YouTubeConfig{})
	rep := Collect(context.Background(), yt, nil, now)
	assert.Empty(t, rep.YouTube)
	assert.Empty(t, rep.Reddit)
}
