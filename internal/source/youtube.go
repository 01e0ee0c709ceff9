package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chyiyaqing/ideapack/internal/config"
)

const youtubeBase = "https://www.googleapis.com/youtube/v3"

// YouTube reads the Data API v3. Requests are keyed; without a key the
// source is disabled.
type YouTube struct {
	APIKey   string
	Region   string
	MaxItems int
	BaseURL  string

	httpClient *http.Client
}

func NewYouTube(cfg config.YouTubeConfig) *YouTube {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &YouTube{
		APIKey:     cfg.APIKey,
		Region:     cfg.Region,
		MaxItems:   cfg.MaxItems,
		BaseURL:    youtubeBase,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Video is the subset of a YouTube video resource the pipeline uses.
type Video struct {
	ID          string
	Title       string
	Description string
	Channel     string
	Tags        []string
	Views       int64
	PublishedAt string
}

func (v Video) URL() string   { return "https://www.youtube.com/watch?v=" + v.ID }
func (v Video) Thumb() string { return "https://img.youtube.com/vi/" + v.ID + "/hqdefault.jpg" }

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			ChannelTitle string   `json:"channelTitle"`
			Tags         []string `json:"tags"`
			PublishedAt  string   `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

func (y *YouTube) Name() string  { return "youtube" }
func (y *YouTube) Enabled() bool { return y.APIKey != "" }

// Fetch returns the region's "mostPopular" chart as content records.
func (y *YouTube) Fetch(ctx context.Context) ([]ContentRecord, error) {
	videos, err := y.MostPopular(ctx, 50)
	if err != nil {
		return nil, err
	}

	limit := y.MaxItems
	if limit <= 0 || limit > len(videos) {
		limit = len(videos)
	}

	records := make([]ContentRecord, 0, limit)
	for _, v := range videos[:limit] {
		records = append(records, ContentRecord{
			Source:      y.Name(),
			Title:       Normalize(v.Title),
			Tags:        normalizeAll(v.Tags),
			Description: truncate(Normalize(v.Description), maxDescription),
		})
	}
	return records, nil
}

// MostPopular lists the trending chart for the configured region.
func (y *YouTube) MostPopular(ctx context.Context, maxResults int) ([]Video, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("chart", "mostPopular")
	q.Set("regionCode", y.region())
	q.Set("maxResults", strconv.Itoa(maxResults))

	var resp videoListResponse
	if err := y.get(ctx, "/videos", q, &resp); err != nil {
		return nil, fmt.Errorf("youtube trending: %w", err)
	}
	return toVideos(resp), nil
}

// SearchRecent returns the ids of short videos matching query published
// after the given time, ordered by view count.
func (y *YouTube) SearchRecent(ctx context.Context, query string, after time.Time) ([]string, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", query)
	q.Set("order", "viewCount")
	q.Set("maxResults", "50")
	q.Set("videoDuration", "short")
	q.Set("publishedAfter", after.UTC().Truncate(time.Second).Format(time.RFC3339))
	q.Set("regionCode", y.region())
	q.Set("relevanceLanguage", "en")

	var resp searchResponse
	if err := y.get(ctx, "/search", q, &resp); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

// Videos looks up snippet and statistics for the given ids.
func (y *YouTube) Videos(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("part", "snippet,contentDetails,statistics")
	q.Set("id", strings.Join(ids, ","))

	var resp videoListResponse
	if err := y.get(ctx, "/videos", q, &resp); err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}
	return toVideos(resp), nil
}

func (y *YouTube) region() string {
	if y.Region == "" {
		return "US"
	}
	return y.Region
}

func (y *YouTube) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", y.APIKey)
	u := strings.TrimRight(y.BaseURL, "/") + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Target: path, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func toVideos(resp videoListResponse) []Video {
	videos := make([]Video, 0, len(resp.Items))
	for _, it := range resp.Items {
		views, _ := strconv.ParseInt(it.Statistics.ViewCount, 10, 64)
		videos = append(videos, Video{
			ID:          it.ID,
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			Channel:     it.Snippet.ChannelTitle,
			Tags:        it.Snippet.Tags,
			Views:       views,
			PublishedAt: it.Snippet.PublishedAt,
		})
	}
	return videos
}
