package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/chyiyaqing/ideapack/internal/config"
)

const (
	redditPublicBase = "https://www.reddit.com"
	redditOAuthBase  = "https://oauth.reddit.com"
	redditTokenURL   = "https://www.reddit.com/api/v1/access_token"
)

// Reddit reads "top of day" listings. With client credentials it goes
// through the OAuth API, otherwise through the public JSON endpoints.
type Reddit struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Subreddits   []string
	Limit        int

	PublicBaseURL string
	OAuthBaseURL  string
	TokenURL      string
	Timeout       time.Duration

	// Public listings need no credentials, so the source is always enabled
	// unless RequireCredentials is set.
	RequireCredentials bool

	httpClient *http.Client
}

func NewReddit(cfg config.RedditConfig) *Reddit {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	r := &Reddit{
		ClientID:      cfg.ClientID,
		ClientSecret:  cfg.ClientSecret,
		UserAgent:     cfg.UserAgent,
		Subreddits:    cfg.Subreddits,
		Limit:         cfg.Limit,
		PublicBaseURL: redditPublicBase,
		OAuthBaseURL:  redditOAuthBase,
		TokenURL:      redditTokenURL,
		Timeout:       timeout,
	}
	r.httpClient = &http.Client{Transport: &userAgentTransport{ua: r.userAgent()}}
	return r
}

// Post is one listing entry.
type Post struct {
	ID        string
	Subreddit string
	Title     string
	Score     int64
	Domain    string
	Flair     string
}

// URL is the short link to the post.
func (p Post) URL() string { return "https://redd.it/" + p.ID }

// IsVideo reports whether the post links to a video host.
func (p Post) IsVideo() bool {
	return strings.Contains(p.Domain, "youtube") ||
		strings.Contains(p.Domain, "youtu.be") ||
		strings.Contains(p.Domain, "v.redd.it")
}

func (r *Reddit) Name() string { return "reddit" }

func (r *Reddit) Enabled() bool {
	if r.RequireCredentials && !r.HasCredentials() {
		return false
	}
	return len(r.Subreddits) > 0
}

func (r *Reddit) HasCredentials() bool {
	return r.ClientID != "" && r.ClientSecret != ""
}

// Fetch collects the top posts of the day from every subreddit. A failing
// subreddit is skipped; Fetch errors only when all of them fail.
func (r *Reddit) Fetch(ctx context.Context) ([]ContentRecord, error) {
	var records []ContentRecord
	var lastErr error
	failed := 0

	for _, sub := range r.Subreddits {
		posts, err := r.TopOfDay(ctx, sub, r.limit())
		if err != nil {
			log.Printf("WARNING: reddit r/%s: %v", sub, err)
			lastErr = err
			failed++
			continue
		}
		for _, p := range posts {
			var tags []string
			if p.Flair != "" {
				tags = append(tags, p.Flair)
			}
			if p.Domain != "" {
				tags = append(tags, p.Domain)
			}
			records = append(records, ContentRecord{
				Source: "r/" + sub,
				Title:  Normalize(p.Title),
				Tags:   normalizeAll(tags),
			})
		}
	}

	if failed > 0 && failed == len(r.Subreddits) {
		return nil, fmt.Errorf("all %d subreddits failed: %w", failed, lastErr)
	}
	return records, nil
}

// TopOfDay returns the top posts of the last day for one subreddit.
func (r *Reddit) TopOfDay(ctx context.Context, sub string, limit int) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	client, base := r.client(ctx)

	q := url.Values{}
	q.Set("t", "day")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	u := fmt.Sprintf("%s/r/%s/top.json?%s", strings.TrimRight(base, "/"), url.PathEscape(sub), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET r/%s: %w", sub, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Target: "r/" + sub, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read r/%s: %w", sub, err)
	}
	return parseListing(sub, body)
}

func parseListing(sub string, body []byte) ([]Post, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("r/%s: malformed listing", sub)
	}
	children := gjson.GetBytes(body, "data.children")
	if !children.IsArray() {
		return nil, fmt.Errorf("r/%s: listing has no children", sub)
	}

	var posts []Post
	children.ForEach(func(_, c gjson.Result) bool {
		d := c.Get("data")
		posts = append(posts, Post{
			ID:        d.Get("id").String(),
			Subreddit: sub,
			Title:     d.Get("title").String(),
			Score:     d.Get("score").Int(),
			Domain:    d.Get("domain").String(),
			Flair:     d.Get("link_flair_text").String(),
		})
		return true
	})
	return posts, nil
}

// client returns the HTTP client and API base to use. With credentials the
// client authenticates via the client-credentials grant.
func (r *Reddit) client(ctx context.Context) (*http.Client, string) {
	if !r.HasCredentials() {
		return r.httpClient, r.PublicBaseURL
	}
	cc := &clientcredentials.Config{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		TokenURL:     r.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	return cc.Client(ctx), r.OAuthBaseURL
}

func (r *Reddit) limit() int {
	if r.Limit <= 0 {
		return 30
	}
	return r.Limit
}

func (r *Reddit) userAgent() string {
	if r.UserAgent == "" {
		return "baxter-trends/1.0"
	}
	return r.UserAgent
}

// userAgentTransport sets the User-Agent Reddit requires on every request,
// token exchanges included.
type userAgentTransport struct {
	ua   string
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.ua)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
