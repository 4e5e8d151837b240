// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package videoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bes2/outreach-engine/internal/httputil"
	"github.com/bes2/outreach-engine/pkg/types"
)

// apiBase is the platform data API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://www.googleapis.com/youtube/v3"

const (
	watchURLPrefix   = "https://www.youtube.com/watch?v="
	channelURLPrefix = "https://www.youtube.com/channel/"
)

// HTTPClient implements Client against the platform's JSON API.
type HTTPClient struct {
	Client *http.Client
	APIKey string
	// UserAgent is sent with every request.
	UserAgent string
}

// NewHTTPClient builds an HTTPClient from the search configuration.
func NewHTTPClient(cfg types.SearchConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		Client:    &http.Client{Timeout: timeout},
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}
}

// SearchPage fetches one page of keyword search results ordered by recency.
func (c *HTTPClient) SearchPage(ctx context.Context, req PageRequest) (Page, error) {
	if strings.TrimSpace(req.Query) == "" {
		return Page{}, fmt.Errorf("empty search query")
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > BatchLimit {
		pageSize = BatchLimit
	}

	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"q":          {req.Query},
		"maxResults": {strconv.Itoa(pageSize)},
		"order":      {"date"},
	}
	if !req.PublishedAfter.IsZero() {
		params.Set("publishedAfter", req.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if req.Language != "" {
		params.Set("relevanceLanguage", req.Language)
	}
	if req.Region != "" {
		params.Set("regionCode", req.Region)
	}
	if req.PageToken != "" {
		params.Set("pageToken", req.PageToken)
	}

	var sr searchResponse
	if err := c.get(ctx, "/search", params, &sr); err != nil {
		return Page{}, err
	}

	page := Page{
		NextPageToken: sr.NextPageToken,
		ApproxTotal:   sr.PageInfo.TotalResults,
	}
	for _, item := range sr.Items {
		if item.ID.VideoID == "" {
			continue
		}
		c := types.Candidate{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelID:    item.Snippet.ChannelID,
			ChannelName:  item.Snippet.ChannelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.High.URL,
			VideoURL:     watchURLPrefix + item.ID.VideoID,
		}
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			c.PublishedAt = t
		}
		page.Items = append(page.Items, c)
	}
	return page, nil
}

// VideoStats looks up statistics for up to BatchLimit video IDs in one
// request. An ID the platform omitted is absent from the returned map.
func (c *HTTPClient) VideoStats(ctx context.Context, ids []string) (map[string]Stats, error) {
	if len(ids) == 0 {
		return map[string]Stats{}, nil
	}
	if len(ids) > BatchLimit {
		return nil, fmt.Errorf("stats batch of %d exceeds API limit of %d", len(ids), BatchLimit)
	}

	params := url.Values{
		"part": {"statistics"},
		"id":   {strings.Join(ids, ",")},
	}

	var vr videosResponse
	if err := c.get(ctx, "/videos", params, &vr); err != nil {
		return nil, err
	}

	stats := make(map[string]Stats, len(vr.Items))
	for _, item := range vr.Items {
		stats[item.ID] = Stats{
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
		}
	}
	return stats, nil
}

// ChannelInfo looks up metadata for up to BatchLimit channel IDs in one
// request.
func (c *HTTPClient) ChannelInfo(ctx context.Context, ids []string) (map[string]Channel, error) {
	if len(ids) == 0 {
		return map[string]Channel{}, nil
	}
	if len(ids) > BatchLimit {
		return nil, fmt.Errorf("channel batch of %d exceeds API limit of %d", len(ids), BatchLimit)
	}

	params := url.Values{
		"part": {"snippet,statistics"},
		"id":   {strings.Join(ids, ",")},
	}

	var cr channelsResponse
	if err := c.get(ctx, "/channels", params, &cr); err != nil {
		return nil, err
	}

	channels := make(map[string]Channel, len(cr.Items))
	for _, item := range cr.Items {
		channels[item.ID] = Channel{
			ChannelID:       item.ID,
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			ThumbnailURL:    item.Snippet.Thumbnails.High.URL,
			ChannelURL:      channelURLPrefix + item.ID,
			SubscriberCount: parseCount(item.Statistics.SubscriberCount),
			VideoCount:      parseCount(item.Statistics.VideoCount),
			ViewCount:       parseCount(item.Statistics.ViewCount),
		}
	}
	return channels, nil
}

// get performs one API request and decodes the JSON response into out.
// 429s are retried with backoff before surfacing.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}
	reqURL := apiBase + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(c.Client, req, 0)
	if err != nil {
		return fmt.Errorf("platform API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform API returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing platform response: %w", err)
	}
	return nil
}

// parseCount coerces a platform count string to a non-negative integer.
// Absent, malformed, or negative values become 0 so downstream arithmetic
// never sees nulls.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Platform API JSON structures. Count fields arrive as strings.

type searchResponse struct {
	NextPageToken string         `json:"nextPageToken"`
	PageInfo      searchPageInfo `json:"pageInfo"`
	Items         []searchItem   `json:"items"`
}

type searchPageInfo struct {
	TotalResults   int64 `json:"totalResults"`
	ResultsPerPage int   `json:"resultsPerPage"`
}

type searchItem struct {
	ID      searchItemID `json:"id"`
	Snippet snippet      `json:"snippet"`
}

type searchItemID struct {
	VideoID string `json:"videoId"`
}

type snippet struct {
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	High thumbnail `json:"high"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string     `json:"id"`
	Statistics videoStats `json:"statistics"`
}

type videoStats struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type channelsResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID         string       `json:"id"`
	Snippet    snippet      `json:"snippet"`
	Statistics channelStats `json:"statistics"`
}

type channelStats struct {
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
	ViewCount       string `json:"viewCount"`
}
