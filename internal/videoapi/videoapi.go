// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package videoapi is the client for the video platform's data API:
// paginated keyword search plus batched video-statistics and channel-info
// lookups.
package videoapi

import (
	"context"
	"time"

	"github.com/bes2/outreach-engine/pkg/types"
)

// BatchLimit is the platform's maximum number of IDs per batch lookup and
// results per search page.
const BatchLimit = 50

// Client is the surface the hunt pipeline consumes. The HTTP implementation
// talks to the real platform; tests supply fakes.
type Client interface {
	// SearchPage fetches one page of keyword search results.
	SearchPage(ctx context.Context, req PageRequest) (Page, error)

	// VideoStats looks up statistics for up to BatchLimit video IDs.
	// IDs missing from the response are simply absent from the map.
	VideoStats(ctx context.Context, ids []string) (map[string]Stats, error)

	// ChannelInfo looks up metadata for up to BatchLimit channel IDs.
	ChannelInfo(ctx context.Context, ids []string) (map[string]Channel, error)
}

// PageRequest holds the parameters for one search page.
type PageRequest struct {
	// Query is the raw keyword string sent to the platform.
	Query string

	// PageSize is the number of results requested (clamped to BatchLimit).
	PageSize int

	// PublishedAfter excludes older videos.
	PublishedAfter time.Time

	// Language is the relevance-language hint (e.g. "ko").
	Language string

	// Region is the region code (e.g. "KR").
	Region string

	// PageToken continues a previous page; empty requests the first page.
	PageToken string
}

// Page is one page of search results.
type Page struct {
	// Items holds the page's candidates in platform order (most recent
	// first when ordered by date).
	Items []types.Candidate

	// NextPageToken requests the following page; empty when exhausted.
	NextPageToken string

	// ApproxTotal is the platform's approximate total-match count.
	// Advisory only; meaningful on the first page.
	ApproxTotal int64
}

// Stats holds per-video statistics. Absent or malformed platform values
// coerce to zero, never negative.
type Stats struct {
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// Channel holds per-channel metadata used for enrichment.
type Channel struct {
	ChannelID       string
	Title           string
	Description     string
	ThumbnailURL    string
	ChannelURL      string
	SubscriberCount int64
	VideoCount      int64
	ViewCount       int64
}
