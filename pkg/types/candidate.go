// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the outreach-engine
// pipeline: search candidates, enriched items, persisted leads/items/drafts,
// and the stage configuration structs.
package types

import "time"

// Candidate is a search-stage result before statistics and contact
// enrichment. It carries only the fields available on a search page.
type Candidate struct {
	// VideoID is the platform-unique video identifier.
	VideoID string `json:"video_id" yaml:"video_id"`

	// Title is the video title as returned by the platform.
	Title string `json:"title" yaml:"title"`

	// Description is the free-text video description.
	Description string `json:"description" yaml:"description"`

	// PublishedAt is the video publish timestamp.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// ChannelID is the identifier of the channel that published the video.
	ChannelID string `json:"channel_id" yaml:"channel_id"`

	// ChannelName is the channel's display name.
	ChannelName string `json:"channel_name" yaml:"channel_name"`

	// ThumbnailURL is the video thumbnail reference.
	ThumbnailURL string `json:"thumbnail_url" yaml:"thumbnail_url"`

	// VideoURL is the canonical watch URL constructed from VideoID.
	VideoURL string `json:"video_url" yaml:"video_url"`

	// SearchKeyword is the keyword string that surfaced this candidate.
	SearchKeyword string `json:"search_keyword" yaml:"search_keyword"`
}

// EnrichedItem is a Candidate augmented with statistics and a resolved
// contact address. It exists only for the duration of one pipeline run.
type EnrichedItem struct {
	Candidate `yaml:",inline"`

	// ViewCount is the video view count. Zero when the platform omitted it.
	ViewCount int64 `json:"view_count" yaml:"view_count"`

	// LikeCount is the video like count. Zero when omitted.
	LikeCount int64 `json:"like_count" yaml:"like_count"`

	// CommentCount is the video comment count. Zero when omitted.
	CommentCount int64 `json:"comment_count" yaml:"comment_count"`

	// SubscriberCount is the publishing channel's subscriber count.
	SubscriberCount int64 `json:"subscriber_count" yaml:"subscriber_count"`

	// ChannelDescription is the publishing channel's description text.
	ChannelDescription string `json:"channel_description,omitempty" yaml:"channel_description,omitempty"`

	// ContactEmail is the resolved contact address, empty when none was
	// found in the video description, channel description, or stored lead.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// HasContact reports whether a contact address was resolved.
func (e EnrichedItem) HasContact() bool {
	return e.ContactEmail != ""
}
