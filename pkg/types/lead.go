// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LeadStatus tracks a lead's progress through the outreach workflow.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadResponded LeadStatus = "responded"
	LeadConverted LeadStatus = "converted"
	LeadRejected  LeadStatus = "rejected"
)

// Lead is a persisted record for a channel targeted for outreach. Leads are
// unique by ChannelID: the first sighting creates the record and later
// sightings reuse its ID. Contact and subscriber count may be refreshed.
type Lead struct {
	// ID is the store-assigned identifier (UUID).
	ID string `json:"id" yaml:"id"`

	// ChannelID is the platform channel identifier. Unique per lead.
	ChannelID string `json:"channel_id" yaml:"channel_id"`

	// ChannelName is the channel's display name.
	ChannelName string `json:"channel_name" yaml:"channel_name"`

	// SubscriberCount is the channel subscriber count at last refresh.
	SubscriberCount int64 `json:"subscriber_count" yaml:"subscriber_count"`

	// Email is the extracted contact address, empty when unknown.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// ChannelURL is the canonical channel URL.
	ChannelURL string `json:"channel_url,omitempty" yaml:"channel_url,omitempty"`

	// ThumbnailURL is the channel thumbnail reference.
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`

	// Description is the channel description text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Status tracks the outreach workflow state. New leads start as "new".
	Status LeadStatus `json:"status" yaml:"status"`

	// CreatedAt is the record creation time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Item is a persisted record for a collected video. Items are unique by
// VideoID and created at most once per identifier.
type Item struct {
	// ID is the store-assigned identifier (UUID).
	ID string `json:"id" yaml:"id"`

	// VideoID is the platform video identifier. Unique per item.
	VideoID string `json:"video_id" yaml:"video_id"`

	// Title is the video title.
	Title string `json:"title" yaml:"title"`

	// LeadID links the item to its channel's lead record.
	LeadID string `json:"lead_id" yaml:"lead_id"`

	// PublishedAt is the video publish timestamp.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// ViewCount, LikeCount, and CommentCount are the statistics captured
	// when the item was collected.
	ViewCount    int64 `json:"view_count" yaml:"view_count"`
	LikeCount    int64 `json:"like_count" yaml:"like_count"`
	CommentCount int64 `json:"comment_count" yaml:"comment_count"`

	// VideoURL is the canonical watch URL.
	VideoURL string `json:"video_url,omitempty" yaml:"video_url,omitempty"`

	// ThumbnailURL is the video thumbnail reference.
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`

	// SearchKeyword is the keyword string that surfaced the video.
	SearchKeyword string `json:"search_keyword,omitempty" yaml:"search_keyword,omitempty"`

	// CreatedAt is the record creation time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
