// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hunt

import (
	"context"
	"fmt"
	"io"

	"github.com/bes2/outreach-engine/internal/contact"
	"github.com/bes2/outreach-engine/internal/store"
	"github.com/bes2/outreach-engine/internal/videoapi"
	"github.com/bes2/outreach-engine/pkg/types"
)

// DetailEnricher attaches statistics and contact information to candidates
// and applies the filters that need per-video or per-channel metadata
// unavailable at search time.
type DetailEnricher struct {
	client videoapi.Client
	store  store.Store
	cfg    types.EnrichConfig
	log    io.Writer
}

// NewDetailEnricher builds an enricher. The store supplies the stored-lead
// contact fallback; it may be nil, which disables that tier.
func NewDetailEnricher(client videoapi.Client, s store.Store, cfg types.EnrichConfig, log io.Writer) *DetailEnricher {
	return &DetailEnricher{client: client, store: s, cfg: cfg, log: log}
}

// Enrich partitions candidates into chunks, performs batched statistics and
// channel lookups per chunk, merges the results, and applies the minimum
// view-count filter followed by the require-contact filter. A chunk-level
// lookup failure fails soft: whatever was merged before the failure is
// returned rather than an error.
func (e *DetailEnricher) Enrich(ctx context.Context, candidates []types.Candidate) ([]types.EnrichedItem, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	chunkSize := e.cfg.ChunkSize
	if chunkSize <= 0 || chunkSize > videoapi.BatchLimit {
		chunkSize = videoapi.BatchLimit
	}

	var items []types.EnrichedItem
	for start := 0; start < len(candidates); start += chunkSize {
		end := min(start+chunkSize, len(candidates))
		chunk := candidates[start:end]

		merged, err := e.enrichChunk(ctx, chunk, chunkSize)
		items = append(items, e.filter(merged)...)
		if err != nil {
			fmt.Fprintf(e.log, "  warning: enrichment stopped early: %v\n", err)
			return items, nil
		}
	}
	return items, nil
}

func (e *DetailEnricher) enrichChunk(ctx context.Context, chunk []types.Candidate, chunkSize int) ([]types.EnrichedItem, error) {
	videoIDs := make([]string, len(chunk))
	for i, c := range chunk {
		videoIDs[i] = c.VideoID
	}

	stats, err := e.client.VideoStats(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("statistics lookup: %w", err)
	}

	channels, err := e.channelInfo(ctx, chunk, chunkSize)
	if err != nil {
		return nil, err
	}

	items := make([]types.EnrichedItem, 0, len(chunk))
	for _, c := range chunk {
		item := types.EnrichedItem{Candidate: c}

		// A missing stats entry zero-fills, it is not an error.
		if st, ok := stats[c.VideoID]; ok {
			item.ViewCount = st.ViewCount
			item.LikeCount = st.LikeCount
			item.CommentCount = st.CommentCount
		}
		if ch, ok := channels[c.ChannelID]; ok {
			item.SubscriberCount = ch.SubscriberCount
			item.ChannelDescription = ch.Description
		}

		item.ContactEmail = e.resolveContact(ctx, item)
		items = append(items, item)
	}
	return items, nil
}

// channelInfo looks up the chunk's unique channels, sub-chunked at the same
// batch limit in case the unique-channel count exceeds it.
func (e *DetailEnricher) channelInfo(ctx context.Context, chunk []types.Candidate, chunkSize int) (map[string]videoapi.Channel, error) {
	seen := make(map[string]struct{}, len(chunk))
	var ids []string
	for _, c := range chunk {
		if _, ok := seen[c.ChannelID]; ok {
			continue
		}
		seen[c.ChannelID] = struct{}{}
		ids = append(ids, c.ChannelID)
	}

	channels := make(map[string]videoapi.Channel, len(ids))
	for start := 0; start < len(ids); start += chunkSize {
		end := min(start+chunkSize, len(ids))
		part, err := e.client.ChannelInfo(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("channel lookup: %w", err)
		}
		for id, ch := range part {
			channels[id] = ch
		}
	}
	return channels, nil
}

// resolveContact applies the three-tier fallback: the video's own
// description, then the channel description, then the contact already on
// file for the channel's lead.
func (e *DetailEnricher) resolveContact(ctx context.Context, item types.EnrichedItem) string {
	if addr, ok := contact.Extract(item.Description); ok {
		return addr
	}
	if addr, ok := contact.Extract(item.ChannelDescription); ok {
		return addr
	}
	if e.store != nil {
		lead, ok, err := e.store.FindLeadByChannelID(ctx, item.ChannelID)
		if err != nil {
			fmt.Fprintf(e.log, "  warning: lead lookup failed for channel %s: %v\n",
				item.ChannelID, err)
			return ""
		}
		if ok {
			return lead.Email
		}
	}
	return ""
}

// filter applies the minimum view-count filter, then the require-contact
// filter, in that order.
func (e *DetailEnricher) filter(items []types.EnrichedItem) []types.EnrichedItem {
	kept := items[:0]
	for _, item := range items {
		if e.cfg.MinViewCount > 0 && item.ViewCount < e.cfg.MinViewCount {
			continue
		}
		if e.cfg.RequireContact && !item.HasContact() {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
