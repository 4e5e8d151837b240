// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hunt

import (
	"context"
	"fmt"
	"io"

	"github.com/bes2/outreach-engine/internal/store"
	"github.com/bes2/outreach-engine/internal/videoapi"
	"github.com/bes2/outreach-engine/pkg/types"
)

const channelURLPrefix = "https://www.youtube.com/channel/"

// Drafter produces outreach draft content for a persisted item. Content
// carrying a generation error marker is stored but must never be published;
// review tooling flags it.
type Drafter interface {
	// OutreachEmail drafts a proposal email for the creator.
	OutreachEmail(ctx context.Context, item types.EnrichedItem, lead *types.Lead) string

	// ShortComment drafts a short comment to post under the video.
	ShortComment(ctx context.Context, item types.EnrichedItem) string
}

// RelevanceChecker is optionally implemented by a Drafter to screen items
// before any draft is generated for them.
type RelevanceChecker interface {
	Relevant(ctx context.Context, item types.EnrichedItem) bool
}

// Pipeline drives search, enrichment, and persistence across a keyword
// list. Keywords are processed sequentially; a failure in one keyword's
// stage is reported in that keyword's result and the run proceeds.
type Pipeline struct {
	pager    *SearchPager
	enricher *DetailEnricher
	store    store.Store
	drafter  Drafter
	cfg      types.HuntConfig
	log      io.Writer
}

// NewPipeline assembles a pipeline. The drafter may be nil, which disables
// draft generation regardless of configuration.
func NewPipeline(client videoapi.Client, s store.Store, drafter Drafter, cfg types.PipelineConfig, log io.Writer) *Pipeline {
	return &Pipeline{
		pager:    NewSearchPager(client, cfg.Search, log),
		enricher: NewDetailEnricher(client, s, cfg.Enrich, log),
		store:    s,
		drafter:  drafter,
		cfg:      cfg.Hunt,
		log:      log,
	}
}

// Run processes every keyword and returns an aggregate report. The run
// always completes with a report: per-keyword and per-item failures are
// isolated and counted, never fatal. Only the initial dedup snapshot read
// is a fatal failure, since without it every stored item would be re-found.
func (p *Pipeline) Run(ctx context.Context, keywords []string) (types.HuntReport, error) {
	dedup, err := LoadDedupIndex(ctx, p.store)
	if err != nil {
		return types.HuntReport{}, err
	}
	fmt.Fprintf(p.log, "dedup index loaded: %d known videos\n", dedup.Len())

	maxResults := p.cfg.MaxResultsPerKeyword
	if maxResults <= 0 {
		maxResults = 5
	}

	var report types.HuntReport
	for _, keyword := range keywords {
		result := p.runKeyword(ctx, keyword, maxResults, dedup)
		report.Keywords = append(report.Keywords, result)
		report.ItemsCollected += result.Saved
	}

	if stats, err := p.store.LeadStats(ctx); err != nil {
		fmt.Fprintf(p.log, "warning: lead aggregation failed: %v\n", err)
	} else {
		report.Leads = stats
	}
	if stats, err := p.store.DraftStats(ctx); err != nil {
		fmt.Fprintf(p.log, "warning: draft aggregation failed: %v\n", err)
	} else {
		report.Drafts = stats
	}

	fmt.Fprintf(p.log, "\nhunt summary: %d items collected, %d new leads across %d keywords\n",
		report.ItemsCollected, report.NewLeads(), len(report.Keywords))
	return report, nil
}

func (p *Pipeline) runKeyword(ctx context.Context, keyword string, maxResults int, dedup *DedupIndex) types.KeywordResult {
	result := types.KeywordResult{Keyword: keyword}
	fmt.Fprintf(p.log, "searching %q\n", keyword)

	search, err := p.pager.Search(ctx, keyword, maxResults, dedup)
	if err != nil {
		fmt.Fprintf(p.log, "failed:  %q (%v)\n", keyword, err)
		result.Err = err.Error()
		return result
	}
	result.ApproxTotal = search.ApproxTotal
	result.Found = len(search.Candidates)
	fmt.Fprintf(p.log, "  %d candidates over %d pages (approx. %d total matches)\n",
		result.Found, search.Pages, search.ApproxTotal)

	items, err := p.enricher.Enrich(ctx, search.Candidates)
	if err != nil {
		fmt.Fprintf(p.log, "failed:  %q (%v)\n", keyword, err)
		result.Err = err.Error()
		return result
	}
	result.Enriched = len(items)

	for _, item := range items {
		saved, newLead, err := p.persistItem(ctx, item)
		if err != nil {
			fmt.Fprintf(p.log, "  failed:  %s (%v)\n", item.VideoID, err)
			continue
		}
		if !saved {
			fmt.Fprintf(p.log, "  skipped: %s (already stored)\n", item.VideoID)
			continue
		}
		fmt.Fprintf(p.log, "  saved:   %s (%s)\n", item.VideoID, item.Title)
		result.Saved++
		if newLead {
			result.NewLeads++
		}
	}
	return result
}

// persistItem stores one enriched item: lead lookup-or-create keyed on the
// channel ID, an existence re-check guarding against the dedup snapshot
// going stale mid-run, the item insert, and optional draft generation.
func (p *Pipeline) persistItem(ctx context.Context, item types.EnrichedItem) (saved, newLead bool, err error) {
	lead, found, err := p.store.FindLeadByChannelID(ctx, item.ChannelID)
	if err != nil {
		return false, false, fmt.Errorf("lead lookup: %w", err)
	}
	if !found {
		lead, err = p.store.CreateLead(ctx, &types.Lead{
			ChannelID:       item.ChannelID,
			ChannelName:     item.ChannelName,
			SubscriberCount: item.SubscriberCount,
			Email:           item.ContactEmail,
			ChannelURL:      channelURLPrefix + item.ChannelID,
			Description:     item.ChannelDescription,
		})
		if err != nil {
			return false, false, fmt.Errorf("lead create: %w", err)
		}
		newLead = true
	} else if p.leadNeedsRefresh(lead, item) {
		if err := p.store.UpdateLeadContact(ctx, lead.ID, item.ContactEmail, item.SubscriberCount); err != nil {
			fmt.Fprintf(p.log, "  warning: lead refresh failed for %s: %v\n", lead.ChannelID, err)
		}
	}

	exists, err := p.store.ItemExists(ctx, item.VideoID)
	if err != nil {
		return false, newLead, fmt.Errorf("item existence check: %w", err)
	}
	if exists {
		return false, newLead, nil
	}

	stored, err := p.store.CreateItem(ctx, &types.Item{
		VideoID:       item.VideoID,
		Title:         item.Title,
		LeadID:        lead.ID,
		PublishedAt:   item.PublishedAt,
		ViewCount:     item.ViewCount,
		LikeCount:     item.LikeCount,
		CommentCount:  item.CommentCount,
		VideoURL:      item.VideoURL,
		ThumbnailURL:  item.ThumbnailURL,
		SearchKeyword: item.SearchKeyword,
	})
	if err != nil {
		return false, newLead, fmt.Errorf("item create: %w", err)
	}

	if p.cfg.GenerateDrafts && p.drafter != nil {
		p.generateDrafts(ctx, item, stored, lead)
	}
	return true, newLead, nil
}

// leadNeedsRefresh reports whether enrichment found better data than the
// stored record carries.
func (p *Pipeline) leadNeedsRefresh(lead *types.Lead, item types.EnrichedItem) bool {
	if item.ContactEmail != "" && item.ContactEmail != lead.Email {
		return true
	}
	return item.SubscriberCount > 0 && item.SubscriberCount != lead.SubscriberCount
}

// generateDrafts creates both draft types for a freshly stored item. Draft
// failures are per-draft warnings; the item itself is already persisted.
func (p *Pipeline) generateDrafts(ctx context.Context, item types.EnrichedItem, stored *types.Item, lead *types.Lead) {
	if rc, ok := p.drafter.(RelevanceChecker); ok && !rc.Relevant(ctx, item) {
		fmt.Fprintf(p.log, "  skipped drafts for %s: below relevance threshold\n", item.VideoID)
		return
	}

	email := p.drafter.OutreachEmail(ctx, item, lead)
	if _, err := p.store.CreateDraft(ctx, types.DraftOutreachMessage, email, stored.ID, lead.ID); err != nil {
		fmt.Fprintf(p.log, "  warning: outreach draft for %s: %v\n", item.VideoID, err)
	}

	comment := p.drafter.ShortComment(ctx, item)
	if _, err := p.store.CreateDraft(ctx, types.DraftShortComment, comment, stored.ID, lead.ID); err != nil {
		fmt.Fprintf(p.log, "  warning: comment draft for %s: %v\n", item.VideoID, err)
	}
}
