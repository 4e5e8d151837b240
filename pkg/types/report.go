// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KeywordResult holds per-keyword counts from one hunt run.
type KeywordResult struct {
	// Keyword is the searched keyword string.
	Keyword string `json:"keyword" yaml:"keyword"`

	// ApproxTotal is the platform's approximate total-match count from the
	// first result page. Advisory only.
	ApproxTotal int64 `json:"approx_total" yaml:"approx_total"`

	// Found is the number of candidates that survived search filters.
	Found int `json:"found" yaml:"found"`

	// Enriched is the number of items that survived enrichment filters.
	Enriched int `json:"enriched" yaml:"enriched"`

	// Saved is the number of item records persisted.
	Saved int `json:"saved" yaml:"saved"`

	// NewLeads is the number of lead records created.
	NewLeads int `json:"new_leads" yaml:"new_leads"`

	// Err records a keyword-level failure. The run continues past it.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// LeadStats aggregates persisted leads by workflow status.
type LeadStats struct {
	Total     int `json:"total" yaml:"total"`
	New       int `json:"new" yaml:"new"`
	Contacted int `json:"contacted" yaml:"contacted"`
	Responded int `json:"responded" yaml:"responded"`
	Converted int `json:"converted" yaml:"converted"`
	Rejected  int `json:"rejected" yaml:"rejected"`
}

// DraftTypeStats aggregates drafts of one type by review status.
type DraftTypeStats struct {
	Total    int `json:"total" yaml:"total"`
	Pending  int `json:"pending" yaml:"pending"`
	Approved int `json:"approved" yaml:"approved"`
	Sent     int `json:"sent" yaml:"sent"`
	Rejected int `json:"rejected" yaml:"rejected"`
}

// DraftStats aggregates all persisted drafts by type and status.
type DraftStats struct {
	Total    int            `json:"total" yaml:"total"`
	Outreach DraftTypeStats `json:"outreach" yaml:"outreach"`
	Comment  DraftTypeStats `json:"comment" yaml:"comment"`
}

// HuntReport is the aggregate summary returned by a pipeline run. The run
// always completes and returns a report, even when some keywords or items
// contributed nothing.
type HuntReport struct {
	// Keywords holds per-keyword results in processing order.
	Keywords []KeywordResult `json:"keywords" yaml:"keywords"`

	// ItemsCollected is the total number of items persisted this run.
	ItemsCollected int `json:"items_collected" yaml:"items_collected"`

	// Leads is the store-wide lead aggregation after the run.
	Leads LeadStats `json:"leads" yaml:"leads"`

	// Drafts is the store-wide draft aggregation after the run.
	Drafts DraftStats `json:"drafts" yaml:"drafts"`
}

// NewLeads returns the number of leads created across all keywords.
func (r HuntReport) NewLeads() int {
	n := 0
	for _, k := range r.Keywords {
		n += k.NewLeads
	}
	return n
}

// HasFailures reports whether any keyword failed outright.
func (r HuntReport) HasFailures() bool {
	for _, k := range r.Keywords {
		if k.Err != "" {
			return true
		}
	}
	return false
}
