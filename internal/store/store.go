// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists leads, collected items, and outreach drafts. Two
// backends implement the same interface: a SQLite file (default) and a
// hosted Postgres reached through a pgx pool. Uniqueness of leads by
// channel ID and items by video ID is enforced by the schema in both.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/bes2/outreach-engine/pkg/types"
)

// Store is the persistence boundary used by the hunt pipeline and the CLI.
// Lookup methods report absence with a false bool rather than an error.
type Store interface {
	// KnownVideoIDs returns every stored video identifier in one read.
	// Callers use it to build an in-memory dedup snapshot for a run.
	KnownVideoIDs(ctx context.Context) (map[string]struct{}, error)

	// FindLeadByChannelID returns the lead for a channel, if one exists.
	FindLeadByChannelID(ctx context.Context, channelID string) (*types.Lead, bool, error)

	// CreateLead inserts a lead, assigning an ID and creation time when
	// unset. If a lead for the same channel already exists, the existing
	// record is returned unchanged.
	CreateLead(ctx context.Context, lead *types.Lead) (*types.Lead, error)

	// UpdateLeadContact refreshes the mutable fields of a lead: contact
	// address (only when non-empty) and subscriber count.
	UpdateLeadContact(ctx context.Context, leadID, email string, subscriberCount int64) error

	// Leads returns all stored leads, newest first.
	Leads(ctx context.Context) ([]types.Lead, error)

	// ItemExists reports whether an item with the video ID is stored.
	ItemExists(ctx context.Context, videoID string) (bool, error)

	// CreateItem inserts an item, assigning an ID and creation time when
	// unset. If an item for the same video already exists, the existing
	// record is returned unchanged.
	CreateItem(ctx context.Context, item *types.Item) (*types.Item, error)

	// CreateDraft inserts a new draft in pending status. The type must be
	// a recognized draft type.
	CreateDraft(ctx context.Context, draftType types.DraftType, content, itemID, leadID string) (*types.Draft, error)

	// UpdateDraftStatus moves a draft to a new review status. The
	// transition is validated against the current status before any
	// mutation: terminal drafts (sent, rejected) never change.
	UpdateDraftStatus(ctx context.Context, draftID string, status types.DraftStatus) (*types.Draft, error)

	// DraftsByStatus returns drafts in the given status, newest first.
	// An empty draftType matches both types.
	DraftsByStatus(ctx context.Context, status types.DraftStatus, draftType types.DraftType) ([]types.Draft, error)

	// PendingDrafts returns all drafts awaiting review, newest first.
	PendingDrafts(ctx context.Context) ([]types.Draft, error)

	// LeadStats aggregates stored leads by workflow status.
	LeadStats(ctx context.Context) (types.LeadStats, error)

	// DraftStats aggregates stored drafts by type and review status.
	DraftStats(ctx context.Context) (types.DraftStats, error)

	// Close releases the underlying database handle.
	Close() error
}

// Open builds a Store from configuration. The postgres backend is selected
// by Driver or by a postgres DSN; everything else opens the SQLite file.
func Open(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
			driver = "postgres"
		} else {
			driver = "sqlite"
		}
	}

	switch driver {
	case "sqlite":
		return openSQLite(cfg)
	case "postgres":
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q: must be sqlite or postgres", driver)
	}
}
