// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bes2/outreach-engine/pkg/types"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// openPostgres connects a pgx pool to the configured DSN and creates the
// schema if it does not exist.
func openPostgres(ctx context.Context, cfg types.StoreConfig) (*postgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres store requires a DSN")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 2
	}
	poolCfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &postgresStore{pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *postgresStore) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			channel_id TEXT NOT NULL UNIQUE,
			channel_name TEXT NOT NULL DEFAULT '',
			subscriber_count BIGINT NOT NULL DEFAULT 0,
			email TEXT NOT NULL DEFAULT '',
			channel_url TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			lead_id TEXT NOT NULL REFERENCES leads(id),
			published_at TIMESTAMPTZ,
			view_count BIGINT NOT NULL DEFAULT 0,
			like_count BIGINT NOT NULL DEFAULT 0,
			comment_count BIGINT NOT NULL DEFAULT 0,
			video_url TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			search_keyword TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_lead_id ON items(lead_id)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			item_id TEXT NOT NULL REFERENCES items(id),
			lead_id TEXT NOT NULL REFERENCES leads(id),
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// KnownVideoIDs returns every stored video identifier.
func (s *postgresStore) KnownVideoIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT video_id FROM items`)
	if err != nil {
		return nil, fmt.Errorf("reading known video ids: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning video id: %w", err)
		}
		known[id] = struct{}{}
	}
	return known, rows.Err()
}

func scanPGLead(row pgx.Row) (*types.Lead, error) {
	var lead types.Lead
	var status string
	err := row.Scan(&lead.ID, &lead.ChannelID, &lead.ChannelName,
		&lead.SubscriberCount, &lead.Email, &lead.ChannelURL,
		&lead.ThumbnailURL, &lead.Description, &status, &lead.CreatedAt)
	if err != nil {
		return nil, err
	}
	lead.Status = types.LeadStatus(status)
	return &lead, nil
}

// FindLeadByChannelID returns the lead for a channel, if one exists.
func (s *postgresStore) FindLeadByChannelID(ctx context.Context, channelID string) (*types.Lead, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE channel_id = $1`, channelID)
	lead, err := scanPGLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("finding lead for channel %s: %w", channelID, err)
	}
	return lead, true, nil
}

// CreateLead inserts a lead. Concurrent or repeated inserts for the same
// channel return the existing record.
func (s *postgresStore) CreateLead(ctx context.Context, lead *types.Lead) (*types.Lead, error) {
	stored := *lead
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = types.LeadNew
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (channel_id) DO NOTHING`,
		stored.ID, stored.ChannelID, stored.ChannelName, stored.SubscriberCount,
		stored.Email, stored.ChannelURL, stored.ThumbnailURL, stored.Description,
		string(stored.Status), stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting lead for channel %s: %w", stored.ChannelID, err)
	}

	if tag.RowsAffected() == 0 {
		existing, ok, err := s.FindLeadByChannelID(ctx, stored.ChannelID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("lead for channel %s vanished during insert", stored.ChannelID)
		}
		return existing, nil
	}
	return &stored, nil
}

// UpdateLeadContact refreshes a lead's contact address and subscriber count.
func (s *postgresStore) UpdateLeadContact(ctx context.Context, leadID, email string, subscriberCount int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET
			email = CASE WHEN $1 != '' THEN $1 ELSE email END,
			subscriber_count = $2
		 WHERE id = $3`,
		email, subscriberCount, leadID)
	if err != nil {
		return fmt.Errorf("updating lead %s: %w", leadID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lead %s not found", leadID)
	}
	return nil
}

// Leads returns all stored leads, newest first.
func (s *postgresStore) Leads(ctx context.Context) ([]types.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("reading leads: %w", err)
	}
	defer rows.Close()

	var leads []types.Lead
	for rows.Next() {
		lead, err := scanPGLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// ItemExists reports whether an item with the video ID is stored.
func (s *postgresStore) ItemExists(ctx context.Context, videoID string) (bool, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM items WHERE video_id = $1`, videoID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking item %s: %w", videoID, err)
	}
	return n > 0, nil
}

func scanPGItem(row pgx.Row) (*types.Item, error) {
	var item types.Item
	err := row.Scan(&item.ID, &item.VideoID, &item.Title, &item.LeadID,
		&item.PublishedAt, &item.ViewCount, &item.LikeCount, &item.CommentCount,
		&item.VideoURL, &item.ThumbnailURL, &item.SearchKeyword, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts an item. An existing item for the same video is
// returned unchanged.
func (s *postgresStore) CreateItem(ctx context.Context, item *types.Item) (*types.Item, error) {
	stored := *item
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (video_id) DO NOTHING`,
		stored.ID, stored.VideoID, stored.Title, stored.LeadID,
		stored.PublishedAt, stored.ViewCount, stored.LikeCount,
		stored.CommentCount, stored.VideoURL, stored.ThumbnailURL,
		stored.SearchKeyword, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting item %s: %w", stored.VideoID, err)
	}

	if tag.RowsAffected() == 0 {
		row := s.pool.QueryRow(ctx,
			`SELECT `+itemColumns+` FROM items WHERE video_id = $1`, stored.VideoID)
		existing, err := scanPGItem(row)
		if err != nil {
			return nil, fmt.Errorf("reading existing item %s: %w", stored.VideoID, err)
		}
		return existing, nil
	}
	return &stored, nil
}

func scanPGDraft(row pgx.Row) (*types.Draft, error) {
	var draft types.Draft
	var draftType, status string
	err := row.Scan(&draft.ID, &draftType, &draft.Content, &draft.ItemID,
		&draft.LeadID, &status, &draft.CreatedAt)
	if err != nil {
		return nil, err
	}
	draft.Type = types.DraftType(draftType)
	draft.Status = types.DraftStatus(status)
	return &draft, nil
}

// CreateDraft inserts a new draft in pending status.
func (s *postgresStore) CreateDraft(ctx context.Context, draftType types.DraftType, content, itemID, leadID string) (*types.Draft, error) {
	if !draftType.Valid() {
		return nil, fmt.Errorf("invalid draft type %q", draftType)
	}

	draft := types.Draft{
		ID:        uuid.NewString(),
		Type:      draftType,
		Content:   content,
		ItemID:    itemID,
		LeadID:    leadID,
		Status:    types.DraftPending,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO drafts (`+draftColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		draft.ID, string(draft.Type), draft.Content, draft.ItemID,
		draft.LeadID, string(draft.Status), draft.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting draft: %w", err)
	}
	return &draft, nil
}

// UpdateDraftStatus moves a draft to a new review status after validating
// the transition. Terminal drafts are never mutated.
func (s *postgresStore) UpdateDraftStatus(ctx context.Context, draftID string, status types.DraftStatus) (*types.Draft, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid draft status %q", status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE id = $1 FOR UPDATE`, draftID)
	draft, err := scanPGDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft %s not found", draftID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft %s: %w", draftID, err)
	}

	if !draft.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("draft %s: illegal transition %s -> %s", draftID, draft.Status, status)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE drafts SET status = $1 WHERE id = $2`, string(status), draftID); err != nil {
		return nil, fmt.Errorf("updating draft %s: %w", draftID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing draft update: %w", err)
	}

	draft.Status = status
	return draft, nil
}

// DraftsByStatus returns drafts in the given status, newest first. An empty
// draftType matches both types.
func (s *postgresStore) DraftsByStatus(ctx context.Context, status types.DraftStatus, draftType types.DraftType) ([]types.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE status = $1`
	args := []any{string(status)}
	if draftType != "" {
		query += ` AND type = $2`
		args = append(args, string(draftType))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading drafts: %w", err)
	}
	defer rows.Close()

	var drafts []types.Draft
	for rows.Next() {
		draft, err := scanPGDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		drafts = append(drafts, *draft)
	}
	return drafts, rows.Err()
}

// PendingDrafts returns all drafts awaiting review, newest first.
func (s *postgresStore) PendingDrafts(ctx context.Context) ([]types.Draft, error) {
	return s.DraftsByStatus(ctx, types.DraftPending, "")
}

// LeadStats aggregates stored leads by workflow status.
func (s *postgresStore) LeadStats(ctx context.Context) (types.LeadStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, count(*) FROM leads GROUP BY status`)
	if err != nil {
		return types.LeadStats{}, fmt.Errorf("aggregating leads: %w", err)
	}
	defer rows.Close()

	var stats types.LeadStats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return types.LeadStats{}, fmt.Errorf("scanning lead counts: %w", err)
		}
		addLeadCount(&stats, types.LeadStatus(status), n)
	}
	return stats, rows.Err()
}

// DraftStats aggregates stored drafts by type and review status.
func (s *postgresStore) DraftStats(ctx context.Context) (types.DraftStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT type, status, count(*) FROM drafts GROUP BY type, status`)
	if err != nil {
		return types.DraftStats{}, fmt.Errorf("aggregating drafts: %w", err)
	}
	defer rows.Close()

	var stats types.DraftStats
	for rows.Next() {
		var draftType, status string
		var n int
		if err := rows.Scan(&draftType, &status, &n); err != nil {
			return types.DraftStats{}, fmt.Errorf("scanning draft counts: %w", err)
		}
		addDraftCount(&stats, types.DraftType(draftType), types.DraftStatus(status), n)
	}
	return stats, rows.Err()
}
