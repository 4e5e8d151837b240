// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bes2/outreach-engine/pkg/types"
)

const defaultDBFile = "outreach.db"

type sqliteStore struct {
	db *sql.DB
}

// openSQLite opens or creates the SQLite database at cfg.Path and creates
// the schema if it does not exist.
func openSQLite(cfg types.StoreConfig) (*sqliteStore, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &sqliteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			channel_id TEXT NOT NULL UNIQUE,
			channel_name TEXT,
			subscriber_count INTEGER NOT NULL DEFAULT 0,
			email TEXT,
			channel_url TEXT,
			thumbnail_url TEXT,
			description TEXT,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL UNIQUE,
			title TEXT,
			lead_id TEXT NOT NULL REFERENCES leads(id),
			published_at TEXT,
			view_count INTEGER NOT NULL DEFAULT 0,
			like_count INTEGER NOT NULL DEFAULT 0,
			comment_count INTEGER NOT NULL DEFAULT 0,
			video_url TEXT,
			thumbnail_url TEXT,
			search_keyword TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_lead_id ON items(lead_id)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			item_id TEXT NOT NULL REFERENCES items(id),
			lead_id TEXT NOT NULL REFERENCES leads(id),
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// KnownVideoIDs returns every stored video identifier.
func (s *sqliteStore) KnownVideoIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT video_id FROM items`)
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

const leadColumns = `id, channel_id, channel_name, subscriber_count, email,
	channel_url, thumbnail_url, description, status, created_at`

func scanLead(row interface{ Scan(...any) error }) (*types.Lead, error) {
	var lead types.Lead
	var status, createdAt string
	err := row.Scan(&lead.ID, &lead.ChannelID, &lead.ChannelName,
		&lead.SubscriberCount, &lead.Email, &lead.ChannelURL,
		&lead.ThumbnailURL, &lead.Description, &status, &createdAt)
	if err != nil {
		return nil, err
	}
	lead.Status = types.LeadStatus(status)
	lead.CreatedAt = parseStoredTime(createdAt)
	return &lead, nil
}

// FindLeadByChannelID returns the lead for a channel, if one exists.
func (s *sqliteStore) FindLeadByChannelID(ctx context.Context, channelID string) (*types.Lead, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE channel_id = ?`, channelID)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("finding lead for channel %s: %w", channelID, err)
	}
	return lead, true, nil
}

// CreateLead inserts a lead. An existing lead for the same channel is
// returned unchanged.
func (s *sqliteStore) CreateLead(ctx context.Context, lead *types.Lead) (*types.Lead, error) {
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

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO leads (`+leadColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.ChannelID, stored.ChannelName, stored.SubscriberCount,
		stored.Email, stored.ChannelURL, stored.ThumbnailURL, stored.Description,
		string(stored.Status), formatStoredTime(stored.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("inserting lead for channel %s: %w", stored.ChannelID, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
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
func (s *sqliteStore) UpdateLeadContact(ctx context.Context, leadID, email string, subscriberCount int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET
			email = CASE WHEN ? != '' THEN ? ELSE email END,
			subscriber_count = ?
		 WHERE id = ?`,
		email, email, subscriberCount, leadID)
	if err != nil {
		return fmt.Errorf("updating lead %s: %w", leadID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lead %s not found", leadID)
	}
	return nil
}

// Leads returns all stored leads, newest first.
func (s *sqliteStore) Leads(ctx context.Context) ([]types.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("reading leads: %w", err)
	}
	defer rows.Close()

	var leads []types.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// ItemExists reports whether an item with the video ID is stored.
func (s *sqliteStore) ItemExists(ctx context.Context, videoID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM items WHERE video_id = ?`, videoID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking item %s: %w", videoID, err)
	}
	return n > 0, nil
}

const itemColumns = `id, video_id, title, lead_id, published_at, view_count,
	like_count, comment_count, video_url, thumbnail_url, search_keyword, created_at`

func scanItem(row interface{ Scan(...any) error }) (*types.Item, error) {
	var item types.Item
	var publishedAt, createdAt string
	err := row.Scan(&item.ID, &item.VideoID, &item.Title, &item.LeadID,
		&publishedAt, &item.ViewCount, &item.LikeCount, &item.CommentCount,
		&item.VideoURL, &item.ThumbnailURL, &item.SearchKeyword, &createdAt)
	if err != nil {
		return nil, err
	}
	item.PublishedAt = parseStoredTime(publishedAt)
	item.CreatedAt = parseStoredTime(createdAt)
	return &item, nil
}

// CreateItem inserts an item. An existing item for the same video is
// returned unchanged.
func (s *sqliteStore) CreateItem(ctx context.Context, item *types.Item) (*types.Item, error) {
	stored := *item
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.VideoID, stored.Title, stored.LeadID,
		formatStoredTime(stored.PublishedAt), stored.ViewCount, stored.LikeCount,
		stored.CommentCount, stored.VideoURL, stored.ThumbnailURL,
		stored.SearchKeyword, formatStoredTime(stored.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("inserting item %s: %w", stored.VideoID, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		row := s.db.QueryRowContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE video_id = ?`, stored.VideoID)
		existing, err := scanItem(row)
		if err != nil {
			return nil, fmt.Errorf("reading existing item %s: %w", stored.VideoID, err)
		}
		return existing, nil
	}
	return &stored, nil
}

const draftColumns = `id, type, content, item_id, lead_id, status, created_at`

func scanDraft(row interface{ Scan(...any) error }) (*types.Draft, error) {
	var draft types.Draft
	var draftType, status, createdAt string
	err := row.Scan(&draft.ID, &draftType, &draft.Content, &draft.ItemID,
		&draft.LeadID, &status, &createdAt)
	if err != nil {
		return nil, err
	}
	draft.Type = types.DraftType(draftType)
	draft.Status = types.DraftStatus(status)
	draft.CreatedAt = parseStoredTime(createdAt)
	return &draft, nil
}

// CreateDraft inserts a new draft in pending status.
func (s *sqliteStore) CreateDraft(ctx context.Context, draftType types.DraftType, content, itemID, leadID string) (*types.Draft, error) {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (`+draftColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, string(draft.Type), draft.Content, draft.ItemID,
		draft.LeadID, string(draft.Status), formatStoredTime(draft.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("inserting draft: %w", err)
	}
	return &draft, nil
}

// UpdateDraftStatus moves a draft to a new review status after validating
// the transition. Terminal drafts are never mutated.
func (s *sqliteStore) UpdateDraftStatus(ctx context.Context, draftID string, status types.DraftStatus) (*types.Draft, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid draft status %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE id = ?`, draftID)
	draft, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("draft %s not found", draftID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft %s: %w", draftID, err)
	}

	if !draft.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("draft %s: illegal transition %s -> %s", draftID, draft.Status, status)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE drafts SET status = ? WHERE id = ?`, string(status), draftID); err != nil {
		return nil, fmt.Errorf("updating draft %s: %w", draftID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing draft update: %w", err)
	}

	draft.Status = status
	return draft, nil
}

// DraftsByStatus returns drafts in the given status, newest first. An empty
// draftType matches both types.
func (s *sqliteStore) DraftsByStatus(ctx context.Context, status types.DraftStatus, draftType types.DraftType) ([]types.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE status = ?`
	args := []any{string(status)}
	if draftType != "" {
		query += ` AND type = ?`
		args = append(args, string(draftType))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading drafts: %w", err)
	}
	defer rows.Close()

	var drafts []types.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		drafts = append(drafts, *draft)
	}
	return drafts, rows.Err()
}

// PendingDrafts returns all drafts awaiting review, newest first.
func (s *sqliteStore) PendingDrafts(ctx context.Context) ([]types.Draft, error) {
	return s.DraftsByStatus(ctx, types.DraftPending, "")
}

// LeadStats aggregates stored leads by workflow status.
func (s *sqliteStore) LeadStats(ctx context.Context) (types.LeadStats, error) {
	rows, err := s.db.QueryContext(ctx,
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
func (s *sqliteStore) DraftStats(ctx context.Context) (types.DraftStats, error) {
	rows, err := s.db.QueryContext(ctx,
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

func addLeadCount(stats *types.LeadStats, status types.LeadStatus, n int) {
	stats.Total += n
	switch status {
	case types.LeadNew:
		stats.New += n
	case types.LeadContacted:
		stats.Contacted += n
	case types.LeadResponded:
		stats.Responded += n
	case types.LeadConverted:
		stats.Converted += n
	case types.LeadRejected:
		stats.Rejected += n
	}
}

func addDraftCount(stats *types.DraftStats, draftType types.DraftType, status types.DraftStatus, n int) {
	stats.Total += n

	var byType *types.DraftTypeStats
	switch draftType {
	case types.DraftOutreachMessage:
		byType = &stats.Outreach
	case types.DraftShortComment:
		byType = &stats.Comment
	default:
		return
	}

	byType.Total += n
	switch status {
	case types.DraftPending:
		byType.Pending += n
	case types.DraftApproved:
		byType.Approved += n
	case types.DraftSent:
		byType.Sent += n
	case types.DraftRejected:
		byType.Rejected += n
	}
}

func formatStoredTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStoredTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
