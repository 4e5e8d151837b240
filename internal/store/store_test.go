// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bes2/outreach-engine/pkg/types"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	s, err := Open(context.Background(), types.StoreConfig{
		Path: filepath.Join(t.TempDir(), "outreach.db"),
	})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateLead(t *testing.T, s Store, channelID string) *types.Lead {
	t.Helper()
	lead, err := s.CreateLead(context.Background(), &types.Lead{
		ChannelID:   channelID,
		ChannelName: "채널 " + channelID,
	})
	if err != nil {
		t.Fatalf("CreateLead(%s) error: %v", channelID, err)
	}
	return lead
}

func mustCreateItem(t *testing.T, s Store, videoID, leadID string) *types.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), &types.Item{
		VideoID:   videoID,
		Title:     "영상 " + videoID,
		LeadID:    leadID,
		ViewCount: 100,
	})
	if err != nil {
		t.Fatalf("CreateItem(%s) error: %v", videoID, err)
	}
	return item
}

func TestCreateLeadAssignsDefaults(t *testing.T) {
	s := openTestStore(t)

	lead := mustCreateLead(t, s, "ch-1")

	if lead.ID == "" {
		t.Error("expected assigned ID")
	}
	if lead.Status != types.LeadNew {
		t.Errorf("status = %q, want %q", lead.Status, types.LeadNew)
	}
	if lead.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateLeadSameChannelReturnsExisting(t *testing.T) {
	s := openTestStore(t)

	first := mustCreateLead(t, s, "ch-1")
	second := mustCreateLead(t, s, "ch-1")

	if second.ID != first.ID {
		t.Errorf("second insert returned ID %s, want existing %s", second.ID, first.ID)
	}

	stats, err := s.LeadStats(context.Background())
	if err != nil {
		t.Fatalf("LeadStats() error: %v", err)
	}
	if stats.Total != 1 {
		t.Errorf("lead total = %d, want 1", stats.Total)
	}
}

func TestFindLeadByChannelID(t *testing.T) {
	s := openTestStore(t)
	created := mustCreateLead(t, s, "ch-1")

	lead, ok, err := s.FindLeadByChannelID(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("FindLeadByChannelID() error: %v", err)
	}
	if !ok {
		t.Fatal("expected lead to be found")
	}
	if lead.ID != created.ID || lead.ChannelName != created.ChannelName {
		t.Errorf("found lead %+v, want %+v", lead, created)
	}

	_, ok, err = s.FindLeadByChannelID(context.Background(), "ch-missing")
	if err != nil {
		t.Fatalf("FindLeadByChannelID(missing) error: %v", err)
	}
	if ok {
		t.Error("expected missing channel to report not found")
	}
}

func TestUpdateLeadContact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lead := mustCreateLead(t, s, "ch-1")

	if err := s.UpdateLeadContact(ctx, lead.ID, "creator@example.com", 5000); err != nil {
		t.Fatalf("UpdateLeadContact() error: %v", err)
	}

	got, _, err := s.FindLeadByChannelID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("FindLeadByChannelID() error: %v", err)
	}
	if got.Email != "creator@example.com" {
		t.Errorf("email = %q, want creator@example.com", got.Email)
	}
	if got.SubscriberCount != 5000 {
		t.Errorf("subscriber count = %d, want 5000", got.SubscriberCount)
	}

	// An empty email refreshes the count but keeps the known address.
	if err := s.UpdateLeadContact(ctx, lead.ID, "", 6000); err != nil {
		t.Fatalf("UpdateLeadContact(empty email) error: %v", err)
	}
	got, _, err = s.FindLeadByChannelID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("FindLeadByChannelID() error: %v", err)
	}
	if got.Email != "creator@example.com" {
		t.Errorf("email after empty update = %q, want creator@example.com", got.Email)
	}
	if got.SubscriberCount != 6000 {
		t.Errorf("subscriber count = %d, want 6000", got.SubscriberCount)
	}
}

func TestUpdateLeadContactMissingLead(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateLeadContact(context.Background(), "no-such-id", "a@b.com", 1)
	if err == nil {
		t.Fatal("expected error for missing lead")
	}
}

func TestItemDedupByVideoID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lead := mustCreateLead(t, s, "ch-1")

	exists, err := s.ItemExists(ctx, "vid-1")
	if err != nil {
		t.Fatalf("ItemExists() error: %v", err)
	}
	if exists {
		t.Error("expected vid-1 to not exist yet")
	}

	first := mustCreateItem(t, s, "vid-1", lead.ID)
	second := mustCreateItem(t, s, "vid-1", lead.ID)
	if second.ID != first.ID {
		t.Errorf("second insert returned ID %s, want existing %s", second.ID, first.ID)
	}

	exists, err = s.ItemExists(ctx, "vid-1")
	if err != nil {
		t.Fatalf("ItemExists() error: %v", err)
	}
	if !exists {
		t.Error("expected vid-1 to exist")
	}
}

func TestKnownVideoIDs(t *testing.T) {
	s := openTestStore(t)
	lead := mustCreateLead(t, s, "ch-1")
	mustCreateItem(t, s, "vid-1", lead.ID)
	mustCreateItem(t, s, "vid-2", lead.ID)

	known, err := s.KnownVideoIDs(context.Background())
	if err != nil {
		t.Fatalf("KnownVideoIDs() error: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("known len = %d, want 2", len(known))
	}
	for _, id := range []string{"vid-1", "vid-2"} {
		if _, ok := known[id]; !ok {
			t.Errorf("expected %s in known set", id)
		}
	}
}

func TestCreateDraftStartsPending(t *testing.T) {
	s := openTestStore(t)
	lead := mustCreateLead(t, s, "ch-1")
	item := mustCreateItem(t, s, "vid-1", lead.ID)

	draft, err := s.CreateDraft(context.Background(),
		types.DraftOutreachMessage, "안녕하세요!", item.ID, lead.ID)
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if draft.Status != types.DraftPending {
		t.Errorf("status = %q, want pending", draft.Status)
	}
	if draft.ID == "" {
		t.Error("expected assigned ID")
	}
}

func TestCreateDraftRejectsUnknownType(t *testing.T) {
	s := openTestStore(t)
	lead := mustCreateLead(t, s, "ch-1")
	item := mustCreateItem(t, s, "vid-1", lead.ID)

	_, err := s.CreateDraft(context.Background(),
		types.DraftType("postcard"), "text", item.ID, lead.ID)
	if err == nil {
		t.Fatal("expected error for unknown draft type")
	}
}

func TestDraftStatusTransitions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lead := mustCreateLead(t, s, "ch-1")
	item := mustCreateItem(t, s, "vid-1", lead.ID)

	draft, err := s.CreateDraft(ctx, types.DraftShortComment, "comment", item.ID, lead.ID)
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	approved, err := s.UpdateDraftStatus(ctx, draft.ID, types.DraftApproved)
	if err != nil {
		t.Fatalf("pending -> approved error: %v", err)
	}
	if approved.Status != types.DraftApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}

	sent, err := s.UpdateDraftStatus(ctx, draft.ID, types.DraftSent)
	if err != nil {
		t.Fatalf("approved -> sent error: %v", err)
	}
	if sent.Status != types.DraftSent {
		t.Errorf("status = %q, want sent", sent.Status)
	}

	// Sent is terminal: no further transition, and the row stays sent.
	if _, err := s.UpdateDraftStatus(ctx, draft.ID, types.DraftRejected); err == nil {
		t.Fatal("expected error for sent -> rejected")
	}
	drafts, err := s.DraftsByStatus(ctx, types.DraftSent, "")
	if err != nil {
		t.Fatalf("DraftsByStatus() error: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != draft.ID {
		t.Errorf("sent drafts = %+v, want the one sent draft", drafts)
	}
}

func TestDraftStatusRejectsInvalidInputs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lead := mustCreateLead(t, s, "ch-1")
	item := mustCreateItem(t, s, "vid-1", lead.ID)

	draft, err := s.CreateDraft(ctx, types.DraftShortComment, "comment", item.ID, lead.ID)
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	if _, err := s.UpdateDraftStatus(ctx, draft.ID, types.DraftStatus("shipped")); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := s.UpdateDraftStatus(ctx, draft.ID, types.DraftPending); err == nil {
		t.Error("expected error for no-op pending -> pending")
	}
	if _, err := s.UpdateDraftStatus(ctx, "no-such-draft", types.DraftApproved); err == nil {
		t.Error("expected error for missing draft")
	}
}

func TestDraftsByStatusFiltersType(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lead := mustCreateLead(t, s, "ch-1")
	item := mustCreateItem(t, s, "vid-1", lead.ID)

	if _, err := s.CreateDraft(ctx, types.DraftOutreachMessage, "email", item.ID, lead.ID); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if _, err := s.CreateDraft(ctx, types.DraftShortComment, "comment", item.ID, lead.ID); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	all, err := s.PendingDrafts(ctx)
	if err != nil {
		t.Fatalf("PendingDrafts() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("pending drafts = %d, want 2", len(all))
	}

	comments, err := s.DraftsByStatus(ctx, types.DraftPending, types.DraftShortComment)
	if err != nil {
		t.Fatalf("DraftsByStatus() error: %v", err)
	}
	if len(comments) != 1 || comments[0].Type != types.DraftShortComment {
		t.Errorf("comment drafts = %+v, want one short-comment", comments)
	}
}

func TestDraftStatsAggregation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lead := mustCreateLead(t, s, "ch-1")
	item := mustCreateItem(t, s, "vid-1", lead.ID)

	email, err := s.CreateDraft(ctx, types.DraftOutreachMessage, "email", item.ID, lead.ID)
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if _, err := s.CreateDraft(ctx, types.DraftShortComment, "comment", item.ID, lead.ID); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if _, err := s.UpdateDraftStatus(ctx, email.ID, types.DraftApproved); err != nil {
		t.Fatalf("UpdateDraftStatus() error: %v", err)
	}

	stats, err := s.DraftStats(ctx)
	if err != nil {
		t.Fatalf("DraftStats() error: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.Outreach.Approved != 1 || stats.Outreach.Total != 1 {
		t.Errorf("outreach stats = %+v, want 1 approved of 1", stats.Outreach)
	}
	if stats.Comment.Pending != 1 || stats.Comment.Total != 1 {
		t.Errorf("comment stats = %+v, want 1 pending of 1", stats.Comment)
	}
}

func TestSchemaSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := types.StoreConfig{Path: filepath.Join(dir, "outreach.db")}
	ctx := context.Background()

	s, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	lead, err := s.CreateLead(ctx, &types.Lead{ChannelID: "ch-1"})
	if err != nil {
		t.Fatalf("CreateLead() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	s, err = Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	got, ok, err := s.FindLeadByChannelID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("FindLeadByChannelID() error: %v", err)
	}
	if !ok || got.ID != lead.ID {
		t.Errorf("lead after reopen = %+v, want ID %s", got, lead.ID)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), types.StoreConfig{Driver: "mysql"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "mysql") {
		t.Errorf("error %q should name the driver", err)
	}
}
