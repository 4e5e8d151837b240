// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// DraftType classifies a generated outreach artifact.
type DraftType string

const (
	// DraftOutreachMessage is a proposal email addressed to the creator.
	DraftOutreachMessage DraftType = "outreach-message"

	// DraftShortComment is a short comment to post under the video.
	DraftShortComment DraftType = "short-comment"
)

// Valid reports whether t is a recognized draft type.
func (t DraftType) Valid() bool {
	return t == DraftOutreachMessage || t == DraftShortComment
}

// DraftStatus tracks a draft through review and delivery.
type DraftStatus string

const (
	DraftPending  DraftStatus = "pending"
	DraftApproved DraftStatus = "approved"
	DraftSent     DraftStatus = "sent"
	DraftRejected DraftStatus = "rejected"
)

// Valid reports whether s is a recognized draft status.
func (s DraftStatus) Valid() bool {
	switch s {
	case DraftPending, DraftApproved, DraftSent, DraftRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s DraftStatus) Terminal() bool {
	return s == DraftSent || s == DraftRejected
}

// CanTransitionTo reports whether moving from s to next is legal. Pending
// drafts may move anywhere; approved drafts may still be sent or rejected;
// sent and rejected are terminal.
func (s DraftStatus) CanTransitionTo(next DraftStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if s == next {
		return false
	}
	return true
}

// ParseDraftStatus validates a raw status string at the mutation boundary.
func ParseDraftStatus(raw string) (DraftStatus, error) {
	s := DraftStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid draft status %q: must be one of pending, approved, sent, rejected", raw)
	}
	return s, nil
}

// ParseDraftType validates a raw type string at the creation boundary.
func ParseDraftType(raw string) (DraftType, error) {
	t := DraftType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("invalid draft type %q: must be %q or %q", raw, DraftOutreachMessage, DraftShortComment)
	}
	return t, nil
}

// Draft is a persisted AI-generated outreach text tied to one item and one
// lead. Drafts are created pending and reviewed before any delivery.
type Draft struct {
	// ID is the store-assigned identifier (UUID).
	ID string `json:"id" yaml:"id"`

	// Type classifies the draft: outreach-message or short-comment.
	Type DraftType `json:"type" yaml:"type"`

	// Content is the generated text. Content carrying the generation
	// error marker must never be published.
	Content string `json:"content" yaml:"content"`

	// ItemID links the draft to the video it was generated for.
	ItemID string `json:"item_id" yaml:"item_id"`

	// LeadID links the draft to the targeted lead.
	LeadID string `json:"lead_id" yaml:"lead_id"`

	// Status is the review state. New drafts start as pending.
	Status DraftStatus `json:"status" yaml:"status"`

	// CreatedAt is the record creation time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
