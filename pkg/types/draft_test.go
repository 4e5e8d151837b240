// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestDraftStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to DraftStatus
		want     bool
	}{
		{DraftPending, DraftApproved, true},
		{DraftPending, DraftSent, true},
		{DraftPending, DraftRejected, true},
		{DraftApproved, DraftSent, true},
		{DraftApproved, DraftRejected, true},
		{DraftApproved, DraftPending, true},
		{DraftSent, DraftRejected, false},
		{DraftSent, DraftPending, false},
		{DraftRejected, DraftApproved, false},
		{DraftPending, DraftPending, false},
		{DraftPending, DraftStatus("shipped"), false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseDraftStatus(t *testing.T) {
	if _, err := ParseDraftStatus("approved"); err != nil {
		t.Errorf("ParseDraftStatus(approved) error: %v", err)
	}
	if _, err := ParseDraftStatus("shipped"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParseDraftType(t *testing.T) {
	if _, err := ParseDraftType("short-comment"); err != nil {
		t.Errorf("ParseDraftType(short-comment) error: %v", err)
	}
	if _, err := ParseDraftType("postcard"); err == nil {
		t.Error("expected error for unknown type")
	}
}
