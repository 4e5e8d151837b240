// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hunt is the search-and-enrichment core: paginated keyword search
// with client-side filtering, batched detail enrichment with contact
// resolution, and the pipeline that persists what survives.
package hunt

import (
	"context"
	"fmt"

	"github.com/bes2/outreach-engine/internal/store"
)

// DedupIndex is a read-only snapshot of the video identifiers already
// stored at the start of a pipeline run. It is never mutated during the
// run; the store remains the single writer.
type DedupIndex struct {
	known map[string]struct{}
}

// LoadDedupIndex reads the known identifiers from the store in one bulk
// read.
func LoadDedupIndex(ctx context.Context, s store.Store) (*DedupIndex, error) {
	known, err := s.KnownVideoIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dedup index: %w", err)
	}
	return &DedupIndex{known: known}, nil
}

// Contains reports whether the identifier was stored at snapshot time.
func (d *DedupIndex) Contains(id string) bool {
	_, ok := d.known[id]
	return ok
}

// Len returns the snapshot size.
func (d *DedupIndex) Len() int {
	return len(d.known)
}
