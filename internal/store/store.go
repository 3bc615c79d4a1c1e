// Package store holds uploaded report batches in memory for the lifetime
// of the process. Stats are recomputed from the full record set whenever
// the batch list changes; there is no incremental update and no
// persistence, a reset simply drops everything.
package store

import (
	"sort"
	"sync"

	"github.com/ignite/adreport/internal/report"
)

// Store is the in-memory batch store shared by the HTTP handlers.
type Store struct {
	mu      sync.RWMutex
	batches []*report.Batch
	stats   *report.Stats // cached rollup, nil when dirty
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// AddBatch appends one parsed file's batch and invalidates the cached
// stats.
func (s *Store) AddBatch(b *report.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b)
	s.stats = nil
}

// Reset drops all batches.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = nil
	s.stats = nil
}

// Batches returns the stored batches in upload order.
func (s *Store) Batches() []*report.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*report.Batch(nil), s.batches...)
}

// Records returns a copy of all records across batches, in upload order.
func (s *Store) Records() []report.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordsLocked()
}

func (s *Store) recordsLocked() []report.Record {
	var out []report.Record
	for _, b := range s.batches {
		out = append(out, b.Records...)
	}
	return out
}

// Stats returns the rollup over all stored records, recomputing it if a
// batch was added or the store was reset since the last call.
func (s *Store) Stats() *report.Stats {
	s.mu.RLock()
	if s.stats != nil {
		defer s.mu.RUnlock()
		return s.stats
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		s.stats = report.Aggregate(s.recordsLocked())
	}
	return s.stats
}

// TotalRevenue returns the combined revenue across all batches.
func (s *Store) TotalRevenue() float64 {
	return s.Stats().TotalRevenue
}

// Names returns the unioned campaign, tag, creative, and advertiser name
// sets observed at parse time.
func (s *Store) Names() (campaigns, tags, creatives, advertisers []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns = unionKeys(s.batches, func(b *report.Batch) map[string]bool { return b.Campaigns })
	tags = unionKeys(s.batches, func(b *report.Batch) map[string]bool { return b.Tags })
	creatives = unionKeys(s.batches, func(b *report.Batch) map[string]bool { return b.Creatives })
	advertisers = unionKeys(s.batches, func(b *report.Batch) map[string]bool { return b.Advertisers })
	return campaigns, tags, creatives, advertisers
}

func unionKeys(batches []*report.Batch, pick func(*report.Batch) map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range batches {
		for k := range pick(b) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
