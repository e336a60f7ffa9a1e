package entities

import (
	"sync"
	"time"
)

// SelectionReason explains why a dependency was kept in or removed from a group.
type SelectionReason string

const (
	SelectionReasonDirect                     SelectionReason = "direct"
	SelectionReasonBelongsToMoreSpecificGroup SelectionReason = "belongs_to_more_specific_group"
	SelectionReasonNotInGroup                 SelectionReason = "not_in_group"
	SelectionReasonFilteredByConfig           SelectionReason = "filtered_by_config"
)

// Attribution is the advisory selection metadata of one dependency.
type Attribution struct {
	SelectionReason SelectionReason
	SourceGroup     string
	Directory       string
	Timestamp       time.Time
}

// AttributionStore keeps attributions keyed by dependency identity instead of
// mutating shared dependency values. It is safe for concurrent use.
type AttributionStore struct {
	mu      sync.RWMutex
	entries map[DependencyID]Attribution
}

// NewAttributionStore creates an empty store.
func NewAttributionStore() *AttributionStore {
	return &AttributionStore{entries: make(map[DependencyID]Attribution)}
}

// AnnotateDependency records (or overwrites) the attribution of a dependency.
func (s *AttributionStore) AnnotateDependency(dependency *Dependency, attribution Attribution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[dependency.ID()] = attribution
}

// GetAttribution returns the attribution of a dependency, if any.
func (s *AttributionStore) GetAttribution(dependency *Dependency) (Attribution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attribution, ok := s.entries[dependency.ID()]
	return attribution, ok
}

// Len returns the number of attributed dependencies.
func (s *AttributionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
