package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hylla/waypoint/internal/domain"
)

// DestinationStore holds the read-only destination catalogue.
type DestinationStore struct {
	repo Repository

	mu           sync.RWMutex
	destinations []domain.Destination
}

// NewDestinationStore constructs a destination store.
func NewDestinationStore(repo Repository) *DestinationStore {
	return &DestinationStore{repo: repo}
}

// Init loads destinations from the repository.
func (s *DestinationStore) Init(ctx context.Context) error {
	destinations, err := s.repo.ListDestinations(ctx)
	if err != nil {
		return fmt.Errorf("load destinations: %w", err)
	}
	s.mu.Lock()
	s.destinations = destinations
	s.mu.Unlock()
	return nil
}

// Destinations returns a copy of the catalogue.
func (s *DestinationStore) Destinations() []domain.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.destinations)
}

// OfferStore holds the read-only offer groups keyed by point type.
type OfferStore struct {
	repo Repository

	mu     sync.RWMutex
	groups []domain.OfferGroup
}

// NewOfferStore constructs an offer store.
func NewOfferStore(repo Repository) *OfferStore {
	return &OfferStore{repo: repo}
}

// Init loads offer groups from the repository.
func (s *OfferStore) Init(ctx context.Context) error {
	groups, err := s.repo.ListOfferGroups(ctx)
	if err != nil {
		return fmt.Errorf("load offers: %w", err)
	}
	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()
	return nil
}

// OfferGroups returns a copy of the offer groups.
func (s *OfferStore) OfferGroups() []domain.OfferGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.groups)
}

// FilterStore owns the active filter selection.
type FilterStore struct {
	mu     sync.RWMutex
	filter domain.FilterType
	subs   observers
}

// NewFilterStore constructs a filter store starting at initial.
func NewFilterStore(initial domain.FilterType) *FilterStore {
	if initial == "" {
		initial = domain.FilterEverything
	}
	return &FilterStore{filter: initial}
}

// Filter returns the active filter.
func (s *FilterStore) Filter() domain.FilterType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter changes the active filter and notifies subscribers when it changed.
func (s *FilterStore) SetFilter(f domain.FilterType) {
	s.mu.Lock()
	if s.filter == f {
		s.mu.Unlock()
		return
	}
	s.filter = f
	s.mu.Unlock()
	s.subs.notify()
}

// Subscribe registers a change callback; the returned func unsubscribes.
func (s *FilterStore) Subscribe(fn func()) func() {
	return s.subs.subscribe(fn)
}
