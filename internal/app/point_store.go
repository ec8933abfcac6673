package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hylla/waypoint/internal/domain"
)

// PointStore is the in-memory source of truth for trip points, backed by a repository.
type PointStore struct {
	repo  Repository
	idGen IDGenerator

	mu     sync.RWMutex
	loaded bool
	points []domain.Point
	subs   observers
}

// NewPointStore constructs a point store. A nil idGen falls back to random uuids.
func NewPointStore(repo Repository, idGen IDGenerator) *PointStore {
	if idGen == nil {
		idGen = uuid.NewString
	}
	return &PointStore{repo: repo, idGen: idGen}
}

// Init loads every point from the repository.
func (s *PointStore) Init(ctx context.Context) error {
	points, err := s.repo.ListPoints(ctx)
	if err != nil {
		return fmt.Errorf("load points: %w", err)
	}
	s.mu.Lock()
	s.points = points
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Points returns a copy of the stored points.
func (s *PointStore) Points() []domain.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Point, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, p.Clone())
	}
	return out
}

// Point returns one point by id.
func (s *PointStore) Point(id string) (domain.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Point{}, false
	}
	return s.points[idx].Clone(), true
}

// AddPoint validates, persists, and stores a new point, assigning an id when blank.
func (s *PointStore) AddPoint(ctx context.Context, p domain.Point) (domain.Point, error) {
	if err := s.requireLoaded(); err != nil {
		return domain.Point{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = s.idGen()
	}
	point, err := domain.NewPoint(pointInput(p))
	if err != nil {
		return domain.Point{}, err
	}
	if err := s.repo.CreatePoint(ctx, point); err != nil {
		return domain.Point{}, fmt.Errorf("create point: %w", err)
	}

	s.mu.Lock()
	s.points = append(s.points, point)
	s.mu.Unlock()
	s.subs.notify()
	return point.Clone(), nil
}

// UpdatePoint validates, persists, and replaces an existing point.
func (s *PointStore) UpdatePoint(ctx context.Context, p domain.Point) (domain.Point, error) {
	if err := s.requireLoaded(); err != nil {
		return domain.Point{}, err
	}
	point, err := domain.NewPoint(pointInput(p))
	if err != nil {
		return domain.Point{}, err
	}
	s.mu.RLock()
	exists := s.indexOf(point.ID) >= 0
	s.mu.RUnlock()
	if !exists {
		return domain.Point{}, ErrNotFound
	}
	if err := s.repo.UpdatePoint(ctx, point); err != nil {
		return domain.Point{}, fmt.Errorf("update point: %w", err)
	}

	s.mu.Lock()
	if idx := s.indexOf(point.ID); idx >= 0 {
		s.points[idx] = point
	}
	s.mu.Unlock()
	s.subs.notify()
	return point.Clone(), nil
}

// DeletePoint removes a point from the repository and the store.
func (s *PointStore) DeletePoint(ctx context.Context, id string) error {
	if err := s.requireLoaded(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	s.mu.RLock()
	exists := s.indexOf(id) >= 0
	s.mu.RUnlock()
	if !exists {
		return ErrNotFound
	}
	if err := s.repo.DeletePoint(ctx, id); err != nil {
		return fmt.Errorf("delete point: %w", err)
	}

	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		s.points = slices.Delete(s.points, idx, idx+1)
	}
	s.mu.Unlock()
	s.subs.notify()
	return nil
}

// Subscribe registers a change callback; the returned func unsubscribes.
func (s *PointStore) Subscribe(fn func()) func() {
	return s.subs.subscribe(fn)
}

// requireLoaded rejects mutations issued before Init succeeded.
func (s *PointStore) requireLoaded() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return ErrNotInitialized
	}
	return nil
}

// indexOf expects the caller to hold the lock.
func (s *PointStore) indexOf(id string) int {
	return slices.IndexFunc(s.points, func(p domain.Point) bool { return p.ID == id })
}

func pointInput(p domain.Point) domain.PointInput {
	return domain.PointInput{
		ID:            p.ID,
		Type:          p.Type,
		DestinationID: p.DestinationID,
		DateFrom:      p.DateFrom,
		DateTo:        p.DateTo,
		BasePrice:     p.BasePrice,
		OfferIDs:      p.OfferIDs,
		IsFavorite:    p.IsFavorite,
	}
}
