package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps both collections in mutex-guarded maps keyed by the
// lowercased code. It backs local development (store.driver: memory) and the
// service-level tests; semantics mirror GormStore, including the atomic
// click increment.
type MemoryStore struct {
	mu        sync.Mutex
	generated map[string]*Record
	custom    map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		generated: make(map[string]*Record),
		custom:    make(map[string]*Record),
	}
}

func (s *MemoryStore) collection(collection Collection) map[string]*Record {
	if collection == Custom {
		return s.custom
	}
	return s.generated
}

func key(code string) string {
	return strings.ToLower(code)
}

func (s *MemoryStore) Lookup(ctx context.Context, code string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.custom[key(code)]; ok {
		clone := *rec
		return &clone, nil
	}
	if rec, ok := s.generated[key(code)]; ok {
		clone := *rec
		return &clone, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) RecordClick(ctx context.Context, collection Collection, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection(collection)[key(code)]
	if !ok {
		return ErrNotFound
	}
	rec.ClickCount++
	rec.LastClickedAt = time.Now()
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, collection Collection, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.collection(collection)[key(code)]
	return ok, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection Collection, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collection(collection)
	if _, ok := records[key(rec.Code)]; ok {
		return ErrDuplicateCode
	}

	clone := *rec
	clone.Collection = collection
	now := time.Now()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	if clone.LastClickedAt.IsZero() {
		clone.LastClickedAt = clone.CreatedAt
	}
	records[key(rec.Code)] = &clone
	return nil
}

func (s *MemoryStore) UpsertCustom(ctx context.Context, ownerID string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.custom[key(rec.Code)]; ok && existing.OwnerID != ownerID {
		return ErrCodeInUse
	}

	now := time.Now()

	for k, existing := range s.custom {
		if existing.OwnerID != ownerID {
			continue
		}
		// Overwrite in place: created_at resets, the click counter survives.
		clone := *existing
		clone.Code = rec.Code
		clone.DestinationURL = rec.DestinationURL
		clone.Title = rec.Title
		clone.CreatedAt = now
		clone.LastClickedAt = now
		delete(s.custom, k)
		s.custom[key(rec.Code)] = &clone
		return nil
	}

	clone := *rec
	clone.Collection = Custom
	clone.OwnerID = ownerID
	clone.CreatedAt = now
	clone.LastClickedAt = now
	s.custom[key(rec.Code)] = &clone
	return nil
}

func (s *MemoryStore) DeleteCustom(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, existing := range s.custom {
		if existing.OwnerID == ownerID {
			delete(s.custom, k)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) SweepExpired(ctx context.Context, cutoff time.Time) (*SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &SweepResult{}
	for k, rec := range s.generated {
		if rec.LastClickedAt.Before(cutoff) {
			result.Generated = append(result.Generated, rec.Code)
			delete(s.generated, k)
		}
	}
	for k, rec := range s.custom {
		if rec.LastClickedAt.Before(cutoff) {
			result.Custom = append(result.Custom, rec.Code)
			delete(s.custom, k)
		}
	}
	return result, nil
}

func (s *MemoryStore) ListGenerated(ctx context.Context, ownerID string, limit, offset int) ([]*Record, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []*Record
	for _, rec := range s.generated {
		if rec.OwnerID == ownerID {
			clone := *rec
			owned = append(owned, &clone)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := int64(len(owned))
	if offset >= len(owned) {
		return []*Record{}, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}
