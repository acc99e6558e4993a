package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/rs/zerolog/log"
)

type entry struct {
	mu         sync.Mutex
	draft      wizard.Draft
	lastAccess time.Time
	deleted    bool
}

// MemoryStore keeps drafts in process memory and expires idle ones.
type MemoryStore struct {
	ttl           time.Duration
	mu            sync.RWMutex
	entries       map[uuid.UUID]*entry
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	closeOnce     sync.Once
	now           func() time.Time
}

// NewMemoryStore creates a store. When cleanupInterval is positive a
// background goroutine evicts drafts idle for longer than ttl.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		ttl:     ttl,
		entries: make(map[uuid.UUID]*entry),
		now:     time.Now,
	}
	if cleanupInterval > 0 {
		s.cleanupTicker = time.NewTicker(cleanupInterval)
		s.cleanupStop = make(chan struct{})
		go s.cleanup()
	}
	return s
}

// Create stores a new draft.
func (s *MemoryStore) Create(_ context.Context, d wizard.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[d.ID] = &entry{draft: d, lastAccess: s.now()}
	return nil
}

func (s *MemoryStore) lookup(id uuid.UUID) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	return e, ok
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return e.deleted || now.Sub(e.lastAccess) > s.ttl
}

// Get returns a copy of the draft.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (wizard.Draft, error) {
	e, ok := s.lookup(id)
	if !ok {
		return wizard.Draft{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	now := s.now()
	if s.expired(e, now) {
		return wizard.Draft{}, ErrNotFound
	}
	e.lastAccess = now
	return e.draft, nil
}

// Update runs fn while holding the draft's lock.
func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, fn UpdateFunc) (wizard.Draft, error) {
	e, ok := s.lookup(id)
	if !ok {
		return wizard.Draft{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	now := s.now()
	if s.expired(e, now) {
		return wizard.Draft{}, ErrNotFound
	}
	e.lastAccess = now
	out, err := apply(e.draft, fn, now)
	if err != nil {
		return e.draft, err
	}
	e.draft = out
	return out, nil
}

// Delete discards a draft. Deleting an unknown draft is not an error.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if ok {
		e.mu.Lock()
		e.deleted = true
		e.mu.Unlock()
	}
	return nil
}

// Len returns the number of live drafts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.evictExpired()
		case <-s.cleanupStop:
			return
		}
	}
}

// evictExpired removes drafts idle for longer than the TTL.
func (s *MemoryStore) evictExpired() int {
	now := s.now()

	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	evicted := 0
	for _, id := range ids {
		e, ok := s.lookup(id)
		if !ok {
			continue
		}
		e.mu.Lock()
		stale := s.expired(e, now)
		if stale {
			e.deleted = true
		}
		e.mu.Unlock()
		if stale {
			s.mu.Lock()
			delete(s.entries, id)
			s.mu.Unlock()
			evicted++
		}
	}
	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("expired drafts evicted")
	}
	return evicted
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
		}
		if s.cleanupStop != nil {
			close(s.cleanupStop)
		}
	})
	return nil
}
