package storage

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"overcooked-storefront/storefront/internal/domain"
	"overcooked-storefront/storefront/internal/orderform"
)

var ErrDraftNotFound = errors.New("draft not found")

func draftKey(owner string, restaurantID int) string {
	return "draft:" + owner + ":" + strconv.Itoa(restaurantID)
}

// MemoryDraftStore keeps drafts in process memory. Drafts not saved again
// within ttl are treated as missing and dropped by Prune. A ttl of zero keeps
// drafts for the lifetime of the process.
type MemoryDraftStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.RWMutex
	drafts map[string]memoryDraft
}

type memoryDraft struct {
	draft     domain.OrderDraft
	expiresAt time.Time
}

func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[string]memoryDraft),
	}
}

func (s *MemoryDraftStore) expired(entry memoryDraft, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

func (s *MemoryDraftStore) Load(_ context.Context, owner string, restaurantID int) (*domain.OrderDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.drafts[draftKey(owner, restaurantID)]
	if !ok || s.expired(entry, s.now()) {
		return nil, ErrDraftNotFound
	}
	out := orderform.Clone(entry.draft)
	return &out, nil
}

func (s *MemoryDraftStore) Save(_ context.Context, owner string, draft domain.OrderDraft) error {
	entry := memoryDraft{draft: orderform.Clone(draft)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draftKey(owner, draft.RestaurantID)] = entry
	return nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, owner string, restaurantID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftKey(owner, restaurantID))
	return nil
}

func (s *MemoryDraftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// Prune drops expired drafts and returns how many were removed.
func (s *MemoryDraftStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for key, entry := range s.drafts {
		if s.expired(entry, now) {
			delete(s.drafts, key)
			removed++
		}
	}
	return removed
}

// RunPruner calls Prune every interval until ctx is done.
func (s *MemoryDraftStore) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune()
		}
	}
}
