// Package state owns the dedupe set of already-notified announcement ids and
// its persistence. The set grows monotonically and is written back only at
// the end of a cycle that added at least one id.
package state

import (
	"sort"
	"sync"
)

// SeenIDs is a mutex-guarded set of announcement ids. The pipeline runs on a
// single scheduler worker, but the lock makes the single-writer property
// explicit instead of relying on that.
type SeenIDs struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func NewSeenIDs() *SeenIDs {
	return &SeenIDs{ids: make(map[int64]struct{})}
}

func (s *SeenIDs) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Add inserts id and reports whether it was newly added.
func (s *SeenIDs) Add(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *SeenIDs) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Snapshot returns the ids sorted ascending, for deterministic serialization.
func (s *SeenIDs) Snapshot() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Replace swaps the whole set, used once at startup restore.
func (s *SeenIDs) Replace(ids []int64) {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	s.mu.Lock()
	s.ids = m
	s.mu.Unlock()
}
