package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/bailgen/internal/vars"
)

// Generation is a stored result, kept so the API can serve the DOCX of a
// previous call.
type Generation struct {
	ID        string
	Result    Result
	CreatedAt time.Time
}

// Store is a thread-safe in-memory generation registry with TTL eviction.
type Store struct {
	mu   sync.Mutex
	gens map[string]*Generation
	ttl  time.Duration
	now  func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		gens: make(map[string]*Generation),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *Store) Put(id string, res Result) *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &Generation{ID: id, Result: res, CreatedAt: s.now()}
	s.gens[id] = g
	return g
}

func (s *Store) Get(id string) *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[id]
}

// Len returns the number of stored generations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.gens)
}

// Cleanup removes expired generations.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, g := range s.gens {
		if now.Sub(g.CreatedAt) > s.ttl {
			delete(s.gens, id)
		}
	}
}

// Run evicts expired generations every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// FactsHash fingerprints a facts context as the SHA-256 of its sorted
// name/value pairs.
func FactsHash(ctx vars.Context) string {
	h := sha256.New()
	strs := ctx.Strings()
	for _, k := range ctx.Keys() {
		v, ok := strs[k]
		if !ok {
			continue
		}
		fmt.Fprintf(h, "%s\x00%s\x01", k, v)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
