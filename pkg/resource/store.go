// Package resource holds generated image bytes under opaque handles, the
// server-side analogue of browser object URLs: create on success, address by
// URL while displayed, release exactly once when replaced or torn down.
package resource

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrReleased reports a Release call on a handle that was already released.
var ErrReleased = errors.New("resource: handle already released")

// Store is an in-memory registry of binary results. Handles minted from a
// store stay resolvable until their single owner releases them.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	baseURL string
}

type entry struct {
	data        []byte
	contentType string
}

// Option customises store construction.
type Option func(*Store)

// WithBaseURL sets the URL prefix handles report, e.g. "/qr". Defaults to "/qr".
func WithBaseURL(base string) Option {
	return func(s *Store) {
		if base != "" {
			s.baseURL = base
		}
	}
}

// NewStore constructs an empty store.
func NewStore(options ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		baseURL: "/qr",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Put registers a blob and returns its handle. The caller becomes the handle's
// exclusive owner and is responsible for releasing it.
func (s *Store) Put(data []byte, contentType string) *Handle {
	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = entry{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}
	s.mu.Unlock()

	return &Handle{id: id, store: s, contentType: contentType}
}

// Get resolves a handle ID to its bytes and content type. Released or unknown
// IDs report false.
func (s *Store) Get(id string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, "", false
	}
	return e.data, e.contentType, true
}

// Len reports how many blobs the store currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Handle is an opaque reference to a stored blob. It has a single exclusive
// owner; Release must be called exactly once on every exit path.
type Handle struct {
	id          string
	store       *Store
	contentType string

	mu       sync.Mutex
	released bool
}

// ID returns the handle identifier.
func (h *Handle) ID() string {
	return h.id
}

// ContentType reports the content type recorded at Put time.
func (h *Handle) ContentType() string {
	return h.contentType
}

// URL returns the address presentation surfaces use to fetch the bytes.
func (h *Handle) URL() string {
	return h.store.baseURL + "/" + h.id
}

// Bytes resolves the current blob contents. Released handles report false.
func (h *Handle) Bytes() ([]byte, bool) {
	data, _, ok := h.store.Get(h.id)
	return data, ok
}

// Release frees the blob. Releasing twice is a caller defect and reports
// ErrReleased rather than panicking, so teardown paths can assert on it.
func (h *Handle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return fmt.Errorf("%w: %s", ErrReleased, h.id)
	}
	h.released = true
	h.store.remove(h.id)
	return nil
}
