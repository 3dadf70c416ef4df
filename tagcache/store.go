package tagcache

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-tagwire/codes"
	"github.com/puzpuzpuz/xsync/v3"
)

// Store is an in-memory data cache.
//
// Tags are held in a concurrent map and replaced as whole snapshots on every
// write, so readers never observe a half-written value.
type Store struct {
	key  string
	tags *xsync.MapOf[string, Tag]
	now  func() time.Time
}

// NewStore creates an empty cache served under key.
func NewStore(key string) *Store {
	return &Store{
		key:  key,
		tags: xsync.NewMapOf[string, Tag](),
		now:  time.Now,
	}
}

// Key returns the cache key handles must present to Connect.
func (s *Store) Key() string {
	return s.key
}

// Len returns the number of defined tags.
func (s *Store) Len() int {
	return s.tags.Size()
}

// Define adds a tag of width w with a zero value.
func (s *Store) Define(name string, w codes.Width) error {
	if name == "" {
		return fmt.Errorf("%w: empty tag name", ErrBadValue)
	}
	if w.WordCount() == 0 {
		return fmt.Errorf("%w: tag %q", ErrUnknownWidth, name)
	}

	tag := Tag{
		Name:      name,
		Width:     w,
		Words:     make([]uint16, w.WordCount()),
		UpdatedAt: s.now(),
	}
	if _, loaded := s.tags.LoadOrStore(name, tag); loaded {
		return fmt.Errorf("%w: %q", ErrTagExists, name)
	}

	return nil
}

// SetText converts text to the tag's width and stores it.
func (s *Store) SetText(name, text string) error {
	tag, ok := s.tags.Load(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}

	words, err := EncodeText(tag.Width, text)
	if err != nil {
		return err
	}

	return s.setWords(name, words)
}

// Connect opens a handle on the store. It fails with ErrBadKey when key does
// not match the store's key. The method value s.Connect is a Connector.
func (s *Store) Connect(key string) (Cache, error) {
	if key != s.key {
		return nil, fmt.Errorf("%w: %q", ErrBadKey, key)
	}

	return &handle{store: s}, nil
}

func (s *Store) lookup(name string) (Tag, error) {
	tag, ok := s.tags.Load(name)
	if !ok {
		return Tag{}, fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}

	return tag, nil
}

func (s *Store) setWords(name string, words []uint16) error {
	var setErr error

	s.tags.Compute(name, func(old Tag, loaded bool) (Tag, bool) {
		if !loaded {
			setErr = fmt.Errorf("%w: %q", ErrTagNotFound, name)
			return old, true
		}
		if err := checkWords(old.Width, words); err != nil {
			setErr = fmt.Errorf("tag %q: %w", name, err)
			return old, false
		}

		return Tag{
			Name:      old.Name,
			Width:     old.Width,
			Words:     slices.Clone(words),
			UpdatedAt: s.now(),
		}, false
	})

	return setErr
}

// handle is one connection to a Store.
type handle struct {
	store  *Store
	closed atomic.Bool
}

var _ Cache = (*handle)(nil)

func (h *handle) Status() Status {
	if h.closed.Load() {
		return StatusNotConnected
	}

	return StatusConnected
}

func (h *handle) GetTagValue(name, format string) (string, error) {
	if h.closed.Load() {
		return "", ErrNotConnected
	}

	tag, err := h.store.lookup(name)
	if err != nil {
		return "", err
	}

	return FormatWords(tag.Width, tag.Words, format)
}

func (h *handle) SetTagValue(name string, words []uint16) error {
	if h.closed.Load() {
		return ErrNotConnected
	}

	return h.store.setWords(name, words)
}

func (h *handle) TagObject(name string) (Tag, error) {
	if h.closed.Load() {
		return Tag{}, ErrNotConnected
	}

	tag, err := h.store.lookup(name)
	if err != nil {
		return Tag{}, err
	}
	tag.Words = slices.Clone(tag.Words)

	return tag, nil
}

func (h *handle) Disconnect() error {
	h.closed.Store(true)
	return nil
}
