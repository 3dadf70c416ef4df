// Package tagcache describes the PLC data cache as seen by the tag server and
// provides an in-memory implementation of it.
//
// The real cache is a separate process that owns the tag repository and polls field
// devices; the server only reaches it through the [Cache] interface obtained from a
// [Connector]. [Store] implements the same contract in memory for tests and examples.
package tagcache

import (
	"errors"
	"time"

	"github.com/arloliu/go-tagwire/codes"
)

var (
	// ErrNotConnected is returned by every call on a disconnected handle.
	ErrNotConnected = errors.New("tagcache: not connected")

	// ErrBadKey is returned by a Connector for a key it does not serve.
	ErrBadKey = errors.New("tagcache: bad cache key")

	// ErrTagNotFound indicates an unknown tag name.
	ErrTagNotFound = errors.New("tagcache: tag not found")

	// ErrTagExists indicates a second definition of the same tag.
	ErrTagExists = errors.New("tagcache: tag already defined")

	// ErrBadFormat indicates an unsupported value format.
	ErrBadFormat = errors.New("tagcache: bad format")

	// ErrBadValue indicates text that cannot be converted to the tag's width.
	ErrBadValue = errors.New("tagcache: bad value")

	// ErrWordCount indicates a word slice whose length does not match the tag's width.
	ErrWordCount = errors.New("tagcache: word count mismatch")

	// ErrUnknownWidth indicates a tag or value of codes.WidthUnknown.
	ErrUnknownWidth = errors.New("tagcache: unknown width")
)

// Value formats accepted by GetTagValue.
const (
	// FormatDefault renders the native value: 0/1, decimal integers or floats.
	FormatDefault = ""
	// FormatHex renders the raw words as one hexadecimal number, high word first.
	FormatHex = "hex"
)

// Status is the state of a cache handle.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusConnected
	StatusNotConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusNotConnected:
		return "not-connected"
	default:
		return "unknown"
	}
}

// Tag describes one typed data point of the cache.
type Tag struct {
	Name      string
	Width     codes.Width
	Words     []uint16
	UpdatedAt time.Time
}

// Value renders the tag's words in the default format.
func (t Tag) Value() (string, error) {
	return DecodeWords(t.Width, t.Words)
}

// Cache is a connected handle to the data cache.
//
// Implementations must be safe for concurrent use by independent handles; a single
// handle is used by one goroutine at a time.
type Cache interface {
	// Status reports the state of the handle.
	Status() Status
	// GetTagValue returns the textual value of a tag in the given format.
	GetTagValue(name, format string) (string, error)
	// SetTagValue replaces a tag's words. len(words) must match the tag's width.
	SetTagValue(name string, words []uint16) error
	// TagObject returns a copy of the tag descriptor.
	TagObject(name string) (Tag, error)
	// Disconnect releases the handle. Later calls fail with ErrNotConnected.
	Disconnect() error
}

// Connector opens a Cache handle for the given cache key.
type Connector func(key string) (Cache, error)
