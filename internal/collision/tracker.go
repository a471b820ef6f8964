package collision

import (
	"fmt"

	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/internal/hash"
)

// FieldName is one distinct object key collected while encoding a tree.
type FieldName struct {
	// Name is the key as given by the caller.
	Name string
	// Hash is the 8-bit wire hash of Name.
	Hash uint8
	// ID is the 1-based field id, assigned once all names are known.
	ID uint32
	// Offset is the byte offset of the name inside its field-name segment.
	Offset uint32
}

// Long reports whether the name needs the long (more than 255 bytes) segment.
func (f *FieldName) Long() bool {
	return len(f.Name) > 255
}

// Tracker interns field names during encoding. Names are keyed by their
// xxHash64 id; distinct names sharing an id are chained and counted as a collision.
type Tracker struct {
	byID         map[uint64][]*FieldName
	names        []*FieldName
	maxSize      int
	hasCollision bool
}

// NewTracker creates a new field-name tracker accepting names up to maxSize bytes.
func NewTracker(maxSize int) *Tracker {
	return &Tracker{
		byID:    make(map[uint64][]*FieldName),
		names:   make([]*FieldName, 0),
		maxSize: maxSize,
	}
}

// Track returns the interned entry for name, adding it on first sight.
//
// Returns:
//   - *FieldName: The shared entry for name
//   - error: ErrFieldNameTooLong if name exceeds the tracker's maximum size
func (t *Tracker) Track(name string) (*FieldName, error) {
	id := hash.ID(name)

	chain := t.byID[id]
	for _, fn := range chain {
		if fn.Name == name {
			return fn, nil
		}
	}

	if len(name) > t.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", errs.ErrFieldNameTooLong, len(name), t.maxSize)
	}

	if len(chain) > 0 {
		t.hasCollision = true
	}

	fn := &FieldName{Name: name, Hash: hash.FieldName(name)}
	t.byID[id] = append(chain, fn)
	t.names = append(t.names, fn)

	return fn, nil
}

// HasCollision returns true if two distinct names shared an xxHash64 id.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in first-seen order.
func (t *Tracker) Names() []*FieldName {
	return t.names
}

// Count returns the number of distinct tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all tracked names and collision state.
func (t *Tracker) Reset() {
	clear(t.byID)
	t.names = t.names[:0]
	t.hasCollision = false
}
