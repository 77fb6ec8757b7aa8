package collision

import (
	"fmt"

	"github.com/arloliu/evio/errs"
)

// Tracker records dictionary entry names by hash and detects hash collisions.
//
// The dictionary indexes entries by hash.ID(name). When two different names
// share a hash the tracker flags the collision so that the dictionary falls
// back to name-keyed lookups.
type Tracker struct {
	names        map[uint64]string
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{names: make(map[uint64]string)}
}

// Track records name under hash.
//
// It returns errs.ErrInvalidEntryName for an empty name and
// errs.ErrDuplicateEntry when name was already tracked. A different name with
// the same hash is not an error; it sets the collision flag.
func (t *Tracker) Track(name string, hash uint64) error {
	if name == "" {
		return errs.ErrInvalidEntryName
	}

	if existing, exists := t.names[hash]; exists {
		if existing == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateEntry, name)
		}
		t.hasCollision = true
	}

	t.names[hash] = name

	return nil
}

// HasCollision returns true if a collision has been detected.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}
