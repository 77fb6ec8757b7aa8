package dictionary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/collision"
	"github.com/arloliu/evio/internal/hash"
)

// NoName is returned by NameOrDefault when no entry matches.
const NoName = "???"

// DefaultDelimiter joins the parts of hierarchical entry names.
const DefaultDelimiter = "."

// Entry is one name to tag/num mapping.
type Entry struct {
	Name string
	Tag  uint16
	Num  uint8
	// TagOnly marks an entry defined without a num. It matches every num of
	// its tag that has no exact entry.
	TagOnly bool
	// Type is the declared data type name, if any.
	Type string
	// Format is the composite format string attached to the description, if any.
	Format string
	// Description is free text.
	Description string
}

// DataType returns the declared type of the entry.
// It returns false when Type is empty or not a known type name.
func (e Entry) DataType() (format.DataType, bool) {
	if e.Type == "" {
		return 0, false
	}

	return format.ParseDataType(e.Type)
}

func tagNumKey(tag uint16, num uint8) uint32 {
	return uint32(tag)<<8 | uint32(num)
}

// Dictionary is an immutable-after-load set of entries.
//
// Names are indexed by their xxHash64 ID. If two names ever share an ID the
// dictionary switches to name-keyed lookups for the rest of its life.
type Dictionary struct {
	entries   []Entry
	byID      map[uint64]int
	byName    map[string]int
	byTagNum  map[uint32]int
	byTag     map[uint16]int
	tracker   *collision.Tracker
	skipped   []string
	delimiter string
	source    string
}

// New creates a dictionary from the given entries.
//
// Returns:
//   - *Dictionary: The dictionary
//   - error: errs.ErrInvalidEntryName for an empty name, errs.ErrDuplicateEntry
//     when a name or tag/num pair is defined twice
func New(entries ...Entry) (*Dictionary, error) {
	d := newDictionary(DefaultDelimiter)
	for _, e := range entries {
		if err := d.Add(e); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func newDictionary(delimiter string) *Dictionary {
	return &Dictionary{
		byID:      make(map[uint64]int),
		byName:    make(map[string]int),
		byTagNum:  make(map[uint32]int),
		byTag:     make(map[uint16]int),
		tracker:   collision.NewTracker(),
		delimiter: delimiter,
	}
}

// Add inserts an entry.
//
// Both the name and the tag/num pair must be unique. A tag-only entry is
// rejected when its tag already has a tag-only entry or any exact entry.
func (d *Dictionary) Add(e Entry) error {
	if strings.TrimSpace(e.Name) == "" {
		return errs.ErrInvalidEntryName
	}

	if _, ok := d.byName[e.Name]; ok {
		return fmt.Errorf("%w: name %q", errs.ErrDuplicateEntry, e.Name)
	}

	if e.TagOnly {
		if _, ok := d.byTag[e.Tag]; ok {
			return fmt.Errorf("%w: tag %d", errs.ErrDuplicateEntry, e.Tag)
		}
		for _, idx := range d.byTagNum {
			if d.entries[idx].Tag == e.Tag {
				return fmt.Errorf("%w: tag %d already has num entries", errs.ErrDuplicateEntry, e.Tag)
			}
		}
	} else if _, ok := d.byTagNum[tagNumKey(e.Tag, e.Num)]; ok {
		return fmt.Errorf("%w: tag %d num %d", errs.ErrDuplicateEntry, e.Tag, e.Num)
	}

	id := hash.ID(e.Name)
	if err := d.tracker.Track(e.Name, id); err != nil {
		return err
	}

	idx := len(d.entries)
	d.entries = append(d.entries, e)
	d.byName[e.Name] = idx
	d.byID[id] = idx
	if e.TagOnly {
		d.byTag[e.Tag] = idx
	} else {
		d.byTagNum[tagNumKey(e.Tag, e.Num)] = idx
	}

	return nil
}

func (d *Dictionary) lookup(name string) (int, bool) {
	if d.tracker.HasCollision() {
		idx, ok := d.byName[name]
		return idx, ok
	}

	idx, ok := d.byID[hash.ID(name)]
	if ok && d.entries[idx].Name != name {
		return 0, false
	}

	return idx, ok
}

// Entry returns the entry with the given name.
func (d *Dictionary) Entry(name string) (Entry, bool) {
	idx, ok := d.lookup(name)
	if !ok {
		return Entry{}, false
	}

	return d.entries[idx], true
}

// TagNum returns the tag and num registered for name.
// A tag-only entry reports num 0.
//
// Returns errs.ErrNoDictionaryEntry if name is unknown.
func (d *Dictionary) TagNum(name string) (uint16, uint8, error) {
	idx, ok := d.lookup(name)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errs.ErrNoDictionaryEntry, name)
	}

	e := d.entries[idx]

	return e.Tag, e.Num, nil
}

// Name returns the name for tag and num, falling back to a tag-only entry.
func (d *Dictionary) Name(tag uint16, num uint8) (string, bool) {
	if idx, ok := d.byTagNum[tagNumKey(tag, num)]; ok {
		return d.entries[idx].Name, true
	}

	if idx, ok := d.byTag[tag]; ok {
		return d.entries[idx].Name, true
	}

	return "", false
}

// NameOrDefault returns the name for tag and num, or NoName.
func (d *Dictionary) NameOrDefault(tag uint16, num uint8) string {
	if name, ok := d.Name(tag, num); ok {
		return name
	}

	return NoName
}

// Entries returns a copy of all entries in insertion order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)

	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Skipped returns the names of entries that a loader ignored because they
// were malformed or duplicated. Nameless entries are reported as "".
func (d *Dictionary) Skipped() []string {
	return d.skipped
}

// Delimiter returns the separator used for hierarchical names.
func (d *Dictionary) Delimiter() string {
	return d.delimiter
}

func (d *Dictionary) String() string {
	names := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("-- Dictionary --\n")
	for _, name := range names {
		e := d.entries[d.byName[name]]
		if e.TagOnly {
			fmt.Fprintf(&sb, "%-30s tag=%d\n", e.Name, e.Tag)
			continue
		}
		fmt.Fprintf(&sb, "%-30s tag=%d num=%d\n", e.Name, e.Tag, e.Num)
	}

	return sb.String()
}
