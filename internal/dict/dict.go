// Package dict counts distinct logtypes seen in a stream.
package dict

import (
	"github.com/arloliu/clpir/internal/hash"
)

// Entry is one distinct logtype with the number of events that used it.
type Entry struct {
	ID      uint64
	Logtype string
	Count   int
}

// Dictionary maps logtypes to entries keyed by their xxHash64 ID.
//
// Two different logtypes with the same ID are a hash collision. The
// dictionary keeps both, marks the collision and stops using the ID alone
// for lookups of the colliding IDs.
type Dictionary struct {
	byID         map[uint64][]int
	entries      []Entry
	total        int
	hasCollision bool
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		byID:    make(map[uint64][]int),
		entries: make([]Entry, 0),
	}
}

// Add records one occurrence of logtype and returns its ID and whether it was
// seen for the first time.
func (d *Dictionary) Add(logtype []byte) (uint64, bool) {
	id := hash.LogtypeID(logtype)
	d.total++

	for _, idx := range d.byID[id] {
		if d.entries[idx].Logtype == string(logtype) {
			d.entries[idx].Count++
			return id, false
		}
	}

	if len(d.byID[id]) > 0 {
		d.hasCollision = true
	}

	d.byID[id] = append(d.byID[id], len(d.entries))
	d.entries = append(d.entries, Entry{ID: id, Logtype: string(logtype), Count: 1})

	return id, true
}

// Lookup returns the entry for logtype.
func (d *Dictionary) Lookup(logtype []byte) (Entry, bool) {
	for _, idx := range d.byID[hash.LogtypeID(logtype)] {
		if d.entries[idx].Logtype == string(logtype) {
			return d.entries[idx], true
		}
	}

	return Entry{}, false
}

// Entries returns the distinct logtypes in first-seen order.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Len returns the number of distinct logtypes.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Total returns the number of Add calls.
func (d *Dictionary) Total() int {
	return d.total
}

// HasCollision reports whether two distinct logtypes shared an ID.
func (d *Dictionary) HasCollision() bool {
	return d.hasCollision
}

// Reset clears the dictionary and keeps its allocations.
func (d *Dictionary) Reset() {
	clear(d.byID)
	d.entries = d.entries[:0]
	d.total = 0
	d.hasCollision = false
}
