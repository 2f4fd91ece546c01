// Package table implements the key to accumulator map each worker fills
// during a scan and the reducer folds together afterwards.
package table

import (
	"github.com/cespare/xxhash/v2"

	"github.com/dhartunian/1brcgo/internal/stats"
)

const minCapacity = 1 << 10

type entry struct {
	hash uint64
	used bool
	key  string
	acc  stats.Accumulator
}

// Table is an open-addressing hash table with linear probing. It is not safe
// for concurrent use; each worker owns its own.
type Table struct {
	entries []entry
	mask    uint64
	n       int
}

// New returns a table sized to hold hint keys without growing.
func New(hint int) *Table {
	size := minCapacity
	for size < 2*hint {
		size <<= 1
	}
	return &Table{
		entries: make([]entry, size),
		mask:    uint64(size - 1),
	}
}

func (t *Table) Len() int { return t.n }

// find returns the slot holding key, or the empty slot where it belongs.
func (t *Table) find(hash uint64, key []byte) *entry {
	for i := hash & t.mask; ; i = (i + 1) & t.mask {
		e := &t.entries[i]
		if !e.used {
			return e
		}
		if e.hash == hash && e.key == string(key) {
			return e
		}
	}
}

func (t *Table) findString(hash uint64, key string) *entry {
	for i := hash & t.mask; ; i = (i + 1) & t.mask {
		e := &t.entries[i]
		if !e.used || (e.hash == hash && e.key == key) {
			return e
		}
	}
}

// Observe records one value for key. The key bytes are copied only the first
// time the key is seen.
func (t *Table) Observe(key []byte, v float64) {
	hash := xxhash.Sum64(key)
	e := t.find(hash, key)
	if e.used {
		e.acc.Update(v)
		return
	}
	t.insert(e, hash, string(key), stats.New(v))
}

// MergeAccumulator folds acc into the accumulator stored for key.
func (t *Table) MergeAccumulator(key string, acc stats.Accumulator) {
	hash := xxhash.Sum64String(key)
	e := t.findString(hash, key)
	if e.used {
		e.acc.Merge(acc)
		return
	}
	t.insert(e, hash, key, acc)
}

func (t *Table) insert(e *entry, hash uint64, key string, acc stats.Accumulator) {
	*e = entry{hash: hash, used: true, key: key, acc: acc}
	t.n++
	if 2*t.n > len(t.entries) {
		t.grow()
	}
}

func (t *Table) grow() {
	old := t.entries
	t.entries = make([]entry, 2*len(old))
	t.mask = uint64(len(t.entries) - 1)
	for i := range old {
		if !old[i].used {
			continue
		}
		for j := old[i].hash & t.mask; ; j = (j + 1) & t.mask {
			if !t.entries[j].used {
				t.entries[j] = old[i]
				break
			}
		}
	}
}

// Get returns the accumulator for key.
func (t *Table) Get(key string) (stats.Accumulator, bool) {
	e := t.findString(xxhash.Sum64String(key), key)
	if !e.used {
		return stats.Accumulator{}, false
	}
	return e.acc, true
}

// Each calls fn for every key in unspecified order.
func (t *Table) Each(fn func(key string, acc stats.Accumulator)) {
	for i := range t.entries {
		if t.entries[i].used {
			fn(t.entries[i].key, t.entries[i].acc)
		}
	}
}

// Merge moves every entry of other into t. other must not be used afterwards.
func (t *Table) Merge(other *Table) {
	if other == nil || other == t {
		return
	}
	for i := range other.entries {
		e := &other.entries[i]
		if !e.used {
			continue
		}
		dst := t.findString(e.hash, e.key)
		if dst.used {
			dst.acc.Merge(e.acc)
			continue
		}
		t.insert(dst, e.hash, e.key, e.acc)
	}
	other.entries = nil
	other.mask = 0
	other.n = 0
}
