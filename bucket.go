// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package strmap

import (
	"fmt"
	"slices"
	"strings"
)

// Entry holds a key and value. The key is never copied: the Map keeps the
// string header it was handed.
type Entry[V any] struct {
	key   string
	value V
}

// Key returns the entry's key.
func (e *Entry[V]) Key() string {
	return e.key
}

// Value returns the entry's value.
func (e *Entry[V]) Value() V {
	return e.value
}

// bucket is the set of entries whose key hashes to the same index. The
// entries are kept strictly ascending by key so lookups can binary search.
// len(entries) is the number of live entries and total is the number of
// slots obtained from the allocator. total is always a multiple of the
// map's growth step.
type bucket[V any] struct {
	entries []Entry[V]
	total   int
}

func compareEntry[V any](e Entry[V], key string) int {
	return strings.Compare(e.key, key)
}

// locate returns the index of key within the bucket and whether it is
// present. When it is not present the index is the position at which key
// would be inserted to keep the entries sorted. Add, AddUnique, Find and Del
// all go through locate so they agree on the comparison.
func (b *bucket[V]) locate(key string) (int, bool) {
	return slices.BinarySearchFunc(b.entries, key, compareEntry[V])
}

// used returns the number of live entries.
func (b *bucket[V]) used() int {
	return len(b.entries)
}

// reserve makes room for one more entry, growing the bucket by one step when
// used+1 >= total. Note that this keeps one spare slot, matching the
// historical sizing. On allocation failure the bucket is untouched.
func (b *bucket[V]) reserve(m *Map[V]) error {
	if b.used()+1 < b.total {
		return nil
	}
	return b.resize(m, b.total+m.step)
}

// shrink returns slack to the allocator once the bucket holds at least one
// full growth step more than it needs. A failed allocation is ignored and
// the bucket keeps its larger array.
func (b *bucket[V]) shrink(m *Map[V]) {
	stepsUsed := b.used() / m.step
	stepsTotal := b.total / m.step
	if stepsUsed+1 < stepsTotal {
		if err := b.resize(m, (stepsUsed+1)*m.step); err != nil && debug {
			fmt.Printf("shrink(failed): used=%d total=%d\n", b.used(), b.total)
		}
	}
}

// resize moves the entries into a freshly allocated array of newTotal slots
// and releases the old one.
func (b *bucket[V]) resize(m *Map[V], newTotal int) error {
	if newTotal < b.used() {
		panic(fmt.Sprintf("strmap: resize to %d slots would drop %d entries", newTotal, b.used()))
	}
	entries := m.allocator.Alloc(newTotal)
	if entries == nil || cap(entries) < newTotal {
		return ErrOutOfMemory
	}
	entries = append(entries[:0], b.entries...)
	if b.entries != nil {
		m.allocator.Free(b.entries[:cap(b.entries)])
	}
	if debug {
		fmt.Printf("resize: used=%d total=%d -> %d\n", len(entries), b.total, newTotal)
	}
	b.entries = entries
	b.total = newTotal
	return nil
}

// insertAt shifts the entries at and after i one slot to the right and
// stores e at i. The caller must have reserved room first.
func (b *bucket[V]) insertAt(i int, e Entry[V]) {
	n := len(b.entries)
	b.entries = b.entries[:n+1]
	copy(b.entries[i+1:], b.entries[i:n])
	b.entries[i] = e
}

// removeAt closes the gap left by the entry at i. slices.Delete zeroes the
// vacated tail slot so the key and value can be collected.
func (b *bucket[V]) removeAt(i int) {
	b.entries = slices.Delete(b.entries, i, i+1)
}

// release hands the entry array back to the allocator.
func (b *bucket[V]) release(m *Map[V]) {
	if b.entries != nil {
		m.allocator.Free(b.entries[:cap(b.entries)])
	}
	b.entries = nil
	b.total = 0
}

func (b *bucket[V]) checkInvariants(m *Map[V]) {
	if invariants {
		if b.used() > b.total {
			panic(fmt.Sprintf("invariant failed: used=%d exceeds total=%d\n%s",
				b.used(), b.total, b.debugString()))
		}
		if b.total%m.step != 0 {
			panic(fmt.Sprintf("invariant failed: total=%d is not a multiple of step=%d\n%s",
				b.total, m.step, b.debugString()))
		}
		for i := 1; i < len(b.entries); i++ {
			if strings.Compare(b.entries[i-1].key, b.entries[i].key) >= 0 {
				panic(fmt.Sprintf("invariant failed: entry(%d)=%q not less than entry(%d)=%q\n%s",
					i-1, b.entries[i-1].key, i, b.entries[i].key, b.debugString()))
			}
		}
	}
}

func (b *bucket[V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "used=%d  total=%d\n", b.used(), b.total)
	for i := range b.entries {
		fmt.Fprintf(&buf, "  %4d: %q => %v\n", i, b.entries[i].key, b.entries[i].value)
	}
	return buf.String()
}
