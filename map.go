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

// Package strmap is a string-keyed hash map built for predictable memory
// behavior rather than maximal throughput. It is intended as the name to
// object registry of a larger tool (module and alias lookups, for example),
// where the key set is modest and insertions, lookups and deletions are all
// frequent.
//
// # Layout
//
// A Map has a fixed number of buckets chosen at creation, always a power of
// two. A key's bucket is selected by the low bits of its digest, computed
// with Paul Hsieh's SuperFastHash. The bucket count never changes, so a Map
// is never rehashed.
//
// Each bucket owns an array of entries sorted by key using byte-wise
// comparison. Lookups and deletions binary search that array; insertions
// locate the insertion point the same way and shift the tail of the array
// one slot to the right.
//
// # Growth
//
// Bucket arrays grow and shrink in units of the map's growth step,
// clamp(bucketCount/32, 4, 64) slots. A bucket grows by one step when an
// insertion would leave it with no spare slot, and after a deletion it
// shrinks back to (used/step+1)*step slots once it carries at least one
// full step of slack. Allocation goes through an Allocator (see
// WithAllocator) which may refuse; a refused growth fails the operation
// with ErrOutOfMemory and leaves the map untouched, while a refused shrink
// is ignored.
//
// # Ownership
//
// Keys are never copied. Values are borrowed unless a destructor is
// configured with WithDestructor, in which case the Map owns them and
// invokes the destructor exactly once per value: when Add replaces it, when
// Del removes it, or when Close tears the map down.
//
// A Map is NOT goroutine-safe. Callers that share a Map must serialize all
// operations, including iteration.
package strmap

import (
	"fmt"
	"strings"
)

const (
	debug = false

	minGrowthStep = 4
	maxGrowthStep = 64
)

// Ownership describes whether a Map releases its values.
type Ownership uint8

const (
	// Borrowed values belong to the caller and outlive their entries.
	Borrowed Ownership = iota
	// Owned values are handed to the Map's destructor when they leave it.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return fmt.Sprintf("Ownership(%d)", uint8(o))
	}
}

// Map is a string-keyed hash map with a fixed bucket count and sorted
// per-bucket entry arrays, supporting Add, AddUnique, Find, Del and
// iteration.
//
// A Map is NOT goroutine-safe.
type Map[V any] struct {
	// The hash function used to select a bucket. Defaults to superFastHash.
	hash func(key string) uint32
	// The destructor invoked on values leaving the map. A nil destructor
	// means values are borrowed.
	destructor func(value V)
	// The allocator to use for the bucket entry arrays.
	allocator Allocator[V]
	// buckets has a power of two length fixed at Init.
	buckets []bucket[V]
	// mask is len(buckets)-1.
	mask uint32
	// step is the number of slots a bucket grows or shrinks by.
	step int
	// The number of live entries across all buckets.
	used int
}

// New constructs a new Map with nBuckets buckets rounded up to the next
// power of two (a request of 0 yields a single bucket). The zero value for
// a Map is not usable.
func New[V any](nBuckets int, options ...Option[V]) *Map[V] {
	m := &Map[V]{}
	m.Init(nBuckets, options...)
	return m
}

// Init initializes a Map with the specified bucket count and options. Any
// previous contents are discarded without invoking the destructor; call
// Close first to release them.
func (m *Map[V]) Init(nBuckets int, options ...Option[V]) {
	if nBuckets < 0 {
		nBuckets = 0
	}
	n := alignPower2(uint32(nBuckets))
	*m = Map[V]{
		hash:      superFastHash,
		allocator: defaultAllocator[V]{},
		buckets:   make([]bucket[V], n),
		mask:      n - 1,
		step:      growthStep(n),
	}

	for _, op := range options {
		op.apply(m)
	}

	m.checkInvariants()
}

// growthStep returns the bucket growth step for a map with n buckets.
func growthStep(n uint32) int {
	step := int(n / 32)
	if step < minGrowthStep {
		return minGrowthStep
	}
	if step > maxGrowthStep {
		return maxGrowthStep
	}
	return step
}

// Close destroys the map, invoking the destructor (if any) on every value
// still present and releasing all bucket storage back to the configured
// allocator. It is invalid to use a Map after it has been closed, though
// Close itself is idempotent and may be called on a nil Map.
func (m *Map[V]) Close() {
	if m == nil {
		return
	}
	for i := range m.buckets {
		b := &m.buckets[i]
		if m.destructor != nil {
			for j := range b.entries {
				m.destructor(b.entries[j].value)
			}
		}
		b.release(m)
	}
	m.buckets = nil
	m.used = 0
}

// Add inserts an entry into the map, overwriting an existing value if an
// entry with the same key already exists. On overwrite the old value is
// passed to the destructor and the stored key is replaced by key, so the
// most recently added string is the one the map references.
//
// Add returns ErrOutOfMemory if the key's bucket needed to grow and the
// allocator refused, in which case the map is unchanged.
func (m *Map[V]) Add(key string, value V) error {
	b := m.bucket(key)
	if err := b.reserve(m); err != nil {
		if debug {
			fmt.Printf("add(%q): out of memory\n", key)
		}
		return err
	}

	i, found := b.locate(key)
	if found {
		if debug {
			fmt.Printf("add(updating): index=%d key=%q\n", i, key)
		}
		e := &b.entries[i]
		if m.destructor != nil {
			m.destructor(e.value)
		}
		e.key = key
		e.value = value
		b.checkInvariants(m)
		return nil
	}

	if debug {
		fmt.Printf("add(inserting): index=%d key=%q\n", i, key)
	}
	b.insertAt(i, Entry[V]{key: key, value: value})
	m.used++
	b.checkInvariants(m)
	return nil
}

// AddUnique is like Add but returns ErrKeyExists, without modifying the map
// or invoking the destructor, if key is already present.
func (m *Map[V]) AddUnique(key string, value V) error {
	b := m.bucket(key)
	i, found := b.locate(key)
	if found {
		if debug {
			fmt.Printf("add-unique(exists): index=%d key=%q\n", i, key)
		}
		return ErrKeyExists
	}
	if err := b.reserve(m); err != nil {
		if debug {
			fmt.Printf("add-unique(%q): out of memory\n", key)
		}
		return err
	}

	if debug {
		fmt.Printf("add-unique(inserting): index=%d key=%q\n", i, key)
	}
	b.insertAt(i, Entry[V]{key: key, value: value})
	m.used++
	b.checkInvariants(m)
	return nil
}

// Find retrieves the value from the map for the specified key, returning
// ok=false if the key is not present.
func (m *Map[V]) Find(key string) (value V, ok bool) {
	b := m.bucket(key)
	i, found := b.locate(key)
	if debug {
		fmt.Printf("find(%q): index=%d found=%t\n", key, i, found)
	}
	if !found {
		return value, false
	}
	return b.entries[i].value, true
}

// Del deletes the entry corresponding to the specified key from the map,
// passing its value to the destructor. It returns ErrKeyNotFound if the key
// is not present.
func (m *Map[V]) Del(key string) error {
	b := m.bucket(key)
	i, found := b.locate(key)
	if !found {
		if debug {
			fmt.Printf("del(not-found): key=%q\n", key)
		}
		return ErrKeyNotFound
	}

	if m.destructor != nil {
		m.destructor(b.entries[i].value)
	}
	b.removeAt(i)
	m.used--
	if debug {
		fmt.Printf("del(%q): index=%d used=%d total=%d\n", key, i, b.used(), b.total)
	}

	b.shrink(m)
	b.checkInvariants(m)
	return nil
}

// Len returns the number of entries in the map.
func (m *Map[V]) Len() int {
	return m.used
}

// Ownership reports whether the map owns its values.
func (m *Map[V]) Ownership() Ownership {
	if m.destructor != nil {
		return Owned
	}
	return Borrowed
}

// BucketCount returns the number of buckets, fixed at Init.
func (m *Map[V]) BucketCount() int {
	return len(m.buckets)
}

// GrowthStep returns the number of entry slots a bucket grows or shrinks by.
func (m *Map[V]) GrowthStep() int {
	return m.step
}

// capacity returns the total number of entry slots across all buckets.
func (m *Map[V]) capacity() int {
	var capacity int
	for i := range m.buckets {
		capacity += m.buckets[i].total
	}
	return capacity
}

// bucket returns the bucket that key hashes to.
func (m *Map[V]) bucket(key string) *bucket[V] {
	return &m.buckets[m.hash(key)&m.mask]
}

// Stats summarizes how entries are spread across a Map's buckets.
type Stats struct {
	// Buckets is the number of buckets.
	Buckets int
	// EmptyBuckets is the number of buckets holding no entries.
	EmptyBuckets int
	// Entries is the number of live entries.
	Entries int
	// Capacity is the number of entry slots allocated across all buckets.
	Capacity int
	// LongestBucket is the entry count of the fullest bucket.
	LongestBucket int
}

// Stats walks every bucket and reports occupancy. It is O(buckets).
func (m *Map[V]) Stats() Stats {
	s := Stats{Buckets: len(m.buckets), Entries: m.used}
	for i := range m.buckets {
		b := &m.buckets[i]
		s.Capacity += b.total
		if b.used() == 0 {
			s.EmptyBuckets++
		}
		if b.used() > s.LongestBucket {
			s.LongestBucket = b.used()
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("buckets=%d empty=%d entries=%d capacity=%d longest=%d",
		s.Buckets, s.EmptyBuckets, s.Entries, s.Capacity, s.LongestBucket)
}

func (m *Map[V]) checkInvariants() {
	if invariants {
		n := len(m.buckets)
		if n == 0 || n&(n-1) != 0 {
			panic(fmt.Sprintf("invariant failed: bucket count %d is not a power of two", n))
		}
		if m.step < minGrowthStep || m.step > maxGrowthStep {
			panic(fmt.Sprintf("invariant failed: growth step %d out of range", m.step))
		}
		var used int
		for i := range m.buckets {
			b := &m.buckets[i]
			b.checkInvariants(m)
			for j := range b.entries {
				if h := m.hash(b.entries[j].key) & m.mask; h != uint32(i) {
					panic(fmt.Sprintf("invariant failed: %q in bucket %d hashes to %d\n%s",
						b.entries[j].key, i, h, b.debugString()))
				}
			}
			used += b.used()
		}
		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d entries, but used count is %d\n%s",
				used, m.used, m.debugString()))
		}
	}
}

func (m *Map[V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "buckets=%d  step=%d  used=%d\n", len(m.buckets), m.step, m.used)
	for i := range m.buckets {
		if m.buckets[i].total == 0 {
			continue
		}
		fmt.Fprintf(&buf, "bucket %d: %s", i, m.buckets[i].debugString())
	}
	return buf.String()
}
