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

// Iterator is a resumable position within a Map. Entries are produced in
// bucket order and, within a bucket, in ascending key order. The traversal
// is not globally sorted.
//
// Mutating the map between calls to Next is unsupported: the iterator does
// not snapshot anything and may skip, repeat or fault on entries.
type Iterator[V any] struct {
	m      *Map[V]
	bucket int
	// entry is the index of the entry most recently returned, -1 before the
	// first.
	entry int
}

// Init positions the iterator at the first bucket, before its first entry.
func (it *Iterator[V]) Init(m *Map[V]) {
	*it = Iterator[V]{m: m, entry: -1}
}

// Next advances the iterator and returns the next key and value. ok is
// false once every bucket has been visited, and remains false on further
// calls.
func (it *Iterator[V]) Next() (key string, value V, ok bool) {
	buckets := it.m.buckets
	if it.bucket >= len(buckets) {
		return key, value, false
	}

	it.entry++
	for it.entry >= buckets[it.bucket].used() {
		it.entry = 0
		it.bucket++
		if it.bucket >= len(buckets) {
			return key, value, false
		}
	}

	e := &buckets[it.bucket].entries[it.entry]
	return e.key, e.value, true
}

// All calls yield sequentially for each key and value present in the map,
// in the same order as Iterator. If yield returns false, iteration stops.
// The map must not be mutated during iteration.
func (m *Map[V]) All(yield func(key string, value V) bool) {
	var it Iterator[V]
	it.Init(m)
	for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
		if !yield(k, v) {
			return
		}
	}
}
