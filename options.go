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

// Option provides an interface to do work on Map while it is being created.
type Option[V any] interface {
	apply(m *Map[V])
}

type hashOption[V any] struct {
	hash func(key string) uint32
}

func (op hashOption[V]) apply(m *Map[V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[V].
// Only the low bits of the digest select a bucket, so the function should
// avalanche well.
func WithHash[V any](hash func(key string) uint32) Option[V] {
	return hashOption[V]{hash}
}

type destructorOption[V any] struct {
	destructor func(value V)
}

func (op destructorOption[V]) apply(m *Map[V]) {
	m.destructor = op.destructor
}

// WithDestructor is an option to hand ownership of values to the Map. The
// destructor is invoked exactly once per value: when the value is replaced
// by Add, removed by Del, or still present when the Map is closed.
func WithDestructor[V any](destructor func(value V)) Option[V] {
	return destructorOption[V]{destructor}
}

// Allocator specifies an interface for allocating and releasing the entry
// arrays of a Map's buckets. The default allocator utilizes Go's builtin
// make() and allows the GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that entries be
// freed then Map.Close must be called in order to ensure Free is called.
type Allocator[V any] interface {
	// Alloc should return a slice equivalent to make([]Entry[V], 0, n). A
	// nil return signals that memory could not be obtained, which the Map
	// reports as ErrOutOfMemory (or absorbs, when shrinking).
	Alloc(n int) []Entry[V]

	// Free can optionally release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by Alloc.
	Free(v []Entry[V])
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) Alloc(n int) []Entry[V] {
	return make([]Entry[V], 0, n)
}

func (defaultAllocator[V]) Free(v []Entry[V]) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(m *Map[V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map[V].
func WithAllocator[V any](allocator Allocator[V]) Option[V] {
	return allocatorOption[V]{allocator}
}
