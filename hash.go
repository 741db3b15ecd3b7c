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

// superFastHash is Paul Hsieh's SuperFastHash
// (http://www.azillionmonkeys.com/qed/hash.html), as used by WebCore and
// EFL's eina. It is fast on short ASCII keys and avalanches well enough for
// the low bits to select a bucket. The digest never leaves the process.
func superFastHash(key string) uint32 {
	n := len(key)
	hash := uint32(n)
	rem := n & 3

	// Main loop.
	i := 0
	for end := n - rem; i < end; i += 4 {
		hash += uint32(loadUint16(key, i))
		tmp := (uint32(loadUint16(key, i+2)) << 11) ^ hash
		hash = (hash << 16) ^ tmp
		hash += hash >> 11
	}

	// Handle end cases.
	switch rem {
	case 3:
		hash += uint32(loadUint16(key, i))
		hash ^= hash << 16
		hash ^= uint32(key[i+2]) << 18
		hash += hash >> 11
	case 2:
		hash += uint32(loadUint16(key, i))
		hash ^= hash << 11
		hash += hash >> 17
	case 1:
		hash += uint32(key[i])
		hash ^= hash << 10
		hash += hash >> 1
	}

	// Force "avalanching" of final 127 bits.
	hash ^= hash << 3
	hash += hash >> 5
	hash ^= hash << 4
	hash += hash >> 17
	hash ^= hash << 25
	hash += hash >> 6

	return hash
}
