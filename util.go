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

import "math/bits"

// alignPower2 returns the smallest power of two >= n. Both 0 and 1 round to
// 1. Values above 1<<31 cannot be represented and panic.
func alignPower2(n uint32) uint32 {
	if n <= 1 {
		return 1
	}
	shift := bits.Len32(n - 1)
	if shift >= 32 {
		panic("strmap: bucket count overflows uint32")
	}
	return 1 << shift
}

// loadUint16 reads the 16-bit word stored at s[i:i+2] without regard to
// alignment. The bytes are assembled in storage order, low byte first.
func loadUint16(s string, i int) uint16 {
	_ = s[i+1] // bounds check hint to compiler
	return uint16(s[i]) | uint16(s[i+1])<<8
}
