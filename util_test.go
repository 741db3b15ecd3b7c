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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignPower2(t *testing.T) {
	testCases := []struct {
		n        uint32
		expected uint32
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{31, 32},
		{32, 32},
		{33, 64},
		{1000, 1024},
		{1 << 31, 1 << 31},
	}
	for _, c := range testCases {
		require.EqualValues(t, c.expected, alignPower2(c.n), "alignPower2(%d)", c.n)
	}
	require.Panics(t, func() { alignPower2(1<<31 + 1) })
}

func TestLoadUint16(t *testing.T) {
	s := "\x01\x02\x03\x04\x05"
	// Every offset, including odd ones, reads the bytes in storage order.
	require.EqualValues(t, 0x0201, loadUint16(s, 0))
	require.EqualValues(t, 0x0302, loadUint16(s, 1))
	require.EqualValues(t, 0x0403, loadUint16(s, 2))
	require.EqualValues(t, 0x0504, loadUint16(s, 3))
	require.Panics(t, func() { loadUint16(s, 4) })
}
