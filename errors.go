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

import "errors"

var (
	// ErrOutOfMemory is returned when a bucket's entry array could not be
	// grown. The map is left exactly as it was before the call.
	ErrOutOfMemory = errors.New("strmap: out of memory")
	// ErrKeyExists is returned by AddUnique when the key is already mapped.
	ErrKeyExists = errors.New("strmap: key exists")
	// ErrKeyNotFound is returned by Del when the key is not mapped.
	ErrKeyNotFound = errors.New("strmap: key not found")
)
