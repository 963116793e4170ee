/*
 *
 * Copyright 2025 The kstate authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package segment owns the OS-level lifecycle of one named shared-memory
// region: create-or-open, size-fixing, mapping and unmapping. Every
// segment is exactly one platform page; the bytes in it are opaque to
// this package.
package segment

import (
	"os"
	"path/filepath"
)

// filePrefix namespaces segment files so unrelated files in the shared
// memory directory are never mistaken for state segments. It is never
// part of a caller-visible name.
const filePrefix = "kstate."

// A Segment is one mapped shared-memory region. Two Segments opened with
// the same name address the same underlying memory, but each owns its own
// descriptor and mapping; closing one does not disturb the other.
type Segment struct {
	file *os.File
	mem  []byte
	path string
}

// Bytes returns the mapped region, or nil after Close. Its length is the
// platform page size. The bytes are shared with every other opener of the
// same name; no concurrency discipline is imposed here.
func (s *Segment) Bytes() []byte {
	return s.mem
}

// Size returns the mapped region's length in bytes.
func (s *Segment) Size() int {
	return len(s.mem)
}

// dir returns the directory backing segments: /dev/shm where available,
// else the system temporary directory.
func dir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

func pathFor(name string) string {
	return filepath.Join(dir(), filePrefix+name)
}

// Remove unlinks the segment file for name. Mappings already held stay
// valid; only future opens are affected. Removing a segment that does
// not exist is an error, as with os.Remove.
func Remove(name string) error {
	return os.Remove(pathFor(name))
}
