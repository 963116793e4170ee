//go:build unix

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

package segment

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the segment for name, creating it when writable is set.
//
// With writable set, the segment file is opened read-write, created if
// absent, and forcibly sized to exactly one page: a pre-existing larger
// segment is truncated and a smaller one zero-extended. Without it, an
// existing segment is opened read-only and ENOENT is returned when no
// segment of that name has ever been created.
//
// The full page is always mapped with read access; write access follows
// writable. On any failure partway through, everything acquired so far
// is released and no Segment is returned.
func Open(name string, writable bool) (*Segment, error) {
	path := pathFor(name)

	var file *os.File
	var err error
	if writable {
		file, err = os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	} else {
		file, err = os.OpenFile(path, os.O_RDONLY, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("open segment %s: %w", path, err)
	}

	size := unix.Getpagesize()
	if writable {
		if err := file.Truncate(int64(size)); err != nil {
			file.Close()
			return nil, fmt.Errorf("size segment %s: %w", path, err)
		}
	}

	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	mem, err := unix.Mmap(int(file.Fd()), 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("map segment %s: %w", path, err)
	}

	return &Segment{file: file, mem: mem, path: path}, nil
}

// Close unmaps the region and closes the descriptor. The descriptor is
// closed even when the unmap fails; the unmap error is returned so the
// caller can report it, but the Segment is spent either way.
func (s *Segment) Close() error {
	var unmapErr error
	if s.mem != nil {
		unmapErr = unix.Munmap(s.mem)
		s.mem = nil
	}
	closeErr := s.file.Close()
	if unmapErr != nil {
		return fmt.Errorf("unmap segment %s: %w", s.path, unmapErr)
	}
	return closeErr
}
