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
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

var nameSeq int

// testName returns a fresh segment name and removes the backing file,
// if any, when the test finishes.
func testName(t *testing.T) string {
	t.Helper()
	nameSeq++
	name := fmt.Sprintf("test.segment.%d.%d", os.Getpid(), nameSeq)
	t.Cleanup(func() { _ = Remove(name) })
	return name
}

func TestOpenCreatesPageSizedSegment(t *testing.T) {
	name := testName(t)

	seg, err := Open(name, true)
	if err != nil {
		t.Fatalf("Open(writable) = %v", err)
	}
	defer seg.Close()

	page := unix.Getpagesize()
	if seg.Size() != page {
		t.Errorf("segment size = %d, want page size %d", seg.Size(), page)
	}
	if len(seg.Bytes()) != page {
		t.Errorf("mapped length = %d, want %d", len(seg.Bytes()), page)
	}

	info, err := os.Stat(pathFor(name))
	if err != nil {
		t.Fatalf("stat segment file: %v", err)
	}
	if info.Size() != int64(page) {
		t.Errorf("segment file size = %d, want %d", info.Size(), page)
	}
}

func TestOpenReadOnlyMissingSegment(t *testing.T) {
	name := testName(t)

	_, err := Open(name, false)
	if !errors.Is(err, unix.ENOENT) {
		t.Fatalf("Open(read-only) on missing segment = %v, want ENOENT", err)
	}
}

func TestTwoOpensShareMemory(t *testing.T) {
	name := testName(t)

	w, err := Open(name, true)
	if err != nil {
		t.Fatalf("Open(writable) = %v", err)
	}
	defer w.Close()
	copy(w.Bytes(), "ping")

	r, err := Open(name, false)
	if err != nil {
		t.Fatalf("Open(read-only) = %v", err)
	}
	defer r.Close()

	if !bytes.Equal(r.Bytes()[:4], []byte("ping")) {
		t.Errorf("reader sees %q, want %q", r.Bytes()[:4], "ping")
	}

	// Writes made after the read-only mapping was established are seen
	// too; the mappings address the same memory.
	copy(w.Bytes(), "pong")
	if !bytes.Equal(r.Bytes()[:4], []byte("pong")) {
		t.Errorf("reader sees %q after rewrite, want %q", r.Bytes()[:4], "pong")
	}
}

func TestWritableOpenResizesExistingFile(t *testing.T) {
	name := testName(t)
	page := unix.Getpagesize()

	// A pre-existing larger segment is truncated to one page. This is
	// destructive and deliberate.
	big := bytes.Repeat([]byte{0xAB}, 2*page)
	if err := os.WriteFile(pathFor(name), big, 0o600); err != nil {
		t.Fatalf("seeding oversized segment file: %v", err)
	}
	seg, err := Open(name, true)
	if err != nil {
		t.Fatalf("Open over oversized file = %v", err)
	}
	if seg.Size() != page {
		t.Errorf("segment size = %d, want %d", seg.Size(), page)
	}
	seg.Close()
	info, err := os.Stat(pathFor(name))
	if err != nil {
		t.Fatalf("stat segment file: %v", err)
	}
	if info.Size() != int64(page) {
		t.Errorf("file size after truncating open = %d, want %d", info.Size(), page)
	}

	// A smaller one is zero-extended, keeping its leading bytes.
	if err := os.WriteFile(pathFor(name), []byte("abc"), 0o600); err != nil {
		t.Fatalf("seeding undersized segment file: %v", err)
	}
	seg, err = Open(name, true)
	if err != nil {
		t.Fatalf("Open over undersized file = %v", err)
	}
	defer seg.Close()
	if !bytes.Equal(seg.Bytes()[:3], []byte("abc")) {
		t.Errorf("leading bytes = %q, want %q", seg.Bytes()[:3], "abc")
	}
	for i := 3; i < seg.Size(); i++ {
		if seg.Bytes()[i] != 0 {
			t.Fatalf("byte %d = 0x%x, want zero extension", i, seg.Bytes()[i])
		}
	}
}

func TestCloseReleasesMapping(t *testing.T) {
	name := testName(t)

	seg, err := Open(name, true)
	if err != nil {
		t.Fatalf("Open(writable) = %v", err)
	}
	if err := seg.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}
	if seg.Bytes() != nil {
		t.Errorf("Bytes() after Close = %v, want nil", seg.Bytes())
	}
	if seg.Size() != 0 {
		t.Errorf("Size() after Close = %d, want 0", seg.Size())
	}
}

func TestRemoveUnlinksOnlyFutureOpens(t *testing.T) {
	name := testName(t)

	seg, err := Open(name, true)
	if err != nil {
		t.Fatalf("Open(writable) = %v", err)
	}
	defer seg.Close()
	copy(seg.Bytes(), "still here")

	if err := Remove(name); err != nil {
		t.Fatalf("Remove = %v", err)
	}

	// The held mapping stays valid after the unlink.
	if !bytes.Equal(seg.Bytes()[:10], []byte("still here")) {
		t.Errorf("mapping lost after Remove: %q", seg.Bytes()[:10])
	}

	// But a fresh read-only open no longer finds the segment.
	if _, err := Open(name, false); !errors.Is(err, unix.ENOENT) {
		t.Errorf("Open after Remove = %v, want ENOENT", err)
	}
}
