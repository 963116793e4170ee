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

package kstate

import (
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/ElliottH/kstate/internal/segment"
)

// Permissions is a flag word describing how a state may be used.
type Permissions uint32

const (
	// Read permits reading the state.
	Read Permissions = 1
	// Write permits writing the state, and implies Read.
	Write Permissions = 2
)

// Validate rejects an empty permission set and any bit outside
// Read|Write. It is applied at every entry point that takes permissions.
func (p Permissions) Validate() error {
	if p == 0 {
		return fmt.Errorf("no permissions requested: %w", unix.EINVAL)
	}
	if extra := p &^ (Read | Write); extra != 0 {
		return fmt.Errorf("unknown permission bits 0x%x: %w", uint32(extra), unix.EINVAL)
	}
	return nil
}

// Normalize applies write-implies-read: a set containing Write gains
// Read. Effective permissions everywhere in this package are normalized.
func (p Permissions) Normalize() Permissions {
	if p&Write != 0 {
		p |= Read
	}
	return p
}

func (p Permissions) String() string {
	var parts []string
	if p&Read != 0 {
		parts = append(parts, "read")
	}
	if p&Write != 0 {
		parts = append(parts, "write")
	}
	if extra := p &^ (Read | Write); extra != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(extra)))
	}
	if len(parts) == 0 {
		return "0x0"
	}
	return strings.Join(parts, "|")
}

// idAllocator hands out process-wide monotonic non-zero ids. It is an
// explicit value rather than bare package state so tests can swap in a
// fresh one; uniqueness holds only within one process's lifetime.
type idAllocator struct {
	last atomic.Uint64
}

func (a *idAllocator) next() uint64 {
	return a.last.Add(1)
}

var (
	stateIDs       idAllocator
	transactionIDs idAllocator
)

// A State is one subscription to a named shared-memory state. A handle
// starts empty; Subscribe binds it to a name and maps the backing
// segment, Unsubscribe releases both and returns it to empty. Whether the
// handle is populated is exactly whether it holds a mapping.
//
// A State's fields are private to the handle and need no locking between
// handles, but a single State is not safe for concurrent use from
// multiple goroutines.
type State struct {
	id    uint64
	name  string
	perms Permissions
	seg   *segment.Segment
}

// NewState returns an empty, unsubscribed handle.
func NewState() *State {
	return &State{}
}

// Subscribe binds the handle to the named state with the given
// permissions, creating the backing segment if the permissions include
// Write and it does not already exist. A read-only subscription to a
// state that has never been created fails with ENOENT.
//
// On any failure the handle is left exactly as it was: empty, with no
// partial name or mapping retained. Subscribing an already-subscribed
// handle fails; Unsubscribe first.
func (s *State) Subscribe(name string, perms Permissions) error {
	if s == nil {
		return fmt.Errorf("subscribe: %w", ErrNilHandle)
	}
	if s.seg != nil {
		return fmt.Errorf("subscribe %q: %w", name, ErrAlreadySubscribed)
	}
	if _, err := ValidateStateName(name); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := perms.Validate(); err != nil {
		return fmt.Errorf("subscribe %q: %w", name, err)
	}
	perms = perms.Normalize()

	logger.Debug().Str("name", name).Stringer("permissions", perms).Msg("subscribing to state")
	seg, err := segment.Open(name, perms&Write != 0)
	if err != nil {
		return fmt.Errorf("subscribe %q: %w", name, err)
	}

	s.id = stateIDs.next()
	s.name = name
	s.perms = perms
	s.seg = seg
	return nil
}

// Unsubscribe releases the handle's mapping and returns it to empty. It
// never fails: on a nil or never-subscribed handle it is a no-op, and an
// OS error unmapping the segment is logged rather than returned (the
// handle still completes its transition, at the cost of a possible leak).
//
// Transactions started from this state keep their own name copy and
// mapping and are unaffected.
func (s *State) Unsubscribe() error {
	if s == nil || s.seg == nil {
		return nil
	}
	if err := s.seg.Close(); err != nil {
		logger.Warn().Err(err).Str("name", s.name).Msg("releasing state mapping")
	}
	s.id = 0
	s.name = ""
	s.perms = 0
	s.seg = nil
	return nil
}

// Close releases the handle, unsubscribing first if needed. Closing a
// nil handle is a no-op.
func (s *State) Close() error {
	return s.Unsubscribe()
}

// Subscribed reports whether the handle is currently bound to a state.
func (s *State) Subscribed() bool {
	return s != nil && s.seg != nil
}

// Name returns the state name, without any OS namespace prefix, or ""
// when unsubscribed.
func (s *State) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Permissions returns the effective (normalized) permissions, or 0 when
// unsubscribed.
func (s *State) Permissions() Permissions {
	if s == nil {
		return 0
	}
	return s.perms
}

// ID returns the subscription's process-unique non-zero id, or 0 while
// unsubscribed.
func (s *State) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Bytes returns the state's mapped page, or nil when unsubscribed. The
// bytes are shared with every subscriber to the same name.
func (s *State) Bytes() []byte {
	if s == nil || s.seg == nil {
		return nil
	}
	return s.seg.Bytes()
}
