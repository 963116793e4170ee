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

	"golang.org/x/sys/unix"
)

// Every sentinel wraps the errno the C-style API would have returned
// negated, so errors.Is(err, unix.EINVAL) and friends work on anything
// this package reports. OS errors from opening, sizing, or mapping a
// segment are wrapped and surfaced verbatim.
var (
	// ErrNilHandle is returned by mutating operations on a nil handle.
	ErrNilHandle = fmt.Errorf("nil handle: %w", unix.EINVAL)

	// ErrAlreadySubscribed is returned by Subscribe on a handle that is
	// already bound to a state. Unsubscribe first.
	ErrAlreadySubscribed = fmt.Errorf("state already subscribed: %w", unix.EINVAL)

	// ErrNotSubscribed is returned by Transaction.Start when the given
	// state handle is not currently subscribed.
	ErrNotSubscribed = fmt.Errorf("state not subscribed: %w", unix.EINVAL)

	// ErrAlreadyActive is returned by Start on a transaction that has
	// been started and not yet committed or aborted.
	ErrAlreadyActive = fmt.Errorf("transaction already active: %w", unix.EINVAL)

	// ErrNotActive is returned by Commit and Abort on a transaction that
	// is not active, including one already committed or aborted.
	ErrNotActive = fmt.Errorf("transaction not active: %w", unix.EINVAL)

	// ErrStateReadOnly is returned by Start when write permission is
	// requested against a state subscribed without it.
	ErrStateReadOnly = fmt.Errorf("state is read-only: %w", unix.EINVAL)
)
