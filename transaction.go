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

	"github.com/ElliottH/kstate/internal/segment"
)

// A Transaction is a time-bounded view of a state, copied from a
// subscribed State at start time. It holds its own copy of the name and
// its own mapping of the same segment, so it outlives its originating
// state: unsubscribing or closing the State after Start has no effect on
// the transaction.
//
// Commit and Abort are behaviorally identical at this layer. Neither
// performs write-back, merging, or conflict detection; the distinction
// records caller intent and leaves room for a future write-back step.
type Transaction struct {
	id    uint64
	name  string
	perms Permissions
	seg   *segment.Segment
}

// NewTransaction returns an inactive transaction with a fresh non-zero
// id. Ids are monotonic and unique within the process.
func NewTransaction() *Transaction {
	return &Transaction{id: transactionIDs.next()}
}

// Start activates the transaction against a subscribed state. The given
// permissions bound what the transaction is for; requesting Write
// against a state subscribed read-only fails, since a transaction cannot
// upgrade its state's access.
//
// The transaction maps the segment read-write regardless of the
// requested permissions: the segment already exists with fixed size and
// identity, and the permission field is advisory. Starting an
// already-active transaction fails; on any failure the transaction is
// left inactive with nothing retained.
func (t *Transaction) Start(state *State, perms Permissions) error {
	if t == nil {
		return fmt.Errorf("start transaction: %w", ErrNilHandle)
	}
	if t.seg != nil {
		return fmt.Errorf("start transaction %d: %w", t.id, ErrAlreadyActive)
	}
	if !state.Subscribed() {
		return fmt.Errorf("start transaction %d: %w", t.id, ErrNotSubscribed)
	}
	if err := perms.Validate(); err != nil {
		return fmt.Errorf("start transaction %d: %w", t.id, err)
	}
	perms = perms.Normalize()
	if perms&Write != 0 && state.perms&Write == 0 {
		return fmt.Errorf("start transaction %d on %q: %w", t.id, state.name, ErrStateReadOnly)
	}

	logger.Debug().Uint64("transaction", t.id).Str("name", state.name).
		Stringer("permissions", perms).Msg("starting transaction")
	seg, err := segment.Open(state.name, true)
	if err != nil {
		return fmt.Errorf("start transaction %d on %q: %w", t.id, state.name, err)
	}

	t.name = state.name
	t.perms = perms
	t.seg = seg
	return nil
}

// Commit finishes an active transaction, releasing its mapping. No data
// reconciliation is performed. Committing an inactive (including already
// committed or aborted) transaction fails.
func (t *Transaction) Commit() error {
	return t.finish("commit")
}

// Abort finishes an active transaction, with identical effect to Commit.
// Aborting an inactive transaction fails; unlike State.Unsubscribe,
// terminating a transaction is not idempotent.
func (t *Transaction) Abort() error {
	return t.finish("abort")
}

func (t *Transaction) finish(op string) error {
	if t == nil || t.seg == nil {
		return fmt.Errorf("%s transaction: %w", op, ErrNotActive)
	}
	if err := t.seg.Close(); err != nil {
		logger.Warn().Err(err).Uint64("transaction", t.id).Str("name", t.name).
			Msgf("releasing transaction mapping on %s", op)
	}
	t.name = ""
	t.perms = 0
	t.seg = nil
	return nil
}

// Close releases the transaction, aborting first if it is still active.
// Closing a nil or inactive transaction is a no-op.
func (t *Transaction) Close() error {
	if t == nil || t.seg == nil {
		return nil
	}
	return t.Abort()
}

// Active reports whether the transaction has been started and not yet
// committed or aborted.
func (t *Transaction) Active() bool {
	return t != nil && t.seg != nil
}

// Name returns the transaction's copied state name, or "" when inactive.
func (t *Transaction) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Permissions returns the transaction's effective permissions, or 0 when
// inactive.
func (t *Transaction) Permissions() Permissions {
	if t == nil {
		return 0
	}
	return t.perms
}

// ID returns the transaction's non-zero id, assigned at construction, or
// 0 for a nil handle.
func (t *Transaction) ID() uint64 {
	if t == nil {
		return 0
	}
	return t.id
}

// Bytes returns the transaction's own mapping of the state's page, or
// nil when inactive.
func (t *Transaction) Bytes() []byte {
	if t == nil || t.seg == nil {
		return nil
	}
	return t.seg.Bytes()
}
