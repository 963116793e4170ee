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

// Package kstate lets independent processes share a small, named,
// fixed-size piece of state backed by OS shared memory.
//
// A state is addressed by a dotted name such as "system.network.up". Any
// process that subscribes a State handle to that name with matching
// permissions maps the same one-page shared memory segment; the bytes in
// the page are the state's value, and the package imposes no structure on
// them. Transactions provide a second, independently mapped handle to the
// same segment whose lifetime is decoupled from the originating state's:
// a transaction started before its state was unsubscribed remains usable
// until it is committed or aborted.
//
// The transaction layer is a handle-lifetime construct only. It performs
// no write-back, conflict detection, or isolation, and commit and abort
// are behaviorally identical. Likewise the mapped bytes carry no
// concurrency discipline; simultaneous writers may produce torn updates.
// Callers needing consistency must layer their own protocol on top.
package kstate
