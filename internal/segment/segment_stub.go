//go:build !unix

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
	"syscall"
)

// Open is unsupported off unix platforms.
func Open(name string, writable bool) (*Segment, error) {
	return nil, fmt.Errorf("shared memory segments unsupported on this platform: %w", syscall.ENOTSUP)
}

// Close is unsupported off unix platforms.
func (s *Segment) Close() error {
	return syscall.ENOTSUP
}
