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
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// MaxNameLen is the maximum length of a state name, in bytes.
const MaxNameLen = 254

// ValidateStateName checks that name is a legal state name and returns
// its length. A state name may contain A-Z, a-z, 0-9 and the dot (.)
// character. It may not start or end with a dot, may not contain
// adjacent dots, and must contain at least one character.
func ValidateStateName(name string) (int, error) {
	if len(name) == 0 {
		return 0, fmt.Errorf("empty state name: %w", unix.EINVAL)
	}
	if len(name) > MaxNameLen {
		return 0, fmt.Errorf("state name longer than %d bytes: %w", MaxNameLen, unix.EINVAL)
	}
	prevDot := true // treat position -1 as a dot so a leading dot is rejected
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' {
			if prevDot {
				return 0, fmt.Errorf("state name %q has a leading, trailing or doubled dot: %w", name, unix.EINVAL)
			}
			prevDot = true
			continue
		}
		if !isAlnum(c) {
			return 0, fmt.Errorf("state name %q contains illegal character %q: %w", name, c, unix.EINVAL)
		}
		prevDot = false
	}
	if prevDot {
		return 0, fmt.Errorf("state name %q has a leading, trailing or doubled dot: %w", name, unix.EINVAL)
	}
	return len(name), nil
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// A NameGenerator produces names unlikely to collide with those made by
// any other generator, for anonymous and test states. Uniqueness is
// best-effort: it rests on the clock, the process id and a process-local
// counter, so two processes restarting within the same microsecond and
// reusing a pid can still collide.
type NameGenerator struct {
	now     func() time.Time
	pid     int
	counter atomic.Uint64
}

// NewNameGenerator returns a generator using the wall clock and the
// calling process's id.
func NewNameGenerator() *NameGenerator {
	return &NameGenerator{now: time.Now, pid: os.Getpid()}
}

// Generate composes a fresh state name of the form
// <prefix>.<seconds><microseconds>.<pid>.<counter>. The counter starts
// at 0 and increments on every call; it is never reset. The composed
// name is validated before being returned, so a prefix that breaks the
// naming rules is rejected here rather than at subscribe time.
func (g *NameGenerator) Generate(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty name prefix: %w", unix.EINVAL)
	}
	t := g.now()
	n := g.counter.Add(1) - 1
	name := fmt.Sprintf("%s.%d%06d.%d.%d", prefix, t.Unix(), t.Nanosecond()/1000, g.pid, n)
	if _, err := ValidateStateName(name); err != nil {
		return "", fmt.Errorf("generated name: %w", err)
	}
	return name, nil
}

var defaultNames = NewNameGenerator()

// GenerateUniqueName is Generate on a process-wide shared generator.
func GenerateUniqueName(prefix string) (string, error) {
	return defaultNames.Generate(prefix)
}
