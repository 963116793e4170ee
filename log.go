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
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger carries the package's diagnostic output. Diagnostics are
// informational only; no operation's result depends on them.
var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).Level(zerolog.WarnLevel).With().Timestamp().Logger()

// SetLogger replaces the package logger. Pass a logger built on
// zerolog.Nop() to silence diagnostics entirely.
func SetLogger(l zerolog.Logger) {
	logger = l
}
