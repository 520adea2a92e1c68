// Copyright 2025 The Cbeam Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging defines the minimal logger sink contract cbeam's core
// depends on (spec.md §1: "a logger sink" is an external collaborator) and
// a default log/slog-backed implementation.
package logging

import (
	"fmt"
	"log/slog"
)

// Logger is the sink cbeam's own diagnostics are written to through
// Default: the reference buffer's SafeGet refusal and the default defect
// handler. C9's per-message logger hook is a separate function type
// (dispatch.Logger), and C5 reports capacity-exceeded as an error rather
// than logging it. Callers may substitute any implementation; nothing in
// the core requires slog specifically.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// NewSlog wraps an *slog.Logger as a Logger. A nil logger uses slog.Default().
func NewSlog(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }

// Nop is a Logger that discards everything, useful in tests that don't want
// log noise but still need a non-nil sink.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Default is the process-wide Logger used when a component isn't given one
// explicitly. It can be replaced by an application at startup.
var Default = NewSlog(nil)
