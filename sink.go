// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"log/slog"
)

// Sink is the host diagnostic sink. Script load errors, runtime errors and
// print output all end up here.
type Sink interface {
	PrintLine(text string)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(text string)

// PrintLine calls f(text).
func (f SinkFunc) PrintLine(text string) { f(text) }

type logSink struct {
	logger *slog.Logger
}

// NewLogSink returns a Sink that writes every line as an info record.
func NewLogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &logSink{logger: logger}
}

func (s *logSink) PrintLine(text string) {
	s.logger.Info(text)
}
