// logger.go: slog adapter for the reelcache Logger interface
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/agilira/reelcache"
)

// slogLogger implements reelcache.Logger on top of log/slog.
type slogLogger struct {
	logger *slog.Logger
}

func newSlogLogger(w io.Writer, debug bool) *slogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(h).With(slog.String("component", "reelcache"))}
}

func (l *slogLogger) Debug(msg string, keyvals ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, keyvals...)
}

func (l *slogLogger) Info(msg string, keyvals ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, keyvals...)
}

func (l *slogLogger) Warn(msg string, keyvals ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelWarn, msg, keyvals...)
}

func (l *slogLogger) Error(msg string, keyvals ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelError, msg, keyvals...)
}

var _ reelcache.Logger = (*slogLogger)(nil)
