/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		got := parseLevel(in)
		if got.Level() != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got.Level(), want)
		}
	}
}

func TestConsoleHandlerWritesOneLine(t *testing.T) {
	var sb strings.Builder
	h := &consoleTextHandler{opts: consoleOpts{Level: slog.LevelInfo}, w: &sb}
	l := slog.New(h).With(slog.String("component", "test"))
	l.Info("hello", slog.Int("n", 3))
	out := sb.String()
	if !strings.Contains(out, "INF hello") {
		t.Fatalf("missing level/message in output: %q", out)
	}
	if !strings.Contains(out, "component=test") || !strings.Contains(out, "n=3") {
		t.Fatalf("missing attrs in output: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected a single line, got %q", out)
	}
}

func TestConsoleHandlerGroupsPrefixKeys(t *testing.T) {
	var sb strings.Builder
	h := &consoleTextHandler{opts: consoleOpts{Level: slog.LevelInfo}, w: &sb}
	l := slog.New(h).WithGroup("req").With(slog.String("id", "42"))
	l.Warn("slow")
	if !strings.Contains(sb.String(), "req.id=42") {
		t.Fatalf("group prefix missing: %q", sb.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var sb strings.Builder
	h := &consoleTextHandler{opts: consoleOpts{Level: slog.LevelWarn}, w: &sb}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should pass at warn level")
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b strings.Builder
	h := multiHandler(
		&consoleTextHandler{opts: consoleOpts{Level: slog.LevelInfo}, w: &a},
		&consoleTextHandler{opts: consoleOpts{Level: slog.LevelInfo}, w: &b},
	)
	slog.New(h).Info("fanout")
	if !strings.Contains(a.String(), "fanout") || !strings.Contains(b.String(), "fanout") {
		t.Fatalf("both handlers should receive the record: a=%q b=%q", a.String(), b.String())
	}
}

func TestWithComponentAddsAttr(t *testing.T) {
	Init(Options{Level: "error"}) // quiet global init for the test binary
	l := WithComponent("editor")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l2 := WithOperation(l, "apply")
	if l2 == nil {
		t.Fatalf("nil logger with op")
	}
}
