/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package backend

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := signToken("secret", "alex", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	sub, err := verifyToken("secret", tok)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if sub != "alex" {
		t.Fatalf("wrong subject: %q", sub)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tok, err := signToken("secret", "alex", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := verifyToken("other", tok); err == nil {
		t.Fatalf("token verified with wrong secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	tok, err := signToken("secret", "alex", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := verifyToken("secret", tok); err == nil {
		t.Fatalf("expired token verified")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b.c", "!!!.???"} {
		if _, err := verifyToken("secret", tok); err == nil {
			t.Fatalf("garbage token %q verified", tok)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil || v != 1 {
		t.Fatalf("parseVersion: %d %v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Fatalf("missing version should fail")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("no embedded migrations")
	}
	for _, e := range entries {
		if _, err := parseVersion(e.Name()); err != nil {
			t.Fatalf("bad migration name %s: %v", e.Name(), err)
		}
	}
}

func TestSniffPhoto(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	mime, err := sniffPhoto(png)
	if err != nil {
		t.Fatalf("sniff png: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("wrong mime: %q", mime)
	}

	jpg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	mime, err = sniffPhoto(jpg)
	if err != nil || mime != "image/jpeg" {
		t.Fatalf("sniff jpeg: %q %v", mime, err)
	}

	if _, err := sniffPhoto([]byte("just some text pretending to be a photo")); err == nil {
		t.Fatalf("text accepted as photo")
	}
	// PDFs are a recognized type but not an allowed photo type.
	if _, err := sniffPhoto([]byte("%PDF-1.4 xxxxxxxx")); err == nil {
		t.Fatalf("pdf accepted as photo")
	}
}
