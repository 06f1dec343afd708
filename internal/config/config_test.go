/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// memStore is a test TokenStore that never touches the OS keyring.
type memStore struct{ m map[string]string }

func (s *memStore) Get(service, key string) (string, error) { return s.m[service+"/"+key], nil }
func (s *memStore) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *memStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestDefaultsAreSane(t *testing.T) {
	d := Defaults()
	if d.Backend.BaseURL == "" || d.Backend.TimeoutMs <= 0 {
		t.Fatalf("bad backend defaults: %+v", d.Backend)
	}
	if d.Preview.Scale <= 0 || d.Preview.Scale > 1 || d.Preview.Quality <= 0 || d.Preview.Quality > 100 {
		t.Fatalf("bad preview defaults: %+v", d.Preview)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withTempHome(t)
	old := tokenStore
	tokenStore = &memStore{m: map[string]string{}}
	t.Cleanup(func() { tokenStore = old })

	cfg := Defaults()
	cfg.General.Theme = "dark"
	cfg.Backend.BaseURL = "https://books.example.test"
	cfg.Preview.Quality = 42
	if err := Save(cfg, "secret-token"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Theme != "dark" {
		t.Fatalf("theme not persisted: %q", got.General.Theme)
	}
	if got.Backend.BaseURL != "https://books.example.test" {
		t.Fatalf("base url not persisted: %q", got.Backend.BaseURL)
	}
	if got.Preview.Quality != 42 {
		t.Fatalf("preview quality not persisted: %d", got.Preview.Quality)
	}
	if tok != "secret-token" {
		t.Fatalf("token not round-tripped: %q", tok)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	withTempHome(t)
	old := tokenStore
	tokenStore = &memStore{m: map[string]string{}}
	t.Cleanup(func() { tokenStore = old })

	t.Setenv(EnvBackendURL, "http://override:9999")
	t.Setenv(EnvPreviewScale, "0.25")
	t.Setenv(EnvLogLevel, "DEBUG")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://override:9999" {
		t.Fatalf("env override ignored: %q", cfg.Backend.BaseURL)
	}
	if cfg.Preview.Scale != 0.25 {
		t.Fatalf("preview scale override ignored: %v", cfg.Preview.Scale)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level override ignored: %q", cfg.Logging.Level)
	}
	if env, ok := EnvOverrideFor("backend.base_url"); !ok || env != EnvBackendURL {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", env, ok)
	}
}

func TestMergePreservesDefaultsForZeroValues(t *testing.T) {
	withTempHome(t)
	old := tokenStore
	tokenStore = &memStore{m: map[string]string{}}
	t.Cleanup(func() { tokenStore = old })

	// Write a partial config file by hand; unset fields must keep defaults.
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	partial := map[string]any{"general": map[string]any{"theme": "light"}}
	data, _ := yaml.Marshal(partial)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Theme != "light" {
		t.Fatalf("file value lost: %q", cfg.General.Theme)
	}
	if cfg.Backend.TimeoutMs != Defaults().Backend.TimeoutMs {
		t.Fatalf("default timeout clobbered: %d", cfg.Backend.TimeoutMs)
	}
}
