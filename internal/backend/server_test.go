/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gobookstudio/internal/workflow"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	// No database: these tests only exercise paths that reject before any
	// query runs.
	return NewServer(nil, Config{AuthSecret: "test-secret"})
}

func TestAPIRequiresBearerToken(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Routes())
	defer srv.Close()

	for _, path := range []string{"/api/books", "/api/books/1/questions", "/api/books/1/commits"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: got %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestTokenEndpointIssuesValidToken(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/auth/token", "application/json",
		strings.NewReader(`{"subject":"jane","ttl_seconds":60}`))
	if err != nil {
		t.Fatalf("POST token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sub, err := verifyToken("test-secret", out.Token)
	if err != nil || sub != "jane" {
		t.Fatalf("issued token invalid: %q %v", sub, err)
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Routes())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

// fakeAPI implements just enough of the server API in memory to exercise the
// client's request shapes.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-123"})
	})
	requireAuth := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return false
		}
		return true
	}
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, []Book{{ID: 1, Title: "Family Book", Version: 3, UpdatedAt: time.Now()}})
	})
	mux.HandleFunc("/api/books/1/commits", func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["scope"] != "book" || body["kind"] != "Color Palette" || body["selection_id"] != "warm-earth" {
			t.Errorf("unexpected commit body: %v", body)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9})
	})
	mux.HandleFunc("/api/questions/q-1/answers", func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		writeJSON(w, http.StatusCreated, Answer{ID: "a-1", Text: "Fishing with dad"})
	})
	return httptest.NewServer(mux)
}

func TestClientAgainstFakeAPI(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()
	ctx := context.Background()

	c := NewClient(srv.URL+"/", "")
	if err := c.Authenticate(ctx, "jane"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if c.Token != "tok-123" {
		t.Fatalf("token not stored: %q", c.Token)
	}

	books, err := c.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Family Book" {
		t.Fatalf("wrong books: %+v", books)
	}

	a, err := c.SubmitAnswer(ctx, "q-1", "Fishing with dad")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if a.ID != "a-1" {
		t.Fatalf("wrong answer: %+v", a)
	}

	c.BookID = 1
	err = c.PersistCommit(ctx, workflow.CommitRecord{
		Scope:       workflow.ScopeBook,
		Kind:        workflow.KindColorPalette,
		SelectionID: "warm-earth",
		Label:       "Apply Book Color Palette: warm-earth",
	})
	if err != nil {
		t.Fatalf("PersistCommit: %v", err)
	}
}

func TestPersistCommitRequiresBook(t *testing.T) {
	c := NewClient("http://localhost:0", "tok")
	err := c.PersistCommit(context.Background(), workflow.CommitRecord{})
	if err == nil {
		t.Fatalf("expected error without configured book")
	}
}
