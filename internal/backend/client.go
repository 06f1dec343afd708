/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gobookstudio/internal/workflow"
)

// Client is the HTTP client for the collaboration API. It is used by the
// studio for commit-cycle persistence, shared question pools, and photo
// uploads under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	// BookID selects the shared book that studio commits are recorded
	// against.
	BookID int64
	client *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Authenticate requests a bearer token for the subject and stores it on the
// client.
func (c *Client) Authenticate(ctx context.Context, subject string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/token", map[string]any{"subject": subject}, &resp)
	if err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

// ListBooks returns the shared books visible to the caller.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var list []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetBook fetches one shared book by server id.
func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListQuestions returns the shared question pool of a book.
func (c *Client) ListQuestions(ctx context.Context, bookID int64) ([]Question, error) {
	var list []Question
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d/questions", bookID), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateQuestion adds a question to a book's shared pool.
func (c *Client) CreateQuestion(ctx context.Context, bookID int64, category, text string) (*Question, error) {
	var q Question
	body := map[string]any{"category": category, "text": text}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/books/%d/questions", bookID), body, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// SubmitAnswer posts an answer to a shared question.
func (c *Client) SubmitAnswer(ctx context.Context, questionID, text string) (*Answer, error) {
	var a Answer
	body := map[string]any{"text": text}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/questions/%s/answers", questionID), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UploadPhoto pushes raw image bytes to the server, which sniffs and
// validates the content type. Returns the server-assigned photo id.
func (c *Client) UploadPhoto(ctx context.Context, bookID int64, name string, data []byte) (string, error) {
	u := fmt.Sprintf("%s/api/books/%d/photos?name=%s", c.BaseURL, bookID, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("server POST photos: %s", resp.Status)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// PersistCommit records a committed selection against the shared book.
// It implements workflow.Persister.
func (c *Client) PersistCommit(ctx context.Context, rec workflow.CommitRecord) error {
	if c.BookID <= 0 {
		return fmt.Errorf("no shared book configured")
	}
	body := map[string]any{
		"scope":        string(rec.Scope),
		"kind":         string(rec.Kind),
		"selection_id": rec.SelectionID,
		"label":        rec.Label,
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/books/%d/commits", c.BookID), body, nil)
}
