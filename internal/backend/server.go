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
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	applog "gobookstudio/internal/log"
	"gobookstudio/internal/storage"
	"gobookstudio/internal/version"
)

// Server is the collaboration backend HTTP API.
type Server struct {
	db  *sql.DB
	cfg Config
	log *slog.Logger
}

// NewServer builds a server around an open database connection.
func NewServer(db *sql.DB, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Server{db: db, cfg: cfg, log: applog.WithComponent("backend")}
}

type ctxKey int

const subjectKey ctxKey = iota

func subjectFrom(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey).(string); ok {
		return s
	}
	return ""
}

// Routes builds the chi router for the API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(version.String()))
	})

	r.Post("/api/auth/token", s.handleToken)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/books", s.handleListBooks)
		r.Post("/books", s.handleCreateBook)
		r.Route("/books/{bookID}", func(r chi.Router) {
			r.Get("/", s.handleGetBook)
			r.Get("/collaborators", s.handleListCollaborators)
			r.Post("/collaborators", s.handleAddCollaborator)
			r.Get("/assignments", s.handleListAssignments)
			r.Post("/assignments", s.handleAssignPage)
			r.Get("/questions", s.handleListQuestions)
			r.Post("/questions", s.handleCreateQuestion)
			r.Post("/photos", s.handleUploadPhoto)
			r.Post("/commits", s.handleRecordCommit)
			r.Get("/commits", s.handleListCommits)
			r.Get("/search", s.handleSearch)
		})
		r.Get("/questions/{questionID}/answers", s.handleListAnswers)
		r.Post("/questions/{questionID}/answers", s.handleCreateAnswer)
		r.Get("/photos/{photoID}", s.handleGetPhoto)
	})
	return r
}

// auth validates the bearer token and stores the subject in the context.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(strings.ToLower(auth), strings.ToLower(prefix)) {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		token := strings.TrimSpace(auth[len(prefix):])
		sub, err := verifyToken(s.cfg.AuthSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("invalid token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, sub)))
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	// Optional JSON body: { "subject": "name", "ttl_seconds": 3600 }
	var req struct {
		Subject    string `json:"subject"`
		TTLSeconds int64  `json:"ttl_seconds"`
	}
	b, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	_ = r.Body.Close()
	_ = json.Unmarshal(b, &req)
	if req.Subject == "" {
		req.Subject = "dev"
	}
	if req.TTLSeconds <= 0 || req.TTLSeconds > 24*3600 {
		req.TTLSeconds = 3600
	}
	exp := time.Now().Add(time.Duration(req.TTLSeconds) * time.Second)
	tok, err := signToken(s.cfg.AuthSecret, req.Subject, exp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      tok,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}

// Book is the wire representation of a shared book.
type Book struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Title     string    `json:"title"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(), `SELECT id, stable_id, title, version, updated_at FROM books ORDER BY updated_at DESC`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	list := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.StableID, &b.Title, &b.Version, &b.UpdatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, errors.New("title is required"))
		return
	}
	stable := uuid.NewString()
	var b Book
	err := s.db.QueryRowContext(r.Context(),
		`INSERT INTO books(stable_id, title) VALUES($1, $2) RETURNING id, stable_id, title, version, updated_at`,
		stable, req.Title).Scan(&b.ID, &b.StableID, &b.Title, &b.Version, &b.UpdatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// The creator becomes the owner.
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO collaborators(book_id, name, role) VALUES($1, $2, 'owner') ON CONFLICT DO NOTHING`,
		b.ID, subjectFrom(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid book id"))
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	var b Book
	err := s.db.QueryRowContext(r.Context(),
		`SELECT id, stable_id, title, version, updated_at FROM books WHERE id = $1`, id).
		Scan(&b.ID, &b.StableID, &b.Title, &b.Version, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, errors.New("book not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Collaborator is a named participant on a book.
type Collaborator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

var validRoles = map[string]bool{"owner": true, "editor": true, "contributor": true, "viewer": true}

func (s *Server) handleListCollaborators(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	rows, err := s.db.QueryContext(r.Context(), `SELECT id, name, role FROM collaborators WHERE book_id = $1 ORDER BY id`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	list := []Collaborator{}
	for rows.Next() {
		var c Collaborator
		if err := rows.Scan(&c.ID, &c.Name, &c.Role); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if strings.TrimSpace(req.Name) == "" || !validRoles[req.Role] {
		writeError(w, http.StatusBadRequest, errors.New("name and a valid role are required"))
		return
	}
	var c Collaborator
	err := s.db.QueryRowContext(r.Context(),
		`INSERT INTO collaborators(book_id, name, role) VALUES($1, $2, $3)
		 ON CONFLICT (book_id, name) DO UPDATE SET role = excluded.role
		 RETURNING id, name, role`,
		id, req.Name, req.Role).Scan(&c.ID, &c.Name, &c.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Assignment links a collaborator to a page of a book.
type Assignment struct {
	ID             int64  `json:"id"`
	CollaboratorID int64  `json:"collaborator_id"`
	Collaborator   string `json:"collaborator"`
	PageNum        int    `json:"page_num"`
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT a.id, a.collaborator_id, c.name, a.page_num
		 FROM page_assignments a JOIN collaborators c ON c.id = a.collaborator_id
		 WHERE a.book_id = $1 ORDER BY a.page_num, a.id`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	list := []Assignment{}
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.CollaboratorID, &a.Collaborator, &a.PageNum); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAssignPage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	var req struct {
		CollaboratorID int64 `json:"collaborator_id"`
		PageNum        int   `json:"page_num"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.CollaboratorID <= 0 || req.PageNum <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("collaborator_id and page_num are required"))
		return
	}
	var a Assignment
	err := s.db.QueryRowContext(r.Context(),
		`INSERT INTO page_assignments(book_id, collaborator_id, page_num) VALUES($1, $2, $3)
		 ON CONFLICT (book_id, page_num, collaborator_id) DO UPDATE SET page_num = excluded.page_num
		 RETURNING id, collaborator_id, page_num`,
		id, req.CollaboratorID, req.PageNum).Scan(&a.ID, &a.CollaboratorID, &a.PageNum)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Question is a shared pool question on the server.
type Question struct {
	ID        string    `json:"id"`
	Category  string    `json:"category,omitempty"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, COALESCE(category,''), text, COALESCE(created_by,''), created_at
		 FROM questions WHERE book_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	list := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Text, &q.CreatedBy, &q.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	var req struct {
		Category string `json:"category"`
		Text     string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	q := Question{ID: uuid.NewString(), Category: req.Category, Text: req.Text, CreatedBy: subjectFrom(r.Context())}
	err := s.db.QueryRowContext(r.Context(),
		`INSERT INTO questions(id, book_id, category, text, created_by) VALUES($1, $2, NULLIF($3,''), $4, $5) RETURNING created_at`,
		q.ID, id, q.Category, q.Text, q.CreatedBy).Scan(&q.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// Answer is a contributor's reply to a pool question.
type Answer struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	qid := chi.URLParam(r, "questionID")
	if _, err := uuid.Parse(qid); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid question id"))
		return
	}
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, text, COALESCE(created_by,''), created_at FROM answers WHERE question_id = $1 ORDER BY created_at, id`, qid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	list := []Answer{}
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.ID, &a.Text, &a.CreatedBy, &a.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	qid := chi.URLParam(r, "questionID")
	if _, err := uuid.Parse(qid); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid question id"))
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	a := Answer{ID: uuid.NewString(), Text: req.Text, CreatedBy: subjectFrom(r.Context())}
	err := s.db.QueryRowContext(r.Context(),
		`INSERT INTO answers(id, question_id, text, created_by) VALUES($1, $2, $3, $4) RETURNING created_at`,
		a.ID, qid, a.Text, a.CreatedBy).Scan(&a.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// allowedPhotoTypes are the MIME types accepted for photo uploads.
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// sniffPhoto validates upload bytes by content, not by declared type.
func sniffPhoto(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	if kind == filetype.Unknown || !allowedPhotoTypes[kind.MIME.Value] {
		return "", errors.New("unsupported file type; expected jpeg, png, gif, or webp")
	}
	return kind.MIME.Value, nil
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	_ = r.Body.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("empty upload"))
		return
	}
	mime, err := sniffPhoto(data)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "photo"
	}
	pid := uuid.NewString()
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO photos(id, book_id, file_name, content_type, bytes, uploaded_by) VALUES($1, $2, $3, $4, $5, $6)`,
		pid, id, name, mime, data, subjectFrom(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Info("photo uploaded",
		slog.String("photo_id", pid),
		slog.Int64("book_id", id),
		slog.String("mime", mime),
		slog.Int("size", len(data)))
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           pid,
		"content_type": mime,
		"size":         len(data),
	})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "photoID")
	if _, err := uuid.Parse(pid); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid photo id"))
		return
	}
	var mime string
	var data []byte
	err := s.db.QueryRowContext(r.Context(), `SELECT content_type, bytes FROM photos WHERE id = $1`, pid).Scan(&mime, &data)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, errors.New("photo not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// CommitEntry is the server-side record of a studio commit.
type CommitEntry struct {
	ID          int64     `json:"id"`
	Scope       string    `json:"scope"`
	Kind        string    `json:"kind"`
	SelectionID string    `json:"selection_id"`
	Label       string    `json:"label"`
	CommittedBy string    `json:"committed_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) handleRecordCommit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	var req struct {
		Scope       string `json:"scope"`
		Kind        string `json:"kind"`
		SelectionID string `json:"selection_id"`
		Label       string `json:"label"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Scope == "" || req.Kind == "" || req.SelectionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("scope, kind, and selection_id are required"))
		return
	}
	var e CommitEntry
	err := s.db.QueryRowContext(r.Context(),
		`INSERT INTO commits(book_id, scope, kind, selection_id, label, committed_by)
		 VALUES($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		id, req.Scope, req.Kind, req.SelectionID, req.Label, subjectFrom(r.Context())).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// Commits bump the book version so clients can detect drift.
	if _, err := s.db.ExecContext(r.Context(),
		`UPDATE books SET version = version + 1, updated_at = now() WHERE id = $1`, id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	e.Scope, e.Kind, e.SelectionID, e.Label = req.Scope, req.Kind, req.SelectionID, req.Label
	e.CommittedBy = subjectFrom(r.Context())
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListCommits(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, scope, kind, selection_id, label, COALESCE(committed_by,''), created_at
		 FROM commits WHERE book_id = $1 ORDER BY created_at DESC, id DESC LIMIT 200`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	list := []CommitEntry{}
	for rows.Next() {
		var e CommitEntry
		if err := rows.Scan(&e.ID, &e.Scope, &e.Kind, &e.SelectionID, &e.Label, &e.CommittedBy, &e.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bookID(w, r)
	if !ok {
		return
	}
	q := storage.SearchQuery{Text: r.URL.Query().Get("q")}
	if v := r.URL.Query().Get("kinds"); v != "" {
		q.Kinds = strings.Split(v, ",")
	}
	q.PageFrom, _ = strconv.Atoi(r.URL.Query().Get("from"))
	q.PageTo, _ = strconv.Atoi(r.URL.Query().Get("to"))
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	res, err := SearchPG(r.Context(), s.db, id, q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeBody(r *http.Request, dest any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}
