/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gobookstudio/internal/domain"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(label, ts, book_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectSnapshotSQL = `SELECT book_blob FROM snapshots WHERE id = ?`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT id, label, ts FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?
)`

// HistorySnapshot describes one persisted document state without its payload.
type HistorySnapshot struct {
	ID    int64
	Label string
	TS    time.Time
}

// SaveHistorySnapshot persists a labeled document state into the project
// index. The preview page is stripped before serialization.
func SaveHistorySnapshot(ctx context.Context, ph *ProjectHandle, label string, b domain.Book, ts time.Time) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	blob, err := json.Marshal(b.WithoutPreviewPages())
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, insertSnapshotSQL, label, ts.UTC().Format(time.RFC3339Nano), blob)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LoadHistorySnapshot returns the document stored under the given snapshot id.
func LoadHistorySnapshot(ctx context.Context, ph *ProjectHandle, id int64) (*domain.Book, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	var blob []byte
	err = db.QueryRowContext(ctx, selectSnapshotSQL, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	var b domain.Book
	if err := json.Unmarshal(blob, &b); err != nil {
		return nil, fmt.Errorf("parse snapshot %d: %w", id, err)
	}
	return &b, nil
}

// ListHistorySnapshots returns up to limit most recent snapshots, newest first.
func ListHistorySnapshots(ctx context.Context, ph *ProjectHandle, limit int) ([]HistorySnapshot, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []HistorySnapshot
	for rows.Next() {
		var s HistorySnapshot
		var tsStr string
		if err := rows.Scan(&s.ID, &s.Label, &tsStr); err != nil {
			return nil, err
		}
		s.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneHistorySnapshots keeps at most keepLast snapshots and deletes older ones.
func PruneHistorySnapshots(ctx context.Context, ph *ProjectHandle, keepLast int) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
