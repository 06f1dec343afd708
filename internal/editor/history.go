/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"fmt"
	"time"

	"gobookstudio/internal/domain"
)

// ErrHistoryIndex is returned when a jump targets a snapshot that does not
// exist. Out-of-range indexes are rejected, never clamped: the selection
// workflow depends on exact round-trips to its baseline snapshot.
var ErrHistoryIndex = errors.New("history index out of range")

// Snapshot is one labeled entry of the linear undo ledger: a full deep copy
// of the document at the time of capture.
type Snapshot struct {
	Label string
	Book  domain.Book
	TS    time.Time
}

// History is a linear undo/redo ledger over whole-document snapshots with a
// cursor. Save truncates any "future" snapshots beyond the cursor before
// appending, the standard linear undo discipline.
type History struct {
	snaps []Snapshot
	index int
}

// NewHistory returns an empty ledger. The cursor starts at -1 (no snapshot).
func NewHistory() *History {
	return &History{index: -1}
}

// Save truncates snapshots after the cursor, appends a deep copy of book
// under the given label, advances the cursor, and returns the new index.
func (h *History) Save(label string, book domain.Book) int {
	h.snaps = h.snaps[:h.index+1]
	h.snaps = append(h.snaps, Snapshot{Label: label, Book: book.Clone(), TS: time.Now()})
	h.index = len(h.snaps) - 1
	return h.index
}

// GoTo moves the cursor to index and returns a deep copy of that snapshot's
// document. The caller installs the copy as the live document.
func (h *History) GoTo(index int) (domain.Book, error) {
	if index < 0 || index >= len(h.snaps) {
		return domain.Book{}, fmt.Errorf("%w: %d (have %d)", ErrHistoryIndex, index, len(h.snaps))
	}
	h.index = index
	return h.snaps[index].Book.Clone(), nil
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snaps) }

// Index returns the cursor position, -1 when empty.
func (h *History) Index() int { return h.index }

// LabelAt returns the label of the snapshot at index.
func (h *History) LabelAt(index int) (string, error) {
	if index < 0 || index >= len(h.snaps) {
		return "", fmt.Errorf("%w: %d (have %d)", ErrHistoryIndex, index, len(h.snaps))
	}
	return h.snaps[index].Label, nil
}

// Labels returns all snapshot labels in order, for history panels.
func (h *History) Labels() []string {
	out := make([]string, len(h.snaps))
	for i, s := range h.snaps {
		out[i] = s.Label
	}
	return out
}
