/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package qa manages the interview question pool: a plain-text list of
// questions grouped into categories, and helpers that relate pool entries to
// the question/answer elements placed on book pages via their RefID.
package qa

// Pool is a parsed question list.
type Pool struct {
	Categories []Category
}

// Category groups questions under a heading from the source list.
type Category struct {
	Title     string
	Questions []Question
}

// Question is one pool entry. ID is stable across reparses of the same list
// (derived from the question text) and is what page elements store in RefID.
type Question struct {
	ID     string
	Text   string
	Tags   []string
	LineNo int // 1-based starting line number in the source
}

// Error represents a parse problem with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

// All returns every question in the pool in source order.
func (p Pool) All() []Question {
	var out []Question
	for _, c := range p.Categories {
		out = append(out, c.Questions...)
	}
	return out
}

// Find returns the question with the given ID, or false.
func (p Pool) Find(id string) (Question, bool) {
	for _, c := range p.Categories {
		for _, q := range c.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Stats summarizes a pool.
type Stats struct {
	Categories int
	Questions  int
	ByCategory map[string]int
	ByTag      map[string]int
}

// Summarize computes pool statistics.
func Summarize(p Pool) Stats {
	st := Stats{
		Categories: len(p.Categories),
		ByCategory: map[string]int{},
		ByTag:      map[string]int{},
	}
	for _, c := range p.Categories {
		st.Questions += len(c.Questions)
		st.ByCategory[c.Title] = len(c.Questions)
		for _, q := range c.Questions {
			for _, t := range q.Tags {
				st.ByTag[t]++
			}
		}
	}
	return st
}
