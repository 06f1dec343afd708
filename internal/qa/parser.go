/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package qa

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Parse parses a plain-text question list into a Pool.
// Supported syntax (minimal):
//   - Category headings: lines starting with "#" or "Category:"; the rest of
//     the line is the title.
//   - Questions: one per non-blank line. Inline @tag tokens stay in the text
//     and are also collected into the tag list.
//   - Continuation lines indented by 2+ spaces are appended to the previous
//     question.
//   - Notes: lines starting with ';' are ignored.
//
// Question IDs are slugs of the question text, de-duplicated with a numeric
// suffix, so the same list always parses to the same IDs.
func Parse(input string) (Pool, []Error) {
	p := Pool{Categories: []Category{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	current := Category{}
	var last *Question
	seen := map[string]int{}

	reHeading := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reHeadingAlt := regexp.MustCompile(`^(?i)\s*Category:\s*(.+)$`)
	reTag := regexp.MustCompile(`(?i)@([a-z0-9_\-]+)`)

	extractTags := func(s string) []string {
		found := reTag.FindAllStringSubmatch(s, -1)
		if len(found) == 0 {
			return nil
		}
		m := map[string]struct{}{}
		for _, f := range found {
			if len(f) > 1 {
				t := strings.ToLower(strings.TrimSpace(f[1]))
				if t != "" {
					m[t] = struct{}{}
				}
			}
		}
		if len(m) == 0 {
			return nil
		}
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	makeID := func(text string) string {
		id := slug.Make(reTag.ReplaceAllString(text, ""))
		if id == "" {
			// Text with no sluggable characters still needs a unique handle.
			return uuid.NewString()
		}
		seen[id]++
		if n := seen[id]; n > 1 {
			return fmt.Sprintf("%s-%d", id, n)
		}
		return id
	}

	mergeTags := func(q *Question, tags []string) {
		if len(tags) == 0 {
			return
		}
		m := map[string]struct{}{}
		for _, t := range q.Tags {
			m[t] = struct{}{}
		}
		for _, t := range tags {
			m[t] = struct{}{}
		}
		merged := make([]string, 0, len(m))
		for k := range m {
			merged = append(merged, k)
		}
		sort.Strings(merged)
		q.Tags = merged
	}

	flushCategory := func() {
		if strings.TrimSpace(current.Title) != "" || len(current.Questions) > 0 {
			p.Categories = append(p.Categories, current)
		}
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimRight(raw, "\r\n")

		// Continuation line (indented) -> append to the previous question.
		if strings.HasPrefix(line, "  ") && last != nil {
			cont := strings.TrimSpace(line)
			if cont != "" {
				last.Text += " " + cont
				mergeTags(last, extractTags(cont))
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			last = nil
			continue
		}

		if m := reHeading.FindStringSubmatch(trim); m != nil {
			flushCategory()
			current = Category{Title: strings.TrimSpace(m[2])}
			last = nil
			continue
		}
		if m := reHeadingAlt.FindStringSubmatch(trim); m != nil {
			flushCategory()
			current = Category{Title: strings.TrimSpace(m[1])}
			last = nil
			continue
		}

		// Note line
		if strings.HasPrefix(trim, ";") {
			last = nil
			continue
		}

		// Questions before any heading fall into an implicit category.
		if len(p.Categories) == 0 && strings.TrimSpace(current.Title) == "" && len(current.Questions) == 0 {
			current.Title = "General"
		}
		q := Question{ID: makeID(trim), Text: trim, Tags: extractTags(trim), LineNo: lineNo}
		current.Questions = append(current.Questions, q)
		last = &current.Questions[len(current.Questions)-1]
	}
	flushCategory()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return p, errs
}
