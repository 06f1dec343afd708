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
	"errors"
	"os"
	"path/filepath"
)

// QuestionListFileName is the plain-text question pool stored next to the
// manifest. Its format is parsed by internal/qa.
const QuestionListFileName = "questions.txt"

// QuestionListPath returns the absolute path of the project's question list,
// or empty for a nil handle.
func QuestionListPath(ph *ProjectHandle) string {
	if ph == nil || ph.Root == "" {
		return ""
	}
	return filepath.Join(ph.Root, QuestionListFileName)
}

// ReadQuestionList loads the raw question list text. A missing file is not an
// error; it returns the empty string so a fresh project starts with an empty
// pool.
func ReadQuestionList(ph *ProjectHandle) (string, error) {
	p := QuestionListPath(ph)
	if p == "" {
		return "", errors.New("no project open")
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// WriteQuestionList persists the raw question list text with the same
// fsync-then-rename discipline as the manifest.
func WriteQuestionList(ph *ProjectHandle, text string) error {
	p := QuestionListPath(ph)
	if p == "" {
		return errors.New("no project open")
	}
	return writeFileSync(p, []byte(text))
}
