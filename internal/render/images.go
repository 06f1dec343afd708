/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ImageSource resolves an element's image reference to a decoded image.
// References are either project-relative asset paths or http(s) URLs.
type ImageSource interface {
	Load(ref string) (image.Image, error)
}

// ProjectImageSource loads asset-path references from the project root and
// delegates http(s) references to a remote loader. A nil Remote disables
// remote loading.
type ProjectImageSource struct {
	Root   string
	Remote ImageSource
}

func (s ProjectImageSource) Load(ref string) (image.Image, error) {
	if isRemoteRef(ref) {
		if s.Remote == nil {
			return nil, fmt.Errorf("remote images disabled: %s", ref)
		}
		return s.Remote.Load(ref)
	}
	img, err := imaging.Open(filepath.Join(s.Root, filepath.FromSlash(ref)))
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", ref, err)
	}
	return img, nil
}

// HTTPImageSource fetches remote images. Each fetch gets its own deadline so
// one slow host cannot stall a whole page render.
type HTTPImageSource struct {
	Client  *http.Client
	Timeout time.Duration
}

func (s HTTPImageSource) Load(ref string) (image.Image, error) {
	client := s.Client
	if client == nil {
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", ref, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %d", ref, resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", ref, err)
	}
	return img, nil
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
