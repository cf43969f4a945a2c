// Copyright © 2026 Attestant Limited.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"context"
	"net/url"
	"path/filepath"

	"github.com/pkg/errors"
)

// Fetcher fetches the content behind a resolved reference.
type Fetcher func(ctx context.Context) ([]byte, error)

// Resource is a resolved, re-readable reference to byte content.
type Resource struct {
	// Ref is the reference as supplied in configuration.
	Ref string
	// Location is the canonical location the reference resolved to.
	Location string
	fetch    Fetcher
}

// NewResource creates a new resource.
func NewResource(ref string, location string, fetch Fetcher) *Resource {
	return &Resource{
		Ref:      ref,
		Location: location,
		fetch:    fetch,
	}
}

// Read fetches the current content of the resource.
// Each call goes back to the source, so rotated content is picked up.
func (r *Resource) Read(ctx context.Context) ([]byte, error) {
	if r == nil || r.fetch == nil {
		return nil, errors.Errorf("resource %q is not resolved", r.String())
	}
	return r.fetch(ctx)
}

// String returns the reference of the resource.
func (r *Resource) String() string {
	if r == nil {
		return ""
	}
	return r.Ref
}

// LocalPath returns the local filesystem path of the resource, if it has one.
func (r *Resource) LocalPath() (string, bool) {
	if r == nil {
		return "", false
	}
	u, err := url.Parse(r.Location)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}
