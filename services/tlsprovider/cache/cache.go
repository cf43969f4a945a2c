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

// Package cache holds the single TLS provider shared by all exporters.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/pkg/errors"
)

// BuildFunc builds a provider.
type BuildFunc func(ctx context.Context) (tlsprovider.Service, error)

// Cache holds at most one provider.  Once a provider has been built it is
// returned to all callers; a failed build leaves the cache empty.
type Cache struct {
	mu       sync.Mutex
	provider atomic.Pointer[entry]
}

type entry struct {
	provider tlsprovider.Service
}

// New creates a new, empty, cache.
func New() *Cache {
	return &Cache{}
}

// GetOrCreate returns the cached provider, building it with build if there
// is none.  Concurrent callers wait for a single build.
func (c *Cache) GetOrCreate(ctx context.Context, build BuildFunc) (tlsprovider.Service, error) {
	if existing := c.provider.Load(); existing != nil {
		return existing.provider, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing := c.provider.Load(); existing != nil {
		return existing.provider, nil
	}

	if build == nil {
		return nil, errors.New("no build function supplied")
	}
	provider, err := build(ctx)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, errors.New("build function returned no provider")
	}
	c.provider.Store(&entry{provider: provider})

	return provider, nil
}

// Provider returns the cached provider, or nil if none has been built.
func (c *Cache) Provider() tlsprovider.Service {
	existing := c.provider.Load()
	if existing == nil {
		return nil
	}
	return existing.provider
}
