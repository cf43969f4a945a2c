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

// Package locator resolves configuration references to readable resources.
package locator

import (
	"context"
	"fmt"

	"github.com/attestantio/exportertls/core"
)

// Service resolves references to resources.
type Service interface {
	// Resolve resolves a reference to a resource.  The resource must be
	// readable at the time of resolution.
	Resolve(ctx context.Context, ref string) (*core.Resource, error)
}

// ResolutionError is returned when a reference cannot be resolved.
type ResolutionError struct {
	// Key is the configuration key that supplied the reference, if known.
	Key string
	// Ref is the reference that failed to resolve.
	Ref string
	// Err is the underlying cause.
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to resolve %q: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("failed to resolve %q for %s: %v", e.Ref, e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
