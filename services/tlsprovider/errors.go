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

package tlsprovider

import (
	"fmt"
	"strings"
	"time"
)

// CredentialLoadError is returned when credential material cannot be used.
type CredentialLoadError struct {
	// Key is the configuration key of the offending material.
	Key string
	// Err is the underlying cause.
	Err error
}

func (e *CredentialLoadError) Error() string {
	return fmt.Sprintf("failed to load credentials from %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CredentialLoadError) Unwrap() error {
	return e.Err
}

// RefreshError is returned when a refresh fails.  It is never fatal.
type RefreshError struct {
	// Command is the refresh command, if one was run.
	Command []string
	// ExitCode is the exit code of the command, or -1 if it did not exit.
	ExitCode int
	// TimedOut is true if the command was killed for exceeding its timeout.
	TimedOut bool
	// Err is the underlying cause.
	Err error
}

func (e *RefreshError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("refresh command %q timed out", strings.Join(e.Command, " "))
	case e.ExitCode > 0:
		return fmt.Sprintf("refresh command %q exited with code %d", strings.Join(e.Command, " "), e.ExitCode)
	case len(e.Command) > 0 && e.ExitCode != 0:
		return fmt.Sprintf("refresh command %q failed: %v", strings.Join(e.Command, " "), e.Err)
	default:
		return fmt.Sprintf("refresh failed: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *RefreshError) Unwrap() error {
	return e.Err
}

// ExpirationWarning is raised when the client certificate is close to
// expiry.  It is informational only.
type ExpirationWarning struct {
	Fingerprint string
	NotAfter    time.Time
	Remaining   time.Duration
	Threshold   time.Duration
}

func (w *ExpirationWarning) String() string {
	if w.Remaining <= 0 {
		return fmt.Sprintf("certificate %s expired at %s", w.Fingerprint, w.NotAfter.Format(time.RFC3339))
	}
	return fmt.Sprintf("certificate %s expires at %s, within %s", w.Fingerprint, w.NotAfter.Format(time.RFC3339), w.Threshold)
}
