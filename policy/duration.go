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

package policy

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sosodev/duration"
)

// ParseDuration parses an ISO-8601 duration such as PT30M or P1DT12H.
// Negative and zero-length inputs are rejected.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errors.New("empty duration")
	}
	if strings.HasPrefix(input, "-") {
		return 0, errors.New("negative duration")
	}
	// Accept lower-case designators.
	parsed, err := duration.Parse(strings.ToUpper(input))
	if err != nil {
		return 0, errors.New("not an ISO-8601 duration")
	}
	if parsed.Negative {
		return 0, errors.New("negative duration")
	}

	return parsed.ToTimeDuration(), nil
}

// SplitList splits a comma-separated list, trimming each element and
// dropping empty elements.
func SplitList(input string) []string {
	parts := strings.Split(input, ",")
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		res = append(res, part)
	}
	return res
}
