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

package policy_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/attestantio/exportertls/policy"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		res   time.Duration
		err   string
	}{
		{
			name: "Empty",
			err:  "empty duration",
		},
		{
			name:  "Malformed",
			input: "not-a-duration",
			err:   "not an ISO-8601 duration",
		},
		{
			name:  "GoSyntax",
			input: "30m",
			err:   "not an ISO-8601 duration",
		},
		{
			name:  "Negative",
			input: "-PT1M",
			err:   "negative duration",
		},
		{
			name:  "Minutes",
			input: "PT30M",
			res:   30 * time.Minute,
		},
		{
			name:  "LowerCase",
			input: "pt30m",
			res:   30 * time.Minute,
		},
		{
			name:  "Days",
			input: "P2D",
			res:   48 * time.Hour,
		},
		{
			name:  "Mixed",
			input: " P1DT2H3M4S ",
			res:   26*time.Hour + 3*time.Minute + 4*time.Second,
		},
		{
			name:  "FractionalSeconds",
			input: "PT0.5S",
			res:   500 * time.Millisecond,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := policy.ParseDuration(test.input)
			if test.err != "" {
				require.EqualError(t, err, test.err)
			} else {
				require.NoError(t, err)
				require.Equal(t, test.res, res)
			}
		})
	}
}

func TestParseDurationProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hours := rapid.IntRange(0, 1000).Draw(t, "hours")
		minutes := rapid.IntRange(0, 59).Draw(t, "minutes")
		seconds := rapid.IntRange(0, 59).Draw(t, "seconds")

		res, err := policy.ParseDuration(fmt.Sprintf("PT%dH%dM%dS", hours, minutes, seconds))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
		if res != expected {
			t.Fatalf("expected %v, got %v", expected, res)
		}
	})
}

func TestSplitListProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOf(rapid.StringMatching(`[a-z][a-z0-9./:-]{0,15}`)).Draw(t, "tokens")
		padding := rapid.SampledFrom([]string{"", " ", "  ", "\t"})

		var b strings.Builder
		for i, token := range tokens {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(padding.Draw(t, "before"))
			b.WriteString(token)
			b.WriteString(padding.Draw(t, "after"))
		}
		if rapid.Bool().Draw(t, "trailing") {
			b.WriteString(",")
		}

		res := policy.SplitList(b.String())
		if len(res) != len(tokens) {
			t.Fatalf("expected %d elements, got %d (%q)", len(tokens), len(res), res)
		}
		for i := range tokens {
			if res[i] != tokens[i] {
				t.Fatalf("element %d: expected %q, got %q", i, tokens[i], res[i])
			}
		}
	})
}
