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

package util_test

import (
	"testing"

	"github.com/attestantio/exportertls/util"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
		module   string
		expected zerolog.Level
	}{
		{
			name:     "Default",
			module:   "customizer",
			expected: zerolog.InfoLevel,
		},
		{
			name:     "Global",
			settings: map[string]string{"log-level": "debug"},
			module:   "customizer",
			expected: zerolog.DebugLevel,
		},
		{
			name:     "Module",
			settings: map[string]string{"log-level": "debug", "customizer.log-level": "trace"},
			module:   "customizer",
			expected: zerolog.TraceLevel,
		},
		{
			name:     "OtherModule",
			settings: map[string]string{"log-level": "warn", "tlsprovider.log-level": "trace"},
			module:   "customizer",
			expected: zerolog.WarnLevel,
		},
		{
			name:     "Disabled",
			settings: map[string]string{"log-level": "none"},
			module:   "customizer",
			expected: zerolog.Disabled,
		},
		{
			name:     "Unknown",
			settings: map[string]string{"log-level": "chatty"},
			module:   "customizer",
			expected: zerolog.InfoLevel,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range test.settings {
				viper.Set(k, v)
			}
			require.Equal(t, test.expected, util.LogLevel(test.module))
		})
	}
	viper.Reset()
}
