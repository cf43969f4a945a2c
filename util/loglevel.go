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

// Package util contains helpers shared by the daemon and commands.
package util

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// LogLevel returns the best log level for the module, using the
// module-specific level if configured and the global level otherwise.
func LogLevel(module string) zerolog.Level {
	key := fmt.Sprintf("%s.log-level", module)
	if viper.GetString(key) != "" {
		return StringToLevel(viper.GetString(key))
	}
	return StringToLevel(viper.GetString("log-level"))
}

// StringToLevel converts a string to a log level, defaulting to info.
func StringToLevel(input string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "none", "disabled":
		return zerolog.Disabled
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
