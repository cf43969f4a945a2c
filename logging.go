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

package main

import (
	"os"
	"path/filepath"

	"github.com/attestantio/exportertls/util"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// log is the main package logger.
var log zerolog.Logger

// initLogging initialises logging.
func initLogging() error {
	// Change the output file.
	if logFile := viper.GetString("log-file"); logFile != "" {
		f, err := os.OpenFile(resolvePath(logFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		zerologger.Logger = zerologger.Output(f)
	}

	// Set the local logger from the global logger.
	log = zerologger.Logger.With().Logger()

	// Set the global log level from the configuration.
	level := util.StringToLevel(viper.GetString("log-level"))
	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	return nil
}

// resolvePath resolves a potentially relative path to an absolute path.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	baseDir := viper.GetString("base-dir")
	if baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
