// Copyright © 2020 Attestant Limited.
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

// Package loggers bridges third-party logging interfaces to zerolog.
package loggers

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// GRPCLoggerV2 provides the gRPC LoggerV2 interface with a zerolog backend.
// gRPC logs connection state changes as information, which for exporters is
// debug-level detail, so its levels are shifted down a notch.
type GRPCLoggerV2 struct {
	log zerolog.Logger
}

// NewGRPCLoggerV2 instantiates a gRPC LoggerV2 with a zerolog backend.
func NewGRPCLoggerV2(log zerolog.Logger) *GRPCLoggerV2 {
	return &GRPCLoggerV2{log: log.With().Str("component", "grpc").Logger()}
}

func sprint(args []any) string {
	return strings.TrimSpace(fmt.Sprint(args...))
}

func sprintln(args []any) string {
	return strings.TrimSpace(fmt.Sprintln(args...))
}

// Info logs to INFO log. Arguments are handled in the manner of fmt.Print.
func (l *GRPCLoggerV2) Info(args ...any) {
	l.log.Debug().Msg(sprint(args))
}

// Infoln logs to INFO log. Arguments are handled in the manner of fmt.Println.
func (l *GRPCLoggerV2) Infoln(args ...any) {
	l.log.Debug().Msg(sprintln(args))
}

// Infof logs to INFO log. Arguments are handled in the manner of fmt.Printf.
func (l *GRPCLoggerV2) Infof(format string, args ...any) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

// Warning logs to WARNING log. Arguments are handled in the manner of fmt.Print.
func (l *GRPCLoggerV2) Warning(args ...any) {
	l.log.Info().Msg(sprint(args))
}

// Warningln logs to WARNING log. Arguments are handled in the manner of fmt.Println.
func (l *GRPCLoggerV2) Warningln(args ...any) {
	l.log.Info().Msg(sprintln(args))
}

// Warningf logs to WARNING log. Arguments are handled in the manner of fmt.Printf.
func (l *GRPCLoggerV2) Warningf(format string, args ...any) {
	l.log.Info().Msgf(strings.TrimSpace(format), args...)
}

// Error logs to ERROR log. Arguments are handled in the manner of fmt.Print.
func (l *GRPCLoggerV2) Error(args ...any) {
	l.log.Warn().Msg(sprint(args))
}

// Errorln logs to ERROR log. Arguments are handled in the manner of fmt.Println.
func (l *GRPCLoggerV2) Errorln(args ...any) {
	l.log.Warn().Msg(sprintln(args))
}

// Errorf logs to ERROR log. Arguments are handled in the manner of fmt.Printf.
func (l *GRPCLoggerV2) Errorf(format string, args ...any) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

// Fatal logs to FATAL log. Arguments are handled in the manner of fmt.Print.
// gRPC ensures that all Fatal logs will exit with os.Exit(1).
func (l *GRPCLoggerV2) Fatal(args ...any) {
	l.log.Fatal().Msg(sprint(args))
}

// Fatalln logs to FATAL log. Arguments are handled in the manner of fmt.Println.
func (l *GRPCLoggerV2) Fatalln(args ...any) {
	l.log.Fatal().Msg(sprintln(args))
}

// Fatalf logs to FATAL log. Arguments are handled in the manner of fmt.Printf.
func (l *GRPCLoggerV2) Fatalf(format string, args ...any) {
	l.log.Fatal().Msgf(strings.TrimSpace(format), args...)
}

// V reports whether verbosity level is at least the requested verbose level.
// Verbose gRPC logging is only enabled when tracing.
func (l *GRPCLoggerV2) V(level int) bool {
	if level <= 0 {
		return l.log.GetLevel() <= zerolog.DebugLevel
	}
	return l.log.GetLevel() <= zerolog.TraceLevel
}
