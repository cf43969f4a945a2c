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

package standard

import (
	"context"
	"strings"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/services/tlsprovider"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// exitCoder is implemented by errors that carry a process exit code.
type exitCoder interface {
	ExitCode() int
}

func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.policy.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Trace().Msg("Context done; refresh loop stopping")
			return
		case <-ticker.C:
			//nolint:errcheck
			s.Refresh(ctx)
		}
	}
}

// Refresh runs the refresh command, if configured, and reloads all material.
// On failure the existing material stays active and the error is returned.
// If a refresh is already in progress this does nothing.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.reloadMu.TryLock() {
		log.Debug().Msg("Refresh already in progress; skipping")
		return nil
	}
	defer s.reloadMu.Unlock()

	refreshID := uuid.New().String()
	ctx, span := otel.Tracer("attestantio.exportertls.services.tlsprovider.standard").Start(ctx, "Refresh", trace.WithAttributes(
		attribute.String("refresh_id", refreshID),
	))
	defer span.End()

	started := time.Now()
	log := log.With().Str("refresh_id", refreshID).Logger()
	previous := s.State()
	s.setState(tlsprovider.StateRefreshing)

	if refreshErr := s.runRefreshCommand(ctx, log); refreshErr != nil {
		span.SetStatus(codes.Error, refreshErr.Error())
		s.refreshFailed(log, started, previous, refreshErr)
		return refreshErr
	}
	span.AddEvent("Refresh command completed")

	current, err := s.load(ctx)
	if err != nil {
		refreshErr := &tlsprovider.RefreshError{
			Command: s.policy.RefreshCommand,
			Err:     errors.Wrap(err, "failed to reload TLS material"),
		}
		span.SetStatus(codes.Error, refreshErr.Error())
		s.refreshFailed(log, started, previous, refreshErr)
		return refreshErr
	}

	s.publish(current)
	s.lastRefreshError.Store(nil)
	s.setState(s.freshness(current))
	s.monitor.RefreshCompleted(started, core.ResultSucceeded)
	log.Debug().Dur("elapsed", time.Since(started)).Msg("Refresh succeeded")

	return nil
}

// runRefreshCommand runs the refresh command, bounded by the refresh timeout.
func (s *Service) runRefreshCommand(ctx context.Context, log zerolog.Logger) *tlsprovider.RefreshError {
	command := s.policy.RefreshCommand
	if len(command) == 0 {
		return nil
	}

	cmdCtx := ctx
	if s.policy.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, s.policy.RefreshTimeout)
		defer cancel()
	}

	log.Trace().Strs("command", command).Msg("Running refresh command")
	stdout, stderr, err := s.executor.Execute(cmdCtx, command[0], command[1:]...)
	if err == nil {
		log.Trace().Str("stdout", strings.TrimSpace(string(stdout))).Msg("Refresh command succeeded")
		return nil
	}

	refreshErr := &tlsprovider.RefreshError{
		Command:  command,
		ExitCode: -1,
		Err:      err,
	}
	var coder exitCoder
	switch {
	case errors.Is(cmdCtx.Err(), context.DeadlineExceeded):
		refreshErr.TimedOut = true
	case errors.As(err, &coder) && coder.ExitCode() >= 0:
		refreshErr.ExitCode = coder.ExitCode()
	}
	log.Debug().Str("stderr", strings.TrimSpace(string(stderr))).Int("exit_code", refreshErr.ExitCode).Msg("Refresh command failed")

	return refreshErr
}

func (s *Service) refreshFailed(log zerolog.Logger,
	started time.Time,
	previous tlsprovider.State,
	refreshErr *tlsprovider.RefreshError,
) {
	s.lastRefreshError.Store(refreshErr)
	s.setState(previous)
	result := core.ResultFailed
	if refreshErr.TimedOut {
		result = core.ResultTimedOut
	}
	s.monitor.RefreshCompleted(started, result)
	log.Error().Err(refreshErr).Msg("Refresh failed; continuing with existing TLS material")
}

// reloadChanged reloads material after a change to underlying files.
func (s *Service) reloadChanged(ctx context.Context) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to reload changed TLS material; continuing with existing material")
		return
	}
	s.publish(current)
	s.setState(s.freshness(current))
}
