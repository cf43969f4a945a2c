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

package majordomo

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/attestantio/exportertls/core"
	"github.com/attestantio/exportertls/services/locator"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/wealdtech/go-majordomo"
)

const classpathPrefix = "classpath:"

// Service resolves references through majordomo confidants.
type Service struct {
	majordomo    majordomo.Service
	resourceBase string
}

// module-wide log.
var log zerolog.Logger

// New creates a new majordomo-backed locator.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "locator").Str("impl", "majordomo").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		majordomo:    parameters.majordomo,
		resourceBase: parameters.resourceBase,
	}, nil
}

// Resolve resolves a reference to a resource.
func (s *Service) Resolve(ctx context.Context, ref string) (*core.Resource, error) {
	location, err := s.location(strings.TrimSpace(ref))
	if err != nil {
		return nil, &locator.ResolutionError{Ref: ref, Err: err}
	}
	log.Trace().Str("ref", ref).Str("location", location).Msg("Resolving reference")

	fetch := func(ctx context.Context) ([]byte, error) {
		return s.majordomo.Fetch(ctx, location)
	}
	// Resolution is eager; the resource must be readable now.
	if _, err := fetch(ctx); err != nil {
		log.Debug().Str("ref", ref).Err(err).Msg("Failed to fetch resource")
		return nil, &locator.ResolutionError{Ref: ref, Err: err}
	}

	return core.NewResource(ref, location, fetch), nil
}

// location turns a reference in to a majordomo key.
func (s *Service) location(ref string) (string, error) {
	if ref == "" {
		return "", errors.New("empty reference")
	}

	switch {
	case strings.HasPrefix(ref, classpathPrefix):
		if s.resourceBase == "" {
			return "", errors.New("no resource base configured for classpath reference")
		}
		rel := strings.TrimLeft(strings.TrimPrefix(ref, classpathPrefix), "/")
		return fileLocation(filepath.Join(s.resourceBase, rel))
	case strings.HasPrefix(ref, "~"):
		path, err := homedir.Expand(ref)
		if err != nil {
			return "", errors.Wrap(err, "failed to expand home directory")
		}
		return fileLocation(path)
	}

	if u, err := url.Parse(ref); err == nil && len(u.Scheme) > 1 {
		// Already a URL; majordomo will pick the confidant from its scheme.
		return ref, nil
	}

	return fileLocation(ref)
}

func fileLocation(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("invalid path %s", path))
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
