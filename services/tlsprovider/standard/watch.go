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
	"path/filepath"
	"time"

	"github.com/attestantio/exportertls/core"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// watchedPaths returns the local paths of the file-backed resources in the policy.
func (s *Service) watchedPaths() []string {
	resources := make([]*core.Resource, 0, len(s.policy.CACertificates)+3)
	resources = append(resources, s.policy.CACertificates...)
	resources = append(resources, s.policy.Certificate, s.policy.Key, s.policy.CertificateRevocationList)

	paths := make([]string, 0, len(resources))
	for _, resource := range resources {
		if resource == nil {
			continue
		}
		if path, isLocal := resource.LocalPath(); isLocal {
			paths = append(paths, filepath.Clean(path))
		}
	}

	return paths
}

// startWatcher watches the directories holding file-backed resources,
// reloading material shortly after any of the files change.
func (s *Service) startWatcher(ctx context.Context) error {
	paths := s.watchedPaths()
	if len(paths) == 0 {
		log.Trace().Msg("No file-backed resources; not watching")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		files[path] = true
		// Directories are watched rather than files so that atomic
		// replacements by rename are seen.
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}

	s.wg.Add(1)
	go s.watch(ctx, watcher, files)

	return nil
}

func (s *Service) watch(ctx context.Context, watcher *fsnotify.Watcher, files map[string]bool) {
	defer s.wg.Done()
	defer watcher.Close()

	timer := time.NewTimer(s.watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Trace().Msg("Context done; watcher stopping")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Trace().Str("file", event.Name).Str("op", event.Op.String()).Msg("Credential file changed")
			timer.Reset(s.watchDebounce)
		case <-timer.C:
			s.reloadChanged(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Error watching credential files")
		}
	}
}
