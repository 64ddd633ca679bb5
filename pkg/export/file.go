// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
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
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileStore keeps the export in a single file on a shared volume.
type FileStore struct {
	path      string
	fallbacks []string

	mu      sync.Mutex
	current string
}

// NewFileStore returns a store writing to path. When the directory of path
// cannot be written, Put retries with the same file name in each fallback
// directory.
func NewFileStore(path string, fallbackDirs ...string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("export path is required")
	}
	return &FileStore{
		path:      filepath.Clean(path),
		fallbacks: fallbackDirs,
		current:   filepath.Clean(path),
	}, nil
}

// Location returns the path of the last successful write, or the configured
// path before any write.
func (s *FileStore) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Put writes data atomically: a temp file in the target directory is renamed
// over the destination, so readers never observe a partial export.
func (s *FileStore) Put(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Base(s.path)
	dirs := append([]string{filepath.Dir(s.path)}, s.fallbacks...)

	var errs []error
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		target := filepath.Join(dir, name)
		if err := writeAtomic(target, data); err != nil {
			slog.Warn("export directory not writable", "dir", dir, "error", err)
			errs = append(errs, err)
			continue
		}
		s.current = target
		return target, nil
	}
	return "", fmt.Errorf("no writable export directory: %w", errors.Join(errs...))
}

func writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(target)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // export is read by downstream consumers
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}

// Get reads the current export.
func (s *FileStore) Get(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Location())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return data, nil
}

// Delete removes the current export.
func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Location())
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	return nil
}
