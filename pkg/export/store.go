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
	"strings"
)

// ErrNotFound is returned by Get and Delete when nothing has been exported.
var ErrNotFound = errors.New("export not found")

// ErrNotOwned is returned when the destination exists but was not written by
// an export store.
var ErrNotOwned = errors.New("export destination is owned by another manager")

// Store holds the most recent asset export.
type Store interface {
	// Put replaces the export with data and returns where it was written.
	Put(ctx context.Context, data []byte) (string, error)
	// Get returns the current export or ErrNotFound.
	Get(ctx context.Context) ([]byte, error)
	// Delete removes the export or returns ErrNotFound.
	Delete(ctx context.Context) error
	// Location describes the configured destination.
	Location() string
}

// Options configure the store built by NewStore.
type Options struct {
	// FallbackDirs are tried in order when the directory of a file path is
	// not writable.
	FallbackDirs []string
	// ConfigMap options apply to cm:// destinations.
	ConfigMap []ConfigMapOption
}

// NewStore returns the store for uri: a ConfigMapStore for
// cm://namespace/name and a FileStore for anything else.
func NewStore(uri string, opts Options) (Store, error) {
	uri = strings.TrimSpace(uri)
	if strings.HasPrefix(uri, ConfigMapURIScheme) {
		namespace, name, err := ParseConfigMapURI(uri)
		if err != nil {
			return nil, err
		}
		return NewConfigMapStore(namespace, name, opts.ConfigMap...), nil
	}
	return NewFileStore(uri, opts.FallbackDirs...)
}
