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
package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry output (e.g., "oci://ghcr.io/org/assets:tag").
const URIScheme = "oci://"

// Reference is a parsed output target: either an OCI registry reference or
// a plain local path.
type Reference struct {
	// IsOCI reports whether the target used the oci:// scheme.
	IsOCI bool
	// Registry is the registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/asset-export").
	Repository string
	// Tag is empty when the target names none; callers apply a default.
	Tag string
	// LocalPath is set for non-OCI targets.
	LocalPath string
}

// IsOCITarget reports whether target uses the oci:// scheme.
func IsOCITarget(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), URIScheme)
}

// ParseOutputTarget parses oci://registry/repository[:tag]. Any other value
// is returned as a local path.
func ParseOutputTarget(target string) (*Reference, error) {
	target = strings.TrimSpace(target)
	if !IsOCITarget(target) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)
	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a
// valid image name.
func ValidateRegistryReference(registry, repository string) error {
	registry = stripProtocol(registry)
	if registry == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "registry is required for OCI output")
	}
	if repository == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "repository is required for OCI output")
	}
	if _, err := reference.ParseNormalizedNamed(registry + "/" + repository); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry reference %s/%s", registry, repository), err)
	}
	return nil
}

// String returns the target in the form it was given.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository[:tag] without the scheme, or
// "" for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy carrying tag. Local targets are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	out := *r
	out.Tag = tag
	return &out
}
