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
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
)

const (
	// ArtifactType identifies asset export artifacts.
	ArtifactType = "application/vnd.nvidia.intake.assets.v1"
	// LayerMediaType is the media type of the single JSON layer.
	LayerMediaType = "application/vnd.nvidia.intake.assets.v1+json"
)

// PackOptions configures Pack.
type PackOptions struct {
	// Tag names the manifest in the target. Required.
	Tag string
	// Title is the layer file name. Defaults to the export file name.
	Title string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// Created fixes the creation annotation for reproducible digests.
	Created string
}

// Pack stores data as a single-layer OCI 1.1 artifact in target and tags
// the manifest. It returns the manifest descriptor.
func Pack(ctx context.Context, target oras.Target, data []byte, opts PackOptions) (ociv1.Descriptor, error) {
	if opts.Tag == "" {
		return ociv1.Descriptor{}, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}
	title := opts.Title
	if title == "" {
		title = defaults.ExportFileName
	}

	layer := content.NewDescriptorFromBytes(LayerMediaType, data)
	layer.Annotations = map[string]string{ociv1.AnnotationTitle: title}
	if err := target.Push(ctx, layer, bytes.NewReader(data)); err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to push layer to store: %w", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.Created != "" {
		annotations[ociv1.AnnotationCreated] = opts.Created
	}

	manifest, err := oras.PackManifest(ctx, target, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to pack manifest: %w", err)
	}
	if err := target.Tag(ctx, manifest, opts.Tag); err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}
	return manifest, nil
}

// Package writes the artifact into an OCI image layout at dir.
func Package(ctx context.Context, dir string, data []byte, opts PackOptions) (ociv1.Descriptor, error) {
	store, err := oci.New(dir)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to create OCI layout store: %w", err)
	}
	return Pack(ctx, store, data, opts)
}

// PushOptions configures Push.
type PushOptions struct {
	PackOptions
	// Reference is the destination. Its tag overrides PackOptions.Tag.
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a pushed artifact.
type PushResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is registry/repository:tag.
	Reference string
}

// Push packs data in memory and copies it to the registry named by the
// reference, using Docker credentials when available.
func Push(ctx context.Context, data []byte, opts PushOptions) (*PushResult, error) {
	ref := opts.Reference
	if ref == nil || !ref.IsOCI {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "OCI reference is required to push")
	}
	if ref.Tag != "" {
		opts.Tag = ref.Tag
	}
	if opts.Tag == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	store := memory.New()
	manifest, err := Pack(ctx, store, data, opts.PackOptions)
	if err != nil {
		return nil, err
	}

	registryHost := stripProtocol(ref.Registry)
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, ref.Repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Info("pushing asset export to registry",
		"registry", registryHost,
		"repository", ref.Repository,
		"tag", opts.Tag,
		"digest", manifest.Digest.String())

	desc, err := oras.Copy(ctx, store, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push artifact to registry: %w", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", registryHost, ref.Repository, opts.Tag),
	}, nil
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	c := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		c.Credential = credentials.Credential(credStore)
	}
	return c
}
