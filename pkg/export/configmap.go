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
	"fmt"
	"log/slog"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	"github.com/NVIDIA/asset-intake/pkg/header"
	"github.com/NVIDIA/asset-intake/pkg/k8s/client"
)

// ConfigMapURIScheme prefixes ConfigMap destinations (cm://namespace/name).
const ConfigMapURIScheme = "cm://"

const (
	// ConfigMapDataKey holds the JSON export inside the ConfigMap.
	ConfigMapDataKey = "assets.json"
	fieldManager     = "asset-intake"
	labelName        = "app.kubernetes.io/name"
)

// ConfigMapOption configures a ConfigMapStore.
type ConfigMapOption func(*ConfigMapStore)

// WithKubeClient sets the client used instead of the shared one.
func WithKubeClient(c client.Interface) ConfigMapOption {
	return func(s *ConfigMapStore) {
		s.client = c
	}
}

// WithVersion sets the version label written on the ConfigMap.
func WithVersion(v string) ConfigMapOption {
	return func(s *ConfigMapStore) {
		s.version = v
	}
}

// ConfigMapStore keeps the export in a Kubernetes ConfigMap so that
// in-cluster consumers can mount or watch it.
type ConfigMapStore struct {
	namespace string
	name      string
	version   string
	client    client.Interface
}

// NewConfigMapStore returns a store for the ConfigMap namespace/name.
func NewConfigMapStore(namespace, name string, opts ...ConfigMapOption) *ConfigMapStore {
	s := &ConfigMapStore{
		namespace: namespace,
		name:      name,
		version:   "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the cm:// URI of the store.
func (s *ConfigMapStore) Location() string {
	return ConfigMapURIScheme + s.namespace + "/" + s.name
}

func (s *ConfigMapStore) kube() (client.Interface, error) {
	if s.client != nil {
		return s.client, nil
	}
	c, cfg, err := client.GetKubeClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}
	slog.Debug("using shared kubernetes client", "auth_method", client.AuthMethod(cfg))
	return c, nil
}

// Put applies the ConfigMap with server-side apply, creating or replacing it.
func (s *ConfigMapStore) Put(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	c, err := s.kube()
	if err != nil {
		return "", err
	}

	var h header.Header
	h.Init(header.KindAssetExport, header.APIVersion, s.version)

	cm := accorev1.ConfigMap(s.name, s.namespace).
		WithLabels(map[string]string{
			labelName:                     fieldManager,
			"app.kubernetes.io/component": h.Kind.String(),
			"app.kubernetes.io/version":   h.Version(),
		}).
		WithData(map[string]string{
			ConfigMapDataKey: string(data),
			"apiVersion":     h.APIVersion,
			"timestamp":      h.Timestamp(),
		})

	slog.Info("applying export ConfigMap",
		"namespace", s.namespace,
		"name", s.name,
		"bytes", len(data))

	if _, err := c.CoreV1().ConfigMaps(s.namespace).Apply(ctx, cm, metav1.ApplyOptions{
		FieldManager: fieldManager,
		Force:        true,
	}); err != nil {
		return "", fmt.Errorf("failed to apply ConfigMap: %w", err)
	}
	return s.Location(), nil
}

// Get returns the export stored in the ConfigMap.
func (s *ConfigMapStore) Get(ctx context.Context) ([]byte, error) {
	cm, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	data, ok := cm.Data[ConfigMapDataKey]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(data), nil
}

// Delete removes the ConfigMap. ConfigMaps without the store's name label are
// left alone, and the UID precondition keeps a concurrent re-create intact.
func (s *ConfigMapStore) Delete(ctx context.Context) error {
	cm, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	if !owned(cm) {
		return fmt.Errorf("%w: %s", ErrNotOwned, s.Location())
	}

	c, err := s.kube()
	if err != nil {
		return err
	}
	err = c.CoreV1().ConfigMaps(s.namespace).Delete(ctx, s.name, metav1.DeleteOptions{
		Preconditions: metav1.NewUIDPreconditions(string(cm.UID)),
	})
	if apierrors.IsNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete ConfigMap: %w", err)
	}
	return nil
}

func (s *ConfigMapStore) fetch(ctx context.Context) (*corev1.ConfigMap, error) {
	c, err := s.kube()
	if err != nil {
		return nil, err
	}
	cm, err := c.CoreV1().ConfigMaps(s.namespace).Get(ctx, s.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap: %w", err)
	}
	return cm, nil
}

func owned(cm *corev1.ConfigMap) bool {
	return cm.Labels[labelName] == fieldManager
}

// ParseConfigMapURI splits cm://namespace/name into its parts.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	switch {
	case namespace == "":
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	case name == "":
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	case strings.Contains(name, "/"):
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot contain '/'")
	}
	return namespace, name, nil
}
