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
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/asset-intake/pkg/export"
	"github.com/NVIDIA/asset-intake/pkg/k8s/client"
	"github.com/NVIDIA/asset-intake/pkg/oci"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
)

const (
	// defaultOCITag is applied to oci:// targets that name no tag and to
	// oci-layout:// exports.
	defaultOCITag = "latest"

	// ociLayoutScheme writes the artifact into a local OCI image layout.
	ociLayoutScheme = "oci-layout://"
)

// newKubeClient builds the client for cm:// output. Tests replace it with a
// fake clientset.
var newKubeClient = func(kubeconfig string) (client.Interface, error) {
	cs, _, err := client.BuildKubeClient(kubeconfig)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// pushArtifact pushes to an OCI registry. Tests replace it.
var pushArtifact = oci.Push

func isRemoteOutput(target string) bool {
	return oci.IsOCITarget(target) ||
		strings.HasPrefix(target, export.ConfigMapURIScheme) ||
		strings.HasPrefix(target, ociLayoutScheme)
}

// writeOutput serializes v and delivers it to --output: stdout, a local
// file, a ConfigMap, an OCI registry or an OCI layout directory.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	target := strings.TrimSpace(cmd.String("output"))
	switch {
	case oci.IsOCITarget(target):
		return pushOutput(ctx, cmd, target, format, v)
	case strings.HasPrefix(target, export.ConfigMapURIScheme):
		return storeOutput(ctx, cmd, target, format, v)
	case strings.HasPrefix(target, ociLayoutScheme):
		return layoutOutput(ctx, cmd, strings.TrimPrefix(target, ociLayoutScheme), format, v)
	case target == "":
		return serializer.NewWriter(format, cmd.Root().Writer).Serialize(ctx, v)
	}

	ser := serializer.NewFileWriterOrStdout(format, target)
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()
	if err := ser.Serialize(ctx, v); err != nil {
		return err
	}
	slog.Info("output written", "path", target, "format", format)
	return nil
}

func storeOutput(ctx context.Context, cmd *cli.Command, target string, format serializer.Format, v any) error {
	namespace, name, err := export.ParseConfigMapURI(target)
	if err != nil {
		return err
	}

	data, err := serializer.Marshal(format, v)
	if err != nil {
		return err
	}

	kc, err := newKubeClient(cmd.String("kubeconfig"))
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	store := export.NewConfigMapStore(namespace, name,
		export.WithKubeClient(kc),
		export.WithVersion(version),
	)
	loc, err := store.Put(ctx, data)
	if err != nil {
		return err
	}
	slog.Info("output written", "configmap", loc, "bytes", len(data))
	return nil
}

func pushOutput(ctx context.Context, cmd *cli.Command, target string, format serializer.Format, v any) error {
	ref, err := oci.ParseOutputTarget(target)
	if err != nil {
		return err
	}
	if ref.Tag == "" {
		ref = ref.WithTag(defaultOCITag)
	}

	data, err := serializer.Marshal(format, v)
	if err != nil {
		return err
	}

	res, err := pushArtifact(ctx, data, oci.PushOptions{
		PackOptions: packOptions(""),
		Reference:   ref,
		PlainHTTP:   cmd.Bool("plain-http"),
		InsecureTLS: cmd.Bool("insecure-tls"),
	})
	if err != nil {
		return err
	}

	slog.Info("output pushed", "reference", res.Reference, "digest", res.Digest)
	fmt.Fprintf(cmd.Root().Writer, "%s@%s\n", res.Reference, res.Digest)
	return nil
}

func layoutOutput(ctx context.Context, cmd *cli.Command, dir string, format serializer.Format, v any) error {
	if dir == "" {
		return fmt.Errorf("%s needs a directory", ociLayoutScheme)
	}

	data, err := serializer.Marshal(format, v)
	if err != nil {
		return err
	}

	desc, err := oci.Package(ctx, dir, data, packOptions(defaultOCITag))
	if err != nil {
		return err
	}

	slog.Info("output packaged", "layout", dir, "digest", desc.Digest.String())
	fmt.Fprintf(cmd.Root().Writer, "%s:%s@%s\n", dir, defaultOCITag, desc.Digest)
	return nil
}

func packOptions(tag string) oci.PackOptions {
	return oci.PackOptions{
		Tag: tag,
		Annotations: map[string]string{
			"org.opencontainers.image.version": version,
		},
	}
}
