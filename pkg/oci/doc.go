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
// Package oci publishes asset exports as OCI artifacts.
//
// An export is stored as a single layer of media type
// application/vnd.nvidia.intake.assets.v1+json under an OCI 1.1 manifest with
// artifact type application/vnd.nvidia.intake.assets.v1, so registries keep
// it next to images without treating it as runnable.
//
// Parse the destination, then push:
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/nvidia/asset-export:2026-10-14")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, data, oci.PushOptions{Reference: ref})
//
// Pack writes into any oras.Target and Package into a local OCI image layout,
// which is handy for air-gapped transfer. Credentials come from the Docker
// configuration (~/.docker/config.json) through the ORAS credentials package.
package oci
