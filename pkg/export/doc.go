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
// Package export places normalized asset JSON where downstream consumers
// pick it up.
//
// The destination is chosen by URI:
//
//	/srv/assets/json/assets_transformed.json   FileStore, atomic rename
//	cm://provisioning/asset-export             ConfigMapStore, data key assets.json
//
// Both implement Store. Get and Delete return ErrNotFound when nothing has
// been exported yet.
//
//	store, err := export.NewStore(uri, export.Options{FallbackDirs: []string{"/tmp"}})
//	if err != nil {
//	    return err
//	}
//	location, err := store.Put(ctx, data)
//
// ConfigMap writes use server-side apply with a fixed field manager so that
// the CLI and the daemon can both update the same object.
package export
