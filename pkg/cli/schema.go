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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/asset-intake/pkg/schema"
)

func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:                  "schema",
		EnableShellCompletion: true,
		Usage:                 "Print the active column schema",
		Description: `Print the built-in asset schema, or the one loaded from --schema after
validation. The output is itself a valid --schema document.

  intake schema --format yaml > site-schema.yaml`,
		Flags: append([]cli.Flag{schemaFlag(), insecureTLSFlag()}, outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := schema.Load(cmd.String("schema"))
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, s.Document(version))
		},
	}
}
