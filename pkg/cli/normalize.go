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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
)

func normalizeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "normalize",
		EnableShellCompletion: true,
		Usage:                 "Convert an asset document into JSON records",
		Description: `Read a CSV or XLSX asset inventory, validate its header against the column
schema and emit one record per non-empty row.

Scalar columns become top-level fields. Indexed columns such as HDD1..HDD12,
NIC1..NIC6 and EMBMAC1..EMBMAC3 are folded into a nested map per group.
Empty markers (blank, NA, N/A, NULL) become null.

# Examples

Convert a local file and print JSON:
  intake normalize --input assets.csv

Semicolon-separated latin-1 export into a YAML file:
  intake normalize -i assets.csv -d semicolon --encoding latin-1 -o assets.yaml

Publish to a ConfigMap:
  intake normalize -i assets.xlsx -o cm://inventory/assets

Push as an OCI artifact:
  intake normalize -i https://example.com/assets.csv -o oci://ghcr.io/org/assets:v1`,
		Flags: append(documentFlags(), outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLINormalizeTimeout)
			defer cancel()

			res, err := runNormalize(ctx, cmd)
			if err != nil {
				return err
			}

			slog.Info("document normalized",
				"records", res.Stats.Records,
				"dropped", res.Stats.Dropped(),
				"format", res.Stats.Format)

			return writeOutput(ctx, cmd, res.Records)
		},
	}
}

// runNormalize reads --input and runs the pipeline configured by the
// document flags.
func runNormalize(ctx context.Context, cmd *cli.Command) (*normalizer.Result, error) {
	n, err := buildNormalizer(cmd)
	if err != nil {
		return nil, err
	}

	in, err := parseDocumentInput(cmd)
	if err != nil {
		return nil, err
	}

	src := cmd.String("input")
	slog.Debug("reading document", "input", src)

	maxBytes := cmd.Int64("max-bytes")
	if maxBytes <= 0 {
		return nil, fmt.Errorf("invalid --max-bytes %d: must be positive", maxBytes)
	}

	data, err := serializer.ReadSource(ctx, src,
		serializer.WithInsecureSkipVerify(cmd.Bool("insecure-tls")),
		serializer.WithMaxBytes(maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read input %q: %w", src, err)
	}

	return n.Normalize(data, in)
}
