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
	"errors"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	cnserrors "github.com/NVIDIA/asset-intake/pkg/errors"
	"github.com/NVIDIA/asset-intake/pkg/intake"
)

// ErrInvalidDocument is returned by validate after the report has been
// written, so the process exits non-zero without repeating the message.
var ErrInvalidDocument = errors.New("document failed validation")

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Check an asset document against the column schema",
		Description: `Run the full pipeline over a document without emitting records and print a
validation report: row statistics when the document is valid, or every header
violation (duplicate, missing, uncovered, out of range, unknown columns).

The command exits 1 when the document is not valid. Input and option errors
are reported as plain errors.

# Examples

  intake validate --input assets.csv
  intake validate -i assets.xlsx --schema site-schema.yaml -o report.yaml`,
		Flags: append(documentFlags(), outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLINormalizeTimeout)
			defer cancel()

			res, nerr := runNormalize(ctx, cmd)
			var se *cnserrors.StructuredError
			if nerr != nil && !errors.As(nerr, &se) {
				return nerr
			}
			report := intake.NewValidationReport(res, nerr, version)

			if err := writeOutput(ctx, cmd, report); err != nil {
				return err
			}

			if !report.Valid {
				slog.Warn("document is not valid",
					"code", report.Code,
					"violations", len(report.Violations))
				return ErrInvalidDocument
			}
			return nil
		},
	}
}
