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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/asset-intake/pkg/defaults"
	"github.com/NVIDIA/asset-intake/pkg/normalizer"
	"github.com/NVIDIA/asset-intake/pkg/schema"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
	"github.com/NVIDIA/asset-intake/pkg/tabular"
)

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Required: true,
		Usage: `Path or HTTP/HTTPS URL of the CSV or XLSX document.
	Use - to read from stdin.`,
	}
}

func maxBytesFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  "max-bytes",
		Value: defaults.MaxUploadBytes,
		Usage: "Reject input documents larger than this many bytes",
	}
}

func encodingFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "encoding",
		Value: tabular.DefaultEncoding,
		Usage: "Character encoding of CSV input (e.g., utf-8, latin-1, windows-1252)",
	}
}

func delimiterFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "delimiter",
		Aliases: []string{"d"},
		Usage:   "CSV delimiter: comma, semicolon, tab or auto (default: comma with first-line detection)",
	}
}

func documentFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "document-format",
		Value: string(tabular.FormatAuto),
		Usage: "Input container: auto, csv or xlsx",
	}
}

func layoutFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "layout",
		Value: string(normalizer.DefaultLayout),
		Usage: "Group slot layout: trim, declared or present",
	}
}

func schemaFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "schema",
		Usage: "YAML schema document (default: built-in asset schema)",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage: `Output destination (default: stdout).
	Supports: file paths, ConfigMap URIs (cm://namespace/name), OCI references (oci://registry/repository:tag) or OCI layout directories (oci-layout://DIR).`,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("Output format (supported: %s; default: from the output file extension, else json)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig for cm:// output (default: KUBECONFIG, ~/.kube/config or in-cluster)",
	}
}

func insecureTLSFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "insecure-tls",
		Usage: "Skip TLS verification for URL input and OCI registries",
	}
}

func plainHTTPFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "plain-http",
		Usage: "Use HTTP instead of HTTPS for OCI registries",
	}
}

// documentFlags are shared by commands that read an input document.
func documentFlags() []cli.Flag {
	return []cli.Flag{
		inputFlag(),
		maxBytesFlag(),
		encodingFlag(),
		delimiterFlag(),
		documentFormatFlag(),
		layoutFlag(),
		schemaFlag(),
		insecureTLSFlag(),
	}
}

// outputFlags are shared by commands that write a result.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		outputFlag(),
		formatFlag(),
		kubeconfigFlag(),
		plainHTTPFlag(),
	}
}

// parseDocumentInput builds the reading options from the document flags.
func parseDocumentInput(cmd *cli.Command) (normalizer.Input, error) {
	delim, err := tabular.ParseDelimiter(cmd.String("delimiter"))
	if err != nil {
		return normalizer.Input{}, err
	}
	format, err := tabular.ParseFormat(cmd.String("document-format"))
	if err != nil {
		return normalizer.Input{}, err
	}
	return normalizer.Input{
		Encoding:  cmd.String("encoding"),
		Delimiter: delim,
		Format:    format,
	}, nil
}

// buildNormalizer loads the --schema document and applies --layout.
func buildNormalizer(cmd *cli.Command) (*normalizer.Normalizer, error) {
	s, err := schema.Load(cmd.String("schema"))
	if err != nil {
		return nil, err
	}
	layout, err := normalizer.ParseLayout(cmd.String("layout"))
	if err != nil {
		return nil, err
	}
	return normalizer.New(normalizer.WithSchema(s), normalizer.WithLayout(layout)), nil
}

// parseOutputFormat returns the --format value, or the format implied by a
// file destination, or JSON.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	if v := strings.TrimSpace(cmd.String("format")); v != "" {
		f := serializer.Format(strings.ToLower(v))
		if f.IsUnknown() {
			return "", fmt.Errorf("unknown output format: %q (supported: %s)",
				v, strings.Join(serializer.SupportedFormats(), ", "))
		}
		return f, nil
	}
	if out := strings.TrimSpace(cmd.String("output")); out != "" && !isRemoteOutput(out) {
		return serializer.FormatFromPath(out), nil
	}
	return serializer.FormatJSON, nil
}
