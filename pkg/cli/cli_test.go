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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/asset-intake/pkg/export"
	"github.com/NVIDIA/asset-intake/pkg/intake"
	"github.com/NVIDIA/asset-intake/pkg/k8s/client"
	"github.com/NVIDIA/asset-intake/pkg/oci"
	"github.com/NVIDIA/asset-intake/pkg/schema"
	"github.com/NVIDIA/asset-intake/pkg/serializer"
)

const testSchemaYAML = `scalars: [Serial, Model]
groups:
  - name: HDD
    max: 3
`

const testCSV = "Serial;Model;HDD1;HDD2\nS1;M1;d1;NA\n;;;\nS2;M2;d2;d3\n"

// fixture writes the test schema and document into a temp dir.
func fixture(t *testing.T, csv string) (schemaPath, inputPath string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath = filepath.Join(dir, "schema.yaml")
	inputPath = filepath.Join(dir, "assets.csv")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchemaYAML), 0o600))
	require.NoError(t, os.WriteFile(inputPath, []byte(csv), 0o600))
	return schemaPath, inputPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out
	cmd.ErrWriter = &bytes.Buffer{}
	err := cmd.Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "intake", cmd.Name)

	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
		assert.NotNil(t, c.Action, c.Name)
	}
	assert.Equal(t, []string{"normalize", "validate", "schema"}, names)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		output  string
		want    serializer.Format
		wantErr bool
	}{
		{name: "explicit yaml", format: "yaml", want: serializer.FormatYAML},
		{name: "explicit upper case", format: "JSON", want: serializer.FormatJSON},
		{name: "explicit table", format: "table", want: serializer.FormatTable},
		{name: "unknown", format: "xml", wantErr: true},
		{name: "stdout default", want: serializer.FormatJSON},
		{name: "from yaml extension", output: "out.yml", want: serializer.FormatYAML},
		{name: "from unknown extension", output: "out.dat", want: serializer.FormatJSON},
		{name: "flag beats extension", format: "table", output: "out.yaml", want: serializer.FormatTable},
		{name: "configmap target", output: "cm://ns/name", want: serializer.FormatJSON},
		{name: "oci target", output: "oci://ghcr.io/org/assets.yaml", want: serializer.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
					&cli.StringFlag{Name: "output", Value: tt.output},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.want, got)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func TestNormalizeStdout(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)

	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-d", "semicolon")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	require.Len(t, records, 2)
	assert.Equal(t, "S1", records[0]["Serial"])
	assert.Equal(t, map[string]any{"hdd1": "d1"}, records[0]["hdd"])
	assert.Equal(t, map[string]any{"hdd1": "d2", "hdd2": "d3"}, records[1]["hdd"])
}

func TestNormalizeLayoutDeclared(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)

	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "--layout", "declared")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"hdd1": "d1", "hdd2": nil}, records[0]["hdd"])
}

func TestNormalizeMaxBytes(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)

	_, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-d", "semicolon",
		"--max-bytes", "8")
	require.Error(t, err)
	assert.ErrorIs(t, err, serializer.ErrTooLarge)

	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-d", "semicolon",
		"--max-bytes", strconv.Itoa(len(testCSV)))
	require.NoError(t, err)
	assert.Contains(t, out, "S2")
}

func TestNormalizeToFile(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)
	target := filepath.Join(t.TempDir(), "assets.yaml")

	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Serial: S1")
	assert.Contains(t, string(data), "hdd2: d3")
}

func TestNormalizeTable(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)

	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-t", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Serial")
	assert.Contains(t, out, "S2")
}

func TestNormalizeErrors(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input flag", args: []string{"normalize"}},
		{name: "missing input file", args: []string{"normalize", "-i", filepath.Join(t.TempDir(), "none.csv")}},
		{name: "bad delimiter", args: []string{"normalize", "-i", input, "-d", "pipe"}},
		{name: "bad layout", args: []string{"normalize", "-i", input, "--layout", "wide"}},
		{name: "bad document format", args: []string{"normalize", "-i", input, "--document-format", "ods"}},
		{name: "bad output format", args: []string{"normalize", "--schema", schemaPath, "-i", input, "-t", "xml"}},
		{name: "bad schema", args: []string{"normalize", "--schema", input, "-i", input}},
		{name: "header violations", args: []string{"normalize", "-i", input}},
		{name: "non-positive max bytes", args: []string{"normalize", "--schema", schemaPath, "-i", input, "--max-bytes", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestValidateValid(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)

	out, err := run(t, "validate", "--schema", schemaPath, "-i", input)
	require.NoError(t, err)

	var report intake.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.True(t, report.Valid)
	require.NotNil(t, report.Stats)
	assert.Equal(t, 3, report.Stats.DataRows)
	assert.Equal(t, 2, report.Stats.Records)
	assert.Equal(t, "semicolon", report.Stats.Delimiter)
}

func TestValidateInvalid(t *testing.T) {
	schemaPath, input := fixture(t, "Serial,HDD9,Extra\nS1,x,y\n")

	out, err := run(t, "validate", "--schema", schemaPath, "-i", input)
	require.ErrorIs(t, err, ErrInvalidDocument)

	var report intake.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.False(t, report.Valid)
	assert.Equal(t, "SCHEMA_VALIDATION", report.Code)

	var kinds []schema.ViolationKind
	for _, v := range report.Violations {
		kinds = append(kinds, v.Kind)
	}
	assert.Equal(t, []schema.ViolationKind{
		schema.ViolationMissing,
		schema.ViolationUncovered,
		schema.ViolationOutOfRange,
		schema.ViolationUnknown,
	}, kinds)
}

func TestValidateEmptyDocument(t *testing.T) {
	schemaPath, input := fixture(t, "")

	out, err := run(t, "validate", "--schema", schemaPath, "-i", input)
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, out, "EMPTY_INPUT")
}

func TestValidateReadError(t *testing.T) {
	_, err := run(t, "validate", "-i", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidDocument))
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema", "--format", "yaml")
	require.NoError(t, err)

	s, err := schema.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, schema.Default().Scalars(), s.Scalars())
	assert.Equal(t, schema.Default().Groups(), s.Groups())

	schemaPath, _ := fixture(t, testCSV)
	out, err = run(t, "schema", "--schema", schemaPath)
	require.NoError(t, err)
	var doc schema.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{"Serial", "Model"}, doc.Scalars)
	assert.Equal(t, "Schema", string(doc.Kind))
}

func TestNormalizeToConfigMap(t *testing.T) {
	cs := fake.NewClientset()
	orig := newKubeClient
	newKubeClient = func(string) (client.Interface, error) { return cs, nil }
	t.Cleanup(func() { newKubeClient = orig })

	schemaPath, input := fixture(t, testCSV)
	_, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-o", "cm://inventory/assets")
	require.NoError(t, err)

	cm, err := cs.CoreV1().ConfigMaps("inventory").Get(context.Background(), "assets", metav1.GetOptions{})
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(cm.Data[export.ConfigMapDataKey]), &records))
	assert.Len(t, records, 2)
}

func TestNormalizeToConfigMapErrors(t *testing.T) {
	orig := newKubeClient
	newKubeClient = func(string) (client.Interface, error) { return nil, errors.New("no cluster") }
	t.Cleanup(func() { newKubeClient = orig })

	schemaPath, input := fixture(t, testCSV)

	_, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-o", "cm://inventory/assets")
	assert.ErrorContains(t, err, "no cluster")

	_, err = run(t, "normalize", "--schema", schemaPath, "-i", input, "-o", "cm://inventory")
	assert.Error(t, err)
}

func TestNormalizeToOCI(t *testing.T) {
	var (
		pushed []byte
		opts   oci.PushOptions
	)
	orig := pushArtifact
	pushArtifact = func(_ context.Context, data []byte, o oci.PushOptions) (*oci.PushResult, error) {
		pushed, opts = data, o
		return &oci.PushResult{Digest: "sha256:abc", Reference: o.Reference.ImageReference()}, nil
	}
	t.Cleanup(func() { pushArtifact = orig })

	schemaPath, input := fixture(t, testCSV)
	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input,
		"-o", "oci://localhost:5000/inventory/assets", "--plain-http")
	require.NoError(t, err)

	assert.Equal(t, "localhost:5000/inventory/assets:latest@sha256:abc\n", out)
	require.NotNil(t, opts.Reference)
	assert.Equal(t, "latest", opts.Reference.Tag)
	assert.True(t, opts.PlainHTTP)
	assert.False(t, opts.InsecureTLS)
	assert.Equal(t, version, opts.Annotations["org.opencontainers.image.version"])

	var records []map[string]any
	require.NoError(t, json.Unmarshal(pushed, &records))
	assert.Len(t, records, 2)
}

func TestNormalizeToOCILayout(t *testing.T) {
	schemaPath, input := fixture(t, testCSV)
	dir := filepath.Join(t.TempDir(), "layout")

	out, err := run(t, "normalize", "--schema", schemaPath, "-i", input, "-o", "oci-layout://"+dir)
	require.NoError(t, err)

	assert.Regexp(t, `^.+/layout:latest@sha256:[0-9a-f]{64}\n$`, out)
	for _, name := range []string{"oci-layout", "index.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	_, err = run(t, "normalize", "--schema", schemaPath, "-i", input, "-o", "oci-layout://")
	assert.Error(t, err)
}
