package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signpost3d/signpost"
	"github.com/signpost3d/signpost/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locations = `{
  "name": "post",
  "units": "miles",
  "home": {"name": "Glassboro", "latitude": 39.7306, "longitude": -75.1681},
  "locations": [
    {"name": "Albany", "latitude": 42.6977, "longitude": -73.9664, "sign_color": "green"}
  ]
}`

func writeLocations(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr)
	require.ErrorIs(t, err, errUsage)
	assert.Equal(t, exitConfig, exitCode(err))
	assert.Contains(t, stderr.String(), "usage: signpost")

	err = run(context.Background(), []string{"--help"}, &stdout, &stderr)
	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), "--plan-svg")
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--spacers", "many", "x.json"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestRunConfigErrors(t *testing.T) {
	path := writeLocations(t, locations)
	for _, tc := range []struct {
		name  string
		args  []string
		field string
	}{
		{name: "layout", args: []string{"--layout", "three", path}, field: "layout"},
		{name: "material", args: []string{"--material", "cheese", path}, field: "material"},
		{name: "spacers", args: []string{"--spacers=-1", path}, field: "spacers"},
		{name: "resolution", args: []string{"--resolution=-1", path}, field: "resolution"},
		{name: "log level", args: []string{"--log-level", "loud", path}, field: "log"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tc.args, &stdout, &stderr)
			var cerr *signpost.ConfigError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, tc.field, cerr.Field)
			assert.Equal(t, exitConfig, exitCode(err))
		})
	}
}

func TestRunInvalidFile(t *testing.T) {
	path := writeLocations(t, strings.Replace(locations, "42.6977", "142.6977", 1))
	out := filepath.Join(t.TempDir(), "out")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--out", out, path}, &stdout, &stderr)
	var cerr *signpost.ConfigError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "nothing is written for a bad file")
}

func TestRunEnv(t *testing.T) {
	t.Setenv("SIGNPOST_LAYOUT", "sideways")
	path := writeLocations(t, locations)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{path}, &stdout, &stderr)
	var cerr *signpost.ConfigError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "layout", cerr.Field)
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("meshes a whole post")
	}
	path := writeLocations(t, locations)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	args := []string{
		"--out", out,
		"--resolution", "0.5",
		"--parallel", "4",
		"--dxf",
		"--preview",
		"--log-format", "json",
		"--metrics-file", filepath.Join(dir, "signpost.prom"),
		"--plan-geojson", filepath.Join(dir, "plan.geojson"),
		"--plan-svg", filepath.Join(dir, "plan.svg"),
		path,
	}
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), args, &stdout, &stderr), stderr.String())

	for _, name := range []string{
		"post_base_segment.stl",
		"post_segment_1.stl",
		"post_topper.stl",
		"post_sign_1_Glassboro.stl",
		"post_sign_2_Albany.stl",
		"post_sign_2_Albany.dxf",
		"post_sign_2_Albany.png",
		export.ManifestFile,
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	prom, err := os.ReadFile(filepath.Join(dir, "signpost.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `signpost_parts_generated_total{kind="sign"} 2`)
	assert.FileExists(t, filepath.Join(dir, "plan.geojson"))
	assert.FileExists(t, filepath.Join(dir, "plan.svg"))
	assert.Contains(t, stderr.String(), `"message":"done"`)
	assert.Empty(t, stdout.String(), "spans only with --trace")
}
