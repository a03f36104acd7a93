package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtxerr/equalizer/internal/errors"
)

const exampleA = `{"site":"north","timeseries":[{"timestamp":0,"value":10},{"timestamp":1800000,"value":20},{"timestamp":3600000,"value":30}]}`

// runCLI runs the command and returns its exit code, stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestRunSingle(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "site.json")
	writeFile(t, input, exampleA)

	code, stdout, stderr := runCLI(t, input)
	require.Equal(t, errors.ExitOK, code, stderr)

	output := filepath.Join(dir, "site_out.json")
	assert.Contains(t, stdout, "Wrote 2 buckets")
	assert.Contains(t, stdout, output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp": 1800000`)
}

func TestRunMissingConfigFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "-config", filepath.Join(t.TempDir(), "missing.yaml"), "in.json")
	assert.Equal(t, errors.ExitIO, code, stderr)
}

func TestRunUsage(t *testing.T) {
	code, _, _ := runCLI(t, "a", "b", "c")
	assert.Equal(t, errors.ExitUsage, code, "too many args")

	code, _, _ = runCLI(t, "-no-such-flag")
	assert.Equal(t, errors.ExitUsage, code, "unknown flag")

	code, _, _ = runCLI(t, "-bucket", "7m", "x.json")
	assert.Equal(t, errors.ExitUsage, code, "bad bucket")
}

func TestRunValidationExit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "one.json")
	writeFile(t, input, `{"timeseries":[{"timestamp":0,"value":1}]}`)

	code, _, stderr := runCLI(t, input)
	assert.Equal(t, errors.ExitValidation, code)
	assert.Contains(t, stderr, "insufficient data")
	assert.NoFileExists(t, filepath.Join(dir, "one_out.json"), "no output on validation failure")
}

func TestRunNonFiniteMean(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "huge.json")
	writeFile(t, input, `{"timeseries":[{"timestamp":0,"value":1e308},{"timestamp":1800000,"value":1e308}]}`)

	code, _, stderr := runCLI(t, input)
	assert.Equal(t, errors.ExitAggregation, code)
	assert.Contains(t, stderr, input)
	assert.Contains(t, stderr, "not finite")
	assert.NoFileExists(t, filepath.Join(dir, "huge_out.json"))
}

func TestRunBatchFromConfig(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, exampleA)
	writeFile(t, b, exampleA)

	cfgPath := filepath.Join(dir, "equalizer.yaml")
	writeFile(t, cfgPath, "output:\n  format: parquet\nbatch:\n  workers: 2\n  jobs:\n    - input: "+a+"\n    - input: "+b+"\n")

	report := filepath.Join(dir, "report.yaml")

	code, stdout, stderr := runCLI(t, "-config", cfgPath, "-report", report)
	require.Equal(t, errors.ExitOK, code, stderr)

	for _, name := range []string{"a_out.parquet", "b_out.parquet", "report.yaml"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.Equal(t, 2, strings.Count(stdout, "Wrote"))
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "-version")
	require.Equal(t, errors.ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "equalizer "), stdout)
}
