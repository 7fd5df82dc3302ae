// Package cli_test tests the root command end to end: validation, dry-run
// and migrate runs against real files with captured stdout and stderr.
// Related: internal/cli/root.go
// Tags: cli, root, validate, migrate, exit-codes, json-output
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plaid-labs/plaid-vision/internal/report"
	"github.com/plaid-labs/plaid-vision/internal/testutil"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points HOME at a temp dir, clears PLAID_* variables and
// returns a --config path that does not exist. Callers cannot use t.Parallel().
func isolateConfig(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "")
	testutil.ClearConfigEnv(t)
	return filepath.Join(home, "project", "config.json")
}

// runCLI executes a fresh command tree and returns stdout, stderr and the exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := execute(cmd, args)
	return stdout.String(), stderr.String(), ExitCode(err)
}

func decodeReport(t *testing.T, stdout string) report.Report {
	t.Helper()

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep), "stdout: %s", stdout)
	return rep
}

func legacyVision() map[string]any {
	return testutil.ValidVision("1.0",
		testutil.WithField("techStack", "frontend", "Next.js"),
		testutil.WithField("techStack", "backend", "Go"),
		testutil.WithField("audience", "secondaryUsers", "counter staff, drivers"),
		testutil.WithField("tooling", "codingAgent", "claude"),
	)
}

func TestRoot_ValidDocument(t *testing.T) {
	configPath := isolateConfig(t)
	path := testutil.CreateTempVision(t, t.TempDir(), testutil.ValidVision(vision.CurrentVersion))

	stdout, stderr, code := runCLI(t, "--config", configPath, path)

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, stderr)
	rep := decodeReport(t, stdout)
	assert.True(t, rep.Valid)
	assert.Empty(t, rep.Errors)
	assert.Empty(t, rep.Warnings)
	assert.False(t, rep.Migrated)
	assert.Empty(t, rep.MigrationsApplied)
	assert.NotContains(t, stdout, "pendingMigrations")
}

func TestRoot_OutputFormat(t *testing.T) {
	configPath := isolateConfig(t)
	path := testutil.CreateTempVision(t, t.TempDir(), testutil.ValidVision(vision.CurrentVersion))

	stdout, _, _ := runCLI(t, "--config", configPath, path)

	assert.True(t, strings.HasPrefix(stdout, "{\n  \"valid\": true,\n"), stdout)
	assert.True(t, strings.HasSuffix(stdout, "}\n"))
	assert.Contains(t, stdout, `"errors": []`)
	assert.Contains(t, stdout, `"migrationsApplied": []`)
}

func TestRoot_DryRun(t *testing.T) {
	configPath := isolateConfig(t)
	path := testutil.CreateTempVision(t, t.TempDir(), legacyVision())
	before := testutil.ReadFile(t, path)

	stdout, _, code := runCLI(t, "--config", configPath, path)

	assert.Equal(t, ExitValidationFailed, code)
	rep := decodeReport(t, stdout)
	assert.False(t, rep.Valid)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "Re-run with --migrate")
	assert.Equal(t, []string{"1.0 → 1.1", "1.1 → 1.2"}, rep.PendingMigrations)
	assert.Contains(t, stdout, "1.0 → 1.1", "arrows are not escaped")
	assert.Equal(t, before, testutil.ReadFile(t, path))
}

func TestRoot_Migrate(t *testing.T) {
	tests := map[string]struct {
		args func(configPath, path string) []string
	}{
		"flag before path": {
			args: func(c, p string) []string { return []string{"--config", c, "--migrate", p} },
		},
		"flag after path": {
			args: func(c, p string) []string { return []string{p, "--migrate", "--config", c} },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := isolateConfig(t)
			path := testutil.CreateTempVision(t, t.TempDir(), legacyVision())

			stdout, _, code := runCLI(t, tc.args(configPath, path)...)

			assert.Equal(t, ExitSuccess, code, stdout)
			rep := decodeReport(t, stdout)
			assert.True(t, rep.Valid)
			assert.True(t, rep.Migrated)
			assert.Equal(t, []string{"1.0 → 1.1", "1.1 → 1.2"}, rep.MigrationsApplied)
			assert.Len(t, rep.Warnings, 2)

			written := testutil.ReadJSON(t, path)
			assert.Equal(t, "1.2", written["meta"].(map[string]any)["version"])
			assert.Equal(t, "claude-code", written["tooling"].(map[string]any)["codingAgent"])
		})
	}
}

func TestRoot_DocumentFromConfig(t *testing.T) {
	configPath := isolateConfig(t)
	path := testutil.CreateTempVision(t, t.TempDir(), testutil.ValidVision(vision.CurrentVersion))
	testutil.WriteFile(t, configPath, `{"document": "`+filepath.ToSlash(path)+`"}`)

	stdout, _, code := runCLI(t, "--config", configPath)

	assert.Equal(t, ExitSuccess, code)
	assert.True(t, decodeReport(t, stdout).Valid)
}

func TestRoot_DocumentFromEnv(t *testing.T) {
	configPath := isolateConfig(t)
	dir := t.TempDir()
	t.Setenv("PLAID_DOCUMENT", filepath.Join(dir, "vision.json"))

	stdout, _, code := runCLI(t, "--config", configPath)

	assert.Equal(t, ExitValidationFailed, code)
	rep := decodeReport(t, stdout)
	assert.Equal(t, []string{"vision.json not found at " + filepath.Join(dir, "vision.json")}, rep.Errors)
}

func TestRoot_ParseError(t *testing.T) {
	configPath := isolateConfig(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	testutil.WriteFile(t, path, "{,}")

	stdout, _, code := runCLI(t, "--config", configPath, path)

	assert.Equal(t, ExitValidationFailed, code)
	rep := decodeReport(t, stdout)
	require.Len(t, rep.Errors, 1)
	assert.True(t, strings.HasPrefix(rep.Errors[0], "Failed to parse plan.json: "), rep.Errors[0])
}

func TestRoot_ExtraArgumentsAndUnknownFlags(t *testing.T) {
	tests := map[string]struct {
		args func(path string) []string
	}{
		"extra positional":      {args: func(p string) []string { return []string{p, "extra.json"} }},
		"unknown flag after":    {args: func(p string) []string { return []string{p, "--frobnicate"} }},
		"unknown flag before":   {args: func(p string) []string { return []string{"--frobnicate", p} }},
		"unknown short flag":    {args: func(p string) []string { return []string{"-x", p} }},
		"after terminator":      {args: func(p string) []string { return []string{"--", p} }},
		"unknown flag with val": {args: func(p string) []string { return []string{"--frobnicate=1", p, "more"} }},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := isolateConfig(t)
			path := testutil.CreateTempVision(t, t.TempDir(), testutil.ValidVision(vision.CurrentVersion))

			stdout, _, code := runCLI(t, append([]string{"--config", configPath}, tc.args(path)...)...)

			assert.Equal(t, ExitSuccess, code, stdout)
			assert.True(t, decodeReport(t, stdout).Valid)
		})
	}
}

func TestRoot_BadFlagValueIsReported(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"non-bool migrate": {args: []string{"--migrate=maybe", "vision.json"}, want: "Invalid arguments: "},
		"config no value":  {args: []string{"vision.json", "--config"}, want: "Invalid arguments: flag needs an argument"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			isolateConfig(t)

			stdout, _, code := runCLI(t, tc.args...)

			assert.Equal(t, ExitValidationFailed, code)
			rep := decodeReport(t, stdout)
			assert.False(t, rep.Valid)
			require.Len(t, rep.Errors, 1)
			assert.True(t, strings.HasPrefix(rep.Errors[0], tc.want), rep.Errors[0])
		})
	}
}

func TestRoot_InvalidConfigIsReported(t *testing.T) {
	tests := map[string]struct {
		file string
		env  map[string]string
	}{
		"config file": {file: `{"log_level": "chatty"}`},
		"environment": {env: map[string]string{"PLAID_LOG_LEVEL": "chatty"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := isolateConfig(t)
			if tc.file != "" {
				testutil.WriteFile(t, configPath, tc.file)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := testutil.CreateTempVision(t, t.TempDir(), testutil.ValidVision(vision.CurrentVersion))

			stdout, _, code := runCLI(t, "--config", configPath, path)

			assert.Equal(t, ExitValidationFailed, code)
			rep := decodeReport(t, stdout)
			assert.False(t, rep.Valid)
			require.Len(t, rep.Errors, 1)
			assert.True(t, strings.HasPrefix(rep.Errors[0], "Invalid configuration: "), rep.Errors[0])
			assert.Contains(t, rep.Errors[0], "log_level")
		})
	}
}

func TestRoot_FileNamedLikeSubcommand(t *testing.T) {
	configPath := isolateConfig(t)
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	stdout, _, code := runCLI(t, "--config", configPath, "schema")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Vision document schema", "without a file the subcommand runs")

	testutil.CreateTempVision(t, dir, testutil.ValidVision(vision.CurrentVersion))
	require.NoError(t, os.Rename(filepath.Join(dir, "vision.json"), filepath.Join(dir, "schema")))

	stdout, _, code = runCLI(t, "--config", configPath, "schema")
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, decodeReport(t, stdout).Valid)
}

func TestRootArgs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   []string
		want []string
	}{
		"empty":               {in: []string{}, want: []string{}},
		"flags only":          {in: []string{"-d", "--migrate"}, want: []string{"-d", "--migrate"}},
		"path":                {in: []string{"--migrate", "v.json"}, want: []string{"--migrate", "--", "v.json"}},
		"config value kept":   {in: []string{"-c", "cfg.json", "v.json"}, want: []string{"-c", "cfg.json", "--", "v.json"}},
		"inline value":        {in: []string{"--config=cfg.json", "v.json"}, want: []string{"--config=cfg.json", "--", "v.json"}},
		"unknown dropped":     {in: []string{"--nope", "v.json"}, want: []string{"--", "v.json"}},
		"subcommand":          {in: []string{"-c", "x", "schema", "--format", "yaml"}, want: []string{"-c", "x", "schema", "--format", "yaml"}},
		"help subcommand":     {in: []string{"help"}, want: []string{"help"}},
		"help flag":           {in: []string{"--help"}, want: []string{"--help"}},
		"existing terminator": {in: []string{"-d", "--", "a", "b"}, want: []string{"-d", "--", "a", "b"}},
		"missing value":       {in: []string{"v.json", "--config"}, want: []string{"v.json", "--config"}},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, rootArgs(newRootCmd(), tc.in))
		})
	}
}

func TestRoot_DebugLogsToStderr(t *testing.T) {
	configPath := isolateConfig(t)
	path := testutil.CreateTempVision(t, t.TempDir(), legacyVision())

	stdout, stderr, code := runCLI(t, "--config", configPath, "-d", "--migrate", path)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "loaded document")
	assert.Contains(t, stderr, "applied migration")
	assert.Contains(t, stderr, "migrated document")
	assert.NotContains(t, stdout, "loaded document")
	decodeReport(t, stdout)
}

func TestRoot_JSONSchemaFlag(t *testing.T) {
	configPath := isolateConfig(t)
	doc := testutil.ValidVision(vision.CurrentVersion, testutil.WithField("product", "platform", "foo"))
	path := testutil.CreateTempVision(t, t.TempDir(), doc)

	plainOut, _, _ := runCLI(t, "--config", configPath, path)
	checkedOut, _, code := runCLI(t, "--config", configPath, "--json-schema", path)

	assert.Equal(t, ExitValidationFailed, code)
	assert.Empty(t, decodeReport(t, plainOut).Warnings)
	warnings := decodeReport(t, checkedOut).Warnings
	require.NotEmpty(t, warnings)
	assert.True(t, strings.HasPrefix(warnings[0], "schema: product.platform"), warnings[0])
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":           {want: ExitSuccess},
		"exit error":    {err: NewExitError(ExitInvalidArguments), want: ExitInvalidArguments},
		"wrapped":       {err: wrap(NewExitError(ExitValidationFailed)), want: ExitValidationFailed},
		"generic error": {err: assert.AnError, want: ExitValidationFailed},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func wrap(err error) error { return wrapped{err: err} }
