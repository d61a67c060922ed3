// Package main provides tests for the vela CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/vela/internal/cli"
	"github.com/leapstack-labs/vela/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptsDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Join(wd, "..", "..", "testdata", "scripts")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--extensions", "utils,math,strs"))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunScripts(t *testing.T) {
	dir := scriptsDir(t)

	tests := []struct {
		script string
		want   string
	}{
		{"fib.vl", "55\n"},
		{"objects.vl", "Ada go\n2\n{\n  \"name\": \"Ada\",\n  \"langs\": [\n    \"go\",\n    \"vela\"\n  ]\n}\n"},
		{"closures.vl", "ticks: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			out, errOut, err := run(t, "run", filepath.Join(dir, tt.script))
			require.NoError(t, err, errOut)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRunBrokenScript(t *testing.T) {
	_, errOut, err := run(t, "run", filepath.Join(scriptsDir(t), "broken.vl"))
	require.Error(t, err)
	assert.Contains(t, errOut, `undefined variable "missing"`)
	assert.Contains(t, errOut, "2 | print(total / missing);")
}

func TestCheckScripts(t *testing.T) {
	dir := scriptsDir(t)
	matches, err := filepath.Glob(filepath.Join(dir, "*.vl"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// broken.vl only fails at runtime, so every script parses.
	out, errOut, err := run(t, append([]string{"check"}, matches...)...)
	require.NoError(t, err, errOut)
	assert.Equal(t, len(matches), strings.Count(out, "✓"))
}

func TestHelpCommand(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"run", "check", "tokens", "ast", "repl", "extensions", "version", "completion"} {
		assert.Contains(t, out, name)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "completion", shell)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, "unknown-command")
	assert.Error(t, err)
}
