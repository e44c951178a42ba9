package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommand(t *testing.T) {
	tests := []struct {
		title  string
		stdin  string
		args   []string
		stdout string
	}{
		{title: "arguments", args: []string{"1 + 2", "2 ** 64"}, stdout: "3\n18446744073709551616\n"},
		{title: "stdin", stdin: "x = 2\nx ** 10\n# comment\n\n1/3 - 1/2\n", stdout: "1024\n-1/6\n"},
		{title: "precision", args: []string{"--precision", "10", "1 / 3"}, stdout: "0.3335\n"},
		{title: "rounding mode", args: []string{"-r", "down", "-p", "2", "7 / 1"}, stdout: "6\n"},
		{title: "state across arguments", args: []string{":prec 10", "1 / 3", ":flags"}, stdout: "0.3335\ninexact\n"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.stdin, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, tt.stdout, stdout)
			assert.Empty(t, stderr)
		})
	}
}

func TestCommand_error(t *testing.T) {
	tests := []struct {
		title  string
		args   []string
		stdout string
		stderr string
	}{
		{title: "division by zero", args: []string{"1; 1 / 0", "2"}, stdout: "1\n2\n", stderr: "error: div: division by zero\n"},
		{title: "undefined variable", args: []string{"y"}, stderr: "error: undefined variable: y\n"},
		{title: "invalid precision", args: []string{"-p", "0", "1"}},
		{title: "invalid rounding mode", args: []string{"-r", "sideways", "1"}, stderr: "error: round: unknown rounding mode: sideways\n"},
		{title: "missing config", args: []string{"--config", "missing.toml", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			stdout, stderr, err := execute(t, "", tt.args...)
			assert.Error(t, err)
			assert.Equal(t, tt.stdout, stdout)
			if tt.stderr != "" {
				assert.Equal(t, tt.stderr, stderr)
			} else {
				assert.NotEmpty(t, stderr)
			}
		})
	}
}

func TestCommand_config(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bncalc.toml")
	assert.NoError(t, os.WriteFile(path, []byte("precision = 10\ntrap_divzero = true\n"), 0o600))

	stdout, _, err := execute(t, "", "--config", path, "1 / 3")
	assert.NoError(t, err)
	assert.Equal(t, "0.3335\n", stdout)

	stdout, _, err = execute(t, "", "--config", path, "-p", "53", "1 / 3")
	assert.NoError(t, err)
	assert.Equal(t, "0.3333333333333333\n", stdout)
}

func TestCommand_load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.bn")
	assert.NoError(t, os.WriteFile(path, []byte("# constants\nk = 2 ** 10\n"), 0o600))

	stdout, _, err := execute(t, ":load "+path+"\nk + 1\n")
	assert.NoError(t, err)
	assert.Equal(t, "1025\n", stdout)
}

func TestCommand_verbose(t *testing.T) {
	_, stderr, err := execute(t, "", "-v", "x = 1; x + 1; :clear")
	assert.NoError(t, err)
	assert.Equal(t, "EXEC x = 1\nEVAL (x + 1) = 2\nEXEC :clear\n", stderr)
}
