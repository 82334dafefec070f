package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(stdin, args...)
	require.NoError(t, err)
	return out
}

func TestResolveCommand_Stdin(t *testing.T) {
	out := execute(t, "function add(a, b) { return a + b }", "resolve")
	assert.Equal(t, "function add(a, b)\n", out)
}

func TestResolveCommand_FilesAndConfig(t *testing.T) {
	dir := t.TempDir()
	point := filepath.Join(dir, "point.js")
	require.NoError(t, os.WriteFile(point, []byte("class Point {\n  constructor(x, // x\n    y) {}\n}\n"), 0o644))
	typed := filepath.Join(dir, "add.ts")
	require.NoError(t, os.WriteFile(typed, []byte("function add(a: number, b: number): number { return a + b }\n"), 0o644))
	cfgPath := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("signature:\n  language: typescript\n"), 0o644))

	out := execute(t, "", "--config", cfgPath, "resolve", point, typed)
	assert.Equal(t, "class Point(x, y)\nfunction add(a: number, b: number)\n", out)
}

func TestResolveCommand_MissingFile(t *testing.T) {
	_, err := run("", "resolve", filepath.Join(t.TempDir(), "nope.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidPathError")
}

func TestResolveCommand_NameAndOverride(t *testing.T) {
	out := execute(t, "(a) => a", "resolve", "--name", "identity")
	assert.Equal(t, "function identity(a)\n", out)

	out = execute(t, "class X {}", "resolve", "--override", "X :: custom")
	assert.Equal(t, "X :: custom\n", out)
}

func TestResolveCommand_FlagsDoNotCarryOver(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("signature:\n  language: typescript\n"), 0o644))

	out := execute(t, "class X {}", "--config", cfgPath, "resolve", "--name", "Y", "--override", "X :: custom")
	assert.Equal(t, "X :: custom\n", out)

	// an empty override must not be applied on a run that never passed --override
	out = execute(t, "(a) => a", "resolve")
	assert.Equal(t, "function(a)\n", out)
}
