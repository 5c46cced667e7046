package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mosaic-theme/internal/theme"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveCommandPrintsConfig(t *testing.T) {
	tests := []struct {
		args []string
		want theme.Config
	}{
		{args: []string{"resolve"}, want: theme.ResolveBase("light")},
		{args: []string{"resolve", "--app", "admin", "--mode", "dark"}, want: theme.ResolveBase("dark")},
		{args: []string{"resolve", "-a", "client", "-m", "dark"}, want: theme.DeriveExtended("dark")},
	}
	for _, tc := range tests {
		stdout, _, err := runCmd(t, tc.args...)
		require.NoError(t, err, tc.args)
		var got theme.Config
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		require.True(t, tc.want.Equal(got), "args %v: got %+v", tc.args, got)
	}
}

func TestResolveCommandWarnsOnFallback(t *testing.T) {
	stdout, stderr, err := runCmd(t, "resolve", "--app", "client", "--mode", "sepia")
	require.NoError(t, err)
	require.Contains(t, stderr, "theme mode normalized")

	var got theme.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Equal(t, theme.ModeLight, got.Palette.Mode)
}

func TestResolveCommandUnknownApp(t *testing.T) {
	_, _, err := runCmd(t, "resolve", "--app", "guest")
	require.Error(t, err)
	require.True(t, errors.Is(err, theme.ErrUnknownApp))
}

func TestResolveCommandOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("textInput:\n  defaultVariant: standard\n"), 0o600))

	stdout, _, err := runCmd(t, "resolve", "--app", "client", "--overrides", path)
	require.NoError(t, err)
	var got theme.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Equal(t, theme.VariantStandard, got.Variant())
	require.NotNil(t, got.InputBase)
	require.Equal(t, 18, *got.InputBase.FontSize)

	_, _, err = runCmd(t, "resolve", "--overrides", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "not found")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "verbose")
	require.Error(t, err)
}
