package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommand(Config{OutputWriter: out})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kcfctl")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := runCommand(t, "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"goVersion"`)
}

func TestCheckCommandRequiresMaster(t *testing.T) {
	_, err := runCommand(t, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "master")
}

func TestCheckCommandAssemblesOffline(t *testing.T) {
	out, err := runCommand(t, "check",
		"--master", "https://host:6443",
		"--namespace", "ns1",
		"--default-token-file", "/var/run/secrets/token",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "master:      https://host:6443")
	assert.Contains(t, out, "namespace:   ns1")
	assert.Contains(t, out, "credentials: tokenFile")
	assert.Contains(t, out, "dispatcher:  driver-dispatcher-")
}

func TestCheckCommandConflictingProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.yaml")
	content := "" +
		"kubernetes.authentication.oauthToken: abc\n" +
		"kubernetes.authentication.oauthTokenFile: /path\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := runCommand(t, "check",
		"--master", "https://host:6443",
		"--properties", path,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kubernetes.authentication.oauthToken")
	assert.Contains(t, err.Error(), "kubernetes.authentication.oauthTokenFile")
}

func TestCheckCommandUnknownClientType(t *testing.T) {
	_, err := runCommand(t, "check",
		"--master", "https://host:6443",
		"--client-type", "executor",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown client type")
}
