package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesPresence(t *testing.T) {
	p := Properties{
		"a.token": "",
		"a.file":  "/etc/token",
	}

	v, ok := p.GetString("a.token")
	assert.True(t, ok, "explicitly set empty value must report present")
	assert.Equal(t, "", v)

	v, ok = p.GetString("a.file")
	assert.True(t, ok)
	assert.Equal(t, "/etc/token", v)

	_, ok = p.GetString("a.missing")
	assert.False(t, ok)
}

func TestPropertiesGetInt(t *testing.T) {
	p := Properties{
		"timeout": "5000",
		"junk":    "not-a-number",
	}

	n, ok := p.GetInt("timeout")
	assert.True(t, ok)
	assert.Equal(t, 5000, n)

	_, ok = p.GetInt("junk")
	assert.False(t, ok)

	_, ok = p.GetInt("absent")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "spark.kubernetes.authentication.oauthToken",
		Key("spark.kubernetes.authentication", SuffixOAuthToken))
}

func TestLookupDefaults(t *testing.T) {
	p := Properties{
		"set":   "value",
		"int":   "42",
		"bool":  "true",
		"empty": "",
	}

	assert.Equal(t, "value", StringOr(p, "set", "fallback"))
	assert.Equal(t, "fallback", StringOr(p, "unset", "fallback"))
	assert.Equal(t, "", StringOr(p, "empty", "fallback"))

	assert.Equal(t, 42, IntOr(p, "int", 7))
	assert.Equal(t, 7, IntOr(p, "unset", 7))

	assert.True(t, BoolOr(p, "bool", false))
	assert.False(t, BoolOr(p, "unset", false))
	assert.False(t, BoolOr(p, "empty", false))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.yaml")
	content := "" +
		"kubernetes.context: prod\n" +
		"kubernetes.trust.certificates: true\n" +
		"kubernetes.driver.requestTimeout: 15000\n" +
		"auth.oauthToken:\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	props, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", StringOr(props, "kubernetes.context", ""))
	assert.True(t, BoolOr(props, "kubernetes.trust.certificates", false))

	n, ok := props.GetInt("kubernetes.driver.requestTimeout")
	assert.True(t, ok)
	assert.Equal(t, 15000, n)

	// a key with a null value is still present
	v, ok := props.GetString("auth.oauthToken")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
