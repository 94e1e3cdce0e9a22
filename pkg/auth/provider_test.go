package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndInstantiate(t *testing.T) {
	registry := NewRegistry()
	registry.Register("static", func() (TokenProvider, error) {
		return &StaticTokenProvider{Token: "t"}, nil
	})

	provider, err := registry.Instantiate("static")
	require.NoError(t, err)

	token, err := provider.ProvideToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t", token)

	assert.Contains(t, registry.Names(), "static")
}

func TestRegistryReplacesRegistration(t *testing.T) {
	registry := NewRegistry()
	registry.Register("p", func() (TokenProvider, error) {
		return &StaticTokenProvider{Token: "old"}, nil
	})
	registry.Register("p", func() (TokenProvider, error) {
		return &StaticTokenProvider{Token: "new"}, nil
	})

	provider, err := registry.Instantiate("p")
	require.NoError(t, err)
	token, _ := provider.ProvideToken(context.Background())
	assert.Equal(t, "new", token)
}

func TestFileTokenProviderReadsFreshValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))

	provider := &FileTokenProvider{Path: path}

	token, err := provider.ProvideToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	// token rotation must be visible without rebuilding the provider
	require.NoError(t, os.WriteFile(path, []byte("second\n"), 0o600))
	token, err = provider.ProvideToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestFileTokenProviderMissingFile(t *testing.T) {
	provider := &FileTokenProvider{Path: filepath.Join(t.TempDir(), "nope")}
	_, err := provider.ProvideToken(context.Background())
	assert.Error(t, err)
}
