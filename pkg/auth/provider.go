package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/telekom/k8s-client-factory/pkg/metrics"
)

// TokenProvider supplies a bearer token for authenticating against a cluster
// API server. Implementations may cache or refresh tokens internally; every
// call must return a token that is valid at the time of the call.
type TokenProvider interface {
	ProvideToken(ctx context.Context) (string, error)
}

// ProviderConstructor builds a TokenProvider instance. Construction may fail,
// e.g. when required ambient configuration is missing.
type ProviderConstructor func() (TokenProvider, error)

// Registry maps fully-qualified provider names to constructors. Providers are
// referenced from configuration by name (the oauthTokenProvider key) and
// instantiated on demand.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]ProviderConstructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: map[string]ProviderConstructor{}}
}

// Register adds a constructor under name, replacing any previous registration.
func (r *Registry) Register(name string, ctor ProviderConstructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// Names returns the registered provider names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	return names
}

// Instantiate constructs the provider registered under name. A missing
// registration or a failing constructor yields a ProviderError; neither is
// retried.
func (r *Registry) Instantiate(name string) (TokenProvider, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &ProviderError{Name: name, Reason: "not registered"}
	}
	provider, err := ctor()
	if err != nil {
		return nil, &ProviderError{Name: name, Reason: "constructor failed", Err: err}
	}
	return provider, nil
}

// StaticTokenProvider returns a fixed token on every call.
type StaticTokenProvider struct {
	Token string
}

func (p *StaticTokenProvider) ProvideToken(context.Context) (string, error) {
	metrics.TokenProviderFetches.WithLabelValues("static", "success").Inc()
	return p.Token, nil
}

// FileTokenProvider re-reads the token file on every call so that rotated
// tokens (e.g. projected service account tokens) are picked up without
// rebuilding the client.
type FileTokenProvider struct {
	Path string
}

func (p *FileTokenProvider) ProvideToken(context.Context) (string, error) {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		metrics.TokenProviderFetches.WithLabelValues("file", "error").Inc()
		return "", fmt.Errorf("read token file %s: %w", p.Path, err)
	}
	metrics.TokenProviderFetches.WithLabelValues("file", "success").Inc()
	return strings.TrimSpace(string(raw)), nil
}
