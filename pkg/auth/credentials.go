package auth

import (
	"go.uber.org/zap"

	"github.com/telekom/k8s-client-factory/pkg/config"
	"github.com/telekom/k8s-client-factory/pkg/metrics"
)

// CredentialKind identifies which credential source is active in a
// CredentialSpec.
type CredentialKind string

const (
	CredentialNone          CredentialKind = "none"
	CredentialTokenFile     CredentialKind = "tokenFile"
	CredentialTokenValue    CredentialKind = "token"
	CredentialTokenProvider CredentialKind = "tokenProvider"
)

// CredentialSpec is the resolved credential source for a client. Exactly one
// variant is active; the field matching Kind carries the payload.
type CredentialSpec struct {
	Kind         CredentialKind
	TokenFile    string
	Token        string
	Provider     TokenProvider
	ProviderName string
}

// Defaults are credential files supplied by the execution environment (e.g.
// a mounted service account token). They act only as fallbacks and never
// participate in the mutual-exclusivity check.
type Defaults struct {
	TokenFile  string
	CACertFile string
}

// Resolution is the outcome of credential resolution: the active credential
// source plus the CA certificate file to trust, when any.
type Resolution struct {
	Credentials CredentialSpec
	CACertFile  string
}

// Resolver determines the single applicable credential source from
// configuration under a caller-supplied key prefix.
type Resolver struct {
	registry *Registry
	log      *zap.SugaredLogger
}

func NewResolver(registry *Registry, log *zap.SugaredLogger) *Resolver {
	return &Resolver{
		registry: registry,
		log:      log.Named("credential-resolver"),
	}
}

// Resolve inspects the three explicit credential keys under prefix and the
// environment-supplied defaults. Presence is literal key-presence: an empty
// explicit value still counts toward the exclusivity check. The default
// token file applies only when no explicit source is configured.
func (r *Resolver) Resolve(cfg config.Lookup, prefix string, defaults Defaults) (Resolution, error) {
	fileKey := config.Key(prefix, config.SuffixOAuthTokenFile)
	tokenKey := config.Key(prefix, config.SuffixOAuthToken)
	providerKey := config.Key(prefix, config.SuffixOAuthTokenProvider)

	tokenFile, hasFile := cfg.GetString(fileKey)
	token, hasToken := cfg.GetString(tokenKey)
	providerName, hasProvider := cfg.GetString(providerKey)

	explicit := 0
	conflict := []string{}
	for _, c := range []struct {
		set bool
		key string
	}{
		{hasFile, fileKey},
		{hasToken, tokenKey},
		{hasProvider, providerKey},
	} {
		if c.set {
			explicit++
			conflict = append(conflict, c.key)
		}
	}
	if explicit > 1 {
		metrics.CredentialResolutionErrors.WithLabelValues("conflict").Inc()
		return Resolution{}, &ConflictError{Keys: conflict}
	}

	res := Resolution{
		Credentials: CredentialSpec{Kind: CredentialNone},
	}

	switch {
	case hasProvider:
		provider, err := r.registry.Instantiate(providerName)
		if err != nil {
			metrics.CredentialResolutionErrors.WithLabelValues("provider_instantiation").Inc()
			return Resolution{}, err
		}
		r.log.Debugw("Using configured token provider", "provider", providerName)
		res.Credentials = CredentialSpec{
			Kind:         CredentialTokenProvider,
			Provider:     provider,
			ProviderName: providerName,
		}
	case hasToken:
		res.Credentials = CredentialSpec{Kind: CredentialTokenValue, Token: token}
	case hasFile:
		res.Credentials = CredentialSpec{Kind: CredentialTokenFile, TokenFile: tokenFile}
	case defaults.TokenFile != "":
		r.log.Debugw("Falling back to environment-provided token file", "file", defaults.TokenFile)
		res.Credentials = CredentialSpec{Kind: CredentialTokenFile, TokenFile: defaults.TokenFile}
	}

	if caFile, ok := cfg.GetString(config.Key(prefix, config.SuffixCACertFile)); ok {
		res.CACertFile = caFile
	} else {
		res.CACertFile = defaults.CACertFile
	}

	metrics.CredentialResolutions.WithLabelValues(string(res.Credentials.Kind)).Inc()
	return res, nil
}
