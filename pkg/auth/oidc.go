package auth

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/telekom/k8s-client-factory/pkg/metrics"
)

// TokenRefreshBuffer is the duration before expiry when a cached token is
// proactively refreshed.
const TokenRefreshBuffer = 30 * time.Second

// OIDCConfig configures an OIDC client-credentials token provider.
type OIDCConfig struct {
	Authority       string
	ClientID        string
	ClientSecret    string
	Scopes          []string
	CAFile          string
	InsecureSkipTLS bool
}

// OIDCTokenProvider obtains bearer tokens via the OIDC client credentials
// flow. Tokens are cached and refreshed shortly before expiry. Expiry is
// taken from the token response when present, otherwise from the JWT exp
// claim of the access token.
type OIDCTokenProvider struct {
	cfg      OIDCConfig
	tokenURL string

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	httpClient *http.Client
}

// NewOIDCTokenProvider validates cfg and builds a provider. Endpoint
// discovery is deferred to the first token fetch.
func NewOIDCTokenProvider(cfg OIDCConfig) (*OIDCTokenProvider, error) {
	if cfg.Authority == "" || cfg.ClientID == "" {
		return nil, errors.New("authority and client-id are required")
	}
	httpClient, err := newHTTPClient(cfg.CAFile, cfg.InsecureSkipTLS)
	if err != nil {
		return nil, err
	}
	return &OIDCTokenProvider{cfg: cfg, httpClient: httpClient}, nil
}

func (p *OIDCTokenProvider) ProvideToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiresAt.Add(-TokenRefreshBuffer)) {
		return p.token, nil
	}

	if p.tokenURL == "" {
		discoveryCtx := oidc.ClientContext(ctx, p.httpClient)
		provider, err := oidc.NewProvider(discoveryCtx, p.cfg.Authority)
		if err != nil {
			metrics.TokenProviderFetches.WithLabelValues("oidc", "error").Inc()
			return "", fmt.Errorf("failed to discover OIDC provider: %w", err)
		}
		p.tokenURL = provider.Endpoint().TokenURL
	}

	cc := &clientcredentials.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		TokenURL:     p.tokenURL,
		Scopes:       p.cfg.Scopes,
	}
	token, err := cc.Token(oidc.ClientContext(ctx, p.httpClient))
	if err != nil {
		metrics.TokenProviderFetches.WithLabelValues("oidc", "error").Inc()
		return "", fmt.Errorf("client credentials token failed: %w", err)
	}

	p.token = token.AccessToken
	p.expiresAt = token.Expiry
	if p.expiresAt.IsZero() {
		p.expiresAt = accessTokenExpiry(token.AccessToken)
	}

	metrics.TokenProviderFetches.WithLabelValues("oidc", "success").Inc()
	return p.token, nil
}

// accessTokenExpiry extracts the exp claim from a JWT access token without
// verifying the signature; the token is only inspected for cache lifetime,
// never trusted for authorization decisions locally.
func accessTokenExpiry(accessToken string) time.Time {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

func newHTTPClient(caFile string, insecureSkipTLS bool) (*http.Client, error) {
	if caFile == "" && !insecureSkipTLS {
		return http.DefaultClient, nil
	}
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if insecureSkipTLS {
		tlsConfig.InsecureSkipVerify = true
	}
	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file %s: %w", caFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates parsed from CA file %s", caFile)
		}
		tlsConfig.RootCAs = pool
	}
	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
		Timeout:   30 * time.Second,
	}, nil
}
