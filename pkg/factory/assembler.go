package factory

import (
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/telekom/k8s-client-factory/pkg/auth"
)

const (
	// RetryBackoffLimitEnv is the process-wide retry backoff limit consumed
	// by the transport layer. It is set once, to DefaultRetryBackoffLimit,
	// when absent; an already-set value is never touched. The write affects
	// every client built afterwards in the same process.
	RetryBackoffLimitEnv     = "KUBERNETES_REQUEST_RETRY_BACKOFFLIMIT"
	DefaultRetryBackoffLimit = "3"

	// forcedAPIPath is applied to every assembled configuration regardless
	// of what auto-discovery supplied.
	forcedAPIPath = "/api"
)

// Overrides are the explicitly provided configuration fields layered on top
// of the auto-discovered base. Master is required; everything else applies
// only when present.
type Overrides struct {
	Master            string
	Namespace         string
	Context           string
	CACertFile        string
	ClientKeyFile     string
	ClientCertFile    string
	TrustCertificates bool
	Credentials       auth.CredentialSpec
	RequestTimeout    time.Duration
	ConnectionTimeout time.Duration
}

// AssembledConfig is the immutable result of layering overrides over the
// auto-discovered base. It is built once and never mutated afterwards, so it
// is safe to share across the resulting client's concurrent use.
type AssembledConfig struct {
	REST      *rest.Config
	Namespace string
	// WebsocketPingInterval is always zero: websocket pings are disabled
	// for constructed clients.
	WebsocketPingInterval time.Duration
	RequestTimeout        time.Duration
	ConnectionTimeout     time.Duration
	Credentials           auth.CredentialSpec
}

// Assembler merges auto-discovered base configuration with explicit
// overrides. The discover hook is replaceable in tests.
type Assembler struct {
	log      *zap.SugaredLogger
	discover func(contextName string) (*rest.Config, string, error)
}

func NewAssembler(log *zap.SugaredLogger) *Assembler {
	return &Assembler{
		log:      log.Named("config-assembler"),
		discover: autoDiscover,
	}
}

// autoDiscover derives a base configuration and namespace from the ambient
// kubeconfig, optionally scoped to a named context. An empty context name
// selects whatever the environment considers current.
func autoDiscover(contextName string) (*rest.Config, string, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	cfg, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, "", err
	}
	namespace, _, err := clientConfig.Namespace()
	if err != nil {
		namespace = ""
	}
	return cfg, namespace, nil
}

// override pairs a presence flag with the mutation to apply when present.
// Absent overrides leave the base value untouched.
type override struct {
	present bool
	apply   func(*rest.Config)
}

func applyOverrides(cfg *rest.Config, overrides ...override) {
	for _, o := range overrides {
		if o.present {
			o.apply(cfg)
		}
	}
}

// Assemble layers o over the auto-discovered base configuration. Overrides
// win when present; base values are retained otherwise. Cert and key file
// paths are not validated here; the transport layer reports unreadable files
// at first use.
func (a *Assembler) Assemble(o Overrides) (*AssembledConfig, error) {
	if o.Master == "" {
		return nil, &MissingFieldError{Field: "master"}
	}

	ensureRetryBackoffLimit(a.log)

	base, discoveredNamespace, err := a.discover(o.Context)
	if err != nil {
		a.log.Debugw("Kubeconfig auto-discovery unavailable, starting from empty base", "context", o.Context, "reason", err)
		base = &rest.Config{}
	}
	cfg := rest.CopyConfig(base)

	// forced regardless of discovery
	cfg.APIPath = forcedAPIPath

	// required and always-set fields
	cfg.Host = o.Master
	cfg.Timeout = o.RequestTimeout
	if o.ConnectionTimeout > 0 {
		dialer := &net.Dialer{Timeout: o.ConnectionTimeout}
		cfg.Dial = dialer.DialContext
	}
	cfg.TLSClientConfig.Insecure = o.TrustCertificates
	if o.TrustCertificates {
		// client-go rejects configs carrying both Insecure and CA trust material
		cfg.TLSClientConfig.CAFile = ""
		cfg.TLSClientConfig.CAData = nil
	}

	applyOverrides(cfg,
		override{o.Credentials.Kind == auth.CredentialTokenValue, func(c *rest.Config) {
			c.BearerToken = o.Credentials.Token
			c.BearerTokenFile = ""
		}},
		override{o.Credentials.Kind == auth.CredentialTokenFile, func(c *rest.Config) {
			c.BearerTokenFile = o.Credentials.TokenFile
			c.BearerToken = ""
		}},
		override{o.Credentials.Kind == auth.CredentialTokenProvider, func(c *rest.Config) {
			// the provider injects tokens per request; static base
			// credentials must not compete with it
			c.BearerToken = ""
			c.BearerTokenFile = ""
		}},
		override{o.CACertFile != "" && !o.TrustCertificates, func(c *rest.Config) {
			c.TLSClientConfig.CAFile = o.CACertFile
			c.TLSClientConfig.CAData = nil
		}},
		override{o.ClientKeyFile != "", func(c *rest.Config) {
			c.TLSClientConfig.KeyFile = o.ClientKeyFile
			c.TLSClientConfig.KeyData = nil
		}},
		override{o.ClientCertFile != "", func(c *rest.Config) {
			c.TLSClientConfig.CertFile = o.ClientCertFile
			c.TLSClientConfig.CertData = nil
		}},
	)

	namespace := discoveredNamespace
	if o.Namespace != "" {
		namespace = o.Namespace
	}

	return &AssembledConfig{
		REST:                  cfg,
		Namespace:             namespace,
		WebsocketPingInterval: 0,
		RequestTimeout:        o.RequestTimeout,
		ConnectionTimeout:     o.ConnectionTimeout,
		Credentials:           o.Credentials,
	}, nil
}

// ensureRetryBackoffLimit sets the process-wide retry backoff limit when it
// is absent. Two constructions racing here both write the same default; the
// race is benign and idempotent.
func ensureRetryBackoffLimit(log *zap.SugaredLogger) {
	if _, ok := os.LookupEnv(RetryBackoffLimitEnv); ok {
		return
	}
	if err := os.Setenv(RetryBackoffLimitEnv, DefaultRetryBackoffLimit); err != nil {
		log.Warnw("Failed to set default retry backoff limit", "env", RetryBackoffLimitEnv, "error", err)
		return
	}
	log.Debugw("Set default retry backoff limit", "env", RetryBackoffLimitEnv, "value", DefaultRetryBackoffLimit)
}
