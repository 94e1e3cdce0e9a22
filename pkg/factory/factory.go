package factory

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"k8s.io/client-go/kubernetes"

	"github.com/telekom/k8s-client-factory/pkg/auth"
	"github.com/telekom/k8s-client-factory/pkg/config"
	"github.com/telekom/k8s-client-factory/pkg/metrics"
	"github.com/telekom/k8s-client-factory/pkg/transport"
)

// ClientHandle is a constructed, ready-to-use cluster client. The caller
// owns it; the factory does not track its lifetime after returning it.
type ClientHandle struct {
	Clientset  kubernetes.Interface
	Config     *AssembledConfig
	Dispatcher *transport.Dispatcher
}

// Factory composes credential resolution, timeout lookup, configuration
// assembly, and dispatcher construction into client handles. Construction is
// synchronous and all-or-nothing: any sub-step failure aborts.
type Factory struct {
	log       *zap.SugaredLogger
	resolver  *auth.Resolver
	assembler *Assembler
}

func New(log *zap.SugaredLogger, registry *auth.Registry) *Factory {
	return &Factory{
		log:       log.Named("client-factory"),
		resolver:  auth.NewResolver(registry, log),
		assembler: NewAssembler(log),
	}
}

// CreateClient builds an authenticated client handle for master.
//
// Credentials are resolved from cfg under authPrefix, with defaults acting
// as environment-supplied fallbacks. The request and connection timeouts are
// taken from clientType's configuration keys. The returned handle's
// transport runs on a fresh, named dispatcher.
func (f *Factory) CreateClient(
	master string,
	namespace string,
	authPrefix string,
	clientType ClientType,
	cfg config.Lookup,
	defaults auth.Defaults,
) (*ClientHandle, error) {
	if !clientType.Known() {
		return nil, &UnknownClientTypeError{Type: clientType}
	}

	resolution, err := f.resolver.Resolve(cfg, authPrefix, defaults)
	if err != nil {
		metrics.ClientBuilds.WithLabelValues(string(clientType), "error").Inc()
		return nil, err
	}

	requestTimeout, connectionTimeout := clientType.Timeouts(cfg)

	assembled, err := f.assembler.Assemble(Overrides{
		Master:            master,
		Namespace:         namespace,
		Context:           config.StringOr(cfg, config.KeyContext, ""),
		CACertFile:        resolution.CACertFile,
		ClientKeyFile:     config.StringOr(cfg, config.Key(authPrefix, config.SuffixClientKeyFile), ""),
		ClientCertFile:    config.StringOr(cfg, config.Key(authPrefix, config.SuffixClientCertFile), ""),
		TrustCertificates: config.BoolOr(cfg, config.KeyTrustCertificates, false),
		Credentials:       resolution.Credentials,
		RequestTimeout:    requestTimeout,
		ConnectionTimeout: connectionTimeout,
	})
	if err != nil {
		metrics.ClientBuilds.WithLabelValues(string(clientType), "error").Inc()
		return nil, err
	}

	dispatcher := transport.NewDispatcher(string(clientType), f.log)

	// rebind the transport: token injection first, then the dispatcher
	// outermost so it schedules the fully configured request
	if resolution.Credentials.Kind == auth.CredentialTokenProvider {
		provider := resolution.Credentials.Provider
		assembled.REST.Wrap(func(rt http.RoundTripper) http.RoundTripper {
			return &tokenInjectorRoundTripper{delegate: rt, provider: provider}
		})
	}
	assembled.REST.Wrap(dispatcher.Wrap)

	clientset, err := kubernetes.NewForConfig(assembled.REST)
	if err != nil {
		metrics.ClientBuilds.WithLabelValues(string(clientType), "error").Inc()
		return nil, fmt.Errorf("build kubernetes client for %s: %w", master, err)
	}

	f.log.Infow("Constructed Kubernetes client",
		"master", master,
		"namespace", assembled.Namespace,
		"clientType", clientType,
		"credentials", resolution.Credentials.Kind,
		"dispatcher", dispatcher.Name(),
	)
	metrics.ClientBuilds.WithLabelValues(string(clientType), "success").Inc()

	return &ClientHandle{
		Clientset:  clientset,
		Config:     assembled,
		Dispatcher: dispatcher,
	}, nil
}

// tokenInjectorRoundTripper injects a fresh bearer token from a
// TokenProvider on each request.
type tokenInjectorRoundTripper struct {
	delegate http.RoundTripper
	provider auth.TokenProvider
}

func (t *tokenInjectorRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.provider.ProvideToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to get token from provider: %w", err)
	}

	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+token)

	return t.delegate.RoundTrip(reqClone)
}
