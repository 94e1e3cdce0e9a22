package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClientBuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clientfactory_client_builds_total",
		Help: "Total number of Kubernetes client construction attempts",
	}, []string{"client_type", "outcome"})
	CredentialResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clientfactory_credential_resolutions_total",
		Help: "Total number of credential resolutions grouped by resolved source",
	}, []string{"source"})
	CredentialResolutionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clientfactory_credential_resolution_errors_total",
		Help: "Total number of failed credential resolutions",
	}, []string{"reason"})
	// Dispatcher metrics are labeled by dispatcher name. Names embed a short
	// random suffix per constructed client; cardinality is bounded by the
	// number of clients a process builds.
	DispatcherRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clientfactory_dispatcher_requests_total",
		Help: "Total number of requests scheduled through a transport dispatcher",
	}, []string{"dispatcher", "outcome"})
	DispatcherInFlight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clientfactory_dispatcher_in_flight_requests",
		Help: "Number of requests currently executing on a transport dispatcher",
	}, []string{"dispatcher"})
	TokenProviderFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clientfactory_token_provider_fetches_total",
		Help: "Total number of token fetches performed by registered token providers",
	}, []string{"provider", "outcome"})
)

func init() {
	prometheus.MustRegister(ClientBuilds)
	prometheus.MustRegister(CredentialResolutions)
	prometheus.MustRegister(CredentialResolutionErrors)
	prometheus.MustRegister(DispatcherRequests)
	prometheus.MustRegister(DispatcherInFlight)
	prometheus.MustRegister(TokenProviderFetches)
}

// Handler returns an http.Handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
