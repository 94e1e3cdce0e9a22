package transport

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telekom/k8s-client-factory/pkg/metrics"
)

// Dispatcher schedules outgoing requests onto worker goroutines. Each
// constructed client gets its own dispatcher; dispatchers are never shared
// or pooled. Workers are spawned lazily per request and hold no process
// shutdown hooks, so an exiting process never waits on idle dispatcher
// workers.
type Dispatcher struct {
	name        string
	log         *zap.SugaredLogger
	maxInFlight int
	sem         chan struct{}
	inFlight    atomic.Int64
}

// Option customizes dispatcher construction.
type Option func(*Dispatcher)

// WithMaxInFlight bounds the number of concurrently executing requests.
// Zero or negative means unbounded.
func WithMaxInFlight(n int) Option {
	return func(d *Dispatcher) {
		d.maxInFlight = n
	}
}

// NewDispatcher builds a dispatcher named after role plus a short random
// suffix for diagnostic traceability in logs and metrics.
func NewDispatcher(role string, log *zap.SugaredLogger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		name: fmt.Sprintf("%s-dispatcher-%s", role, uuid.NewString()[:8]),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxInFlight > 0 {
		d.sem = make(chan struct{}, d.maxInFlight)
	}
	d.log = log.Named(d.name)
	return d
}

// Name returns the unique dispatcher name.
func (d *Dispatcher) Name() string {
	return d.name
}

// InFlight returns the number of requests currently executing.
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Wrap returns a RoundTripper that schedules requests through the
// dispatcher, preserving all behavior of the delegate transport.
func (d *Dispatcher) Wrap(rt http.RoundTripper) http.RoundTripper {
	return &dispatchRoundTripper{dispatcher: d, delegate: rt}
}

type dispatchRoundTripper struct {
	dispatcher *Dispatcher
	delegate   http.RoundTripper
}

type roundTripResult struct {
	resp *http.Response
	err  error
}

// RoundTrip implements http.RoundTripper. The request runs on a lazily
// spawned worker goroutine; the caller's context governs how long we wait
// for a slot and for the response.
func (t *dispatchRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	d := t.dispatcher
	ctx := req.Context()

	if d.sem != nil {
		select {
		case d.sem <- struct{}{}:
		case <-ctx.Done():
			metrics.DispatcherRequests.WithLabelValues(d.name, "canceled").Inc()
			return nil, ctx.Err()
		}
	}

	d.inFlight.Add(1)
	metrics.DispatcherInFlight.WithLabelValues(d.name).Inc()

	done := make(chan roundTripResult, 1)
	go func() {
		resp, err := t.delegate.RoundTrip(req)
		// accounting is released before the result is delivered
		d.inFlight.Add(-1)
		metrics.DispatcherInFlight.WithLabelValues(d.name).Dec()
		if d.sem != nil {
			<-d.sem
		}
		done <- roundTripResult{resp: resp, err: err}
	}()

	select {
	case result := <-done:
		if result.err != nil {
			metrics.DispatcherRequests.WithLabelValues(d.name, "error").Inc()
			return nil, result.err
		}
		metrics.DispatcherRequests.WithLabelValues(d.name, "success").Inc()
		return result.resp, nil
	case <-ctx.Done():
		d.log.Debugw("Request canceled before completion", "host", req.URL.Host)
		// The worker finishes on its own; discard its late result and close
		// the body so the underlying connection is not leaked.
		go func() {
			if result := <-done; result.resp != nil && result.resp.Body != nil {
				_ = result.resp.Body.Close()
			}
		}()
		metrics.DispatcherRequests.WithLabelValues(d.name, "canceled").Inc()
		return nil, ctx.Err()
	}
}
