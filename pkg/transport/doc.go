// Package transport provides the per-client request dispatcher that backs
// constructed Kubernetes clients: a named, instrumented RoundTripper wrapper
// running requests on lazily spawned worker goroutines.
package transport
