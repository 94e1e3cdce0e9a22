// Package factory assembles authenticated Kubernetes client handles from an
// auto-discovered kubeconfig base, explicit overrides, and a resolved
// credential source, binding each client to its own transport dispatcher.
package factory
