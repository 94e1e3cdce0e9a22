// Package auth resolves the single applicable credential source for a
// Kubernetes client from layered configuration, and provides the token
// provider registry plus built-in static, file-backed, and OIDC
// client-credentials providers.
package auth
