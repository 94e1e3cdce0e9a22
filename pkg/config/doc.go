// Package config provides the flat key/value configuration lookup used when
// assembling Kubernetes client configurations, including the well-known
// authentication key suffixes and a YAML-backed Properties implementation.
package config
