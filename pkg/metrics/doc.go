// Package metrics defines Prometheus metrics for client construction,
// credential resolution, and transport dispatcher activity.
package metrics
