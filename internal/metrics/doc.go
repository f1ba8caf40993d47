// Package metrics exposes Prometheus counters for the properties panel and
// the error feed server.
package metrics
