/*
Package observability provides tools for monitoring a weathering simulation.

It exposes Prometheus collectors on a private registry and lifecycle hooks that
log each run phase with slog and feed the collectors.
*/
package observability
