/*
Package http serves a live view of a running simulation.

Live is a plotter that keeps the latest frame and pushes a status event to
server-sent-event subscribers on every update. NewHandler exposes it, the
stored frames of a FrameStore and the Prometheus registry over a chi router.
*/
package http
