/*
Package cts implements a continuous-time stochastic cellular automaton on a raster grid.

Transitions act on links: the state of a link is the pair (tail state, head state)
plus its orientation. Every active link whose state has outgoing rules holds one
pending event, drawn from exponential waiting times with the rule rates. Events
are processed in simulated-time order; when a transition changes a node, every
link touching that node is re-evaluated and rescheduled, and the superseded
events are discarded lazily when they reach the head of the queue.
*/
package cts
