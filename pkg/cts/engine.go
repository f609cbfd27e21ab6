package cts

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// cancelCheckEvery is how many events are processed between context checks.
const cancelCheckEvery = 512

// Engine is a raster continuous-time automaton.
type Engine struct {
	grid    ports.Grid
	links   []ports.Link
	names   map[domain.NodeState]string
	nstates int

	rules      [][]domain.Transition // Indexed by PairState.Index(nstates)
	states     []domain.NodeState
	linkState  []int
	nextUpdate []float64
	queue      eventQueue

	now   float64
	fired uint64

	rng    *rand.Rand
	logger *slog.Logger
	hook   func(domain.TransitionEvent)
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSeed makes the event sequence reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x5eed))
	}
}

// WithRand injects a random source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTransitionHook registers a callback invoked after each transition
// when Run is asked to report every transition.
func WithTransitionHook(fn func(domain.TransitionEvent)) Option {
	return func(e *Engine) {
		e.hook = fn
	}
}

// New builds an engine over g with the given state labels, rules and initial states.
// states becomes the live node-state array and is mutated by Run.
func New(g ports.Grid, names map[domain.NodeState]string, xns []domain.Transition, states []domain.NodeState, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is required", domain.ErrInvalidGrid)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no state labels", domain.ErrInvalidState)
	}
	if err := domain.ValidateTransitions(xns); err != nil {
		return nil, err
	}

	e := &Engine{
		grid:  g,
		links: g.ActiveLinks(),
		names: names,
	}
	for s := range names {
		e.nstates = max(e.nstates, int(s)+1)
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	e.rules = make([][]domain.Transition, 2*e.nstates*e.nstates)
	for _, xn := range xns {
		for _, s := range []domain.NodeState{xn.From.Tail, xn.From.Head, xn.To.Tail, xn.To.Head} {
			if _, ok := names[s]; !ok {
				return nil, fmt.Errorf("%w: rule %q uses unknown state %d", domain.ErrInvalidTransition, xn.Name, s)
			}
		}
		if xn.From.Orientation > domain.Vertical {
			return nil, fmt.Errorf("%w: rule %q has orientation %d", domain.ErrInvalidTransition, xn.Name, xn.From.Orientation)
		}
		idx := xn.From.Index(e.nstates)
		e.rules[idx] = append(e.rules[idx], xn)
	}

	if err := e.adopt(states); err != nil {
		return nil, err
	}
	e.logger.Debug("engine ready", "nodes", g.NumNodes(), "active_links", len(e.links), "rules", len(xns))
	return e, nil
}

// NodeState returns the live node-state array.
func (e *Engine) NodeState() []domain.NodeState { return e.states }

// Time returns the current simulated time.
func (e *Engine) Time() float64 { return e.now }

// Transitions returns the number of transitions fired so far.
func (e *Engine) Transitions() uint64 { return e.fired }

// Run processes every event up to and including simulated time until.
// Passing a different array than NodeState() makes it the live array.
func (e *Engine) Run(ctx context.Context, until float64, states []domain.NodeState, plotEachTransition bool) error {
	if states != nil && !sameArray(states, e.states) {
		if err := e.adopt(states); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := e.fired
	processed := 0
	for len(e.queue) > 0 && e.queue[0].time <= until {
		ev := heap.Pop(&e.queue).(event)
		if ev.time != e.nextUpdate[ev.link] {
			continue // superseded
		}
		e.now = ev.time
		e.apply(ev, plotEachTransition)

		processed++
		if processed%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	if until > e.now {
		e.now = until
	}
	e.logger.Debug("engine advanced", "until", until, "transitions", e.fired-start, "pending", len(e.queue))
	return nil
}

// adopt makes states the live array and rebuilds every link state and event.
func (e *Engine) adopt(states []domain.NodeState) error {
	if len(states) != e.grid.NumNodes() {
		return fmt.Errorf("%w: %d states for %d nodes", domain.ErrInvalidState, len(states), e.grid.NumNodes())
	}
	for i, s := range states {
		if _, ok := e.names[s]; !ok {
			return fmt.Errorf("%w: node %d has unknown state %d", domain.ErrInvalidState, i, s)
		}
	}
	e.states = states
	e.linkState = make([]int, len(e.links))
	e.nextUpdate = make([]float64, len(e.links))
	e.queue = e.queue[:0]
	for i := range e.links {
		e.linkState[i] = e.pairOf(i).Index(e.nstates)
		e.schedule(i)
	}
	heap.Init(&e.queue)
	return nil
}

func (e *Engine) pairOf(link int) domain.PairState {
	l := e.links[link]
	return domain.Pair(e.states[l.Tail], e.states[l.Head], l.Orientation)
}

// schedule draws the next event of a link from its current state.
func (e *Engine) schedule(link int) {
	rules := e.rules[e.linkState[link]]
	if len(rules) == 0 {
		e.nextUpdate[link] = math.Inf(1)
		return
	}
	best, bestDt := 0, math.Inf(1)
	for i, xn := range rules {
		dt := e.rng.ExpFloat64() / xn.Rate
		if dt < bestDt {
			best, bestDt = i, dt
		}
	}
	ev := event{time: e.now + bestDt, link: link, xn: best}
	e.nextUpdate[link] = ev.time
	heap.Push(&e.queue, ev)
}

func (e *Engine) apply(ev event, report bool) {
	xn := e.rules[e.linkState[ev.link]][ev.xn]
	l := e.links[ev.link]

	tailChanged := e.states[l.Tail] != xn.To.Tail
	headChanged := e.states[l.Head] != xn.To.Head
	e.states[l.Tail] = xn.To.Tail
	e.states[l.Head] = xn.To.Head
	e.fired++

	e.linkState[ev.link] = xn.To.Index(e.nstates)
	e.schedule(ev.link)

	if tailChanged {
		e.refreshNeighbors(l.Tail, ev.link)
	}
	if headChanged {
		e.refreshNeighbors(l.Head, ev.link)
	}

	if report && e.hook != nil {
		e.hook(domain.TransitionEvent{Time: e.now, Link: ev.link, Tail: l.Tail, Head: l.Head, Rule: xn})
	}
}

// refreshNeighbors reschedules the links of node whose state changed.
func (e *Engine) refreshNeighbors(node, skip int) {
	for _, lid := range e.grid.NodeLinks(node) {
		if lid == skip {
			continue
		}
		s := e.pairOf(lid).Index(e.nstates)
		if s == e.linkState[lid] {
			continue
		}
		e.linkState[lid] = s
		e.schedule(lid)
	}
}

func sameArray(a, b []domain.NodeState) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
