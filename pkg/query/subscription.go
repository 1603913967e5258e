package query

import (
	"context"
	"sync"
)

// Status is the lifecycle state of a subscription
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSkipped Status = "skipped"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of a subscription. Data keeps the last successful
// result while loading or after an error.
type State struct {
	Status Status
	Data   any
	Err    error
}

// SubscribeOption configures a subscription
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	skip bool
}

// Skip keeps the subscription inactive. No request is issued.
func Skip(skip bool) SubscribeOption {
	return func(o *subscribeOptions) {
		o.skip = skip
	}
}

// Subscription is a mounted consumer of a cache entry. It is refetched in
// the background when the entry is invalidated or the cache is reset.
type Subscription struct {
	cache    *Cache
	endpoint *Endpoint
	fetch    FetchFunc

	// guarded by cache.mu
	key    string
	params Params
	gen    uint64

	mu      sync.Mutex
	state   State
	closed  bool
	updates chan State
}

// Subscribe mounts a consumer of the call and starts fetching unless the
// result is cached or the subscription is skipped.
func (c *Cache) Subscribe(ctx context.Context, ep *Endpoint, p Params, fetch FetchFunc, opts ...SubscribeOption) *Subscription {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Subscription{
		cache:    c,
		endpoint: ep,
		fetch:    fetch,
		state:    State{Status: StatusIdle},
		updates:  make(chan State, 1),
	}
	s.bind(ctx, p, o.skip)
	return s
}

// State returns the current state
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates streams state changes. Only the latest pending state is kept and
// the channel is closed by Close.
func (s *Subscription) Updates() <-chan State {
	return s.updates
}

// Params returns the arguments the subscription is bound to
func (s *Subscription) Params() Params {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	return s.params.Clone()
}

// Rebind moves the subscription to new arguments. Binding to the current
// arguments again is a no-op.
func (s *Subscription) Rebind(ctx context.Context, p Params, skip bool) {
	s.bind(ctx, p, skip)
}

// Close unmounts the subscription. A response arriving afterwards is
// dropped.
func (s *Subscription) Close() {
	c := s.cache
	c.mu.Lock()
	s.unbind()
	c.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}

func (s *Subscription) bind(ctx context.Context, p Params, skip bool) {
	c := s.cache
	c.mu.Lock()
	defer c.mu.Unlock()

	key := s.endpoint.Key(p)
	if !skip && s.key == key && s.gen == c.generation {
		return
	}

	s.unbind()
	s.params = p.Clone()
	s.gen = c.generation

	if skip {
		s.set(State{Status: StatusSkipped})
		return
	}

	e := c.lookup(key, s.endpoint, p, s.fetch)
	e.subs[s] = struct{}{}
	s.key = key

	if e.valid {
		s.set(State{Status: StatusSuccess, Data: e.data})
		return
	}

	s.set(State{Status: StatusLoading, Data: e.data})
	c.refetch(ctx, s.endpoint, p, s.fetch, c.generation)
}

// unbind must be called with cache.mu held
func (s *Subscription) unbind() {
	if s.key == "" {
		return
	}
	if e, ok := s.cache.entries[s.key]; ok {
		delete(e.subs, s)
	}
	s.key = ""
}

func (s *Subscription) set(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.state = state
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- state:
	default:
	}
}
