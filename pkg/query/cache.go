package query

import (
	"context"
	"strconv"
	"sync"

	"github.com/secmon-lab/juno/pkg/utils/async"
	"github.com/secmon-lab/juno/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the data of an endpoint call from the network
type FetchFunc func(ctx context.Context, p Params) (any, error)

// MutateFunc performs a mutation and returns the decoded response
type MutateFunc func(ctx context.Context, p Params) (any, error)

type entry struct {
	key      string
	endpoint *Endpoint
	params   Params
	fetch    FetchFunc

	data  any
	tags  map[Tag]struct{}
	valid bool
	subs  map[*Subscription]struct{}

	// round is part of the flight key. It moves on when a response turns
	// out stale so the next load does not join the stale flight.
	round    uint64
	inflight int
	missed   []map[Tag]struct{}
}

func (e *entry) matches(tags map[Tag]struct{}) bool {
	return overlaps(e.tags, tags)
}

// stale reports whether an invalidation received during the flight hits
// the tags of the old or the new data
func (e *entry) stale(provided map[Tag]struct{}) bool {
	for _, set := range e.missed {
		if overlaps(e.tags, set) || overlaps(provided, set) {
			return true
		}
	}
	return false
}

func (e *entry) finish() {
	if e.inflight > 0 {
		e.inflight--
	}
	if e.inflight == 0 {
		e.missed = nil
	}
}

func overlaps(a, b map[Tag]struct{}) bool {
	for tag := range a {
		if _, ok := b[tag]; ok {
			return true
		}
	}
	return false
}

// Cache holds query results keyed by endpoint and params. Results are
// labelled with tags and dropped when a mutation invalidates one of them.
// Cached values are shared between callers and must not be modified.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	generation uint64
	group      singleflight.Group
	background sync.WaitGroup
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Query returns the cached result of the call or fetches it. Concurrent
// identical calls share one fetch. Errors are returned but never cached.
func (c *Cache) Query(ctx context.Context, ep *Endpoint, p Params, fetch FetchFunc) (any, error) {
	key := ep.Key(p)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.valid {
		data := e.data
		c.mu.Unlock()
		logging.From(ctx).Debug("cache hit", "key", key)
		return data, nil
	}
	gen := c.generation
	c.mu.Unlock()

	return c.load(ctx, ep, p, fetch, gen)
}

// Cached returns the valid cached result of the call, if any
func (c *Cache) Cached(ep *Endpoint, p Params) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ep.Key(p)]
	if !ok || !e.valid {
		return nil, false
	}
	return e.data, true
}

// Mutate runs a mutation and invalidates the endpoint's tags on success.
// Nothing is invalidated when the mutation fails.
func (c *Cache) Mutate(ctx context.Context, ep *Endpoint, p Params, do MutateFunc) (any, error) {
	result, err := do(ctx, p)
	if err != nil {
		return nil, err
	}

	c.Invalidate(ctx, ep.InvalidatedTags(p, result)...)
	return result, nil
}

// Invalidate marks every entry sharing a tag with tags as stale. Entries
// with mounted subscriptions are refetched in the background, the others
// on their next Query. A fetch in flight is checked against tags when its
// response arrives.
func (c *Cache) Invalidate(ctx context.Context, tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	set := make(map[Tag]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var refetched int
	for _, e := range c.entries {
		if e.inflight > 0 {
			e.missed = append(e.missed, set)
		}
		if !e.valid || !e.matches(set) {
			continue
		}
		e.valid = false
		if len(e.subs) > 0 {
			c.refetch(ctx, e.endpoint, e.params, e.fetch, c.generation)
			refetched++
		}
	}
	logging.From(ctx).Debug("cache invalidated", "tags", tags, "refetch", refetched)
}

// Reset drops every entry. Responses of calls started before the reset are
// discarded. Mounted subscriptions keep their arguments and fetch again
// without the previous data.
func (c *Cache) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	old := c.entries
	c.entries = make(map[string]*entry)

	var rebound int
	for _, prev := range old {
		if len(prev.subs) == 0 {
			continue
		}
		e := c.lookup(prev.key, prev.endpoint, prev.params, prev.fetch)
		for s := range prev.subs {
			s.gen = c.generation
			e.subs[s] = struct{}{}
			s.set(State{Status: StatusLoading})
			rebound++
		}
		c.refetch(ctx, e.endpoint, e.params, e.fetch, c.generation)
	}
	logging.From(ctx).Debug("cache reset", "generation", c.generation, "rebound", rebound)
}

// Wait blocks until background refetches have finished
func (c *Cache) Wait() {
	c.background.Wait()
}

func (c *Cache) refetch(ctx context.Context, ep *Endpoint, p Params, fetch FetchFunc, gen uint64) {
	c.background.Add(1)
	async.Dispatch(ctx, "refetch "+ep.Name, func(ctx context.Context) error {
		defer c.background.Done()
		_, err := c.load(ctx, ep, p, fetch, gen)
		return err
	})
}

func (c *Cache) load(ctx context.Context, ep *Endpoint, p Params, fetch FetchFunc, gen uint64) (any, error) {
	key := ep.Key(p)

	c.mu.Lock()
	var round uint64
	if e, ok := c.entries[key]; ok {
		round = e.round
	}
	c.mu.Unlock()
	flight := strconv.FormatUint(gen, 10) + "/" + strconv.FormatUint(round, 10) + "/" + key

	v, err, shared := c.group.Do(flight, func() (any, error) {
		logging.From(ctx).Debug("cache fetch", "key", key)
		c.begin(gen, ep, p, key, fetch)
		data, err := fetch(ctx, p)
		if err != nil {
			c.fail(gen, key, err)
			return nil, err
		}
		c.store(ctx, gen, ep, p, key, fetch, data)
		return data, nil
	})
	if shared {
		logging.From(ctx).Debug("joined in-flight fetch", "key", key)
	}
	return v, err
}

func (c *Cache) lookup(key string, ep *Endpoint, p Params, fetch FetchFunc) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			key:      key,
			endpoint: ep,
			params:   p.Clone(),
			subs:     make(map[*Subscription]struct{}),
		}
		c.entries[key] = e
	}
	if fetch != nil {
		e.fetch = fetch
	}
	return e
}

func (c *Cache) begin(gen uint64, ep *Endpoint, p Params, key string, fetch FetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.lookup(key, ep, p, fetch).inflight++
}

func (c *Cache) store(ctx context.Context, gen uint64, ep *Endpoint, p Params, key string, fetch FetchFunc, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}

	provided := make(map[Tag]struct{})
	for _, tag := range ep.ProvidedTags(p, data) {
		provided[tag] = struct{}{}
	}

	e := c.lookup(key, ep, p, fetch)
	stale := e.stale(provided)
	e.finish()
	e.data = data
	e.tags = provided

	if stale {
		e.valid = false
		e.round++
		logging.From(ctx).Debug("response invalidated in flight", "key", key, "refetch", len(e.subs) > 0)
		if len(e.subs) > 0 {
			for s := range e.subs {
				s.set(State{Status: StatusLoading, Data: data})
			}
			c.refetch(ctx, ep, p, e.fetch, gen)
		}
		return
	}

	e.valid = true
	for s := range e.subs {
		s.set(State{Status: StatusSuccess, Data: data})
	}
}

func (c *Cache) fail(gen uint64, key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.finish()
	for s := range e.subs {
		s.set(State{Status: StatusError, Data: e.data, Err: err})
	}
}
