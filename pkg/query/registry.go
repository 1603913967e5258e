package query

import "github.com/m-mizutani/goerr/v2"

// Registry is the declarative table of endpoints of an API
type Registry struct {
	endpoints map[string]*Endpoint
	order     []*Endpoint
}

// NewRegistry builds a registry. Endpoint names must be unique.
func NewRegistry(endpoints ...*Endpoint) (*Registry, error) {
	r := &Registry{endpoints: make(map[string]*Endpoint, len(endpoints))}
	for _, ep := range endpoints {
		if _, ok := r.endpoints[ep.Name]; ok {
			return nil, goerr.Wrap(ErrDuplicateEndpoint, "failed to build registry", goerr.V(EndpointKey, ep.Name))
		}
		r.endpoints[ep.Name] = ep
		r.order = append(r.order, ep)
	}
	return r, nil
}

// Get looks up an endpoint by name
func (r *Registry) Get(name string) (*Endpoint, error) {
	ep, ok := r.endpoints[name]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownEndpoint, "failed to find endpoint", goerr.V(EndpointKey, name))
	}
	return ep, nil
}

// All returns the endpoints in declaration order
func (r *Registry) All() []*Endpoint {
	return append([]*Endpoint(nil), r.order...)
}
