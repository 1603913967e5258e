package query

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Endpoint declares one logical operation of a REST API together with the
// tags it provides (queries) or invalidates (mutations).
type Endpoint struct {
	Name   string
	Method string
	// Path may contain {param} placeholders
	Path string
	// Query lists the params sent as query string
	Query       []string
	Provides    []TagRule
	Invalidates []TagRule
}

// IsMutation reports whether the endpoint changes server state
func (e *Endpoint) IsMutation() bool {
	return e.Method != "" && e.Method != http.MethodGet
}

// URL expands the path template and appends the query string
func (e *Endpoint) URL(p Params) (string, error) {
	var b strings.Builder
	rest := e.Path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", goerr.New("unterminated path parameter", goerr.V(EndpointKey, e.Name))
		}
		name := rest[open+1 : open+end]
		v, ok := p[name]
		if !ok || v == "" {
			return "", goerr.Wrap(ErrMissingParam, "cannot build request path",
				goerr.V(EndpointKey, e.Name), goerr.V(ParamKey, name))
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(v))
		rest = rest[open+end+1:]
	}

	values := url.Values{}
	for _, name := range e.Query {
		if v, ok := p[name]; ok {
			values.Set(name, v)
		}
	}
	if len(values) > 0 {
		b.WriteString("?")
		b.WriteString(values.Encode())
	}
	return b.String(), nil
}

// Key returns the cache key of a call. Params are sorted so that equal
// arguments always map to the same entry.
func (e *Endpoint) Key(p Params) string {
	if len(p) == 0 {
		return e.Name
	}
	parts := make([]string, 0, len(p))
	for _, k := range p.sortedKeys() {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(p[k]))
	}
	return e.Name + "?" + strings.Join(parts, "&")
}

// ProvidedTags returns the tags of a query result
func (e *Endpoint) ProvidedTags(p Params, result any) []Tag {
	return applyRules(e.Provides, p, result)
}

// InvalidatedTags returns the tags a successful mutation invalidates
func (e *Endpoint) InvalidatedTags(p Params, result any) []Tag {
	return applyRules(e.Invalidates, p, result)
}

// ParamNames returns the path placeholders followed by the query params
func (e *Endpoint) ParamNames() []string {
	var names []string
	rest := e.Path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		names = append(names, rest[open+1:open+end])
		rest = rest[open+end+1:]
	}
	return append(names, e.Query...)
}
