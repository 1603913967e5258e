package query

import (
	"fmt"
	"sort"
)

// ListID is the tag ID that stands for a whole collection
const ListID = "LIST"

// Tag labels cached data. A query provides tags and a mutation
// invalidates them.
type Tag struct {
	Type string
	ID   string
}

func (t Tag) String() string {
	return t.Type + ":" + t.ID
}

// ItemTag returns the tag of a single entity
func ItemTag(typ string, id any) Tag {
	return Tag{Type: typ, ID: fmt.Sprint(id)}
}

// ListTag returns the collection tag of typ
func ListTag(typ string) Tag {
	return Tag{Type: typ, ID: ListID}
}

// Params are the arguments of an endpoint call. Values are kept as
// strings since they end up in paths, query strings and cache keys.
type Params map[string]string

// Clone returns a copy that the caller may modify
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

func (p Params) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TagRule derives tags from the call arguments and the result
type TagRule func(p Params, result any) []Tag

// Identified is implemented by results that can be tagged per item
type Identified interface {
	TagIDs() []string
}

// ListOf tags every item of the result plus the collection
func ListOf(typ string) TagRule {
	return func(p Params, result any) []Tag {
		return append(ResultOf(typ)(p, result), ListTag(typ))
	}
}

// ResultOf tags every item of the result
func ResultOf(typ string) TagRule {
	return func(_ Params, result any) []Tag {
		v, ok := result.(Identified)
		if !ok {
			return nil
		}
		var tags []Tag
		for _, id := range v.TagIDs() {
			tags = append(tags, ItemTag(typ, id))
		}
		return tags
	}
}

// ItemOf tags the entity whose ID is given by the param argument
func ItemOf(typ, param string) TagRule {
	return func(p Params, _ any) []Tag {
		id, ok := p[param]
		if !ok || id == "" {
			return nil
		}
		return []Tag{ItemTag(typ, id)}
	}
}

// CollectionOf tags the collection of typ
func CollectionOf(typ string) TagRule {
	return func(Params, any) []Tag {
		return []Tag{ListTag(typ)}
	}
}

func applyRules(rules []TagRule, p Params, result any) []Tag {
	var tags []Tag
	for _, rule := range rules {
		tags = append(tags, rule(p, result)...)
	}
	return tags
}
