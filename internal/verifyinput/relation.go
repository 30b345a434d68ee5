package verifyinput

import (
	"sort"
)

// PathSet is an immutable sorted set of paths.
type PathSet struct {
	items []string
}

func newPathSet(items []string) PathSet {
	sort.Strings(items)
	return PathSet{items: items}
}

// Has reports whether p is in the set.
func (s PathSet) Has(p string) bool {
	i := sort.SearchStrings(s.items, p)
	return i < len(s.items) && s.items[i] == p
}

// Len returns the number of paths.
func (s PathSet) Len() int {
	return len(s.items)
}

// Slice returns the paths in sorted order. The caller owns the slice.
func (s PathSet) Slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Each calls fn for every path in sorted order.
func (s PathSet) Each(fn func(string)) {
	for _, p := range s.items {
		fn(p)
	}
}

// Kind names one of the derived relations.
type Kind string

const (
	KindDependsOn           Kind = "depends-on"
	KindTransitiveDependsOn Kind = "transitive-depends-on"
	KindRequiredBy          Kind = "required-by"
	KindVerifiedWith        Kind = "verified-with"
)

// Kinds lists every relation kind.
func Kinds() []Kind {
	return []Kind{KindDependsOn, KindTransitiveDependsOn, KindRequiredBy, KindVerifiedWith}
}

// Relation maps every known path to a PathSet. It is read-only.
type Relation struct {
	kind  Kind
	paths []string
	sets  map[string]PathSet
}

// Kind returns which relation this is.
func (r *Relation) Kind() Kind {
	return r.kind
}

// Get returns the set for p, empty when p is unknown.
func (r *Relation) Get(p string) PathSet {
	return r.sets[p]
}

// Lookup returns the set for p and whether p is a known path.
func (r *Relation) Lookup(p string) (PathSet, bool) {
	s, ok := r.sets[p]
	return s, ok
}

// Paths returns every key of the relation in sorted order.
func (r *Relation) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Len returns the number of keys.
func (r *Relation) Len() int {
	return len(r.paths)
}

// Map returns a plain copy of the relation, keyed by path.
func (r *Relation) Map() map[string][]string {
	out := make(map[string][]string, len(r.paths))
	for _, p := range r.paths {
		out[p] = r.sets[p].Slice()
	}
	return out
}
