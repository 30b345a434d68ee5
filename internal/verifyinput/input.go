package verifyinput

import (
	"fmt"
	"sort"
	"sync"
)

// Input is the dependency graph over tracked files. Edges point from a file
// to the files it depends on; cycles are allowed.
//
// Every path named as a dependency is a node, whether or not it was
// declared. Undeclared nodes behave as files with no dependencies and no
// verification.
//
// An Input is safe for concurrent use.
type Input struct {
	files map[string]File
	paths []string
	index map[string]int
	adj   [][]int

	sccOnce sync.Once
	comp    []int
	members [][]int
	cyclic  []bool

	dependsOnOnce  sync.Once
	dependsOn      *Relation
	transitiveOnce sync.Once
	transitive     *Relation
	requiredByOnce sync.Once
	requiredBy     *Relation
	verifiedOnce   sync.Once
	verifiedWith   *Relation
}

func newInput(files map[string]File) *Input {
	nodes := make(map[string]struct{}, len(files))
	for p, f := range files {
		nodes[p] = struct{}{}
		for _, d := range f.Dependencies {
			nodes[d] = struct{}{}
		}
	}
	paths := make([]string, 0, len(nodes))
	for p := range nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	index := make(map[string]int, len(paths))
	for i, p := range paths {
		index[p] = i
	}

	// Dependencies are sorted, so each adjacency list is sorted by index.
	adj := make([][]int, len(paths))
	for i, p := range paths {
		f, ok := files[p]
		if !ok {
			continue
		}
		adj[i] = make([]int, len(f.Dependencies))
		for j, d := range f.Dependencies {
			adj[i][j] = index[d]
		}
	}

	return &Input{files: files, paths: paths, index: index, adj: adj}
}

// Paths returns every node in sorted order, including undeclared
// dependency targets.
func (in *Input) Paths() []string {
	out := make([]string, len(in.paths))
	copy(out, in.paths)
	return out
}

// Len returns the number of nodes.
func (in *Input) Len() int {
	return len(in.paths)
}

// Has reports whether p is a node.
func (in *Input) Has(p string) bool {
	_, ok := in.index[p]
	return ok
}

// Declared reports whether p was declared, as opposed to only being
// referenced as a dependency.
func (in *Input) Declared(p string) bool {
	_, ok := in.files[p]
	return ok
}

// File returns the file at p. Undeclared nodes return an empty file with
// ok=true; unknown paths return ok=false.
func (in *Input) File(p string) (File, bool) {
	if f, ok := in.files[p]; ok {
		return f, true
	}
	if in.Has(p) {
		return File{Path: p, Dependencies: []string{}, DocumentAttributes: map[string]any{}}, true
	}
	return File{}, false
}

// Files returns the declared files in path order.
func (in *Input) Files() []File {
	out := make([]File, 0, len(in.files))
	for _, p := range in.paths {
		if f, ok := in.files[p]; ok {
			out = append(out, f)
		}
	}
	return out
}

// VerificationFiles returns the sorted paths of files that carry their own
// verification.
func (in *Input) VerificationFiles() []string {
	var out []string
	for _, p := range in.paths {
		if f, ok := in.files[p]; ok && f.IsVerification() {
			out = append(out, p)
		}
	}
	return out
}

// InCycle reports whether p reaches itself through one or more edges, i.e.
// it shares a strongly connected component with another node or depends on
// itself directly.
func (in *Input) InCycle(p string) bool {
	i, ok := in.index[p]
	if !ok {
		return false
	}
	in.computeComponents()
	return in.cyclic[in.comp[i]]
}

func (in *Input) computeComponents() {
	in.sccOnce.Do(func() {
		in.comp, in.members = components(in.adj)
		in.cyclic = make([]bool, len(in.members))
		for c, m := range in.members {
			if len(m) > 1 {
				in.cyclic[c] = true
				continue
			}
			v := m[0]
			for _, w := range in.adj[v] {
				if w == v {
					in.cyclic[c] = true
					break
				}
			}
		}
	})
}

// Relation returns the relation named by kind.
func (in *Input) Relation(kind Kind) (*Relation, error) {
	switch kind {
	case KindDependsOn:
		return in.DependsOn(), nil
	case KindTransitiveDependsOn:
		return in.TransitiveDependsOn(), nil
	case KindRequiredBy:
		return in.RequiredBy(), nil
	case KindVerifiedWith:
		return in.VerifiedWith(), nil
	default:
		return nil, fmt.Errorf("unknown relation %q", string(kind))
	}
}

// DependsOn maps each path to its direct dependencies.
func (in *Input) DependsOn() *Relation {
	in.dependsOnOnce.Do(func() {
		r := in.newRelation(KindDependsOn)
		for i, p := range in.paths {
			r.sets[p] = PathSet{items: in.names(in.adj[i])}
		}
		in.dependsOn = r
	})
	return in.dependsOn
}

// TransitiveDependsOn maps each path p to p itself plus every path
// reachable from p. Members of one strongly connected component share the
// same set.
func (in *Input) TransitiveDependsOn() *Relation {
	in.transitiveOnce.Do(func() {
		in.computeComponents()
		r := in.newRelation(KindTransitiveDependsOn)

		// Components come out of Tarjan sinks first, so every component a
		// member points to is finished before the member's own component.
		closures := make([]map[int]struct{}, len(in.members))
		for c, m := range in.members {
			reach := make(map[int]struct{}, len(m))
			for _, v := range m {
				reach[v] = struct{}{}
			}
			for _, v := range m {
				for _, w := range in.adj[v] {
					wc := in.comp[w]
					if wc == c {
						continue
					}
					for x := range closures[wc] {
						reach[x] = struct{}{}
					}
				}
			}
			closures[c] = reach

			idx := make([]int, 0, len(reach))
			for x := range reach {
				idx = append(idx, x)
			}
			set := newPathSet(in.names(idx))
			for _, v := range m {
				r.sets[in.paths[v]] = set
			}
		}
		in.transitive = r
	})
	return in.transitive
}

// RequiredBy maps each path p to the paths that depend on p directly.
func (in *Input) RequiredBy() *Relation {
	in.requiredByOnce.Do(func() {
		rev := make([][]int, len(in.paths))
		for v, ws := range in.adj {
			for _, w := range ws {
				rev[w] = append(rev[w], v)
			}
		}
		r := in.newRelation(KindRequiredBy)
		for i, p := range in.paths {
			r.sets[p] = PathSet{items: in.names(rev[i])}
		}
		in.requiredBy = r
	})
	return in.requiredBy
}

// VerifiedWith maps each path p to the verification files whose check
// transitively exercises p. A verification file appears in its own set only
// when it lies on a cycle.
func (in *Input) VerifiedWith() *Relation {
	in.verifiedOnce.Do(func() {
		trans := in.TransitiveDependsOn()
		acc := make(map[string][]string, len(in.paths))
		for _, q := range in.VerificationFiles() {
			self := in.InCycle(q)
			trans.Get(q).Each(func(p string) {
				if p != q || self {
					acc[p] = append(acc[p], q)
				}
			})
		}
		r := in.newRelation(KindVerifiedWith)
		for _, p := range in.paths {
			r.sets[p] = newPathSet(acc[p])
		}
		in.verifiedWith = r
	})
	return in.verifiedWith
}

func (in *Input) newRelation(kind Kind) *Relation {
	return &Relation{
		kind:  kind,
		paths: in.paths,
		sets:  make(map[string]PathSet, len(in.paths)),
	}
}

// names maps node indices to paths. Indices follow sorted path order, so
// sorted indices give sorted names.
func (in *Input) names(idx []int) []string {
	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.Ints(sorted)
	out := make([]string, len(sorted))
	for i, v := range sorted {
		out[i] = in.paths[v]
	}
	return out
}
