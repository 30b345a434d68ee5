package verifyinput

// components partitions the graph given by adj into strongly connected
// components using Tarjan's algorithm. comp[v] is the component index of v.
// Components are numbered in the order Tarjan emits them, which is reverse
// topological: every edge u->v has comp[u] >= comp[v].
func components(adj [][]int) (comp []int, members [][]int) {
	n := len(adj)
	const unvisited = -1

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	comp = make([]int, n)
	for i := range index {
		index[i] = unvisited
	}

	var (
		stack []int
		next  int
	)

	var visit func(v int)
	visit = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			switch {
			case index[w] == unvisited:
				visit(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		c := len(members)
		var group []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp[w] = c
			group = append(group, w)
			if w == v {
				break
			}
		}
		members = append(members, group)
	}

	for v := 0; v < n; v++ {
		if index[v] == unvisited {
			visit(v)
		}
	}
	return comp, members
}
