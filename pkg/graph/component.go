package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // rank never exceeds log2(n)
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Components labels the weakly connected components of a graph
// (edges treated as undirected). Two vertices in different components
// can never reach each other.
type Components struct {
	label []uint32 // component index per vertex, dense from 0
	sizes []uint32 // vertex count per component
}

// WeakComponents computes the weakly connected components of g.
func WeakComponents(g *Graph) *Components {
	n := g.NumVertices()
	uf := NewUnionFind(n)
	for _, e := range g.edges {
		uf.Union(uint32(e.From), uint32(e.To))
	}

	// Renumber roots densely in vertex order so labels are deterministic.
	rootLabel := make(map[uint32]uint32)
	c := &Components{label: make([]uint32, n)}
	for v := range n {
		root := uf.Find(v)
		idx, ok := rootLabel[root]
		if !ok {
			idx = uint32(len(c.sizes))
			rootLabel[root] = idx
			c.sizes = append(c.sizes, 0)
		}
		c.label[v] = idx
		c.sizes[idx]++
	}
	return c
}

// Count returns the number of components.
func (c *Components) Count() int { return len(c.sizes) }

// Same reports whether u and v are in the same component.
func (c *Components) Same(u, v VertexID) bool {
	return c.label[u] == c.label[v]
}

// Largest returns the vertex count of the biggest component, 0 for an empty graph.
func (c *Components) Largest() uint32 {
	var best uint32
	for _, s := range c.sizes {
		best = max(best, s)
	}
	return best
}
