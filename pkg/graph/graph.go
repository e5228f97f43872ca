package graph

import (
	"fmt"
	"math"
)

// VertexID addresses a vertex in [0, NumVertices).
type VertexID uint32

// EdgeID is the sequential identifier returned by AddEdge.
type EdgeID uint32

// Edge is a directed weighted edge.
type Edge struct {
	From   VertexID
	To     VertexID
	Weight float64
}

// Graph is a directed graph with a fixed vertex set and an append-only edge list.
// Once sealed it is immutable and exposes a CSR (Compressed Sparse Row) out-edge index.
type Graph struct {
	numVertices uint32
	edges       []Edge

	sealed   bool
	firstOut []uint32 // len: NumVertices + 1; firstOut[v]..firstOut[v+1] index outEdges for v
	outEdges []EdgeID // len: NumEdges; edge ids grouped by source, insertion order within a source
}

// New creates a graph with n vertices and no edges.
func New(n uint32) *Graph {
	return &Graph{numVertices: n}
}

// NumVertices returns the fixed vertex count.
func (g *Graph) NumVertices() uint32 { return g.numVertices }

// NumEdges returns the number of edges added so far.
func (g *Graph) NumEdges() uint32 { return uint32(len(g.edges)) }

// Sealed reports whether the graph has been frozen.
func (g *Graph) Sealed() bool { return g.sealed }

// AddEdge appends an edge and returns its id. Ids start at 0 and increase by one.
// Panics on out-of-range vertices, a negative or NaN weight, or a sealed graph.
func (g *Graph) AddEdge(from, to VertexID, weight float64) EdgeID {
	if g.sealed {
		panic("graph: AddEdge on sealed graph")
	}
	if uint32(from) >= g.numVertices || uint32(to) >= g.numVertices {
		panic(fmt.Sprintf("graph: edge %d->%d out of range [0,%d)", from, to, g.numVertices))
	}
	if weight < 0 || math.IsNaN(weight) {
		panic(fmt.Sprintf("graph: invalid weight %v", weight))
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	return id
}

// Edge returns the edge with the given id. Panics if id was never returned by AddEdge.
func (g *Graph) Edge(id EdgeID) Edge {
	if int(id) >= len(g.edges) {
		panic(fmt.Sprintf("graph: unknown edge %d", id))
	}
	return g.edges[id]
}

// EdgesFrom returns the ids of edges leaving v, in insertion order.
// Only valid after Seal.
func (g *Graph) EdgesFrom(v VertexID) []EdgeID {
	if !g.sealed {
		panic("graph: EdgesFrom on unsealed graph")
	}
	return g.outEdges[g.firstOut[v]:g.firstOut[v+1]]
}
