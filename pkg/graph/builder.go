package graph

// Seal freezes the graph and builds the CSR out-edge index.
// Calling Seal more than once is a no-op.
func (g *Graph) Seal() {
	if g.sealed {
		return
	}

	numVertices := g.numVertices
	numEdges := uint32(len(g.edges))

	// Step 1: Count out-degree per vertex.
	firstOut := make([]uint32, numVertices+1)
	for _, e := range g.edges {
		firstOut[e.From+1]++
	}

	// Step 2: Prefix sum.
	for i := uint32(1); i <= numVertices; i++ {
		firstOut[i] += firstOut[i-1]
	}

	// Step 3: Place edge ids in id order, keeping insertion order within a source.
	outEdges := make([]EdgeID, numEdges)
	pos := make([]uint32, numVertices)
	copy(pos, firstOut[:numVertices])
	for id, e := range g.edges {
		outEdges[pos[e.From]] = EdgeID(id)
		pos[e.From]++
	}

	g.firstOut = firstOut
	g.outEdges = outEdges
	g.sealed = true
}
