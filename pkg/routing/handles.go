package routing

import "transit_router/pkg/graph"

// RouteID is an opaque route handle: slot index in the low 32 bits,
// slot generation in the high 32 bits. The zero value is never valid.
type RouteID uint64

func makeRouteID(slot, gen uint32) RouteID {
	return RouteID(uint64(gen)<<32 | uint64(slot))
}

func (id RouteID) slot() uint32 { return uint32(id) }
func (id RouteID) gen() uint32  { return uint32(id >> 32) }

type routeSlot struct {
	gen   uint32 // bumped on every release so stale ids never match
	live  bool
	edges []graph.EdgeID
}

// slotTable stores reconstructed paths between BuildRoute and ReleaseRoute.
// Released slots are recycled through a free list.
type slotTable struct {
	slots  []routeSlot
	free   []uint32
	active int
}

func (st *slotTable) alloc(edges []graph.EdgeID) RouteID {
	var idx uint32
	if n := len(st.free); n > 0 {
		idx = st.free[n-1]
		st.free = st.free[:n-1]
	} else {
		idx = uint32(len(st.slots))
		st.slots = append(st.slots, routeSlot{gen: 1})
	}

	s := &st.slots[idx]
	s.live = true
	s.edges = edges
	st.active++
	return makeRouteID(idx, s.gen)
}

func (st *slotTable) get(id RouteID) (*routeSlot, bool) {
	idx := id.slot()
	if int(idx) >= len(st.slots) {
		return nil, false
	}
	s := &st.slots[idx]
	if !s.live || s.gen != id.gen() {
		return nil, false
	}
	return s, true
}

func (st *slotTable) release(id RouteID) bool {
	s, ok := st.get(id)
	if !ok {
		return false
	}
	s.live = false
	s.edges = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1 // keep the zero RouteID invalid after wrap-around
	}
	st.free = append(st.free, id.slot())
	st.active--
	return true
}
