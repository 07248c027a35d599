// Package frames implements the tiling layout tree: an arena of Frame nodes
// addressed by generation-checked handles, plus the packing and searching
// algorithms that operate over it. The tree is single-thread-owned; nothing
// in this package takes a lock, matching the ownership model where only the
// Exhibitor's goroutine ever touches it.
package frames

import (
	"github.com/darkelement/perceptia/internal/metrics"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

// Geometry is the arrangement rule a directed frame imposes on its children.
type Geometry int

const (
	Horizontal Geometry = iota
	Vertical
	Stacked
	Floating
)

func (g Geometry) String() string {
	switch g {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case Stacked:
		return "Stacked"
	case Floating:
		return "Floating"
	default:
		return "Unknown"
	}
}

// Mode is a frame's role in the hierarchy.
type Mode int

const (
	ModeRoot Mode = iota
	ModeDisplay
	ModeWorkspace
	ModeContainer
	ModeLeaf
)

func (m Mode) String() string {
	switch m {
	case ModeRoot:
		return "Root"
	case ModeDisplay:
		return "Display"
	case ModeWorkspace:
		return "Workspace"
	case ModeContainer:
		return "Container"
	case ModeLeaf:
		return "Leaf"
	default:
		return "Unknown"
	}
}

// isTop reports whether m is one of the modes find_contiguous/find_top treat
// as the ceiling of directional navigation.
func isTop(m Mode) bool {
	return m == ModeDisplay || m == ModeWorkspace
}

// Handle addresses one node in an Arena. The zero Handle is never valid: a
// node's generation is incremented past zero on first allocation, so a
// zero-value Handle can never collide with a live node. Presenting a Handle
// whose generation no longer matches the arena's record for that index (the
// slot was freed and possibly reused) fails every Arena lookup, so accessors
// return their fallback values, turning a use-after-free into a detectable
// error instead of undefined behavior.
type Handle struct {
	index      uint32
	generation uint32
}

// IsValid reports whether h was ever issued by an Arena. It does not by
// itself guarantee the node is still alive in that Arena — pass the handle
// to an Arena method, which validates the generation.
func (h Handle) IsValid() bool {
	return h.generation != 0
}

type node struct {
	generation uint32
	alive      bool

	geometry Geometry
	mode     Mode
	area     ids.Area
	sid      ids.SurfaceId

	parent Handle

	firstChildSpatial, lastChildSpatial   Handle
	firstChildTemporal, lastChildTemporal Handle
	numChildren                           int

	prevSpatial, nextSpatial   Handle
	prevTemporal, nextTemporal Handle
}

// Arena owns every Frame node's storage. A node belongs to at most one
// Arena and is addressed only through the Handle it was allocated with.
type Arena struct {
	nodes []node
	free  []uint32
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// alloc reserves a fresh node, reusing a freed slot when available, and
// returns its handle. The caller must fill in the returned node's fields.
func (a *Arena) alloc() (Handle, *node) {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node{})
		idx = uint32(len(a.nodes) - 1)
	}

	n := &a.nodes[idx]
	n.generation++
	n.alive = true
	n.parent = Handle{}
	n.firstChildSpatial, n.lastChildSpatial = Handle{}, Handle{}
	n.firstChildTemporal, n.lastChildTemporal = Handle{}, Handle{}
	n.prevSpatial, n.nextSpatial = Handle{}, Handle{}
	n.prevTemporal, n.nextTemporal = Handle{}, Handle{}
	n.numChildren = 0

	metrics.SetFrameCount(len(a.nodes) - len(a.free))
	return Handle{index: idx, generation: n.generation}, n
}

// release returns h's slot to the free list. The node's generation is left
// incremented (done on next alloc) so any Handle still referencing this slot
// fails validation rather than resolving to the new occupant.
func (a *Arena) release(h Handle) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	n.alive = false
	a.free = append(a.free, h.index)
	metrics.SetFrameCount(len(a.nodes) - len(a.free))
}

// get resolves h to its node, validating bounds, generation and liveness.
func (a *Arena) get(h Handle) (*node, bool) {
	if !h.IsValid() || int(h.index) >= len(a.nodes) {
		return nil, false
	}
	n := &a.nodes[h.index]
	if !n.alive || n.generation != h.generation {
		return nil, false
	}
	return n, true
}

// Geometry returns h's geometry, or Floating if h is stale.
func (a *Arena) Geometry(h Handle) Geometry {
	n, ok := a.get(h)
	if !ok {
		return Floating
	}
	return n.geometry
}

// Mode returns h's mode, or ModeLeaf if h is stale.
func (a *Arena) Mode(h Handle) Mode {
	n, ok := a.get(h)
	if !ok {
		return ModeLeaf
	}
	return n.mode
}

// Area returns h's area.
func (a *Arena) Area(h Handle) ids.Area {
	n, ok := a.get(h)
	if !ok {
		return ids.Area{}
	}
	return n.area
}

// SurfaceId returns h's bound surface id, invalid if h is a non-leaf or
// stale.
func (a *Arena) SurfaceId(h Handle) ids.SurfaceId {
	n, ok := a.get(h)
	if !ok {
		return ids.InvalidSurfaceId
	}
	return n.sid
}

// Parent returns h's parent handle, which is invalid for the root frame.
func (a *Arena) Parent(h Handle) Handle {
	n, ok := a.get(h)
	if !ok {
		return Handle{}
	}
	return n.parent
}

// CountChildren returns the number of spatial children of h.
func (a *Arena) CountChildren(h Handle) int {
	n, ok := a.get(h)
	if !ok {
		return 0
	}
	return n.numChildren
}

// SpaceIter returns h's children in spatial (left-to-right layout) order.
func (a *Arena) SpaceIter(h Handle) []Handle {
	n, ok := a.get(h)
	if !ok {
		return nil
	}
	out := make([]Handle, 0, n.numChildren)
	for cur := n.firstChildSpatial; cur.IsValid(); {
		out = append(out, cur)
		cn, ok := a.get(cur)
		if !ok {
			break
		}
		cur = cn.nextSpatial
	}
	return out
}

// TimeIter returns h's children in temporal (most-recently-focused first)
// order.
func (a *Arena) TimeIter(h Handle) []Handle {
	n, ok := a.get(h)
	if !ok {
		return nil
	}
	out := make([]Handle, 0, n.numChildren)
	for cur := n.firstChildTemporal; cur.IsValid(); {
		out = append(out, cur)
		cn, ok := a.get(cur)
		if !ok {
			break
		}
		cur = cn.nextTemporal
	}
	return out
}
