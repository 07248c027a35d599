package frames

import "github.com/darkelement/perceptia/internal/qualia/ids"

// SurfaceReconfigurer is the surface-access callback frames use to push a
// new size/state onto the surface bound to a leaf. internal/qualia's
// Coordinator satisfies this directly.
type SurfaceReconfigurer interface {
	Reconfigure(sid ids.SurfaceId, size ids.Size, state ids.SurfaceState)
}

// NewRoot allocates the tree's root frame. Root has no parent and is never
// returned by find_top.
func (a *Arena) NewRoot(area ids.Area) Handle {
	h, n := a.alloc()
	n.mode = ModeRoot
	n.geometry = Floating
	n.area = area
	n.sid = ids.InvalidSurfaceId
	return h
}

// NewDisplay allocates a frame representing one physical output.
func (a *Arena) NewDisplay(area ids.Area) Handle {
	h, n := a.alloc()
	n.mode = ModeDisplay
	n.geometry = Floating
	n.area = area
	n.sid = ids.InvalidSurfaceId
	return h
}

// NewWorkspace allocates a directed container frame scoped to one display.
func (a *Arena) NewWorkspace(area ids.Area, geometry Geometry) Handle {
	h, n := a.alloc()
	n.mode = ModeWorkspace
	n.geometry = geometry
	n.area = area
	n.sid = ids.InvalidSurfaceId
	return h
}

// NewContainer allocates an internal directed frame used to group sibling
// leaves, e.g. when manage_surface stacks a new client atop an existing one.
func (a *Arena) NewContainer(area ids.Area, geometry Geometry) Handle {
	h, n := a.alloc()
	n.mode = ModeContainer
	n.geometry = geometry
	n.area = area
	n.sid = ids.InvalidSurfaceId
	return h
}

// NewLeaf allocates a frame bound to a single surface.
func (a *Arena) NewLeaf(sid ids.SurfaceId, area ids.Area, geometry Geometry) Handle {
	h, n := a.alloc()
	n.mode = ModeLeaf
	n.geometry = geometry
	n.area = area
	n.sid = sid
	return h
}

// Destroy releases h's slot. The caller must have already removed h from any
// parent via Remove/RemoveSelf; Destroy does not touch sibling links.
func (a *Arena) Destroy(h Handle) {
	a.release(h)
}

// linkSpatial appends child to parent's spatial sibling chain.
func (a *Arena) linkSpatial(parent *node, parentHandle, child Handle) {
	cn, ok := a.get(child)
	if !ok {
		return
	}
	cn.parent = parentHandle
	cn.prevSpatial = parent.lastChildSpatial
	cn.nextSpatial = Handle{}
	if last, ok := a.get(parent.lastChildSpatial); ok {
		last.nextSpatial = child
	} else {
		parent.firstChildSpatial = child
	}
	parent.lastChildSpatial = child
}

// linkTemporalFront prepends child to parent's temporal sibling chain, the
// most-recently-settled/focused position.
func (a *Arena) linkTemporalFront(parent *node, parentHandle, child Handle) {
	cn, ok := a.get(child)
	if !ok {
		return
	}
	cn.parent = parentHandle
	cn.nextTemporal = parent.firstChildTemporal
	cn.prevTemporal = Handle{}
	if first, ok := a.get(parent.firstChildTemporal); ok {
		first.prevTemporal = child
	} else {
		parent.lastChildTemporal = child
	}
	parent.firstChildTemporal = child
}

// Remove unlinks h from its parent's spatial and temporal sibling chains
// without relaxing the parent's layout. RemoveSelf composes this with a
// relax pass; call Remove directly when the caller intends to immediately
// re-Settle h elsewhere (a move, not a deletion).
func (a *Arena) Remove(h Handle) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	parent, ok := a.get(n.parent)
	if ok {
		if prev, ok := a.get(n.prevSpatial); ok {
			prev.nextSpatial = n.nextSpatial
		} else {
			parent.firstChildSpatial = n.nextSpatial
		}
		if next, ok := a.get(n.nextSpatial); ok {
			next.prevSpatial = n.prevSpatial
		} else {
			parent.lastChildSpatial = n.prevSpatial
		}

		if prev, ok := a.get(n.prevTemporal); ok {
			prev.nextTemporal = n.nextTemporal
		} else {
			parent.firstChildTemporal = n.nextTemporal
		}
		if next, ok := a.get(n.nextTemporal); ok {
			next.prevTemporal = n.prevTemporal
		} else {
			parent.lastChildTemporal = n.prevTemporal
		}

		parent.numChildren--
	}
	n.parent = Handle{}
	n.prevSpatial, n.nextSpatial = Handle{}, Handle{}
	n.prevTemporal, n.nextTemporal = Handle{}, Handle{}
}

// RemoveSelf unlinks h and relaxes the former parent's layout so the
// remaining siblings fill the freed space. Does not free h's handle; the
// caller is expected to re-Settle it elsewhere or Destroy it.
func (a *Arena) RemoveSelf(h Handle, rc SurfaceReconfigurer) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	parent := n.parent
	a.Remove(h)
	if parent.IsValid() {
		a.Relax(parent, rc)
	}
}

// Settle attaches h under parent: at the end of parent's spatial order and
// the front of its temporal order, then relaxes parent so every child
// (including h) gets an area consistent with parent's geometry; the relax
// pushes each leaf's new size to its bound surface. Under a Floating parent
// the relax does nothing, so h keeps its area and its surface is not
// reconfigured.
func (a *Arena) Settle(h, parent Handle, rc SurfaceReconfigurer) {
	pn, ok := a.get(parent)
	if !ok {
		return
	}
	a.linkSpatial(pn, parent, h)
	a.linkTemporalFront(pn, parent, h)
	pn.numChildren++

	a.Relax(parent, rc)
}

// SetPosition moves h (and everything beneath it) so its top-left corner is
// newPos, preserving relative child layout.
func (a *Arena) SetPosition(h Handle, newPos ids.Position) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	delta := newPos.Sub(n.area.Pos)
	a.MoveWithContents(h, delta)
}

// MoveWithContents translates h and every descendant by v, a pure
// positional shift with no resize and no reconfigure call — children keep
// their size and position relative to h.
func (a *Arena) MoveWithContents(h Handle, v ids.Vector) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	n.area.Pos = n.area.Pos.Add(v)
	for _, c := range a.SpaceIter(h) {
		a.MoveWithContents(c, v)
	}
}
