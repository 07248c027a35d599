package frames

import "github.com/darkelement/perceptia/internal/qualia/ids"

// FindBuildable returns the frame a new sibling should be settled under: a
// leaf's parent (leaves can't have children of their own), or the frame
// itself if it's already a container.
func (a *Arena) FindBuildable(h Handle) Handle {
	n, ok := a.get(h)
	if !ok {
		return h
	}
	if n.sid.IsValid() {
		return n.parent
	}
	return h
}

// FindTop climbs from h (inclusive) to the nearest ancestor whose mode is
// Display or Workspace. Returns false if no such ancestor exists (e.g.
// starting from the disconnected root).
func (a *Arena) FindTop(h Handle) (Handle, bool) {
	cur := h
	for {
		n, ok := a.get(cur)
		if !ok {
			return Handle{}, false
		}
		if isTop(n.mode) {
			return cur, true
		}
		if !n.parent.IsValid() {
			return Handle{}, false
		}
		cur = n.parent
	}
}

// FindWithSid performs a pre-order, temporal-order traversal of h's subtree
// (h included) and returns the first frame bound to sid.
func (a *Arena) FindWithSid(h Handle, sid ids.SurfaceId) (Handle, bool) {
	if !sid.IsValid() {
		return Handle{}, false
	}
	n, ok := a.get(h)
	if !ok {
		return Handle{}, false
	}
	if n.sid == sid {
		return h, true
	}
	for _, c := range a.TimeIter(h) {
		if found, ok := a.FindWithSid(c, sid); ok {
			return found, true
		}
	}
	return Handle{}, false
}

// FindPointed descends from h in temporal order into the first child whose
// area contains point, recursing until it reaches a frame with no
// containing child (typically a leaf), and returns that frame.
func (a *Arena) FindPointed(h Handle, point ids.Position) Handle {
	n, ok := a.get(h)
	if !ok {
		return h
	}
	for _, c := range a.TimeIter(h) {
		if cn, ok := a.get(c); ok && cn.area.Contains(point) {
			return a.FindPointed(c, point)
		}
	}
	_ = n
	return h
}

// FindContiguous walks distance spatial steps from h in direction dir,
// climbing to the parent when the parent's geometry doesn't support dir or
// the current frame has no sibling that way, and returns the frame reached. The "top"
// check (Display/Workspace) is made against the frame about to be recursed
// into, not against h itself, so a climb that starts on a Display or
// Workspace handle can still climb one step further before failing; landing
// exactly on a top frame as the last of distance steps still succeeds, only
// climbing past one with steps still outstanding fails.
func (a *Arena) FindContiguous(h Handle, dir ids.Direction, distance int) (Handle, bool) {
	if distance == 0 {
		return h, true
	}
	n, ok := a.get(h)
	if !ok {
		return Handle{}, false
	}
	if !n.parent.IsValid() {
		return Handle{}, false
	}
	parent, ok := a.get(n.parent)
	if !ok {
		return Handle{}, false
	}

	var sib Handle
	validForGeometry := (parent.geometry == Vertical && (dir == ids.DirectionNorth || dir == ids.DirectionSouth)) ||
		(parent.geometry == Horizontal && (dir == ids.DirectionWest || dir == ids.DirectionEast))
	if validForGeometry {
		switch dir {
		case ids.DirectionNorth, ids.DirectionWest:
			sib = n.prevSpatial
		default:
			sib = n.nextSpatial
		}
	}

	newDistance := distance
	if sib.IsValid() || dir == ids.DirectionUp {
		newDistance = distance - 1
	}

	next := sib
	if !next.IsValid() {
		next = n.parent
	}
	if newDistance == 0 {
		return next, true
	}

	nextNode, ok := a.get(next)
	if !ok {
		return Handle{}, false
	}
	if isTop(nextNode.mode) {
		return Handle{}, false
	}
	return a.FindContiguous(next, dir, newDistance)
}

// FindAdjacent repeats FindContiguous one step at a time, sliding into the
// leaf under h's original center point after each step, so moving two steps
// east from a tall frame lands on whichever leaf sits at the same height two
// containers over rather than on an arbitrary container.
func (a *Arena) FindAdjacent(h Handle, dir ids.Direction, distance int) (Handle, bool) {
	n, ok := a.get(h)
	if !ok {
		return Handle{}, false
	}
	center := ids.Position{
		X: n.area.Pos.X + n.area.Size.Width/2,
		Y: n.area.Pos.Y + n.area.Size.Height/2,
	}

	cur := h
	for i := 0; i < distance; i++ {
		next, ok := a.FindContiguous(cur, dir, 1)
		if !ok {
			return Handle{}, false
		}
		cur = a.FindPointed(next, center)
	}
	return cur, true
}
