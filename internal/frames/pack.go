package frames

import "github.com/darkelement/perceptia/internal/qualia/ids"

// SetSize assigns h a new size. If h is a leaf, the bound surface is told to
// reconfigure to the new size in the MAXIMIZED state. If h is a directed
// frame whose layout axis didn't change (e.g. a Horizontal parent whose
// width is unchanged but height moved), only the changed dimension is
// propagated into each child in place; otherwise the whole subtree is
// relaxed from scratch.
func (a *Arena) SetSize(h Handle, newSize ids.Size, rc SurfaceReconfigurer) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	old := n.area.Size
	n.area.Size = newSize

	if n.sid.IsValid() && rc != nil {
		rc.Reconfigure(n.sid, newSize, ids.StateMaximized)
	}

	if n.numChildren == 0 {
		return
	}

	widthChanged := old.Width != newSize.Width
	heightChanged := old.Height != newSize.Height

	switch n.geometry {
	case Horizontal:
		if !widthChanged && heightChanged {
			for _, c := range a.SpaceIter(h) {
				cs := a.Area(c).Size
				a.SetSize(c, ids.Size{Width: cs.Width, Height: newSize.Height}, rc)
			}
			return
		}
	case Vertical:
		if !heightChanged && widthChanged {
			for _, c := range a.SpaceIter(h) {
				cs := a.Area(c).Size
				a.SetSize(c, ids.Size{Width: newSize.Width, Height: cs.Height}, rc)
			}
			return
		}
	}

	a.Relax(h, rc)
}

// Relax recomputes every spatial child's area from h's current area
// according to h's geometry, then recursively applies SetSize to each child
// so further-nested layouts re-settle consistently. Floating frames (and
// childless frames) are untouched.
func (a *Arena) Relax(h Handle, rc SurfaceReconfigurer) {
	n, ok := a.get(h)
	if !ok || n.geometry == Floating {
		return
	}
	children := a.SpaceIter(h)
	count := len(children)
	if count == 0 {
		return
	}

	switch n.geometry {
	case Stacked:
		for _, c := range children {
			a.setArea(c, n.area)
			a.SetSize(c, n.area.Size, rc)
		}
	case Vertical:
		childHeight := n.area.Size.Height / count
		y := n.area.Pos.Y
		for i, c := range children {
			h := childHeight
			if i == count-1 {
				h = n.area.Size.Height - childHeight*(count-1)
			}
			area := ids.Area{
				Pos:  ids.Position{X: n.area.Pos.X, Y: y},
				Size: ids.Size{Width: n.area.Size.Width, Height: h},
			}
			a.setArea(c, area)
			a.SetSize(c, area.Size, rc)
			y += h
		}
	case Horizontal:
		childWidth := n.area.Size.Width / count
		x := n.area.Pos.X
		for i, c := range children {
			w := childWidth
			if i == count-1 {
				w = n.area.Size.Width - childWidth*(count-1)
			}
			area := ids.Area{
				Pos:  ids.Position{X: x, Y: n.area.Pos.Y},
				Size: ids.Size{Width: w, Height: n.area.Size.Height},
			}
			a.setArea(c, area)
			a.SetSize(c, area.Size, rc)
			x += w
		}
	}
}

// setArea overwrites a child's area wholesale (position and size), used by
// Relax when recomputing a fresh layout. SetSize is called immediately
// after by the caller to push the size change (and any reconfigure/nested
// relax) through.
func (a *Arena) setArea(h Handle, area ids.Area) {
	n, ok := a.get(h)
	if !ok {
		return
	}
	n.area = area
}
