package exhibitor

import "github.com/darkelement/perceptia/internal/qualia/ids"

// SurfaceHistory is an insertion-ordered recency list of surface ids with
// move-to-front semantics: Add pushes sid to the front, removing any prior
// occurrence first, so iteration always yields most-recent-first. Entries
// referencing destroyed surfaces must be culled explicitly — the history
// does not itself watch the bus.
type SurfaceHistory struct {
	order []ids.SurfaceId
}

// NewSurfaceHistory returns an empty history.
func NewSurfaceHistory() *SurfaceHistory {
	return &SurfaceHistory{}
}

// Add removes any existing occurrence of sid then pushes it at the front.
func (h *SurfaceHistory) Add(sid ids.SurfaceId) {
	h.remove(sid)
	h.order = append([]ids.SurfaceId{sid}, h.order...)
}

// Cull removes sid, the counterpart callers invoke on SURFACE_DESTROYED.
func (h *SurfaceHistory) Cull(sid ids.SurfaceId) {
	h.remove(sid)
}

func (h *SurfaceHistory) remove(sid ids.SurfaceId) {
	for i, s := range h.order {
		if s == sid {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}

// List returns the history most-recent-first.
func (h *SurfaceHistory) List() []ids.SurfaceId {
	out := make([]ids.SurfaceId, len(h.order))
	copy(out, h.order)
	return out
}

// Len returns the number of entries currently tracked.
func (h *SurfaceHistory) Len() int {
	return len(h.order)
}
