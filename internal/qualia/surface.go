package qualia

import "github.com/darkelement/perceptia/internal/qualia/ids"

// Type aliases re-exported from ids so callers can keep writing
// qualia.SurfaceId etc. while perceptron depends only on the leaf ids
// package and never on qualia itself.
type (
	SurfaceId    = ids.SurfaceId
	MemoryPoolId = ids.MemoryPoolId
	MemoryViewId = ids.MemoryViewId
	IdAllocator  = ids.IdAllocator
	ShowReason   = ids.ShowReason
	SurfaceState = ids.SurfaceState
	Position     = ids.Position
	Size         = ids.Size
	Vector       = ids.Vector
	Area         = ids.Area
	Direction    = ids.Direction
)

const (
	InvalidSurfaceId    = ids.InvalidSurfaceId
	InvalidMemoryPoolId = ids.InvalidMemoryPoolId
	InvalidMemoryViewId = ids.InvalidMemoryViewId

	Drawable = ids.Drawable
	InShell  = ids.InShell

	StateMaximized  = ids.StateMaximized
	StateFullscreen = ids.StateFullscreen
	StateResizing   = ids.StateResizing
	StateTiled      = ids.StateTiled
	StateActivated  = ids.StateActivated

	DirectionNorth = ids.DirectionNorth
	DirectionSouth = ids.DirectionSouth
	DirectionEast  = ids.DirectionEast
	DirectionWest  = ids.DirectionWest
	DirectionUp    = ids.DirectionUp
)

// NewCounterAllocator returns an in-memory IdAllocator starting all three
// spaces at 1 (0 is reserved invalid).
func NewCounterAllocator() IdAllocator { return ids.NewCounterAllocator() }

// Surface is the record the Coordinator holds for one client surface.
type Surface struct {
	Id SurfaceId

	PendingView   MemoryViewId
	CommittedView MemoryViewId

	DesiredSize   Size
	RequestedSize Size
	Offset        Vector
	RelativePos   Position

	ParentId   SurfaceId
	Satellites []SurfaceId

	ShowReason ShowReason
	State      SurfaceState
}

// newSurface returns a blank surface record for id, with the surface
// included as its own first satellite per the render-traversal convention.
func newSurface(id SurfaceId) *Surface {
	return &Surface{
		Id:         id,
		ParentId:   InvalidSurfaceId,
		Satellites: []SurfaceId{id},
	}
}

// clone returns a value copy of the surface suitable for handing to a caller
// outside the Coordinator's lock; Satellites is copied so the caller cannot
// mutate the Coordinator's internal slice.
func (s *Surface) clone() Surface {
	out := *s
	out.Satellites = append([]SurfaceId(nil), s.Satellites...)
	return out
}

// removeSatellite removes the first occurrence of sid from the satellite
// list, if present.
func (s *Surface) removeSatellite(sid SurfaceId) {
	for i, sat := range s.Satellites {
		if sat == sid {
			s.Satellites = append(s.Satellites[:i], s.Satellites[i+1:]...)
			return
		}
	}
}

// SurfaceInfo is an immutable snapshot of a surface returned by Coordinator
// queries, used by the Exhibitor/Compositor to decide placement without
// holding the Coordinator's lock.
type SurfaceInfo struct {
	Id         SurfaceId
	ParentId   SurfaceId
	Satellites []SurfaceId
	ShowReason ShowReason
	State      SurfaceState
}

func newSurfaceInfo(s *Surface) SurfaceInfo {
	return SurfaceInfo{
		Id:         s.Id,
		ParentId:   s.ParentId,
		Satellites: append([]SurfaceId(nil), s.Satellites...),
		ShowReason: s.ShowReason,
		State:      s.State,
	}
}

// SurfaceContext is one entry of a render traversal: a surface id paired
// with the position it should be drawn at.
type SurfaceContext struct {
	Id  SurfaceId
	Pos Position
}
