package introspect

import (
	"net/http"

	"github.com/darkelement/perceptia/internal/exhibitor"
	"github.com/darkelement/perceptia/internal/frames"
	"github.com/darkelement/perceptia/internal/qualia"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

// handler holds the read-only references the three introspection endpoints
// query. It never mutates the Coordinator or Compositor.
type handler struct {
	coordinator *qualia.Coordinator
	compositor  *exhibitor.Compositor
}

func newHandler(coordinator *qualia.Coordinator, compositor *exhibitor.Compositor) *handler {
	return &handler{coordinator: coordinator, compositor: compositor}
}

// surfaceView is the JSON shape of one qualia.SurfaceInfo entry.
type surfaceView struct {
	Id         ids.SurfaceId    `json:"id"`
	ParentId   ids.SurfaceId    `json:"parent_id,omitempty"`
	Satellites []ids.SurfaceId  `json:"satellites,omitempty"`
	ShowReason ids.ShowReason   `json:"show_reason"`
	State      ids.SurfaceState `json:"state"`
}

// surfaces handles GET /surfaces: every registered surface's current state.
func (h *handler) surfaces(w http.ResponseWriter, r *http.Request) {
	sids := h.coordinator.ListSurfaceIds()
	views := make([]surfaceView, 0, len(sids))
	for _, sid := range sids {
		info, found := h.coordinator.SurfaceInfo(sid)
		if !found {
			continue
		}
		views = append(views, surfaceView{
			Id:         info.Id,
			ParentId:   info.ParentId,
			Satellites: info.Satellites,
			ShowReason: info.ShowReason,
			State:      info.State,
		})
	}
	ok(w, views)
}

// frameView is one node of the JSON-rendered frame tree.
type frameView struct {
	Mode      string        `json:"mode"`
	Geometry  string        `json:"geometry"`
	Area      ids.Area      `json:"area"`
	SurfaceId ids.SurfaceId `json:"surface_id,omitempty"`
	Children  []frameView   `json:"children,omitempty"`
}

// frames handles GET /frames: a depth-first dump of the Display/Workspace/
// Container/Leaf tree rooted at the Compositor's Root, spatial order.
func (h *handler) frames(w http.ResponseWriter, r *http.Request) {
	root := h.compositor.Root()
	if !root.IsValid() {
		ok(w, nil)
		return
	}
	ok(w, h.dumpFrame(root))
}

func (h *handler) dumpFrame(handle frames.Handle) frameView {
	arena := h.compositor.Arena()
	view := frameView{
		Mode:      arena.Mode(handle).String(),
		Geometry:  arena.Geometry(handle).String(),
		Area:      arena.Area(handle),
		SurfaceId: arena.SurfaceId(handle),
	}
	for _, child := range arena.SpaceIter(handle) {
		view.Children = append(view.Children, h.dumpFrame(child))
	}
	return view
}

// history handles GET /history: the surface recency list, most-recent-first.
func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	ok(w, h.compositor.History().List())
}
