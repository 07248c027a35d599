package introspectclient

import "github.com/darkelement/perceptia/internal/qualia/ids"

// SurfaceView is the client-side shape of internal/introspect's surfaceView.
type SurfaceView struct {
	Id         ids.SurfaceId    `json:"id"`
	ParentId   ids.SurfaceId    `json:"parent_id,omitempty"`
	Satellites []ids.SurfaceId  `json:"satellites,omitempty"`
	ShowReason ids.ShowReason   `json:"show_reason"`
	State      ids.SurfaceState `json:"state"`
}

// FrameView is the client-side shape of internal/introspect's frameView.
type FrameView struct {
	Mode      string        `json:"mode"`
	Geometry  string        `json:"geometry"`
	Area      ids.Area      `json:"area"`
	SurfaceId ids.SurfaceId `json:"surface_id,omitempty"`
	Children  []FrameView   `json:"children,omitempty"`
}
