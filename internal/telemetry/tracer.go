package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for core operations.
const (
	AttrSurfaceID = "surface.id"
	AttrParentSID = "surface.parent_id"
	AttrFrameID   = "frame.id"
	AttrGeometry  = "frame.geometry"
	AttrMode      = "frame.mode"
	AttrSignalID  = "signal.id"
	AttrModule    = "module.name"
	AttrPoolID    = "memory.pool_id"
	AttrViewID    = "memory.view_id"
	AttrDirection = "search.direction"
	AttrDistance  = "search.distance"
)

// Span names for the operations singled out for scenario testing.
const (
	SpanCommitSurface  = "coordinator.commit_surface"
	SpanManageSurface  = "compositor.manage_surface"
	SpanHomogenize     = "frame.homogenize"
	SpanSettle         = "frame.settle"
	SpanFindContiguous = "frame.find_contiguous"
)

// SurfaceIDAttr returns an attribute for a surface id.
func SurfaceIDAttr(sid uint64) attribute.KeyValue {
	return attribute.Int64(AttrSurfaceID, int64(sid))
}

// ParentSurfaceIDAttr returns an attribute for a parent surface id.
func ParentSurfaceIDAttr(sid uint64) attribute.KeyValue {
	return attribute.Int64(AttrParentSID, int64(sid))
}

// FrameIDAttr returns an attribute for a frame handle's arena index.
func FrameIDAttr(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrFrameID, int64(id))
}

// GeometryAttr returns an attribute for a frame's geometry.
func GeometryAttr(g string) attribute.KeyValue {
	return attribute.String(AttrGeometry, g)
}

// ModeAttr returns an attribute for a frame's mode.
func ModeAttr(m string) attribute.KeyValue {
	return attribute.String(AttrMode, m)
}

// SignalIDAttr returns an attribute for a signal id.
func SignalIDAttr(id string) attribute.KeyValue {
	return attribute.String(AttrSignalID, id)
}

// ModuleAttr returns an attribute for the dispatcher-assigned module name.
func ModuleAttr(name string) attribute.KeyValue {
	return attribute.String(AttrModule, name)
}

// StartCommitSurfaceSpan starts a span wrapping Coordinator.commit_surface.
func StartCommitSurfaceSpan(ctx context.Context, sid uint64) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanCommitSurface, trace.WithAttributes(SurfaceIDAttr(sid)))
}

// StartManageSurfaceSpan starts a span wrapping Compositor.manage_surface.
func StartManageSurfaceSpan(ctx context.Context, sid uint64) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanManageSurface, trace.WithAttributes(SurfaceIDAttr(sid)))
}
