package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so signal and
// surface activity can be correlated and queried uniformly.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Bus / module identity
	KeyModule   = "module"
	KeySignalID = "signal_id"

	// Surface / frame identity
	KeySurfaceID = "surface_id"
	KeyParentSID = "parent_surface_id"
	KeyFrameID   = "frame_id"
	KeyPoolID    = "pool_id"
	KeyViewID    = "view_id"

	// Frame tree shape
	KeyGeometry  = "geometry"
	KeyMode      = "mode"
	KeyDirection = "direction"

	// Operation metadata
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyErrorCode  = "error_code"
	KeyOperation  = "operation"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Module returns a slog.Attr for the dispatcher-assigned module name
func Module(name string) slog.Attr {
	return slog.String(KeyModule, name)
}

// Signal returns a slog.Attr for a signal id
func Signal(id fmt.Stringer) slog.Attr {
	return slog.String(KeySignalID, id.String())
}

// SurfaceID returns a slog.Attr for a surface id
func SurfaceID(sid uint64) slog.Attr {
	return slog.Uint64(KeySurfaceID, sid)
}

// ParentSurfaceID returns a slog.Attr for a parent surface id
func ParentSurfaceID(sid uint64) slog.Attr {
	return slog.Uint64(KeyParentSID, sid)
}

// FrameID returns a slog.Attr for a frame handle's arena index
func FrameID(id uint64) slog.Attr {
	return slog.Uint64(KeyFrameID, id)
}

// PoolID returns a slog.Attr for a memory pool id
func PoolID(id uint64) slog.Attr {
	return slog.Uint64(KeyPoolID, id)
}

// ViewID returns a slog.Attr for a memory view id
func ViewID(id uint64) slog.Attr {
	return slog.Uint64(KeyViewID, id)
}

// Geometry returns a slog.Attr for a frame's geometry
func Geometry(g fmt.Stringer) slog.Attr {
	return slog.String(KeyGeometry, g.String())
}

// Mode returns a slog.Attr for a frame's mode
func Mode(m fmt.Stringer) slog.Attr {
	return slog.String(KeyMode, m.String())
}

// Direction returns a slog.Attr for a navigation direction
func Direction(d fmt.Stringer) slog.Attr {
	return slog.String(KeyDirection, d.String())
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Operation returns a slog.Attr for the operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}
