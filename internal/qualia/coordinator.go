// Package qualia holds the compositor's process-wide authoritative state:
// surfaces, memory pools, memory views, and input focus. The Coordinator is
// the synchronization point every other subsystem calls into; it never
// blocks on anything but its own mutex.
package qualia

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/darkelement/perceptia/internal/dharma"
	"github.com/darkelement/perceptia/internal/logger"
	"github.com/darkelement/perceptia/internal/metrics"
	"github.com/darkelement/perceptia/internal/perceptron"
	"github.com/darkelement/perceptia/internal/qualia/ids"
	"github.com/darkelement/perceptia/internal/qualia/qerrors"
	"github.com/darkelement/perceptia/internal/telemetry"
)

// Bus is the signal bus type the Coordinator emits on. It is the only
// dharma.Signaler instantiation the core uses.
type Bus = dharma.Signaler[perceptron.SignalId, perceptron.Perceptron]

// Coordinator is the single authoritative store described in spec §4.B. All
// public operations acquire one mutex; this serializes every read and write
// and gives every mutation a linearization point that the bus's ordering
// guarantees depend on. Callers must never hold a Coordinator handle across
// a blocking call of their own.
type Coordinator struct {
	mu sync.Mutex

	alloc ids.IdAllocator

	surfaces map[SurfaceId]*Surface
	pools    map[MemoryPoolId]*memoryPool
	views    map[MemoryViewId]MemoryView

	keyboardFocus SurfaceId
	pointerFocus  SurfaceId

	bus *Bus
}

// New creates a Coordinator backed by alloc for id generation and bus for
// signal emission. alloc may be qualia.NewCounterAllocator() for a pure
// in-memory counter, or any other ids.IdAllocator (e.g. a persistent ledger).
func New(alloc ids.IdAllocator, bus *Bus) *Coordinator {
	return &Coordinator{
		alloc:         alloc,
		surfaces:      make(map[SurfaceId]*Surface),
		pools:         make(map[MemoryPoolId]*memoryPool),
		views:         make(map[MemoryViewId]MemoryView),
		keyboardFocus: InvalidSurfaceId,
		pointerFocus:  InvalidSurfaceId,
		bus:           bus,
	}
}

// emit posts payload to the bus outside of the Coordinator's lock. Callers
// must never call emit while holding c.mu.
func (c *Coordinator) emit(payload perceptron.Perceptron) {
	if c.bus == nil {
		return
	}
	c.bus.Emit(payload.SignalId(), payload)
}

// lock acquires c.mu and returns the acquisition time, for unlock to derive
// the hold duration from.
func (c *Coordinator) lock() time.Time {
	c.mu.Lock()
	return time.Now()
}

// unlock releases c.mu and records how long it was held.
func (c *Coordinator) unlock(acquired time.Time) {
	c.mu.Unlock()
	metrics.ObserveCoordinatorHold(time.Since(acquired))
}

// ============================================================================
// Surface lifecycle
// ============================================================================

// CreateSurface allocates a fresh SurfaceId and inserts a blank record.
func (c *Coordinator) CreateSurface() SurfaceId {
	start := c.lock()
	sid := c.alloc.NextSurfaceId()
	c.surfaces[sid] = newSurface(sid)
	c.unlock(start)

	logger.Debug("surface created", logger.SurfaceID(uint64(sid)))
	return sid
}

// DestroySurface emits SURFACE_DESTROYED then removes the record. Further
// operations against sid fail silently with a warning, matching spec §7's
// missing-identifier policy.
func (c *Coordinator) DestroySurface(ctx context.Context, sid SurfaceId) {
	ctx, span := telemetry.StartSpan(ctx, "coordinator.destroy_surface",
		trace.WithAttributes(telemetry.SurfaceIDAttr(uint64(sid))))
	defer span.End()

	start := c.lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.unlock(start)
		logger.WarnCtx(ctx, "destroy_surface: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}
	if s.ParentId.IsValid() {
		if parent, ok := c.surfaces[s.ParentId]; ok {
			parent.removeSatellite(sid)
		}
	}
	delete(c.surfaces, sid)
	c.unlock(start)

	metrics.RecordSurfaceDestroyed()
	c.emit(perceptron.NewSurfaceDestroyed(sid))
}

// Attach records mvid as the pending buffer of sid. No signal is emitted.
func (c *Coordinator) Attach(mvid MemoryViewId, sid SurfaceId) {
	start := c.lock()
	defer c.unlock(start)

	s, ok := c.surfaces[sid]
	if !ok {
		logger.Warn("attach: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}
	s.PendingView = mvid
}

// CommitSurface promotes the pending buffer to committed. If a buffer became
// newly present, it calls show_surface(sid, DRAWABLE); it always finishes
// with Notify so the renderer wakes up.
func (c *Coordinator) CommitSurface(ctx context.Context, sid SurfaceId) {
	ctx, span := telemetry.StartCommitSurfaceSpan(ctx, uint64(sid))
	defer span.End()

	start := c.lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.unlock(start)
		logger.WarnCtx(ctx, "commit_surface: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}

	if !s.PendingView.IsValid() {
		// Invalid-state transition per spec §7: no pending view means commit
		// is a no-op, not an error.
		c.unlock(start)
		logger.DebugCtx(ctx, "commit_surface: no pending view, no-op", logger.SurfaceID(uint64(sid)))
		c.emit(perceptron.NewNotify())
		return
	}

	newlyPresent := !s.CommittedView.IsValid()
	s.CommittedView = s.PendingView
	s.PendingView = InvalidMemoryViewId
	c.unlock(start)

	if newlyPresent {
		c.ShowSurface(ctx, sid, Drawable)
	}
	c.emit(perceptron.NewNotify())
}

// ShowSurface sets reason's bit. If the READY predicate transitions to true,
// SURFACE_READY is emitted. Idempotent when the predicate does not
// transition.
func (c *Coordinator) ShowSurface(ctx context.Context, sid SurfaceId, reason ShowReason) {
	c.transitionShowReason(ctx, sid, reason, true)
}

// HideSurface clears reason's bit. If the READY predicate transitions away
// from true, SURFACE_DESTROYED is emitted.
func (c *Coordinator) HideSurface(ctx context.Context, sid SurfaceId, reason ShowReason) {
	c.transitionShowReason(ctx, sid, reason, false)
}

func (c *Coordinator) transitionShowReason(ctx context.Context, sid SurfaceId, reason ShowReason, set bool) {
	start := c.lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.unlock(start)
		logger.WarnCtx(ctx, "show/hide_surface: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}

	wasReady := s.ShowReason.Ready()
	if set {
		s.ShowReason |= reason
	} else {
		s.ShowReason &^= reason
	}
	isReady := s.ShowReason.Ready()
	c.unlock(start)

	if !wasReady && isReady {
		metrics.RecordSurfaceReady()
		c.emit(perceptron.NewSurfaceReady(sid))
	} else if wasReady && !isReady {
		metrics.RecordSurfaceDestroyed()
		c.emit(perceptron.NewSurfaceDestroyed(sid))
	}
}

// SetSurfaceOffset is a plain field update; no signal is emitted.
func (c *Coordinator) SetSurfaceOffset(sid SurfaceId, offset Vector) {
	start := c.lock()
	defer c.unlock(start)
	if s, ok := c.surfaces[sid]; ok {
		s.Offset = offset
	} else {
		logger.Warn("set_surface_offset: unknown surface", logger.SurfaceID(uint64(sid)))
	}
}

// SetSurfaceRequestedSize is a plain field update; no signal is emitted.
func (c *Coordinator) SetSurfaceRequestedSize(sid SurfaceId, size Size) {
	start := c.lock()
	defer c.unlock(start)
	if s, ok := c.surfaces[sid]; ok {
		s.RequestedSize = size
	} else {
		logger.Warn("set_surface_requested_size: unknown surface", logger.SurfaceID(uint64(sid)))
	}
}

// SetSurfaceRelativePosition is a plain field update; no signal is emitted.
func (c *Coordinator) SetSurfaceRelativePosition(sid SurfaceId, pos Position) {
	start := c.lock()
	defer c.unlock(start)
	if s, ok := c.surfaces[sid]; ok {
		s.RelativePos = pos
	} else {
		logger.Warn("set_surface_relative_position: unknown surface", logger.SurfaceID(uint64(sid)))
	}
}

// RelateSurfaces makes sid subordinate to parentSid: sets its parent, clears
// its relative position, clears IN_SHELL (it now draws only via its
// parent), and adds sid to the parent's satellite list.
func (c *Coordinator) RelateSurfaces(ctx context.Context, sid, parentSid SurfaceId) {
	start := c.lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.unlock(start)
		logger.WarnCtx(ctx, "relate_surfaces: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}
	parent, ok := c.surfaces[parentSid]
	if !ok {
		c.unlock(start)
		logger.WarnCtx(ctx, "relate_surfaces: unknown parent", logger.ParentSurfaceID(uint64(parentSid)))
		return
	}

	wasReady := s.ShowReason.Ready()
	s.ParentId = parentSid
	s.RelativePos = Position{}
	s.ShowReason &^= InShell
	isReady := s.ShowReason.Ready()
	parent.Satellites = append(parent.Satellites, sid)
	c.unlock(start)

	if wasReady && !isReady {
		metrics.RecordSurfaceDestroyed()
		c.emit(perceptron.NewSurfaceDestroyed(sid))
	}
}

// UnrelateSurface removes sid from its former parent's satellite list and
// clears its parent.
func (c *Coordinator) UnrelateSurface(sid SurfaceId) {
	start := c.lock()
	defer c.unlock(start)

	s, ok := c.surfaces[sid]
	if !ok {
		logger.Warn("unrelate_surface: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}
	if parent, ok := c.surfaces[s.ParentId]; ok {
		parent.removeSatellite(sid)
	}
	s.ParentId = InvalidSurfaceId
}

// SetSurfaceAsCursor emits CURSOR_SURFACE_CHANGE(sid).
func (c *Coordinator) SetSurfaceAsCursor(sid SurfaceId) {
	start := c.lock()
	_, ok := c.surfaces[sid]
	c.unlock(start)
	if !ok {
		logger.Warn("set_surface_as_cursor: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}
	c.emit(perceptron.NewCursorSurfaceChange(sid))
}

// Reconfigure updates size/state and emits SURFACE_RECONFIGURED if either
// changed.
func (c *Coordinator) Reconfigure(sid SurfaceId, size Size, state SurfaceState) {
	start := c.lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.unlock(start)
		logger.Warn("reconfigure: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}
	changed := s.DesiredSize != size || s.State != state
	s.DesiredSize = size
	s.State = state
	c.unlock(start)

	if changed {
		c.emit(perceptron.NewSurfaceReconfigured(sid, size, state))
	}
}

// ============================================================================
// Focus
// ============================================================================

// SetKeyboardFocus stores sid as the keyboard focus target; if it changed,
// emits KEYBOARD_FOCUS_CHANGED(old, new) first.
func (c *Coordinator) SetKeyboardFocus(sid SurfaceId) {
	start := c.lock()
	old := c.keyboardFocus
	if old == sid {
		c.unlock(start)
		return
	}
	c.keyboardFocus = sid
	c.unlock(start)

	c.emit(perceptron.NewKeyboardFocusChanged(old, sid))
}

// KeyboardFocus returns the current keyboard focus target.
func (c *Coordinator) KeyboardFocus() SurfaceId {
	start := c.lock()
	defer c.unlock(start)
	return c.keyboardFocus
}

// SetPointerFocus stores sid/pos as the pointer focus target; if sid
// changed, emits POINTER_FOCUS_CHANGED(old, new, pos) first.
func (c *Coordinator) SetPointerFocus(sid SurfaceId, pos Position) {
	start := c.lock()
	old := c.pointerFocus
	if old == sid {
		c.unlock(start)
		return
	}
	c.pointerFocus = sid
	c.unlock(start)

	c.emit(perceptron.NewPointerFocusChanged(old, sid, pos))
}

// PointerFocus returns the current pointer focus target.
func (c *Coordinator) PointerFocus() SurfaceId {
	start := c.lock()
	defer c.unlock(start)
	return c.pointerFocus
}

// ============================================================================
// Memory pools and views
// ============================================================================

// CreatePoolFromMemory registers a mapped shared-memory region as a new
// pool, returning its id.
func (c *Coordinator) CreatePoolFromMemory(storage Storage) MemoryPoolId {
	return c.createPool(storage)
}

// CreatePoolFromBuffer registers a heap-owned buffer as a new pool,
// returning its id.
func (c *Coordinator) CreatePoolFromBuffer(buf []byte) MemoryPoolId {
	return c.createPool(NewBufferStorage(buf))
}

func (c *Coordinator) createPool(storage Storage) MemoryPoolId {
	start := c.lock()
	defer c.unlock(start)

	mpid := c.alloc.NextMemoryPoolId()
	c.pools[mpid] = &memoryPool{id: mpid, storage: storage, refs: 1}
	return mpid
}

// DestroyMemoryPool removes the pool from the registry. The backing storage
// is kept alive by any outstanding views and released only when the last
// reference drops.
func (c *Coordinator) DestroyMemoryPool(mpid MemoryPoolId) {
	start := c.lock()
	defer c.unlock(start)

	pool, ok := c.pools[mpid]
	if !ok {
		logger.Warn("destroy_memory_pool: unknown pool", logger.PoolID(uint64(mpid)))
		return
	}
	delete(c.pools, mpid)
	c.releasePoolRef(pool)
}

// releasePoolRef drops one reference on pool and releases its storage if the
// count reaches zero. Must be called with c.mu held.
func (c *Coordinator) releasePoolRef(pool *memoryPool) {
	pool.refs--
	if pool.refs <= 0 {
		pool.storage.Release()
	}
}

// ReplaceMemoryPool atomically swaps the backing storage under mpid's stable
// id, used when a client resizes its shared memory.
func (c *Coordinator) ReplaceMemoryPool(mpid MemoryPoolId, storage Storage) {
	start := c.lock()
	defer c.unlock(start)

	pool, ok := c.pools[mpid]
	if !ok {
		logger.Warn("replace_memory_pool: unknown pool", logger.PoolID(uint64(mpid)))
		return
	}
	old := pool.storage
	pool.storage = storage
	old.Release()
}

// CreateMemoryView creates a view into mpid's backing storage. Fails if the
// pool is missing — this is one of the handful of operations spec §7
// specifies as meaningfully failing to the caller.
func (c *Coordinator) CreateMemoryView(mpid MemoryPoolId, offset, width, height, stride int) (MemoryViewId, error) {
	start := c.lock()
	defer c.unlock(start)

	pool, ok := c.pools[mpid]
	if !ok {
		return InvalidMemoryViewId, qerrors.NewPoolMissingError(uint64(mpid))
	}

	mvid := c.alloc.NextMemoryViewId()
	c.views[mvid] = MemoryView{
		Id:     mvid,
		PoolId: mpid,
		Offset: offset,
		Width:  width,
		Height: height,
		Stride: stride,
	}
	pool.refs++
	return mvid, nil
}

// DestroyMemoryView drops the view, releasing its pool reference.
func (c *Coordinator) DestroyMemoryView(mvid MemoryViewId) {
	start := c.lock()
	defer c.unlock(start)

	view, ok := c.views[mvid]
	if !ok {
		logger.Warn("destroy_memory_view: unknown view", logger.ViewID(uint64(mvid)))
		return
	}
	delete(c.views, mvid)

	if pool, ok := c.pools[view.PoolId]; ok {
		c.releasePoolRef(pool)
	}
}

// ============================================================================
// Render query
// ============================================================================

// GetRendererContext performs a depth-first traversal of the satellite graph
// rooted at sid, producing the z-ordered leaves of the surface subtree: for
// each satellite equal to sid, the surface's own context is appended; for
// each other satellite, the traversal recurses.
func (c *Coordinator) GetRendererContext(sid SurfaceId) []SurfaceContext {
	start := c.lock()
	defer c.unlock(start)

	var out []SurfaceContext
	c.appendRendererContext(sid, Position{}, &out, make(map[SurfaceId]bool))
	return out
}

func (c *Coordinator) appendRendererContext(sid SurfaceId, origin Position, out *[]SurfaceContext, visited map[SurfaceId]bool) {
	if visited[sid] {
		return
	}
	visited[sid] = true

	s, ok := c.surfaces[sid]
	if !ok {
		return
	}
	pos := origin.Add(s.Offset)

	for _, sat := range s.Satellites {
		if sat == sid {
			*out = append(*out, SurfaceContext{Id: sid, Pos: pos})
			continue
		}
		c.appendRendererContext(sat, pos, out, visited)
	}
}

// ============================================================================
// Queries used by Exhibitor/Compositor and introspection
// ============================================================================

// SurfaceInfo returns a read-only snapshot of sid's record, or (zero, false)
// if sid is unknown.
func (c *Coordinator) SurfaceInfo(sid SurfaceId) (SurfaceInfo, bool) {
	start := c.lock()
	defer c.unlock(start)

	s, ok := c.surfaces[sid]
	if !ok {
		return SurfaceInfo{}, false
	}
	return newSurfaceInfo(s), true
}

// ListSurfaceIds returns every currently registered surface id, for
// introspection and tests. Order is unspecified.
func (c *Coordinator) ListSurfaceIds() []SurfaceId {
	start := c.lock()
	defer c.unlock(start)

	out := make([]SurfaceId, 0, len(c.surfaces))
	for sid := range c.surfaces {
		out = append(out, sid)
	}
	return out
}

// Notify emits NOTIFY to trigger a redraw.
func (c *Coordinator) Notify() {
	c.emit(perceptron.NewNotify())
}
