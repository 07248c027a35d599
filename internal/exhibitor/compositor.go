package exhibitor

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/darkelement/perceptia/internal/frames"
	"github.com/darkelement/perceptia/internal/logger"
	"github.com/darkelement/perceptia/internal/perceptron"
	"github.com/darkelement/perceptia/internal/qualia"
	"github.com/darkelement/perceptia/internal/qualia/ids"
	"github.com/darkelement/perceptia/internal/telemetry"
)

// TargetSelectionStrategy resolves the open question spec §9 leaves
// unsettled — "the configurability of target-selection in choose_target" —
// by making the geometry a new top-level frame gets a configuration knob
// instead of a hardcoded constant. Subordinate placement is always Stacked
// regardless of strategy; that part of choose_target isn't in question.
type TargetSelectionStrategy int

const (
	// StrategyVertical splits a workspace's top-level frames top to bottom.
	// This is the spec's documented default.
	StrategyVertical TargetSelectionStrategy = iota
	// StrategyHorizontal arranges new top-level frames side by side.
	StrategyHorizontal
)

func (s TargetSelectionStrategy) geometry() frames.Geometry {
	if s == StrategyHorizontal {
		return frames.Horizontal
	}
	return frames.Vertical
}

// ParseTargetSelectionStrategy maps a config string to a strategy, defaulting
// to StrategyVertical for an empty or unrecognized value.
func ParseTargetSelectionStrategy(s string) TargetSelectionStrategy {
	if s == "horizontal" {
		return StrategyHorizontal
	}
	return StrategyVertical
}

// Compositor owns the frame tree and orchestrates it in response to surface
// events, per spec §4.F. It is single-thread-owned: only the Exhibitor's
// goroutine ever calls into it.
type Compositor struct {
	arena       *frames.Arena
	coordinator *qualia.Coordinator
	history     *SurfaceHistory
	strategy    TargetSelectionStrategy
	session     SessionStore

	root      frames.Handle
	selection frames.Handle

	workspaces         map[int]frames.Handle
	nextWorkspaceIndex int
}

// NewCompositor returns a Compositor with an empty frame tree. AddOutput must
// be called at least once (in response to OUTPUT_FOUND) before ManageSurface
// has anywhere to place a top-level surface.
func NewCompositor(coordinator *qualia.Coordinator, strategy TargetSelectionStrategy) *Compositor {
	return &Compositor{
		arena:       frames.NewArena(),
		coordinator: coordinator,
		history:     NewSurfaceHistory(),
		strategy:    strategy,
	}
}

// History returns the compositor's surface recency list.
func (c *Compositor) History() *SurfaceHistory {
	return c.history
}

// SetSessionStore attaches a SessionStore that AddOutput consults to
// re-assign a previously seen output the same workspace ordinal it had
// before, and persists the ordinal every output ends up at. Must be
// called before the first AddOutput; nil disables persistence (the
// default), so every call assigns the next sequential ordinal.
func (c *Compositor) SetSessionStore(s SessionStore) {
	c.session = s
}

// Selection returns the frame currently treated as "selected" — the basis
// for find_buildable/find_top in choose_target.
func (c *Compositor) Selection() frames.Handle {
	return c.selection
}

// AddOutput builds a Display/Workspace pair for a newly discovered output and
// settles it under the tree's Root (allocating Root on first call). If a
// SessionStore is attached and recorded a prior assignment for desc.Id, the
// new workspace is filed under that same ordinal instead of the next
// sequential one, so a restart re-creates the skeleton an output had before
// rather than a fresh one. The new workspace becomes the selection if nothing
// was selected yet.
func (c *Compositor) AddOutput(desc perceptron.OutputDescriptor) frames.Handle {
	if !c.root.IsValid() {
		c.root = c.arena.NewRoot(desc.Area)
	}

	index := c.nextWorkspaceIndex
	if c.session != nil {
		if persisted, ok, err := c.session.Assignment(desc.Id); err != nil {
			logger.Warn("failed to look up persisted output workspace assignment",
				"output_id", desc.Id, logger.Err(err))
		} else if ok {
			index = persisted
		}
	}

	display := c.arena.NewDisplay(desc.Area)
	c.arena.Settle(display, c.root, c.coordinator)

	workspace := c.arena.NewWorkspace(desc.Area, c.strategy.geometry())
	c.arena.Settle(workspace, display, c.coordinator)

	if c.workspaces == nil {
		c.workspaces = make(map[int]frames.Handle)
	}
	c.workspaces[index] = workspace
	if index >= c.nextWorkspaceIndex {
		c.nextWorkspaceIndex = index + 1
	}

	if c.session != nil {
		if err := c.session.SetAssignment(desc.Id, index); err != nil {
			logger.Warn("failed to persist output workspace assignment",
				"output_id", desc.Id, logger.Err(err))
		}
	}

	if !c.selection.IsValid() {
		c.selection = workspace
	}
	return workspace
}

// Workspace returns the workspace handle assigned ordinal index by AddOutput,
// and whether one exists.
func (c *Compositor) Workspace(index int) (frames.Handle, bool) {
	h, ok := c.workspaces[index]
	return h, ok
}

// ManageSurface implements spec §4.F step 1-4: look up the surface, choose a
// placement target, settle a new leaf there, record it in history, and
// trigger a redraw.
func (c *Compositor) ManageSurface(ctx context.Context, sid ids.SurfaceId) {
	ctx, span := telemetry.StartManageSurfaceSpan(ctx, uint64(sid))
	defer span.End()

	info, ok := c.coordinator.SurfaceInfo(sid)
	if !ok {
		logger.WarnCtx(ctx, "manage_surface: unknown surface", logger.SurfaceID(uint64(sid)))
		return
	}

	target, geometry, ok := c.chooseTarget(info)
	if !ok {
		logger.WarnCtx(ctx, "manage_surface: no placement target for surface", logger.SurfaceID(uint64(sid)))
		return
	}

	leaf := c.arena.NewLeaf(sid, ids.Area{}, geometry)
	c.arena.Settle(leaf, target, c.coordinator)
	c.selection = leaf

	c.history.Add(sid)
	c.coordinator.Notify()
}

// chooseTarget implements choose_target: subordinate surfaces stack onto
// find_buildable() of the current selection; top-level surfaces settle under
// find_top() of the current selection.
func (c *Compositor) chooseTarget(info qualia.SurfaceInfo) (target frames.Handle, geometry frames.Geometry, ok bool) {
	if !c.selection.IsValid() {
		return frames.Handle{}, frames.Floating, false
	}

	if info.ParentId.IsValid() {
		target = c.arena.FindBuildable(c.selection)
		if !target.IsValid() {
			return frames.Handle{}, frames.Floating, false
		}
		if c.arena.Geometry(target) != frames.Stacked && c.arena.CountChildren(target) > 0 {
			target = c.wrapInStackedContainer(target)
		}
		return target, frames.Stacked, true
	}

	target, ok = c.arena.FindTop(c.selection)
	if !ok {
		return frames.Handle{}, frames.Floating, false
	}
	return target, c.strategy.geometry(), true
}

// wrapInStackedContainer inserts a fresh Stacked container between target and
// its sole existing child, so a new subordinate leaf can overlay that child
// without disturbing target's own layout axis. Used when a surface gains a
// subordinate but its buildable parent isn't already stacked (spec §8
// scenario 3: "a stacked container is created (or reused) holding both").
func (c *Compositor) wrapInStackedContainer(target frames.Handle) frames.Handle {
	children := c.arena.SpaceIter(target)
	if len(children) != 1 {
		return target
	}
	existing := children[0]
	area := c.arena.Area(existing)

	container := c.arena.NewContainer(area, frames.Stacked)
	c.arena.RemoveSelf(existing, c.coordinator)
	c.arena.Settle(container, target, c.coordinator)
	c.arena.Settle(existing, container, c.coordinator)
	return container
}

// HandleSurfaceDestroyed implements spec §4.F's SURFACE_DESTROYED reaction:
// locate the bound frame, remove it (relaxing its former parent), and cull
// the surface from history.
func (c *Compositor) HandleSurfaceDestroyed(ctx context.Context, sid ids.SurfaceId) {
	_, span := telemetry.StartSpan(ctx, "compositor.handle_surface_destroyed",
		trace.WithAttributes(telemetry.SurfaceIDAttr(uint64(sid))))
	defer span.End()

	if c.root.IsValid() {
		if h, ok := c.arena.FindWithSid(c.root, sid); ok {
			c.arena.RemoveSelf(h, c.coordinator)
			c.arena.Destroy(h)
			if c.selection == h {
				c.selection = c.root
			}
		}
	}
	c.history.Cull(sid)
}

// Arena exposes the underlying frame arena for introspection (e.g. dumping
// the frame tree via internal/introspect or perceptiactl).
func (c *Compositor) Arena() *frames.Arena {
	return c.arena
}

// Root returns the tree's root handle, invalid until the first AddOutput.
func (c *Compositor) Root() frames.Handle {
	return c.root
}
