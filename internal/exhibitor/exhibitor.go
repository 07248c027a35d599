// Package exhibitor implements the frame-tree orchestration layer: the
// Compositor (spec §4.F) that owns the layout tree, and the Exhibitor module
// that subscribes to the bus and dispatches to it and to the protocol
// adapter's Gateway boundary.
package exhibitor

import (
	"context"

	"github.com/darkelement/perceptia/internal/dharma"
	"github.com/darkelement/perceptia/internal/perceptron"
	"github.com/darkelement/perceptia/internal/qualia"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

// Gateway is the core → protocol-adapter boundary named in spec §6. The
// protocol adapter implements it; the core only ever calls into it, never
// the reverse. OnPointerAxis and OnSurfaceFrame have no corresponding bus
// signal in the vocabulary of §6 — the renderer/input backends invoke them
// directly outside the Signaler, so Exhibitor's dispatch loop never calls
// them itself, but the boundary still names them for the adapter to satisfy.
type Gateway interface {
	OnOutputFound(d perceptron.OutputDescriptor)
	OnKeyboardInput(cmd perceptron.CommandRecord)
	OnPointerButton(b perceptron.ButtonRecord)
	OnPointerAxis(v ids.Vector)
	OnSurfaceFrame(sid ids.SurfaceId, ms uint64)
	OnPointerFocusChanged(old, new_ ids.SurfaceId, pos ids.Position)
	OnPointerRelativeMotion(v ids.Vector)
	OnKeyboardFocusChanged(old, new_ ids.SurfaceId)
	OnSurfaceReconfigured(sid ids.SurfaceId, size ids.Size, state ids.SurfaceState)
}

// NopGateway is a Gateway that does nothing, useful for tests and for running
// the core without a protocol adapter attached.
type NopGateway struct{}

func (NopGateway) OnOutputFound(perceptron.OutputDescriptor)                    {}
func (NopGateway) OnKeyboardInput(perceptron.CommandRecord)                     {}
func (NopGateway) OnPointerButton(perceptron.ButtonRecord)                      {}
func (NopGateway) OnPointerAxis(ids.Vector)                                     {}
func (NopGateway) OnSurfaceFrame(ids.SurfaceId, uint64)                         {}
func (NopGateway) OnPointerFocusChanged(ids.SurfaceId, ids.SurfaceId, ids.Position) {}
func (NopGateway) OnPointerRelativeMotion(ids.Vector)                           {}
func (NopGateway) OnKeyboardFocusChanged(ids.SurfaceId, ids.SurfaceId)          {}
func (NopGateway) OnSurfaceReconfigured(ids.SurfaceId, ids.Size, ids.SurfaceState) {}

// SessionStore persists which workspace ordinal an output was last assigned,
// and answers that same question back, so a restart can re-create the
// Display/Workspace skeleton at the same ordinals before any surface
// reattaches. internal/session.Store implements this; Exhibitor and
// Compositor only depend on the narrow interface so this package never
// imports a storage driver.
type SessionStore interface {
	SetAssignment(output perceptron.OutputId, workspaceIndex int) error
	Assignment(output perceptron.OutputId) (workspaceIndex int, ok bool, err error)
}

// Exhibitor is the bus-subscriber dharma.Module that drives the Compositor.
// Constructed once per process and run as one of the Dispatcher's long-lived
// threads (spec §5).
type Exhibitor struct {
	bus        *qualia.Bus
	compositor *Compositor
	gateway    Gateway
}

// New returns an Exhibitor bound to bus and compositor. gateway may be
// NopGateway{} when no protocol adapter is attached (e.g. in tests).
func New(bus *qualia.Bus, compositor *Compositor, gateway Gateway) *Exhibitor {
	if gateway == nil {
		gateway = NopGateway{}
	}
	return &Exhibitor{bus: bus, compositor: compositor, gateway: gateway}
}

// SetSessionRecorder attaches a SessionStore the Compositor consults on every
// AddOutput: read first, to re-create a previously seen output's workspace at
// its old ordinal, then written back with whatever ordinal it ends up at.
// Must be called before Run; nil disables persistence (the default).
func (e *Exhibitor) SetSessionRecorder(r SessionStore) {
	e.compositor.SetSessionStore(r)
}

// Name identifies this module in logs and traces.
func (e *Exhibitor) Name() string {
	return "exhibitor"
}

// Run subscribes to every signal id Exhibitor reacts to and dispatches
// events until ctx is cancelled or Terminate arrives on the control channel.
func (e *Exhibitor) Run(ctx context.Context) error {
	control := e.bus.NewReceiver()
	e.bus.Register(control)

	events := e.bus.NewReceiver()
	for _, id := range []perceptron.SignalId{
		perceptron.SurfaceReady,
		perceptron.SurfaceDestroyed,
		perceptron.SurfaceReconfigured,
		perceptron.OutputFound,
		perceptron.Command,
		perceptron.InputPointerMotion,
		perceptron.InputPointerPosition,
		perceptron.InputPointerButton,
		perceptron.InputPointerPositionReset,
		perceptron.CursorSurfaceChange,
		perceptron.PageFlip,
		perceptron.KeyboardFocusChanged,
		perceptron.PointerFocusChanged,
	} {
		e.bus.Subscribe(id, events)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-control.Chan():
			if ev.Terminate {
				return nil
			}
		case ev := <-events.Chan():
			e.dispatch(ctx, ev)
		}
	}
}

func (e *Exhibitor) dispatch(ctx context.Context, ev dharma.Event[perceptron.SignalId, perceptron.Perceptron]) {
	switch ev.Id {
	case perceptron.SurfaceReady:
		if sid, ok := perceptron.AsSurfaceReady(ev.Payload); ok {
			e.compositor.ManageSurface(ctx, sid)
		}
	case perceptron.SurfaceDestroyed:
		if sid, ok := perceptron.AsSurfaceDestroyed(ev.Payload); ok {
			e.compositor.HandleSurfaceDestroyed(ctx, sid)
		}
	case perceptron.SurfaceReconfigured:
		if sid, size, state, ok := perceptron.AsSurfaceReconfigured(ev.Payload); ok {
			e.gateway.OnSurfaceReconfigured(sid, size, state)
		}
	case perceptron.OutputFound:
		if d, ok := perceptron.AsOutputFound(ev.Payload); ok {
			e.compositor.AddOutput(d)
			e.gateway.OnOutputFound(d)
		}
	case perceptron.Command:
		if r, ok := perceptron.AsCommand(ev.Payload); ok {
			e.gateway.OnKeyboardInput(r)
		}
	case perceptron.InputPointerButton:
		if b, ok := perceptron.AsPointerButton(ev.Payload); ok {
			e.gateway.OnPointerButton(b)
		}
	case perceptron.InputPointerMotion:
		if v, ok := perceptron.AsPointerMotion(ev.Payload); ok {
			e.gateway.OnPointerRelativeMotion(v)
		}
	case perceptron.InputPointerPosition, perceptron.InputPointerPositionReset:
		// No frame-tree or history mutation; these feed pointer-focus
		// resolution upstream of the Coordinator, already handled by
		// set_pointer_focus before this signal is ever emitted.
	case perceptron.CursorSurfaceChange, perceptron.PageFlip:
		// Renderer/cursor-backend concerns; nothing in the frame tree or
		// history changes in response.
	case perceptron.KeyboardFocusChanged:
		if old, new_, ok := perceptron.AsKeyboardFocusChanged(ev.Payload); ok {
			e.gateway.OnKeyboardFocusChanged(old, new_)
		}
	case perceptron.PointerFocusChanged:
		if old, new_, pos, ok := perceptron.AsPointerFocusChanged(ev.Payload); ok {
			e.gateway.OnPointerFocusChanged(old, new_, pos)
		}
	}
}
