package perceptron

import "github.com/darkelement/perceptia/internal/qualia/ids"

// Perceptron is the payload sum type carried by the bus: every event kind
// the application emits implements it. Subscribers type-switch over the
// concrete payload rather than over an untyped carrier.
type Perceptron interface {
	SignalId() SignalId
}

// OutputId identifies a display output (CRTC/connector pair). The output
// subsystem that produces these is an external collaborator; the core only
// carries the id through.
type OutputId uint32

// OutputDescriptor is the bundle handed along with OutputFound. Fields are
// the minimum the core's consumers (Exhibitor, renderer) need to register a
// new Display frame; detailed mode-setting data lives with the output
// adapter, not here.
type OutputDescriptor struct {
	Id   OutputId
	Name string
	Area ids.Area
}

// CommandRecord is an operator/keybinding-issued command, e.g. "focus next
// workspace". The command vocabulary itself belongs to the config/keybind
// adapter; the core only routes the record to handlers.
type CommandRecord struct {
	Name string
	Args []string
}

// ButtonRecord is a single pointer button event.
type ButtonRecord struct {
	Code    uint32
	Pressed bool
}

type notifyPayload struct{}

func (notifyPayload) SignalId() SignalId { return Notify }

// NewNotify returns the payload for the NOTIFY signal, which carries no data.
func NewNotify() Perceptron { return notifyPayload{} }

type pageFlipPayload struct{ Output OutputId }

func (pageFlipPayload) SignalId() SignalId { return PageFlip }

// NewPageFlip returns the payload for PAGE_FLIP.
func NewPageFlip(output OutputId) Perceptron { return pageFlipPayload{Output: output} }

// AsPageFlip narrows p to its pageFlipPayload fields; ok is false if p is not
// a PAGE_FLIP payload.
func AsPageFlip(p Perceptron) (output OutputId, ok bool) {
	v, ok := p.(pageFlipPayload)
	return v.Output, ok
}

type outputFoundPayload struct{ Descriptor OutputDescriptor }

func (outputFoundPayload) SignalId() SignalId { return OutputFound }

// NewOutputFound returns the payload for OUTPUT_FOUND.
func NewOutputFound(d OutputDescriptor) Perceptron { return outputFoundPayload{Descriptor: d} }

// AsOutputFound narrows p to its OutputDescriptor.
func AsOutputFound(p Perceptron) (OutputDescriptor, bool) {
	v, ok := p.(outputFoundPayload)
	return v.Descriptor, ok
}

type commandPayload struct{ Record CommandRecord }

func (commandPayload) SignalId() SignalId { return Command }

// NewCommand returns the payload for COMMAND.
func NewCommand(r CommandRecord) Perceptron { return commandPayload{Record: r} }

// AsCommand narrows p to its CommandRecord.
func AsCommand(p Perceptron) (CommandRecord, bool) {
	v, ok := p.(commandPayload)
	return v.Record, ok
}

type pointerMotionPayload struct{ Vector ids.Vector }

func (pointerMotionPayload) SignalId() SignalId { return InputPointerMotion }

// NewPointerMotion returns the payload for INPUT_POINTER_MOTION.
func NewPointerMotion(v ids.Vector) Perceptron { return pointerMotionPayload{Vector: v} }

// AsPointerMotion narrows p to its Vector.
func AsPointerMotion(p Perceptron) (ids.Vector, bool) {
	v, ok := p.(pointerMotionPayload)
	return v.Vector, ok
}

type pointerPositionPayload struct{ Position ids.Position }

func (pointerPositionPayload) SignalId() SignalId { return InputPointerPosition }

// NewPointerPosition returns the payload for INPUT_POINTER_POSITION.
func NewPointerPosition(pos ids.Position) Perceptron { return pointerPositionPayload{Position: pos} }

// AsPointerPosition narrows p to its Position.
func AsPointerPosition(p Perceptron) (ids.Position, bool) {
	v, ok := p.(pointerPositionPayload)
	return v.Position, ok
}

type pointerButtonPayload struct{ Button ButtonRecord }

func (pointerButtonPayload) SignalId() SignalId { return InputPointerButton }

// NewPointerButton returns the payload for INPUT_POINTER_BUTTON.
func NewPointerButton(b ButtonRecord) Perceptron { return pointerButtonPayload{Button: b} }

// AsPointerButton narrows p to its ButtonRecord.
func AsPointerButton(p Perceptron) (ButtonRecord, bool) {
	v, ok := p.(pointerButtonPayload)
	return v.Button, ok
}

type pointerPositionResetPayload struct{}

func (pointerPositionResetPayload) SignalId() SignalId { return InputPointerPositionReset }

// NewPointerPositionReset returns the payload for INPUT_POINTER_POSITION_RESET.
func NewPointerPositionReset() Perceptron { return pointerPositionResetPayload{} }

type cursorSurfaceChangePayload struct{ Sid ids.SurfaceId }

func (cursorSurfaceChangePayload) SignalId() SignalId { return CursorSurfaceChange }

// NewCursorSurfaceChange returns the payload for CURSOR_SURFACE_CHANGE.
func NewCursorSurfaceChange(sid ids.SurfaceId) Perceptron {
	return cursorSurfaceChangePayload{Sid: sid}
}

// AsCursorSurfaceChange narrows p to its surface id.
func AsCursorSurfaceChange(p Perceptron) (ids.SurfaceId, bool) {
	v, ok := p.(cursorSurfaceChangePayload)
	return v.Sid, ok
}

type surfaceReadyPayload struct{ Sid ids.SurfaceId }

func (surfaceReadyPayload) SignalId() SignalId { return SurfaceReady }

// NewSurfaceReady returns the payload for SURFACE_READY.
func NewSurfaceReady(sid ids.SurfaceId) Perceptron { return surfaceReadyPayload{Sid: sid} }

// AsSurfaceReady narrows p to its surface id.
func AsSurfaceReady(p Perceptron) (ids.SurfaceId, bool) {
	v, ok := p.(surfaceReadyPayload)
	return v.Sid, ok
}

type surfaceDestroyedPayload struct{ Sid ids.SurfaceId }

func (surfaceDestroyedPayload) SignalId() SignalId { return SurfaceDestroyed }

// NewSurfaceDestroyed returns the payload for SURFACE_DESTROYED.
func NewSurfaceDestroyed(sid ids.SurfaceId) Perceptron { return surfaceDestroyedPayload{Sid: sid} }

// AsSurfaceDestroyed narrows p to its surface id.
func AsSurfaceDestroyed(p Perceptron) (ids.SurfaceId, bool) {
	v, ok := p.(surfaceDestroyedPayload)
	return v.Sid, ok
}

type surfaceReconfiguredPayload struct {
	Sid   ids.SurfaceId
	Size  ids.Size
	State ids.SurfaceState
}

func (surfaceReconfiguredPayload) SignalId() SignalId { return SurfaceReconfigured }

// NewSurfaceReconfigured returns the payload for SURFACE_RECONFIGURED.
func NewSurfaceReconfigured(sid ids.SurfaceId, size ids.Size, state ids.SurfaceState) Perceptron {
	return surfaceReconfiguredPayload{Sid: sid, Size: size, State: state}
}

// AsSurfaceReconfigured narrows p to its fields.
func AsSurfaceReconfigured(p Perceptron) (sid ids.SurfaceId, size ids.Size, state ids.SurfaceState, ok bool) {
	v, ok := p.(surfaceReconfiguredPayload)
	return v.Sid, v.Size, v.State, ok
}

type keyboardFocusChangedPayload struct{ Old, New ids.SurfaceId }

func (keyboardFocusChangedPayload) SignalId() SignalId { return KeyboardFocusChanged }

// NewKeyboardFocusChanged returns the payload for KEYBOARD_FOCUS_CHANGED.
func NewKeyboardFocusChanged(old, new_ ids.SurfaceId) Perceptron {
	return keyboardFocusChangedPayload{Old: old, New: new_}
}

// AsKeyboardFocusChanged narrows p to its fields.
func AsKeyboardFocusChanged(p Perceptron) (old, new_ ids.SurfaceId, ok bool) {
	v, ok := p.(keyboardFocusChangedPayload)
	return v.Old, v.New, ok
}

type pointerFocusChangedPayload struct {
	Old, New ids.SurfaceId
	Position ids.Position
}

func (pointerFocusChangedPayload) SignalId() SignalId { return PointerFocusChanged }

// NewPointerFocusChanged returns the payload for POINTER_FOCUS_CHANGED.
func NewPointerFocusChanged(old, new_ ids.SurfaceId, pos ids.Position) Perceptron {
	return pointerFocusChangedPayload{Old: old, New: new_, Position: pos}
}

// AsPointerFocusChanged narrows p to its fields.
func AsPointerFocusChanged(p Perceptron) (old, new_ ids.SurfaceId, pos ids.Position, ok bool) {
	v, ok := p.(pointerFocusChangedPayload)
	return v.Old, v.New, v.Position, ok
}
